package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ekoseller/eko-seller-api/internal/handler"
	"github.com/ekoseller/eko-seller-api/internal/middleware"
	"github.com/ekoseller/eko-seller-api/internal/model"
)

// RegisterCategories registers the category tree under
// {prefix}/categories. Reads are public; writes require a seller or
// admin token.
func RegisterCategories(e *echo.Echo, prefix string, h *handler.CategoryHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group(prefix + "/categories")

	reads := []echo.MiddlewareFunc{}
	if cache != nil {
		reads = append(reads, cache)
	}
	g.GET("", h.List, reads...)
	g.GET("/:id", h.Get, reads...)

	writes := g.Group("", middleware.Authenticated(jwtSecret), middleware.RequireRole(model.RoleSeller, model.RoleAdmin))
	writes.POST("", h.Create)
	writes.PUT("/:id", h.Update)
	writes.DELETE("/:id", h.Delete)
}
