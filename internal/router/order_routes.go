package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ekoseller/eko-seller-api/internal/handler"
	"github.com/ekoseller/eko-seller-api/internal/middleware"
	"github.com/ekoseller/eko-seller-api/internal/model"
)

// RegisterOrders registers the order workflow under {prefix}/orders.
// Every route requires a token: customers place orders and read their
// own, while listing, mutation and the sales figures are gated to
// sellers and admins.
func RegisterOrders(e *echo.Echo, prefix string, h *handler.OrderHandler, jwtSecret string) {
	g := e.Group(prefix+"/orders", middleware.Authenticated(jwtSecret))

	g.POST("", h.Create)
	g.GET("/:id", h.Get)

	staff := g.Group("", middleware.RequireRole(model.RoleSeller, model.RoleAdmin))
	staff.GET("", h.List)
	staff.PUT("/:id", h.UpdateStatus)
	staff.DELETE("/:id", h.Delete)
	// Static /get/* segments sit alongside /:id; Echo matches the
	// literal segment first.
	staff.GET("/get/totalsales", h.TotalSales)
	staff.GET("/get/count", h.Count)
	staff.GET("/get/userorders/:userId", h.UserOrders)
}
