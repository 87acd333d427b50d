package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ekoseller/eko-seller-api/internal/handler"
	"github.com/ekoseller/eko-seller-api/internal/middleware"
	"github.com/ekoseller/eko-seller-api/internal/model"
)

// RegisterUsers registers the identity flows, the public sellers
// directory and the admin user surface under {prefix}/users.
//
// resendLimiter is the per-IP rate limiter applied only to the
// resend-otp endpoint; pass nil to register the route without it.
func RegisterUsers(e *echo.Echo, prefix string, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string, resendLimiter echo.MiddlewareFunc) {
	g := e.Group(prefix + "/users")

	// Unauthenticated identity flows.
	g.POST("/register", a.Register)
	g.POST("/verify-otp", a.VerifyOTP)
	if resendLimiter != nil {
		g.POST("/resend-otp", a.ResendOTP, resendLimiter)
	} else {
		g.POST("/resend-otp", a.ResendOTP)
	}
	g.POST("/login", a.Login)

	// Public sellers directory; must be registered before the admin
	// /:id route so "sellers" is not captured as an id.
	g.GET("/sellers", u.Sellers)

	// The token's user updates their own profile; the path id is kept
	// for client compatibility but identity comes from the token.
	g.PUT("/update-profile/:id", a.UpdateProfile, middleware.Authenticated(jwtSecret))

	// Admin user surface.
	admin := g.Group("", middleware.Authenticated(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.GET("", u.List)
	admin.GET("/:id", u.Get)
	admin.DELETE("/:id", u.Delete)
}
