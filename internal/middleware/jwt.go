package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/ekoseller/eko-seller-api/internal/utils"
)

// Authenticated returns an Echo middleware that validates a Bearer
// session token and injects the token's userId, email and role claims
// into the request context.  The provided secret must match the one
// used when issuing tokens.  Handlers behind this middleware read the
// caller's identity via c.Get("user_id"), c.Get("email") and
// c.Get("role").  A missing, malformed or expired token is always a
// hard 401, never a retry.
func Authenticated(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header starts with "Bearer " followed by the JWT.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "Authentication required",
				})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"success": false, "message": "Authentication failed",
				})
			}

			// Store the identity claims in the context for handlers and
			// the role gate downstream.
			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
