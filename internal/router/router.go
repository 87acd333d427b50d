package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/ekoseller/eko-seller-api/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that do not belong to a resource
// group: the health check and the static uploads directory.
func RegisterRoutes(e *echo.Echo, uploadDir string) {
	// Load balancers and monitoring systems probe this endpoint to
	// verify that the service is up and running.
	e.GET("/healthz", handler.Health)
	// Product images are served straight from disk under the same
	// path segment their stored URLs point at.
	e.Static("/public/uploads", uploadDir)
}
