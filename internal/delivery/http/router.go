package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// HealthChecker reports whether a backing dependency is reachable
type HealthChecker func(ctx context.Context) error

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler *AuthHandler
	// UserHandler and RequireAuth are nil when the provider keeps no local users
	UserHandler *UserHandler
	RequireAuth echo.MiddlewareFunc
	Health      HealthChecker
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			// Form state is polled while a submission is pending
			path := c.Request().URL.Path
			return path == "/health" || path == "/api/auth/form"
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("64K"))

	e.GET("/health", func(c echo.Context) error {
		status := "healthy"
		if config.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			if err := config.Health(ctx); err != nil {
				status = "unhealthy"
			}
		}
		return SuccessResponse(c, map[string]interface{}{
			"status":    status,
			"service":   "authform-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/logout", config.AuthHandler.Logout)
		auth.GET("/form", config.AuthHandler.FormState)
	}

	if config.UserHandler != nil && config.RequireAuth != nil {
		user := api.Group("/user", config.RequireAuth)
		user.GET("/me", config.UserHandler.GetMe)
	}
}
