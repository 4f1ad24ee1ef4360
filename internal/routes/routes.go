// Package routes defines HTTP routes for the member portal.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/membergate/member-portal/docs"
	"github.com/membergate/member-portal/internal/config"
	"github.com/membergate/member-portal/internal/handlers"
	"github.com/membergate/member-portal/internal/middleware"
	"github.com/membergate/member-portal/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers bundles everything Setup mounts.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Members *handlers.MemberHandler
	Pages   *handlers.PageHandler
	Media   *handlers.MediaHandler // nil when object storage is not configured
	Health  *handlers.HealthHandler
	Cookies *handlers.CookieHelper
}

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, cfg *config.Config, sessions service.SessionService, h Handlers) {
	router.Use(middleware.CSRF(cfg.AllowedOrigins))

	guard := middleware.Guard(middleware.DefaultGuardConfig(), sessions, h.Cookies)

	// Health check
	router.GET("/health", h.Health.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Page flow. Guarded paths redirect instead of erroring, matching
	// the browser-facing surface.
	pages := router.Group("/", guard)
	{
		pages.GET("/", h.Pages.Home)
		pages.GET("/dashboard", h.Pages.Dashboard)
		pages.GET("/dashboard/members", h.Members.List)
		pages.POST("/logout", h.Auth.Logout)
	}

	// API surface
	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", guard, h.Auth.Logout)
		}

		members := v1.Group("/members", guard)
		{
			members.PATCH("/:id/status", h.Members.UpdateStatus)
		}

		if h.Media != nil {
			media := v1.Group("/media", guard, middleware.RequireSession())
			{
				media.POST("/upload-url", h.Media.UploadURL)
				media.GET("/view-url", h.Media.ViewURL)
			}
		}
	}

	// Swagger documentation (only if SWAGGER_HOST is configured)
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}
