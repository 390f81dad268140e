package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mrlokans/llm-aggregator/internal/auth"
	"github.com/mrlokans/llm-aggregator/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(logging.GinLogrusLogger())
	router.Use(logging.GinLogrusRecovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware())
	}

	// CORS answers preflights before CSRF and sessions see them
	if corsMiddleware := CORSMiddleware(cfg.AllowedOrigins); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AllowedOrigins))
		router.GET("/csrf-token", auth.CSRFToken)
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's request replacement
	router.Use(cfg.SessionManager.SessionLoadSave())

	requireIdentity := auth.NewMiddleware(cfg.SessionManager).RequireIdentity()

	router.GET("/", Welcome)
	health := NewHealthController(cfg.Database, cfg.Dispatcher, cfg.SessionCleanup, cfg.Version)
	router.GET("/health", health.Status)

	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.FrontendURL)
	authController.RegisterRoutes(router, requireIdentity)

	generate := NewGenerateController(cfg.Dispatcher)
	api := router.Group("/api", requireIdentity)
	api.GET("/providers", generate.Providers)
	api.POST("/:service", generate.Generate)

	return router
}
