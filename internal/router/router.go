package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/schoolgate/visitdesk-backend/internal/config"
	"github.com/schoolgate/visitdesk-backend/internal/handler"
	"github.com/schoolgate/visitdesk-backend/internal/middleware"
	"github.com/schoolgate/visitdesk-backend/internal/response"
	"github.com/schoolgate/visitdesk-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Config     *handler.ConfigHandler
	Submission *handler.SubmissionHandler
	Monitor    *handler.MonitorHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Serve the kiosk frontend bundle when configured.
	if cfg.WebDir != "" {
		webGroup := router.Group("/app")
		webGroup.Use(middleware.CacheControl(86400))
		{
			webGroup.Static("/", cfg.WebDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Kiosk API ─────────────────────────────────────────────────────
	api := router.Group("/api")
	{
		api.GET("/config", handlers.Config.GetConfig)
		api.GET("/config/wifi-qr", handlers.Config.GetWifiQR)
		api.POST("/submit", handlers.Submission.SubmitCheckin)

		api.POST("/auth/admin/login", handlers.Auth.AdminLogin)

		// Config writes are admin-gated; reads stay open for the kiosk.
		api.POST("/config", middleware.RequireAdminJWT(authService), handlers.Config.ReplaceConfig)
	}

	// ─── Admin WebSocket ───────────────────────────────────────────────
	wsGroup := router.Group("/ws")
	wsGroup.Use(middleware.RequireAdminWSAuth(authService))
	{
		wsGroup.GET("/admin/checkins", handlers.Monitor.CheckinStream)
	}

	return router
}
