package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-server/internal/config"
	"github.com/BruksfildServices01/clinic-server/internal/handlers"
	"github.com/BruksfildServices01/clinic-server/internal/middleware"
)

type AdminDeps struct {
	DB        *gorm.DB
	Config    *config.Config
	Log       zerolog.Logger
	Sessions  handlers.OnlineUsers
	Cluster   handlers.ClusterPresence
	ConnCount func() int
}

// RegisterAdminRoutes wires the operator HTTP API.
func RegisterAdminRoutes(r *gin.Engine, d AdminDeps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logger(d.Log))
	if len(d.Config.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.Config.CORSOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ======================================================
	// HANDLERS
	// ======================================================
	adminHandler := handlers.NewAdminHandler(d.DB, d.Sessions, d.Cluster, d.ConnCount)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// ROUTES
	// ======================================================
	r.GET("/health", adminHandler.Health)

	api := r.Group("/api")
	api.Use(middleware.AdminAuth(d.Config.AdminJWTSecret))
	{
		api.GET("/sessions", adminHandler.Sessions)
		api.GET("/audit-logs", auditLogsHandler.List)
	}
}
