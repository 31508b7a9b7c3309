package http

import (
	"time"

	"megamind_api/internal/config"
	"megamind_api/internal/game"
	"megamind_api/internal/http/handlers"
	"megamind_api/internal/http/middleware"
	"megamind_api/internal/service"
	"megamind_api/internal/shapes"
	"megamind_api/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	RegisterRoutesWithDeps(r, db, cfg, version, nil)
}

// RegisterRoutesWithDeps wires the full request surface. mailer may be nil,
// in which case verification codes are logged.
func RegisterRoutesWithDeps(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string, mailer service.Mailer) {
	catalog := shapes.NewCatalog(nil)
	games := game.NewRegistry(catalog, cfg.HitRadius)
	h := handlers.NewHandler(db, games, catalog, mailer)
	healthHandler := handlers.NewHealthHandler(db, games, version)

	apiRL := middleware.RedisRateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second)
	authRL := middleware.RedisRateLimit(cfg.AuthRateLimit, time.Duration(cfg.AuthRateWindow)*time.Second)
	taskRL := middleware.UserRateLimit(cfg.APIRateLimit, time.Duration(cfg.APIRateWindow)*time.Second)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(apiRL)
	registerAPIRoutes(v1, h, authRL, taskRL)

	// Legacy flat routes the original frontend calls
	r.POST("/register", authRL, h.Register)
	r.POST("/login", authRL, h.Login)
	r.POST("/verify", authRL, h.Verify)
	r.POST("/get-user-stats", apiRL, middleware.JWT(), h.Stats)
	r.POST("/increase-streak", apiRL, middleware.JWT(), taskRL, h.RecordTask)

	// WebSocket frame channel for the tracing game
	hub := ws.NewHub(games)
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, authRL, taskRL gin.HandlerFunc) {
	// Auth
	api.POST("/register", authRL, h.Register)
	api.POST("/login", authRL, h.Login)
	api.POST("/verify", authRL, h.Verify)

	// Streaks and daily tasks
	api.GET("/me/stats", middleware.JWT(), h.Stats)
	api.POST("/tasks/record", middleware.JWT(), taskRL, h.RecordTask)
	api.POST("/streak/reset", middleware.JWT(), h.ResetStreak)

	// Tracing game sessions
	api.GET("/shapes", h.Shapes)
	api.GET("/session", middleware.JWT(), h.Session)
	api.POST("/session/reset", middleware.JWT(), h.ResetSession)
}
