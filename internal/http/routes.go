package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"towerdefense_backend/internal/config"
	"towerdefense_backend/internal/http/handlers"
	"towerdefense_backend/internal/http/middleware"
	"towerdefense_backend/internal/ws"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, h *handlers.Handler, hub *ws.Hub, db *pgxpool.Pool, cfg *config.Config, version string) {
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks and metrics (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Auth
	v1.POST("/auth", middleware.RedisRateLimit(cfg.AuthRateLimit, cfg.AuthRateWindow), h.Auth)

	// Player snapshot and inbound game events
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.POST("/events", middleware.JWT(), h.Event)

	// Lives
	v1.POST("/lives/spend", middleware.JWT(), h.SpendLife)
	v1.POST("/lives/refill", middleware.JWT(), h.RefillLives)

	// Progression
	v1.GET("/progression", middleware.JWT(), h.GetProgression)
	v1.GET("/research", middleware.JWT(), h.GetResearch)
	v1.POST("/research/:id/upgrade", middleware.JWT(), h.UpgradeResearch)
	v1.GET("/cards", middleware.JWT(), h.GetCards)
	v1.POST("/cards/:id/upgrade", middleware.JWT(), h.UpgradeCard)

	// Daily quests and battle pass
	v1.GET("/quests", middleware.JWT(), h.GetQuests)
	v1.POST("/quests/:id/claim", middleware.JWT(), h.ClaimQuest)
	v1.GET("/battlepass", middleware.JWT(), h.GetBattlePass)

	// Shop
	v1.GET("/shop/catalog", h.Catalog)
	v1.POST("/shop/purchase", middleware.JWT(), h.Purchase)
	v1.POST("/shop/lootbox/:type", middleware.JWT(), middleware.PlayerRateLimit("lootbox", 30, cfg.APIRateWindow), h.OpenLootBox)
	v1.POST("/shop/ad-reward/:type", middleware.JWT(), middleware.PlayerRateLimit("ads", 10, cfg.APIRateWindow), h.AdReward)

	// Tutorial
	v1.GET("/tutorial", middleware.JWT(), h.GetTutorial)
	v1.POST("/tutorial/start", middleware.JWT(), h.StartTutorial)
	v1.POST("/tutorial/advance", middleware.JWT(), h.AdvanceTutorial)
	v1.POST("/tutorial/skip", middleware.JWT(), h.SkipTutorial)

	// Analytics
	v1.POST("/analytics/track", middleware.JWT(), h.Track)
	v1.GET("/analytics/summary", middleware.JWT(), h.AnalyticsSummary)

	// WebSocket state push
	r.GET("/ws", h.WS(hub))
}
