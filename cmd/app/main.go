package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"towerdefense_backend/internal/analytics"
	"towerdefense_backend/internal/config"
	"towerdefense_backend/internal/db"
	httpServer "towerdefense_backend/internal/http"
	"towerdefense_backend/internal/http/handlers"
	"towerdefense_backend/internal/http/middleware"
	"towerdefense_backend/internal/logger"
	"towerdefense_backend/internal/service"
	"towerdefense_backend/internal/store"
	"towerdefense_backend/internal/ws"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	st := store.NewPostgresStore(dbPool)

	var deliverer analytics.Deliverer
	if cfg.AnalyticsEndpoint != "" {
		deliverer = analytics.NewHTTPDeliverer(cfg.AnalyticsEndpoint)
	}

	hub := ws.NewHub()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	h := handlers.NewHandler(st, cfg, deliverer, hub, rng)

	r := gin.Default()

	// CORS for production (game shell on a different origin)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	httpServer.RegisterRoutes(r, h, hub, dbPool, cfg, version)

	// Фоновые тики: регенерация жизней, смена дня, сезоны, аналитика
	sweepCtx, stopSweeps := context.WithCancel(context.Background())
	go h.RunSweeps(sweepCtx, time.Minute)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	stopSweeps()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
