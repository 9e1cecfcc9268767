package config

import (
	"os"
	"strconv"
	"time"

	"towerdefense_backend/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Куда отправляются батчи аналитики (пусто = не отправлять)
	AnalyticsEndpoint string

	// Economy tuning
	MaxLives          int
	LifeRegenInterval time.Duration
	StartingGems      int64

	APIRateLimit   int
	APIRateWindow  time.Duration
	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	maxLives := 5
	if v := os.Getenv("MAX_LIVES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxLives = n
		}
	}

	// 30 минут на жизнь (по умолчанию)
	regenInterval := 30 * time.Minute
	if v := os.Getenv("LIFE_REGEN_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			regenInterval = time.Duration(n) * time.Minute
		}
	}

	startingGems := int64(50)
	if v := os.Getenv("STARTING_GEMS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			startingGems = n
		}
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		AnalyticsEndpoint: os.Getenv("ANALYTICS_ENDPOINT"),
		MaxLives:          maxLives,
		LifeRegenInterval: regenInterval,
		StartingGems:      startingGems,
		APIRateLimit:      envInt("API_RATE_LIMIT", 60),
		APIRateWindow:     envSeconds("API_RATE_WINDOW_SECONDS", time.Minute),
		AuthRateLimit:     envInt("AUTH_RATE_LIMIT", 5),
		AuthRateWindow:    envSeconds("AUTH_RATE_WINDOW_SECONDS", time.Minute),
	}
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envSeconds(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return def
}
