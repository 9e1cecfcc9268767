package main

import (
	"context"
	"log"
	"os"

	"towerdefense_backend/internal/db"
	"towerdefense_backend/internal/service"
	"towerdefense_backend/internal/store"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	st := store.NewPostgresStore(pool)
	ctx := context.Background()

	deviceID := os.Getenv("DEVICE_ID")
	if deviceID == "" {
		deviceID = "test-device-0001"
	}

	playerID, err := st.EnsurePlayer(ctx, deviceID)
	if err != nil {
		log.Fatalf("ensure player failed: %v", err)
	}
	log.Printf("player id=%d device=%s\n", playerID, deviceID)

	service.InitJWT(secret)
	token, err := service.GenerateJWT(playerID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
