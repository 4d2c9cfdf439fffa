// migrate_gorm.go - Run this file to test GORM migrations
// Usage: go run migrate_gorm.go

//go:build ignore

package main

import (
	"log"

	"github.com/aitutorhq/ai-tutor-api/config"
	"github.com/aitutorhq/ai-tutor-api/database"
)

func main() {
	log.Println("=== GORM Migration Test ===")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store := database.NewGORMStore(cfg.DatabaseDSN())
	if err := store.Init(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}
	defer store.Close()

	if err := store.HealthCheck(); err != nil {
		log.Fatal("Database health check failed:", err)
	}

	log.Println("All migrations completed successfully")
}
