// Standalone seeder. Creates the default admin account and sample content
// without starting the API server.
// Usage: go run ./cmd/seed
package main

import (
	"log"

	"github.com/aitutorhq/ai-tutor-api/config"
	"github.com/aitutorhq/ai-tutor-api/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	store := database.NewGORMStore(cfg.DatabaseDSN())
	if err := store.Init(); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer store.Close()

	if err := database.Seed(store.GetDB()); err != nil {
		log.Fatal("Seeding failed:", err)
	}

	log.Println("Seeding complete")
}
