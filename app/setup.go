package app

import (
	"fmt"
	"log"
	"os"

	"github.com/aitutorhq/ai-tutor-api/api"
	"github.com/aitutorhq/ai-tutor-api/config"
	"github.com/aitutorhq/ai-tutor-api/database"
	"github.com/aitutorhq/ai-tutor-api/router"
	"github.com/aitutorhq/ai-tutor-api/services/cron"
	"github.com/aitutorhq/ai-tutor-api/utils/auth"
)

// SetupAndRunServer loads configuration, connects the database, starts cron
// jobs and serves the API until the process exits.
func SetupAndRunServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store := database.NewGORMStore(cfg.DatabaseDSN())
	if err := store.Init(); err != nil {
		log.Println("Check whether Postgres is running and DB_* variables are set")
		return err
	}

	if err := database.Seed(store.GetDB()); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	// Cron jobs, enabled unless explicitly turned off
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" {
		blacklist := auth.NewBlacklistService(store.GetDB())
		cronManager = cron.NewCronManager(store.GetDB(), blacklist)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%s", cfg.Port))
	app := server.GetEngine()

	router.SetupRoutes(app, store, cfg)

	return server.Run()
}
