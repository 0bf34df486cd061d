package app

import (
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/sahilchouksey/uni-admin-api/api"
	"github.com/sahilchouksey/uni-admin-api/config"
	"github.com/sahilchouksey/uni-admin-api/database"
	"github.com/sahilchouksey/uni-admin-api/router"
	"github.com/sahilchouksey/uni-admin-api/services"
	"github.com/sahilchouksey/uni-admin-api/services/cron"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("Warning: no .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		return err
	}

	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Reconcile persisted credit totals before serving traffic, so
	// programs created under older code report correct tuition
	aggregator := services.NewCreditAggregator(db)
	processed, failed := aggregator.RecalculateAll()
	log.Printf("Startup credit reconciliation: %d programs processed, %d failed", processed, failed)

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(db, aggregator)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is attached inside)
	router.SetupRoutes(app, store)

	// Get the PORT & Start the Server
	return server.Run()
}
