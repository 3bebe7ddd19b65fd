package main

import (
	"context"
	"flag"
	"os"
	"time"

	"portal/config"
	"portal/database"
	"portal/logger"
	"portal/repositories"
	"portal/services"

	log "github.com/sirupsen/logrus"
)

func main() {
	path := flag.String("file", "opportunities.csv", "CSV file to import")
	flag.Parse()

	config.LoadConfig()
	cfg := config.AppConfig
	logger.Setup(cfg.LogLevel)
	db := database.ConnectDb(cfg)

	file, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	opportunityRepo := repositories.NewOpportunityRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	opportunities := services.NewOpportunities(opportunityRepo, services.NewCountCache(applicationRepo, time.Minute))

	stats, err := opportunities.Import(context.Background(), file)
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	log.Infof("=== Import Complete === inserted: %d, updated: %d, skipped: %d", stats.Inserted, stats.Updated, stats.Skipped)
}
