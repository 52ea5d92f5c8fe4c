package main

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/almafantasy/engine/internal/models"
	"github.com/almafantasy/engine/internal/services"
	"github.com/almafantasy/engine/pkg/config"
	"github.com/almafantasy/engine/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		store := services.NewSeasonStore(db.DB, logrus.StandardLogger())
		if err := store.Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := db.Migrator().DropTable(&models.WeeklyLine{}, &models.MasterPlayerRecord{}); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}
