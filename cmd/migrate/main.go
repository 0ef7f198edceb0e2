// Command migrate brings the configured store's schema up to date and exits.
package main

import (
	"context"
	"os"
	"time"

	"github.com/Rrens/promptdesk/internal/config"
	"github.com/Rrens/promptdesk/internal/logging"
	"github.com/Rrens/promptdesk/internal/repository"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	cfg.Logging.File = ""
	if _, _, err := logging.Setup(cfg.Logging, os.Stderr); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up logging")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// Open applies migrations, indexes or schema for the selected driver.
	cfg.Database.AutoMigrate = true
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("Migration failed")
	}
	defer store.Close()

	log.Info().Str("driver", store.Driver()).Msg("Schema is up to date")
}
