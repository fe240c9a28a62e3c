// Command digest sends today's contact digest once and prints the result.
// It is meant to be run from cron.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"contactform/internal/config"
	"contactform/internal/database"
	"contactform/internal/logging"
	"contactform/internal/services"
)

const runTimeout = 2 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg)

	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	emailSvc := services.NewEmailService(&cfg.Email, logger)
	contactSvc := services.NewContactService(db, emailSvc, &cfg.Email, logger)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := run(ctx, contactSvc); err != nil {
		logger.Error("digest failed", "error", err)
		_ = database.Close(db)
		os.Exit(1)
	}
}

func run(ctx context.Context, contactSvc *services.ContactService) error {
	res, err := contactSvc.Digest(ctx)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(res)
}
