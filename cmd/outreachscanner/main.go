package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"OutreachScanner/internal/app"
	"OutreachScanner/internal/config"
	"OutreachScanner/internal/logging"
)

func main() {
	// Load .env if present; absence is fine.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	added, err := application.Run(ctx)
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Fetched %d new article(s).\n", added)
}
