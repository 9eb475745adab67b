package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"catalog_service/config"
	"catalog_service/internal/app"
	"catalog_service/internal/console"
)

func main() {
	logger := app.NewLogger("warn", false)
	logger.SetOutput(os.Stderr)

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if os.Getenv("LOG_LEVEL") != "" {
		logger.SetLevel(cfg.Level())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := app.OpenRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.Close()

	uc := app.NewUseCases(repos, logger)
	c := console.New(console.Services{
		Categories: uc.Categories,
		Products:   uc.Products,
		Orders:     uc.Orders,
		OrderItems: uc.OrderItems,
		Analytics:  uc.Analytics,
	}, os.Stdin, os.Stdout, logger)

	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("Console stopped: %v", err)
	}
}
