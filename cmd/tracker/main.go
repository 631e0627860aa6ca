package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sports-tracker/internal/config"
	"sports-tracker/internal/logging"
	"sports-tracker/internal/server"
)

const (
	appName    = "sports-tracker"
	appVersion = "dev"
)

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	cfg := config.Load()
	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: appName,
		Version: appVersion,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger, appName, appVersion)
	srv.Run(ctx, stop)
}
