package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/wadjakorntonsri/folio/pkg/app"
	"github.com/wadjakorntonsri/folio/pkg/config"
	"github.com/wadjakorntonsri/folio/pkg/logger"
)

func main() {
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		log.Fatalf("folio failed to start: %v", err)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		lg.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	lg.Info("server stopped")
}
