package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"reelog/internal/bot"
	"reelog/internal/catalog"
	"reelog/internal/config"
	"reelog/internal/daemon"
	"reelog/internal/logging"
	"reelog/internal/preflight"
	"reelog/internal/store"
	"reelog/internal/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	client, err := telegram.NewClient(cfg)
	if err != nil {
		logger.Error("telegram transport", logging.Error(err))
		os.Exit(1)
	}

	for _, result := range preflight.RunAll(ctx, cfg, client) {
		if result.Passed {
			logger.Info("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
		os.Exit(1)
	}

	st, err := store.Open(cfg)
	if err != nil {
		logger.Error("open store", logging.Error(err))
		os.Exit(1)
	}

	seeded, err := catalog.Seed(ctx, st, cfg.Catalog.SeedPath)
	if err != nil {
		logger.Error("seed catalog", logging.Error(err))
		st.Close()
		os.Exit(1)
	}
	if seeded > 0 {
		logger.Info("catalog seeded", logging.Int("entries", seeded))
	}

	d, err := daemon.New(cfg, st, logger, bot.New(cfg, client, st, logger))
	if err != nil {
		logger.Error("create daemon", logging.Error(err))
		st.Close()
		os.Exit(1)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("daemon start", logging.Error(err))
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("reelogd shutting down")
}
