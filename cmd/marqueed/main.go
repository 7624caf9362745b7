package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"marquee/internal/config"
	"marquee/internal/daemon"
	"marquee/internal/logging"
	"marquee/internal/notify"
	"marquee/internal/transport/telegram"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load("")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ValidateDaemon(); err != nil {
		log.Fatalf("validate config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	bot, err := telegram.NewBot(cfg, logger)
	if err != nil {
		log.Fatalf("connect bot: %v", err)
	}

	handler, cleanup, err := buildHandler(ctx, cfg, bot, logger)
	if err != nil {
		log.Fatalf("build conversation flow: %v", err)
	}
	defer cleanup()

	d, err := daemon.New(cfg, bot, handler, notify.NewService(cfg), logger)
	if err != nil {
		log.Fatalf("create daemon: %v", err)
	}

	if err := d.Run(ctx); err != nil {
		logger.Error("daemon exited", "error", err)
	}
}
