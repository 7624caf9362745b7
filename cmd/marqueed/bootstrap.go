package main

import (
	"context"
	"log/slog"
	"time"

	"marquee/internal/card"
	"marquee/internal/catalog"
	"marquee/internal/config"
	"marquee/internal/flow"
	"marquee/internal/notify"
	"marquee/internal/render"
	"marquee/internal/session"
	"marquee/internal/store"
	"marquee/internal/transport/telegram"
)

// buildHandler wires the session store, durable store, catalog providers, and
// render pipeline into the conversation flow handler. The returned cleanup
// closes everything opened along the way.
func buildHandler(ctx context.Context, cfg *config.Config, bot *telegram.Bot, logger *slog.Logger) (flow.Handler, func(), error) {
	users, err := store.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	sessions, sessionCleanup := buildSessions(ctx, cfg, logger)

	cleanup := func() {
		sessionCleanup()
		if err := users.Close(); err != nil {
			logger.Warn("close user store", "error", err)
		}
	}

	registry, err := catalog.NewRegistry(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	compositor, err := card.NewCompositor()
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	controller, err := flow.NewController(flow.Options{
		Sessions:    sessions,
		Users:       users,
		Catalogs:    registry,
		Engine:      render.NewEngine(cfg.Defaults.Quality, cfg.Defaults.Audio),
		Composer:    compositor,
		Fetcher:     card.NewFetcher(time.Duration(cfg.Card.FetchTimeoutSeconds)*time.Second, logger),
		Presenter:   bot,
		Distributor: bot,
		Notifier:    notify.NewService(cfg),
		Config:      cfg,
		Logger:      logger,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	return controller.Handler(), cleanup, nil
}

// buildSessions prefers Redis when configured and always keeps the in-memory
// backend as the degradation target.
func buildSessions(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*session.Store, func()) {
	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second
	fallback := session.NewMemoryBackend()

	if cfg.Session.RedisURL == "" {
		logger.Info("session store using memory backend")
		return session.NewStore(nil, fallback, ttl, logger), func() {}
	}

	redis, err := session.NewRedisBackend(ctx, cfg.Session.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, using memory sessions", "error", err)
		return session.NewStore(nil, fallback, ttl, logger), func() {}
	}

	logger.Info("session store using redis backend")
	cleanup := func() {
		if err := redis.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	return session.NewStore(redis, fallback, ttl, logger), cleanup
}
