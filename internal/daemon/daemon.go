package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"marquee/internal/config"
	"marquee/internal/flow"
	"marquee/internal/logging"
	"marquee/internal/notify"
	"marquee/internal/web"
)

// Transport is the update source the daemon runs. Satisfied by telegram.Bot.
type Transport interface {
	Run(ctx context.Context, handler flow.Handler) error
	Username() string
}

// Daemon coordinates the bot transport and its sidecars.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	transport Transport
	handler   flow.Handler
	notifier  notify.Service
	web       *web.Server

	lockPath string
	lock     *flock.Flock
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, transport Transport, handler flow.Handler, notifier notify.Service, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || transport == nil || handler == nil {
		return nil, errors.New("daemon requires config, transport, and handler")
	}
	if notifier == nil {
		notifier = notify.NewService(cfg)
	}

	lockPath := filepath.Join(filepath.Dir(cfg.Store.Path), "marqueed.lock")
	d := &Daemon{
		cfg:       cfg,
		logger:    logging.WithComponent(logger, "daemon"),
		transport: transport,
		handler:   handler,
		notifier:  notifier,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}
	if cfg.Web.Enabled {
		d.web = web.NewServer(cfg.Web.Bind, logger)
	}
	return d, nil
}

// Run acquires the instance lock and serves until ctx is cancelled.
func (d *Daemon) Run(ctx context.Context) error {
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another marquee daemon holds %s", d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release daemon lock", "error", err)
		}
	}()

	d.logger.Info("marquee daemon started", "bot", d.transport.Username(), "lock", d.lockPath)
	if err := d.notifier.NotifyDaemonStarted(ctx, d.transport.Username()); err != nil {
		d.logger.Warn("start notification failed", "error", err)
	}

	var wg sync.WaitGroup
	if d.web != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.web.Start(); err != nil {
				d.logger.Error("health endpoint failed", "error", err)
			}
		}()
	}

	runErr := d.transport.Run(ctx, d.handler)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if d.web != nil {
		if err := d.web.Shutdown(shutdownCtx); err != nil {
			d.logger.Warn("health endpoint shutdown failed", "error", err)
		}
	}
	wg.Wait()

	if err := d.notifier.NotifyDaemonStopped(shutdownCtx); err != nil {
		d.logger.Warn("stop notification failed", "error", err)
	}
	d.logger.Info("marquee daemon stopped")
	return runErr
}
