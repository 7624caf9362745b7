package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"marquee/internal/logging"
)

// Server is a minimal HTTP listener answering health probes.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer builds a Server bound to addr.
func NewServer(addr string, logger *slog.Logger) *Server {
	logger = logging.WithComponent(logger, "web")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves requests until Shutdown is called. It blocks.
func (s *Server) Start() error {
	s.logger.Info("health endpoint listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
