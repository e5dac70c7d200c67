package server

import (
	"context"
	"net/http"
	"time"

	"github.com/cortexai/toolhost/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg  *config.Config
	http *http.Server
}

func New(cfg *config.Config) *Server {
	started := time.Now()
	c := Bootstrap(cfg)

	return &Server{
		cfg: cfg,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      NewRouter(cfg, c, started),
			ReadTimeout:  config.DefaultReadTimeout,
			WriteTimeout: config.DefaultWriteTimeout,
			IdleTimeout:  config.DefaultIdleTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Str("environment", s.cfg.Environment).Msg("server listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		log.Info().Msg("server closed")
		return nil
	case err := <-errCh:
		return err
	}
}
