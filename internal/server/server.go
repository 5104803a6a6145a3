// Package server exposes the scoring engine and the comparison store
// over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openhouse-labs/propscore/internal/config"
	"github.com/openhouse-labs/propscore/internal/engine"
	"github.com/openhouse-labs/propscore/internal/store"
)

// Server wires the engine and store behind the HTTP API.
type Server struct {
	cfg    config.ServerConfig
	engine *engine.Engine
	store  store.Store
	log    *zap.Logger
}

// New creates a Server. The store may be nil, in which case the
// persistence endpoints respond 503.
func New(cfg config.ServerConfig, eng *engine.Engine, st store.Store) *Server {
	return &Server{
		cfg:    cfg,
		engine: eng,
		store:  st,
		log:    zap.L().Named("server"),
	}
}

// Run serves the API until ctx is cancelled, then drains in-flight
// requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.log.Info("listening", zap.Int("port", s.cfg.Port))

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	s.log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	return nil
}
