// Package httpserver adapts net/http's blocking ListenAndServe lifecycle
// to suture's context-aware Serve, so the admin HTTP server can be
// supervised alongside the background jobs instead of being started and
// stopped by hand in main.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Server matches the subset of *http.Server's lifecycle Service needs,
// so tests can supervise a fake instead of binding a real port.
type Server interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Service wraps an HTTP server as a suture.Service: it starts
// ListenAndServe in a goroutine, then on context cancellation calls
// Shutdown with its own bounded timeout so a slow client can't block
// the whole supervisor tree's shutdown indefinitely.
type Service struct {
	server          Server
	shutdownTimeout time.Duration
	name            string
}

// New wraps server for supervision. shutdownTimeout <= 0 defaults to 10s.
func New(name string, server Server, shutdownTimeout time.Duration) *Service {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	if name == "" {
		name = "http-server"
	}
	return &Service{server: server, shutdownTimeout: shutdownTimeout, name: name}
}

// Serve implements suture.Service.
func (s *Service) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture's logging.
func (s *Service) String() string {
	return s.name
}
