package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// ServerConfig holds configuration for the HTTP server
type ServerConfig struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
	// WriteTimeout must stay 0 while the events stream is served, or
	// long-lived SSE connections are cut off.
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultServerConfig returns the settings the partyscore server runs with
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:              8080,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * time.Minute,
		ShutdownTimeout:   10 * time.Second,
	}
}

// Server runs the combined API and web handler until its context ends
type Server struct {
	server     *http.Server
	listener   net.Listener
	logger     *slog.Logger
	config     ServerConfig
	onShutdown []func()
}

// NewServer creates a new server; call Listen before Run
func NewServer(handler http.Handler, config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:              net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
			Handler:           handler,
			ReadHeaderTimeout: config.ReadHeaderTimeout,
			WriteTimeout:      config.WriteTimeout,
			IdleTimeout:       config.IdleTimeout,
		},
		logger: logger,
		config: config,
	}
}

// OnShutdown registers fn to run before in-flight requests are drained.
// Long-lived streams must be closed here or shutdown waits for them.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Listen binds the listen address. Port 0 picks a free port, see Addr.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	return nil
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(s.listener)
	}()
	s.logger.Info("HTTP server listening", slog.String("addr", s.Addr()))

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.shutdown()
}

func (s *Server) shutdown() error {
	s.logger.Info("shutting down HTTP server")

	for _, fn := range s.onShutdown {
		fn()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the bound address once Listen has run, else the configured one
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}
