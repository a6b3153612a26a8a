package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careerpilot/internal/errors"
	"careerpilot/internal/observability"
)

const shutdownTimeout = 30 * time.Second

// Start runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// gracefully: stop accepting connections, drain in-flight requests, stop the
// rate limiter and background manager, and flush observability exporters.
func (s *Server) Start() error {
	// Initialize observability before the first request can arrive, unless
	// the caller already provided a manager (the serve command does, so the
	// AI providers can be instrumented before the server starts).
	if s.Obs == nil {
		obsConfig := observability.GetObservabilityConfig(s.AppConfig, s.Version)
		om, err := observability.NewObservabilityManager(obsConfig, s.AppConfig)
		if err != nil {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig,
				"failed to initialize observability", err)
		}
		s.Obs = om
	}

	httpServer, err := s.setupHTTPServer()
	if err != nil {
		return err
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.Logger.Info("HTTP server starting",
			"address", httpServer.Addr,
			"tls", httpServer.TLSConfig != nil,
			"auth_enabled", len(s.APIKeys) > 0,
			"rate_limiting", s.RateLimiter != nil)

		if httpServer.TLSConfig != nil {
			// Certificates come from TLSConfig; no file paths needed here
			serverErrors <- httpServer.ListenAndServeTLS("", "")
		} else {
			serverErrors <- httpServer.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return errors.NewNetworkError("SERVER_FAILED", "HTTP server failed", err)
		}
		return nil
	case sig := <-shutdown:
		s.Logger.Info("Shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		s.Logger.LogError(err, "Graceful shutdown failed, forcing close")
		if closeErr := httpServer.Close(); closeErr != nil {
			return errors.NewNetworkError("SERVER_SHUTDOWN_FAILED",
				"failed to close HTTP server", closeErr)
		}
	}

	s.stopComponents(ctx)

	s.Logger.Info("HTTP server stopped")
	return nil
}

// setupHTTPServer builds the http.Server with routes, middleware, and TLS
func (s *Server) setupHTTPServer() (*http.Server, error) {
	mux := http.NewServeMux()
	s.setupRoutes(mux)

	var handler http.Handler = mux
	if s.Obs != nil {
		handler = s.Obs.HTTPMiddleware()(handler)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.Host, s.Port),
		Handler:      handler,
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}

	tlsConfig, err := s.AppConfig.BuildServerTLSConfig()
	if err != nil {
		return nil, err
	}
	httpServer.TLSConfig = tlsConfig

	return httpServer, nil
}

// stopComponents shuts down the server's supporting components
func (s *Server) stopComponents(ctx context.Context) {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
	}

	if s.Services != nil && s.Services.Tasks != nil {
		if err := s.Services.Tasks.Stop(); err != nil {
			s.Logger.LogError(err, "Background task manager did not stop cleanly")
		}
	}

	if s.Services != nil && s.Services.KBWatcher != nil {
		if err := s.Services.KBWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Knowledge base watcher did not stop cleanly")
		}
	}

	if s.Services != nil && s.Services.AI != nil {
		s.Services.AI.Close()
	}

	if s.Obs != nil {
		if err := s.Obs.Shutdown(ctx); err != nil {
			s.Logger.LogError(err, "Observability shutdown failed")
		}
	}
}
