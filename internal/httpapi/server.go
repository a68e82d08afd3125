// Package httpapi exposes quoting, invoice rendering and profile management
// over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/config"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/observability"
)

// NewRouter builds the API routes.
func NewRouter(h *Handler, corsCfg *config.CORSConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID())
	r.Use(CORS(corsCfg))

	r.Get("/healthz", h.HandleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", h.HandleQuote)
		r.Post("/invoice", h.HandleInvoice)
		r.Get("/profiles", h.HandleListProfiles)
		r.Get("/profiles/{name}", h.HandleGetProfile)
		r.Put("/profiles/{name}", h.HandlePutProfile)
		r.Delete("/profiles/{name}", h.HandleDeleteProfile)
	})
	return r
}

// Server is the HTTP server with graceful shutdown.
type Server struct {
	srv *http.Server
}

// NewServer creates a server for handler using cfg.
func NewServer(cfg *config.ServerConfig, handler http.Handler) *Server {
	return &Server{srv: &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	}}
}

// Run serves until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	logger := observability.FromContext(ctx)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http server shutting down")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
