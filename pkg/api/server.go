package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/obralink/avance/pkg/config"
	"github.com/obralink/avance/pkg/observability"
	"github.com/obralink/avance/pkg/schedule"
	"github.com/obralink/avance/pkg/store"
)

// Server is the HTTP server for the reporting surface.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wires routes and middleware for the reporting API.
func NewServer(cfg *config.Config, reader store.Reader, obs *observability.Provider, policy schedule.DatePolicy) *Server {
	var cache *ResponseCache
	if cfg.RedisAddr != "" {
		cache = NewResponseCache(cfg.RedisAddr, cfg.CacheTTL)
	}
	svc := NewReportService(reader, cache, obs, policy)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/projects/{id}/curva-s", svc.HandleCurvaS)
	mux.HandleFunc("GET /healthz", svc.HandleHealthz)

	logger := slog.Default().With("component", "http")
	limiter := NewRateLimiter(cfg.RateRPS, cfg.RateBurst)
	handler := WithRequestID(WithLogging(logger, limiter.Middleware(mux)))

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
