package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"arena-fps/internal/relay"
)

const shutdownTimeout = 5 * time.Second

// ServerConfig wires the relay server.
type ServerConfig struct {
	Hub         *relay.Hub
	Scores      ScoresInterface
	CORSOrigins []string
	RateLimit   *RateLimitConfig
	ReadTimeout time.Duration
	Logger      *zap.Logger
}

// Server is the HTTP API plus the relay websocket endpoint.
type Server struct {
	hub         *relay.Hub
	router      *chi.Mux
	rateLimiter *IPRateLimiter
	readTimeout time.Duration
	logger      *zap.Logger
}

// NewServer builds the server. The relay hub does not run until Serve.
func NewServer(cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rl := DefaultRateLimitConfig
	if cfg.RateLimit != nil {
		rl = *cfg.RateLimit
	}
	s := &Server{
		hub:         cfg.Hub,
		rateLimiter: NewIPRateLimiter(rl),
		readTimeout: cfg.ReadTimeout,
		logger:      logger,
	}
	s.router = NewRouter(RouterConfig{
		Relay:       cfg.Hub,
		Scores:      cfg.Scores,
		RateLimiter: s.rateLimiter,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
	})
	return s
}

// Router returns the HTTP handler for use with httptest.
func (s *Server) Router() http.Handler {
	return s.router
}

// Serve runs the relay hub and serves HTTP on ln until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.readTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info("🌐 API server started", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	s.logger.Info("🛑 API server stopped")
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// ListenAndServe listens on addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}
