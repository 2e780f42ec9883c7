package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"arena-fps/internal/relay"
	"arena-fps/internal/storage"
)

// RelayInterface is the part of the relay hub the API uses.
// Keep this minimal so tests can mock it.
type RelayInterface interface {
	// ClientCount returns the number of connected players
	ClientCount() int
	// Top returns the live leaderboard, best first
	Top(n int) []relay.LeaderboardEntry
	// HandleWebSocket upgrades a relay connection
	HandleWebSocket(w http.ResponseWriter, r *http.Request)
}

// ScoresInterface reads persisted best scores.
type ScoresInterface interface {
	Top(ctx context.Context, n int) ([]storage.ScoreRecord, error)
}

// RouterConfig contains all dependencies needed to construct the HTTP router.
//
// Example usage in tests:
//
//	cfg := api.RouterConfig{
//	    Relay: mockRelay,
//	    RateLimitConfig: &api.RateLimitConfig{
//	        RequestsPerSecond: 1000, // High limit for tests
//	        Burst:             1000,
//	    },
//	}
//	router := api.NewRouter(cfg)
//	ts := httptest.NewServer(router)
type RouterConfig struct {
	// Relay is the multiplayer hub (required)
	Relay RelayInterface

	// Scores is the optional persisted score table. Without it /api/scores
	// answers 503.
	Scores ScoresInterface

	// RateLimiter is an optional pre-configured rate limiter.
	// If nil, a new one will be created using RateLimitConfig.
	RateLimiter *IPRateLimiter

	// RateLimitConfig is used only if RateLimiter is nil. If both are nil,
	// DefaultRateLimitConfig applies.
	RateLimitConfig *RateLimitConfig

	// CORSOrigins lists allowed CORS origins. If nil, local origins only.
	CORSOrigins []string

	// Logger receives request logs. Nil disables request logging.
	Logger *zap.Logger
}

type routerHandlers struct {
	relay       RelayInterface
	scores      ScoresInterface
	rateLimiter *IPRateLimiter
	logger      *zap.Logger
}

// NewRouter constructs the HTTP router with all middleware and routes.
//
// NewRouter has no side effects beyond the rate limiter's cleanup goroutine
// (when it creates the limiter itself): no listeners are opened and the
// relay hub is not started. This makes it safe to use with httptest.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	} else {
		r.Use(requestLogger(logger))
	}
	r.Use(middleware.Recoverer)

	// Rate limiting (BEFORE CORS to reject early and save CPU)
	rateLimiter := cfg.RateLimiter
	if rateLimiter == nil {
		rateLimitCfg := DefaultRateLimitConfig
		if cfg.RateLimitConfig != nil {
			rateLimitCfg = *cfg.RateLimitConfig
		}
		rateLimiter = NewIPRateLimiter(rateLimitCfg)
	}
	r.Use(rateLimiter.Middleware)

	corsOrigins := cfg.CORSOrigins
	if corsOrigins == nil {
		corsOrigins = DefaultOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	h := &routerHandlers{
		relay:       cfg.Relay,
		scores:      cfg.Scores,
		rateLimiter: rateLimiter,
		logger:      logger,
	}

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleGetState)
		r.Get("/stats", h.handleGetStats)
		r.Get("/leaderboard", h.handleGetLeaderboard)
		r.Get("/scores", h.handleGetScores)
	})

	// Relay websocket, also on the Socket.IO path old clients dial
	r.Get("/ws", cfg.Relay.HandleWebSocket)
	r.Get("/socket.io/", h.handleSocketIO)

	return r
}
