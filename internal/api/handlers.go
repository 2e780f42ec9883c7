package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"arena-fps/internal/observability"
	"arena-fps/internal/storage"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

func (h *routerHandlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *routerHandlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"players":     h.relay.ClientCount(),
		"leaderboard": h.relay.Top(defaultListLimit),
	})
}

func (h *routerHandlers) handleGetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"players":   h.relay.ClientCount(),
		"rateLimit": h.rateLimiter.GetStats(),
	})
}

func (h *routerHandlers) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r)
	if !ok {
		writeError(w, "limit must be 1-100", http.StatusBadRequest)
		return
	}
	writeJSON(w, h.relay.Top(limit))
}

func (h *routerHandlers) handleGetScores(w http.ResponseWriter, r *http.Request) {
	if h.scores == nil {
		writeError(w, "score storage disabled", http.StatusServiceUnavailable)
		return
	}
	limit, ok := parseLimit(r)
	if !ok {
		writeError(w, "limit must be 1-100", http.StatusBadRequest)
		return
	}
	records, err := h.scores.Top(r.Context(), limit)
	if err != nil {
		h.logger.Error("❌ Score query failed", zap.Error(err))
		writeError(w, "score query failed", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []storage.ScoreRecord{}
	}
	writeJSON(w, records)
}

// handleSocketIO serves the relay on the Socket.IO path. Only the
// websocket transport is supported; polling gets a 404.
func (h *routerHandlers) handleSocketIO(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Upgrade") == "websocket" {
		h.relay.HandleWebSocket(w, r)
		return
	}
	writeError(w, "use websocket", http.StatusNotFound)
}

// parseLimit reads ?limit=, defaulting to defaultListLimit.
func parseLimit(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultListLimit, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > maxListLimit {
		return 0, false
	}
	return n, true
}

// requestLogger logs each request through zap and records its metrics
// under the matched route pattern.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			took := time.Since(start)
			pattern := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observability.RecordRequest(r.Method, pattern, status, took)
			logger.Debug("HTTP request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Duration("took", took))
		})
	}
}

// Helper functions (package-level for reuse)

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
