package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"arena-fps/internal/game"
)

// Metrics with bounded cardinality (no per-player or per-enemy labels)
var (
	// Simulation metrics
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arena_tick_duration_seconds",
		Help:    "Time spent in one simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025},
	})

	liveEnemies = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_live_enemies",
		Help: "Enemies alive in the current session",
	})

	gameEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "arena_game_events_total",
		Help: "Gameplay events by type",
	}, []string{"type"}) // Bounded: game.EventType names

	// Event log metrics
	eventLogTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_event_log_total",
		Help: "Total events accepted by the session journal",
	})

	eventLogDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "arena_event_log_dropped",
		Help: "Events dropped due to rate limiting or a full buffer",
	})

	// DoS detection metrics - use ONLY bounded label values
	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "connection_rejected_total",
		Help: "Connections rejected by rate limiter or origin check",
	}, []string{"reason"}) // Bounded: "rate_limit", "origin", "invalid", "ws_limit"

	// HTTP metrics with bounded labels
	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint"}) // endpoint is path pattern, not full URL

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	// Relay metrics
	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections_active",
		Help: "Currently connected relay clients",
	})

	wsMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Relay messages by direction",
	}, []string{"direction"}) // Bounded: "in", "out", "dropped"
)

// InstrumentEngine feeds an engine's ticks and events into the metrics.
func InstrumentEngine(e *game.Engine) {
	e.OnTick(func(took time.Duration, enemies int) {
		tickDuration.Observe(took.Seconds())
		liveEnemies.Set(float64(enemies))
	})
	e.OnEvent(func(ev game.Event, _ any) {
		if ev.Type == game.EventTypeTick || ev.Type == game.EventTypePlayerMoved {
			return
		}
		gameEvents.WithLabelValues(ev.Type.String()).Inc()
	})
}

// UpdateEventLogStats mirrors the journal counters
func UpdateEventLogStats(stats game.EventLogStats) {
	eventLogTotal.Set(float64(stats.Total))
	eventLogDropped.Set(float64(stats.Dropped))
}

// RecordConnectionRejected increments the rejection counter
// reason must be one of: "rate_limit", "origin", "invalid", "ws_limit"
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, endpoint string, status int, duration time.Duration) {
	requestLatency.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	requestTotal.WithLabelValues(method, endpoint, http.StatusText(status)).Inc()
}

// UpdateWSConnections updates the relay connection gauge
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// RecordRelayMessage counts one relay message
// direction must be one of: "in", "out", "dropped"
func RecordRelayMessage(direction string) {
	wsMessagesTotal.WithLabelValues(direction).Inc()
}
