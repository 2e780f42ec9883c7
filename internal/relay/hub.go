package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"arena-fps/internal/observability"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	maxNameLength  = 32
	saveTimeout    = 2 * time.Second
)

// ScoreStore persists reported scores. SaveScore returns the best score on
// record for name.
type ScoreStore interface {
	SaveScore(ctx context.Context, name string, score int) (int, error)
}

// HubConfig configures a relay hub.
type HubConfig struct {
	MaxConnections int
	SendQueue      int     // per-connection outbound buffer
	MovesPerSecond float64 // playerMovement messages allowed per connection
	Store          ScoreStore
	Logger         *zap.Logger
	NewID          func() string
	CheckOrigin    func(*http.Request) bool
}

// DefaultHubConfig returns production defaults.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		MaxConnections: 100,
		SendQueue:      64,
		MovesPerSecond: 60,
	}
}

type inbound struct {
	from  *peer
	event string
	move  movementMessage
	score int
}

// peer is one websocket connection.
type peer struct {
	id      string
	name    string
	ws      *websocket.Conn
	send    chan []byte
	limiter *rate.Limiter
}

// Hub relays player state between websocket clients. Run owns the
// connection set; handlers talk to it over channels.
type Hub struct {
	cfg         HubConfig
	logger      *zap.Logger
	upgrader    websocket.Upgrader
	leaderboard *Leaderboard

	register   chan *peer
	unregister chan *peer
	inbound    chan inbound
	done       chan struct{}
	count      atomic.Int32

	// owned by Run
	peers   map[string]*peer
	players map[string]*PlayerInfo
}

// NewHub creates a hub. Call Run before serving connections.
func NewHub(cfg HubConfig) *Hub {
	def := DefaultHubConfig()
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = def.MaxConnections
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = def.SendQueue
	}
	if cfg.MovesPerSecond <= 0 {
		cfg.MovesPerSecond = def.MovesPerSecond
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NewID == nil {
		cfg.NewID = func() string { return uuid.NewString() }
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	h := &Hub{
		cfg:         cfg,
		logger:      cfg.Logger,
		leaderboard: NewLeaderboard(),
		register:    make(chan *peer),
		unregister:  make(chan *peer),
		inbound:     make(chan inbound, 256),
		done:        make(chan struct{}),
		peers:       make(map[string]*peer),
		players:     make(map[string]*PlayerInfo),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if checkOrigin(r) {
				return true
			}
			h.logger.Warn("⚠️ WebSocket connection rejected", zap.String("origin", r.Header.Get("Origin")))
			observability.RecordConnectionRejected("origin")
			return false
		},
	}
	return h
}

// Leaderboard returns the live ranking of connected players.
func (h *Hub) Leaderboard() *Leaderboard { return h.leaderboard }

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// Run processes connection events until ctx is cancelled, then closes every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	h.logger.Info("🔌 Relay hub started")

	for {
		select {
		case <-ctx.Done():
			for _, p := range h.peers {
				h.drop(p)
			}
			h.logger.Info("🔌 Relay hub stopped")
			return

		case p := <-h.register:
			h.join(p)

		case p := <-h.unregister:
			if _, ok := h.peers[p.id]; !ok {
				continue
			}
			h.drop(p)
			h.broadcast(EventPlayerDisconnected, p.id, nil)
			h.logger.Info("📱 Player disconnected",
				zap.String("id", p.id), zap.Int("remaining", len(h.peers)))

		case msg := <-h.inbound:
			h.handle(msg)
		}
	}
}

func (h *Hub) join(p *peer) {
	info := &PlayerInfo{ID: p.id, Name: p.name, Position: spawnEye, Health: 100}
	h.peers[p.id] = p
	h.players[p.id] = info

	h.sendTo(p, EventConnected, connectedMessage{ID: p.id})
	current := make(map[string]PlayerInfo, len(h.players))
	for id, pl := range h.players {
		current[id] = *pl
	}
	h.sendTo(p, EventCurrentPlayers, current)
	h.broadcast(EventNewPlayer, *info, p)

	h.logger.Info("📱 Player connected",
		zap.String("id", p.id), zap.String("name", p.name), zap.Int("total", len(h.peers)))
}

// drop forgets p and closes its send queue, which ends its write pump.
func (h *Hub) drop(p *peer) {
	delete(h.peers, p.id)
	delete(h.players, p.id)
	h.leaderboard.Remove(p.id)
	close(p.send)
	observability.UpdateWSConnections(int(h.count.Add(-1)))
}

func (h *Hub) handle(msg inbound) {
	info, ok := h.players[msg.from.id]
	if !ok {
		return
	}
	switch msg.event {
	case EventPlayerMovement:
		info.Position = msg.move.Position
		h.broadcast(EventPlayerMoved, movedMessage{ID: info.ID, Position: info.Position}, msg.from)
	case EventScoreUpdate:
		info.Score = msg.score
		h.leaderboard.Update(info.ID, msg.score)
		h.broadcast(EventLeaderboardUpdate, h.leaderboard.Scores(), nil)
	}
}

// broadcast sends to every peer except skip.
func (h *Hub) broadcast(event string, data any, skip *peer) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("❌ Failed to encode relay message", zap.String("event", event), zap.Error(err))
		return
	}
	for _, p := range h.peers {
		if p != skip {
			h.enqueue(p, payload)
		}
	}
}

func (h *Hub) sendTo(p *peer, event string, data any) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("❌ Failed to encode relay message", zap.String("event", event), zap.Error(err))
		return
	}
	h.enqueue(p, payload)
}

// enqueue never blocks the hub: a slow client loses messages instead.
func (h *Hub) enqueue(p *peer, payload []byte) {
	select {
	case p.send <- payload:
		observability.RecordRelayMessage("out")
	default:
		observability.RecordRelayMessage("dropped")
	}
}

// HandleWebSocket upgrades a relay connection. The optional "name" query
// parameter keys persisted scores; it defaults to the connection id.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if n := h.count.Add(1); int(n) > h.cfg.MaxConnections {
		h.count.Add(-1)
		h.logger.Warn("⚠️ WebSocket connection rejected: limit reached", zap.Int("max", h.cfg.MaxConnections))
		observability.RecordConnectionRejected("ws_limit")
		http.Error(w, "Too many connections", http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.count.Add(-1)
		h.logger.Debug("WebSocket upgrade failed", zap.Error(err))
		return
	}

	id := h.cfg.NewID()
	p := &peer{
		id:      id,
		name:    playerName(r.URL.Query().Get("name"), id),
		ws:      ws,
		send:    make(chan []byte, h.cfg.SendQueue),
		limiter: rate.NewLimiter(rate.Limit(h.cfg.MovesPerSecond), max(1, int(h.cfg.MovesPerSecond))),
	}

	select {
	case h.register <- p:
	case <-h.done:
		h.count.Add(-1)
		ws.Close()
		return
	}
	observability.UpdateWSConnections(h.ClientCount())

	go h.writePump(p)
	go h.readPump(p)
}

func playerName(name, fallback string) string {
	if name == "" || len(name) > maxNameLength || !utf8.ValidString(name) {
		return fallback
	}
	return name
}

func (h *Hub) readPump(p *peer) {
	defer func() {
		select {
		case h.unregister <- p:
		case <-h.done:
		}
		p.ws.Close()
	}()

	p.ws.SetReadLimit(maxMessageSize)
	p.ws.SetReadDeadline(time.Now().Add(pongWait))
	p.ws.SetPongHandler(func(string) error {
		return p.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.String("id", p.id), zap.Error(err))
			}
			return
		}
		observability.RecordRelayMessage("in")

		msg, ok := h.decode(p, data)
		if !ok {
			continue
		}
		select {
		case h.inbound <- msg:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) decode(p *peer, data []byte) (inbound, bool) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		h.logger.Debug("Discarding malformed relay message", zap.String("id", p.id), zap.Error(err))
		return inbound{}, false
	}

	msg := inbound{from: p, event: env.Event}
	switch env.Event {
	case EventPlayerMovement:
		if !p.limiter.Allow() {
			observability.RecordRelayMessage("dropped")
			return inbound{}, false
		}
		if err := json.Unmarshal(env.Data, &msg.move); err != nil || !msg.move.Position.IsFinite() {
			return inbound{}, false
		}
	case EventScoreUpdate:
		var s scoreMessage
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return inbound{}, false
		}
		msg.score = s.Score
		h.persist(p, s.Score)
	default:
		h.logger.Debug("Ignoring relay event", zap.String("id", p.id), zap.String("event", env.Event))
		return inbound{}, false
	}
	return msg, true
}

func (h *Hub) persist(p *peer, score int) {
	if h.cfg.Store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if _, err := h.cfg.Store.SaveScore(ctx, p.name, score); err != nil {
		h.logger.Warn("⚠️ Score not persisted", zap.String("name", p.name), zap.Error(err))
	}
}

func (h *Hub) writePump(p *peer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.ws.Close()
	}()

	for {
		select {
		case msg, ok := <-p.send:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := p.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			p.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Top returns the best n connected players.
func (h *Hub) Top(n int) []LeaderboardEntry { return h.leaderboard.Top(n) }
