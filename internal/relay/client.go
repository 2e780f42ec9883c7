package relay

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

// RemoteSink receives the other players mirrored from the relay.
// *game.Engine satisfies it.
type RemoteSink interface {
	ReplaceRemotes(ps []game.RemotePlayer)
	UpsertRemote(p game.RemotePlayer) bool
	MoveRemote(id string, pos geom.Vec3) bool
	SetRemoteScore(id string, score int) bool
	RemoveRemote(id string) bool
}

// ClientConfig configures a relay client.
type ClientConfig struct {
	URL         string
	Name        string
	SendQueue   int
	DialTimeout time.Duration
	Logger      *zap.Logger
}

// ErrClientClosed is returned when sending on a closed client.
var ErrClientClosed = errors.New("relay client closed")

// Client connects a local engine to a relay hub. Register HandleEvent as an
// engine listener to publish local movement and score.
type Client struct {
	ws     *websocket.Conn
	sink   RemoteSink
	logger *zap.Logger
	send   chan []byte
	id     atomic.Value // string, set by the "connected" message

	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Uint64
}

// Dial connects to the hub at cfg.URL and starts the client pumps.
func Dial(ctx context.Context, cfg ClientConfig, sink RemoteSink) (*Client, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.SendQueue <= 0 {
		cfg.SendQueue = 64
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.Name != "" {
		q := u.Query()
		q.Set("name", cfg.Name)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.DialTimeout}
	ws, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		ws:     ws,
		sink:   sink,
		logger: cfg.Logger,
		send:   make(chan []byte, cfg.SendQueue),
		done:   make(chan struct{}),
	}
	c.id.Store("")
	go c.writeLoop()
	go c.readLoop()

	c.logger.Info("🌐 Connected to relay", zap.String("url", cfg.URL))
	return c, nil
}

// ID returns the id the hub assigned, empty until the hub has said hello.
func (c *Client) ID() string { return c.id.Load().(string) }

// Done is closed when the connection ends.
func (c *Client) Done() <-chan struct{} { return c.done }

// Dropped returns how many outbound messages were discarded on a full queue.
func (c *Client) Dropped() uint64 { return c.dropped.Load() }

// Close ends the connection.
func (c *Client) Close() error {
	c.shutdown()
	return nil
}

func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		c.ws.Close()
	})
}

// HandleEvent publishes local player movement and kills. It has the
// game.EventListener signature and never blocks.
func (c *Client) HandleEvent(_ game.Event, payload any) {
	switch p := payload.(type) {
	case game.PlayerMovedPayload:
		c.enqueue(EventPlayerMovement, movementMessage{Position: p.Position})
	case game.EnemyKilledPayload:
		c.enqueue(EventScoreUpdate, scoreMessage{Score: p.TotalScore})
	}
}

// SendMovement queues a position update.
func (c *Client) SendMovement(pos geom.Vec3) error {
	return c.enqueue(EventPlayerMovement, movementMessage{Position: pos})
}

// SendScore queues a score update.
func (c *Client) SendScore(score int) error {
	return c.enqueue(EventScoreUpdate, scoreMessage{Score: score})
}

func (c *Client) enqueue(event string, data any) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}
	select {
	case c.send <- payload:
	default:
		c.dropped.Add(1)
	}
	return nil
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Warn("⚠️ Relay write failed", zap.Error(err))
				c.shutdown()
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.shutdown()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.logger.Warn("⚠️ Relay connection lost", zap.Error(err))
			}
			return
		}
		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.logger.Debug("Discarding malformed relay message", zap.Error(err))
			continue
		}
		if err := c.apply(env); err != nil {
			c.logger.Debug("Discarding relay message", zap.String("event", env.Event), zap.Error(err))
		}
	}
}

// apply mirrors one hub message into the sink. Messages about ourselves
// are ignored: the local player is simulated locally.
func (c *Client) apply(env Envelope) error {
	self := c.ID()
	switch env.Event {
	case EventConnected:
		var m connectedMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return err
		}
		c.id.Store(m.ID)

	case EventCurrentPlayers:
		var players map[string]PlayerInfo
		if err := json.Unmarshal(env.Data, &players); err != nil {
			return err
		}
		remotes := make([]game.RemotePlayer, 0, len(players))
		for id, p := range players {
			if id != self {
				remotes = append(remotes, game.RemotePlayer{ID: id, Position: p.Position, Score: p.Score})
			}
		}
		c.sink.ReplaceRemotes(remotes)

	case EventNewPlayer:
		var p PlayerInfo
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return err
		}
		if p.ID != self {
			c.sink.UpsertRemote(game.RemotePlayer{ID: p.ID, Position: p.Position, Score: p.Score})
		}

	case EventPlayerMoved:
		var m movedMessage
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return err
		}
		if m.ID != self {
			c.sink.MoveRemote(m.ID, m.Position)
		}

	case EventLeaderboardUpdate:
		var scores map[string]int
		if err := json.Unmarshal(env.Data, &scores); err != nil {
			return err
		}
		for id, score := range scores {
			if id != self {
				c.sink.SetRemoteScore(id, score)
			}
		}

	case EventPlayerDisconnected:
		var id string
		if err := json.Unmarshal(env.Data, &id); err != nil {
			return err
		}
		c.sink.RemoveRemote(id)
	}
	return nil
}
