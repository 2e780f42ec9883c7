package ipc

import (
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Subscriber receives snapshots from a Publisher, reconnecting on loss.
type Subscriber struct {
	socketPath string
	logger     *zap.Logger
	conn       net.Conn
	connMu     sync.Mutex

	latestSnapshot atomic.Pointer[SnapshotMessage]
	latestArena    atomic.Pointer[ArenaMessage]
	arenaCh        chan struct{}

	// Stats
	snapshotsReceived atomic.Int64
	reconnects        atomic.Int64
	errors            atomic.Int64

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// Callbacks, set before Start
	onSnapshot   func(*SnapshotMessage)
	onArena      func(*ArenaMessage)
	onConnect    func()
	onDisconnect func()
}

// NewSubscriber creates a subscriber for socketPath (DefaultSocketPath when
// empty).
func NewSubscriber(socketPath string, logger *zap.Logger) *Subscriber {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{
		socketPath: socketPath,
		logger:     logger,
		arenaCh:    make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
	}
}

// OnSnapshot sets a callback for each received snapshot.
func (s *Subscriber) OnSnapshot(fn func(*SnapshotMessage)) { s.onSnapshot = fn }

// OnArena sets a callback for each received obstacle layout.
func (s *Subscriber) OnArena(fn func(*ArenaMessage)) { s.onArena = fn }

// OnConnect sets a callback for when a connection is established.
func (s *Subscriber) OnConnect(fn func()) { s.onConnect = fn }

// OnDisconnect sets a callback for when the connection is lost.
func (s *Subscriber) OnDisconnect(fn func()) { s.onDisconnect = fn }

// Start begins connecting in the background.
func (s *Subscriber) Start() error {
	if !s.running.CompareAndSwap(false, true) {
		return nil
	}
	s.wg.Add(1)
	go s.connectionLoop()

	s.logger.Info("📡 IPC subscriber started", zap.String("addr", PlatformAddress(s.socketPath)))
	return nil
}

// Stop disconnects and waits for the background loop to end.
func (s *Subscriber) Stop() {
	if !s.running.CompareAndSwap(true, false) {
		return
	}
	close(s.stopCh)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	s.logger.Info("📡 IPC subscriber stopped")
}

// LatestSnapshot returns the most recent snapshot, or nil.
func (s *Subscriber) LatestSnapshot() *SnapshotMessage {
	return s.latestSnapshot.Load()
}

// Arena returns the most recent obstacle layout, or nil.
func (s *Subscriber) Arena() *ArenaMessage {
	return s.latestArena.Load()
}

// WaitForArena blocks until a layout arrives or timeout passes.
func (s *Subscriber) WaitForArena(timeout time.Duration) *ArenaMessage {
	if a := s.Arena(); a != nil {
		return a
	}
	select {
	case <-s.arenaCh:
		return s.Arena()
	case <-time.After(timeout):
		return nil
	case <-s.stopCh:
		return nil
	}
}

// SubscriberStats are the subscriber counters.
type SubscriberStats struct {
	Received   int64
	Reconnects int64
	Errors     int64
}

// Stats returns subscriber statistics.
func (s *Subscriber) Stats() SubscriberStats {
	return SubscriberStats{
		Received:   s.snapshotsReceived.Load(),
		Reconnects: s.reconnects.Load(),
		Errors:     s.errors.Load(),
	}
}

// IsConnected returns whether the subscriber is connected.
func (s *Subscriber) IsConnected() bool {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	return s.conn != nil
}

func (s *Subscriber) connectionLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := ConnectPlatform(s.socketPath)
		if err != nil {
			select {
			case <-s.stopCh:
				return
			case <-time.After(ReconnectDelay):
				continue
			}
		}

		s.connMu.Lock()
		s.conn = conn
		s.connMu.Unlock()
		s.logger.Info("✅ Connected to publisher")
		if s.onConnect != nil {
			s.onConnect()
		}

		s.readLoop(conn)

		s.connMu.Lock()
		s.conn = nil
		s.connMu.Unlock()
		conn.Close()
		if s.onDisconnect != nil {
			s.onDisconnect()
		}
		s.reconnects.Add(1)

		select {
		case <-s.stopCh:
			return
		case <-time.After(ReconnectDelay):
		}
	}
}

func (s *Subscriber) readLoop(conn net.Conn) {
	for s.running.Load() {
		conn.SetReadDeadline(time.Now().Add(ReadTimeout))

		msgType, data, err := ReadMessage(conn)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("🔌 Publisher closed connection")
				return
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue // idle publisher
			}
			if s.running.Load() {
				s.logger.Warn("⚠️ IPC read error", zap.Error(err))
				s.errors.Add(1)
			}
			return
		}

		switch msgType {
		case MsgTypeSnapshot:
			s.handleSnapshot(data)
		case MsgTypeArena:
			s.handleArena(data)
		case MsgTypePing:
			conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
			WriteMessage(conn, MsgTypePong, nil)
		}
	}
}

func (s *Subscriber) handleSnapshot(data []byte) {
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		s.logger.Warn("⚠️ Failed to decode snapshot", zap.Error(err))
		s.errors.Add(1)
		return
	}
	s.latestSnapshot.Store(snapshot)
	s.snapshotsReceived.Add(1)
	if s.onSnapshot != nil {
		s.onSnapshot(snapshot)
	}
}

func (s *Subscriber) handleArena(data []byte) {
	arena, err := DecodeArena(data)
	if err != nil {
		s.logger.Warn("⚠️ Failed to decode arena", zap.Error(err))
		s.errors.Add(1)
		return
	}
	s.latestArena.Store(arena)
	select {
	case s.arenaCh <- struct{}{}:
	default:
	}
	s.logger.Info("🗺️ Received arena", zap.Int("obstacles", len(arena.Obstacles)))
	if s.onArena != nil {
		s.onArena(arena)
	}
}
