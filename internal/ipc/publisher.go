package ipc

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"arena-fps/internal/game"
)

// Publisher streams snapshots to every connected viewer.
type Publisher struct {
	socketPath string
	listener   net.Listener
	logger     *zap.Logger

	clients   map[net.Conn]struct{}
	clientsMu sync.RWMutex

	// Ring buffer behaviour: the oldest frame is dropped when full
	snapshotCh chan *SnapshotMessage

	arena   *ArenaMessage
	arenaMu sync.RWMutex

	// Stats
	clientCount   atomic.Int32
	snapshotsSent atomic.Int64
	droppedFrames atomic.Int64

	running atomic.Bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewPublisher creates a publisher for socketPath (DefaultSocketPath when
// empty).
func NewPublisher(socketPath string, logger *zap.Logger) *Publisher {
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		socketPath: socketPath,
		logger:     logger,
		clients:    make(map[net.Conn]struct{}),
		snapshotCh: make(chan *SnapshotMessage, 8),
		arena:      &ArenaMessage{},
		stopCh:     make(chan struct{}),
	}
}

// SetArena records the obstacle layout and pushes it to connected viewers.
func (p *Publisher) SetArena(obs []game.Obstacle) {
	msg := ArenaToMessage(obs)
	p.arenaMu.Lock()
	p.arena = msg
	p.arenaMu.Unlock()

	for _, conn := range p.clientList() {
		p.sendArena(conn, msg)
	}
}

// Start listens for viewers.
func (p *Publisher) Start() error {
	if !p.running.CompareAndSwap(false, true) {
		return nil
	}

	listener, err := CreatePlatformListener(p.socketPath)
	if err != nil {
		p.running.Store(false)
		return err
	}
	p.listener = listener

	p.wg.Add(2)
	go p.acceptLoop()
	go p.broadcastLoop()

	p.logger.Info("📡 IPC publisher started", zap.String("addr", PlatformAddress(p.socketPath)))
	return nil
}

// Stop closes every viewer and the listener.
func (p *Publisher) Stop() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.stopCh)
	p.listener.Close()

	p.clientsMu.Lock()
	for conn := range p.clients {
		conn.Close()
	}
	p.clients = make(map[net.Conn]struct{})
	p.clientCount.Store(0)
	p.clientsMu.Unlock()

	p.wg.Wait()
	CleanupSocket(p.socketPath)
	p.logger.Info("📡 IPC publisher stopped")
}

// PublishSnapshot queues a frame without blocking the caller.
func (p *Publisher) PublishSnapshot(snapshot *game.GameSnapshot) {
	if !p.running.Load() {
		return
	}
	msg := SnapshotToMessage(snapshot)

	select {
	case p.snapshotCh <- msg:
	default:
		select {
		case <-p.snapshotCh:
			p.droppedFrames.Add(1)
		default:
		}
		select {
		case p.snapshotCh <- msg:
		default:
		}
	}
}

// PublisherStats are the publisher counters.
type PublisherStats struct {
	Clients int
	Sent    int64
	Dropped int64
}

// Stats returns publisher statistics.
func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		Clients: int(p.clientCount.Load()),
		Sent:    p.snapshotsSent.Load(),
		Dropped: p.droppedFrames.Load(),
	}
}

func (p *Publisher) acceptLoop() {
	defer p.wg.Done()

	for p.running.Load() {
		conn, err := p.listener.Accept()
		if err != nil {
			if !p.running.Load() {
				return
			}
			p.logger.Warn("⚠️ IPC accept error", zap.Error(err))
			continue
		}
		p.addClient(conn)
	}
}

func (p *Publisher) addClient(conn net.Conn) {
	p.clientsMu.Lock()
	p.clients[conn] = struct{}{}
	p.clientsMu.Unlock()

	count := p.clientCount.Add(1)
	p.logger.Info("✅ Viewer connected", zap.Int32("total", count))

	p.arenaMu.RLock()
	arena := p.arena
	p.arenaMu.RUnlock()
	p.sendArena(conn, arena)
}

func (p *Publisher) sendArena(conn net.Conn, arena *ArenaMessage) {
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	if err := WriteMessage(conn, MsgTypeArena, arena); err != nil {
		p.logger.Warn("⚠️ Failed to send arena to viewer", zap.Error(err))
		p.removeClient(conn)
	}
}

func (p *Publisher) removeClient(conn net.Conn) {
	p.clientsMu.Lock()
	_, ok := p.clients[conn]
	if ok {
		delete(p.clients, conn)
		conn.Close()
	}
	p.clientsMu.Unlock()

	if ok {
		count := p.clientCount.Add(-1)
		p.logger.Info("🔌 Viewer disconnected", zap.Int32("remaining", count))
	}
}

func (p *Publisher) clientList() []net.Conn {
	p.clientsMu.RLock()
	defer p.clientsMu.RUnlock()
	out := make([]net.Conn, 0, len(p.clients))
	for conn := range p.clients {
		out = append(out, conn)
	}
	return out
}

func (p *Publisher) broadcastLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case msg := <-p.snapshotCh:
			p.broadcast(msg)
		}
	}
}

func (p *Publisher) broadcast(msg *SnapshotMessage) {
	clients := p.clientList()

	var failed []net.Conn
	for _, conn := range clients {
		conn.SetWriteDeadline(time.Now().Add(WriteTimeout))
		if err := WriteMessage(conn, MsgTypeSnapshot, msg); err != nil {
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		p.removeClient(conn)
	}

	if len(clients) > 0 && len(failed) < len(clients) {
		p.snapshotsSent.Add(1)
	}
}
