package relay

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

// recordingSink stores remotes the way the engine would.
type recordingSink struct {
	mu      sync.Mutex
	remotes map[string]game.RemotePlayer
}

func newRecordingSink() *recordingSink {
	return &recordingSink{remotes: map[string]game.RemotePlayer{}}
}

func (s *recordingSink) ReplaceRemotes(ps []game.RemotePlayer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remotes = map[string]game.RemotePlayer{}
	for _, p := range ps {
		s.remotes[p.ID] = p
	}
}

func (s *recordingSink) UpsertRemote(p game.RemotePlayer) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remotes[p.ID] = p
	return true
}

func (s *recordingSink) MoveRemote(id string, pos geom.Vec3) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.remotes[id]
	if !ok {
		return false
	}
	p.Position = pos
	s.remotes[id] = p
	return true
}

func (s *recordingSink) SetRemoteScore(id string, score int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.remotes[id]
	if !ok {
		return false
	}
	p.Score = score
	s.remotes[id] = p
	return true
}

func (s *recordingSink) RemoveRemote(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.remotes[id]
	delete(s.remotes, id)
	return ok
}

func (s *recordingSink) get(id string) (game.RemotePlayer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.remotes[id]
	return p, ok
}

func (s *recordingSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.remotes)
}

func dialClient(t *testing.T, url string, sink RemoteSink) *Client {
	t.Helper()
	c, err := Dial(context.Background(), ClientConfig{URL: url}, sink)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.Eventually(t, func() bool { return c.ID() != "" }, 2*time.Second, 10*time.Millisecond)
	return c
}

// TestClientMirrorsOtherPlayers verifies join, move, score and leave.
func TestClientMirrorsOtherPlayers(t *testing.T) {
	_, url := startHub(t, nil)

	sinkA := newRecordingSink()
	a := dialClient(t, url, sinkA)
	sinkB := newRecordingSink()
	b := dialClient(t, url, sinkB)

	// each side sees only the other
	require.Eventually(t, func() bool { return sinkA.len() == 1 && sinkB.len() == 1 }, 2*time.Second, 10*time.Millisecond)
	_, selfSeen := sinkA.get(a.ID())
	assert.False(t, selfSeen)

	require.NoError(t, a.SendMovement(geom.V(5, 1.6, 5)))
	require.Eventually(t, func() bool {
		p, ok := sinkB.get(a.ID())
		return ok && p.Position == geom.V(5, 1.6, 5)
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, a.SendScore(25))
	require.Eventually(t, func() bool {
		p, _ := sinkB.get(a.ID())
		return p.Score == 25
	}, 2*time.Second, 10*time.Millisecond)

	b.Close()
	require.Eventually(t, func() bool { return sinkA.len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

// TestClientHandleEvent verifies engine events become relay messages.
func TestClientHandleEvent(t *testing.T) {
	_, url := startHub(t, nil)

	a := dialClient(t, url, newRecordingSink())
	watcher := dial(t, url)
	readUntil(t, watcher, EventCurrentPlayers)

	a.HandleEvent(game.Event{Type: game.EventTypePlayerMoved}, game.PlayerMovedPayload{Position: geom.V(1, 1.6, 2)})
	a.HandleEvent(game.Event{Type: game.EventTypeTick}, game.TickPayload{EnemyCount: 3})
	a.HandleEvent(game.Event{Type: game.EventTypeEnemyKilled}, game.EnemyKilledPayload{TotalScore: 35})

	env := readUntil(t, watcher, EventPlayerMoved)
	var moved movedMessage
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, a.ID(), moved.ID)
	assert.Equal(t, geom.V(1, 1.6, 2), moved.Position)

	env = readUntil(t, watcher, EventLeaderboardUpdate)
	var scores map[string]int
	require.NoError(t, json.Unmarshal(env.Data, &scores))
	assert.Equal(t, 35, scores[a.ID()])
}

// TestClientFeedsEngine wires a client into a real engine as its sink.
func TestClientFeedsEngine(t *testing.T) {
	_, url := startHub(t, nil)

	cfg := game.DefaultEngineConfig()
	cfg.InitialEnemies = 0
	engine := game.NewEngine(cfg)

	local := dialClient(t, url, engine)
	engine.OnEvent(local.HandleEvent)
	other := dialClient(t, url, newRecordingSink())

	require.NoError(t, other.SendMovement(geom.V(0, 1.6, -10)))
	require.Eventually(t, func() bool {
		engine.ProduceSnapshot()
		snap := engine.GetSnapshot()
		return len(snap.Remotes) == 1 && snap.Remotes[0].Position == geom.V(0, 1.6, -10)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientSendAfterClose(t *testing.T) {
	_, url := startHub(t, nil)
	c := dialClient(t, url, newRecordingSink())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.SendScore(1), ErrClientClosed)

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatal("Done was not closed")
	}
}

func TestDialBadURL(t *testing.T) {
	_, err := Dial(context.Background(), ClientConfig{URL: "ws://127.0.0.1:1/ws", DialTimeout: 200 * time.Millisecond}, newRecordingSink())
	assert.Error(t, err)
}
