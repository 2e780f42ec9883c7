package game

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestEventLogFlushesOnStop(t *testing.T) {
	var buf bytes.Buffer
	el := NewEventLog(nil)
	require.NoError(t, el.StartWriter(&buf))

	for i := 0; i < 5; i++ {
		assert.True(t, el.Emit(Event{Type: EventTypeEnemyShot, EntityID: "enemy-1"}))
	}
	el.Stop()

	var seqs []uint64
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var ev Event
		require.NoError(t, json.Unmarshal(sc.Bytes(), &ev))
		seqs = append(seqs, ev.Sequence)
	}
	assert.Equal(t, []uint64{1, 2, 3, 4, 5}, seqs)

	stats := el.Stats()
	assert.Equal(t, uint64(5), stats.Total)
	assert.Equal(t, uint64(5), stats.Written)
	assert.False(t, stats.Running)
}

func TestEventLogEmitWhenNotRunning(t *testing.T) {
	el := NewEventLog(nil)
	if el.Emit(Event{Type: EventTypeGameStart}) {
		t.Error("Expected emit before start to be refused")
	}
}

func TestEventLogCannotRestartAfterStop(t *testing.T) {
	el := NewEventLog(nil)
	require.NoError(t, el.StartWriter(nil))
	el.Stop()

	var buf bytes.Buffer
	if err := el.StartWriter(&buf); !errors.Is(err, ErrEventLogStopped) {
		t.Errorf("Expected ErrEventLogStopped, got %v", err)
	}
	path := filepath.Join(t.TempDir(), "events.jsonl")
	if err := el.Start(path); !errors.Is(err, ErrEventLogStopped) {
		t.Errorf("Expected ErrEventLogStopped from Start, got %v", err)
	}
	if el.Emit(Event{Type: EventTypeGameStart}) {
		t.Error("Expected emit after stop to be refused")
	}
	assert.False(t, el.Stats().Running)

	// A second Stop is a no-op.
	el.Stop()
}

func TestEventLogDropsOldestWhenFull(t *testing.T) {
	el := NewEventLog(nil)
	el.globalLimiter = rate.NewLimiter(rate.Inf, 0)
	el.running.Store(true)
	defer el.running.Store(false)

	for i := 0; i < EventBufferSize+10; i++ {
		el.Emit(Event{Type: EventTypeTick})
	}
	stats := el.Stats()
	assert.Equal(t, uint64(EventBufferSize), stats.Pending)
	assert.Equal(t, uint64(10), stats.Dropped)
}
