package sfx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-fps/internal/game"
)

func event(t game.EventType) game.Event {
	return game.NewEvent(t, 1, "", nil, time.Now())
}

func peak(buf []int16) int {
	max := 0
	for _, s := range buf {
		v := int(s)
		if v < 0 {
			v = -v
		}
		if v > max {
			max = v
		}
	}
	return max
}

// TestHandleEventQueuesCue verifies gameplay events start a cue and ticks do not.
func TestHandleEventQueuesCue(t *testing.T) {
	m := NewMixer(44100, 1, nil)

	m.HandleEvent(event(game.EventTypeTick), nil)
	m.HandleEvent(event(game.EventTypePlayerMoved), nil)
	assert.Equal(t, 0, m.Active())

	m.HandleEvent(event(game.EventTypePlayerShot), nil)
	assert.Equal(t, 1, m.Active())
}

// TestCuePlaysThenEnds verifies a cue is audible and then released.
func TestCuePlaysThenEnds(t *testing.T) {
	m := NewMixer(44100, 1, nil)
	m.HandleEvent(event(game.EventTypePlayerShot), nil)

	buf := make([]int16, 2*441) // 10ms
	assert.Equal(t, len(buf), m.ReadSamples(buf))
	assert.Greater(t, peak(buf), 1000)

	// 60ms cue; drain well past it
	for i := 0; i < 10; i++ {
		m.ReadSamples(buf)
	}
	assert.Equal(t, 0, m.Active())
	m.ReadSamples(buf)
	assert.Equal(t, 0, peak(buf))
}

func TestVoiceCapDropsOldest(t *testing.T) {
	m := NewMixer(44100, 1, nil)
	for i := 0; i < maxVoices+5; i++ {
		m.HandleEvent(event(game.EventTypeGameOver), nil)
	}
	assert.Equal(t, maxVoices, m.Active())
}

func TestZeroVolumeIsSilent(t *testing.T) {
	m := NewMixer(44100, 0, nil)
	m.HandleEvent(event(game.EventTypeEnemyKilled), nil)

	buf := make([]int16, 2*441)
	m.ReadSamples(buf)
	assert.Equal(t, 0, peak(buf))
}

// TestMixerAsEngineListener verifies cues follow a real session.
func TestMixerAsEngineListener(t *testing.T) {
	cfg := game.DefaultEngineConfig()
	cfg.Seed = 3
	cfg.InitialEnemies = 1
	e := game.NewEngine(cfg)

	m := NewMixer(22050, 0.5, nil)
	e.OnEvent(m.HandleEvent)
	e.StartGame()
	e.Tick(0.016)

	require.GreaterOrEqual(t, m.Active(), 1)
}

func TestSoftClip(t *testing.T) {
	assert.Equal(t, 0.5, softClip(0.5))
	assert.Equal(t, 1.0, softClip(10))
	assert.Equal(t, -1.0, softClip(-10))
	assert.InDelta(t, 0.925, softClip(1.0), 1e-9)
	assert.Equal(t, int16(32767), floatToInt16(5))
}
