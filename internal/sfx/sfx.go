// Package sfx synthesizes short tone cues for gameplay events and mixes them
// into a single beep stream.
package sfx

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"go.uber.org/zap"

	"arena-fps/internal/game"
)

// maxVoices caps concurrent cues; the oldest is dropped first.
const maxVoices = 8

type waveform uint8

const (
	sine waveform = iota
	square
	silence
)

// note is one segment of a cue.
type note struct {
	wave waveform
	freq float64
	dur  time.Duration
}

// cue is a short sequence of notes played at a relative gain.
type cue struct {
	notes []note
	gain  float64
}

var cues = map[game.EventType]cue{
	game.EventTypePlayerShot:    {gain: 0.6, notes: []note{{square, 880, 60 * time.Millisecond}}},
	game.EventTypeEnemyShot:     {gain: 0.35, notes: []note{{square, 330, 50 * time.Millisecond}}},
	game.EventTypeEnemyDamaged:  {gain: 0.5, notes: []note{{sine, 660, 40 * time.Millisecond}}},
	game.EventTypeBulletImpact:  {gain: 0.4, notes: []note{{sine, 200, 30 * time.Millisecond}}},
	game.EventTypePlayerDamaged: {gain: 0.8, notes: []note{{square, 110, 120 * time.Millisecond}}},
	game.EventTypeEnemyKilled: {gain: 0.7, notes: []note{
		{sine, 523, 70 * time.Millisecond},
		{sine, 659, 70 * time.Millisecond},
		{sine, 784, 90 * time.Millisecond},
	}},
	game.EventTypeTeleport: {gain: 0.5, notes: []note{
		{sine, 1200, 60 * time.Millisecond},
		{sine, 600, 60 * time.Millisecond},
	}},
	game.EventTypeReload: {gain: 0.5, notes: []note{
		{sine, 440, 30 * time.Millisecond},
		{silence, 0, 60 * time.Millisecond},
		{sine, 440, 30 * time.Millisecond},
	}},
	game.EventTypeGameStart: {gain: 0.6, notes: []note{
		{sine, 262, 100 * time.Millisecond},
		{sine, 392, 140 * time.Millisecond},
	}},
	game.EventTypeGameOver: {gain: 0.8, notes: []note{
		{sine, 392, 200 * time.Millisecond},
		{sine, 330, 200 * time.Millisecond},
		{sine, 262, 400 * time.Millisecond},
	}},
}

// voice is one playing cue with a linear fade-out.
type voice struct {
	s     beep.Streamer
	gain  float64
	pos   int
	total int
}

// Mixer sums active cues into one stereo beep.Streamer.
type Mixer struct {
	mu         sync.Mutex
	sampleRate beep.SampleRate
	volume     float64
	voices     []*voice
	scratch    [][2]float64
	logger     *zap.Logger
}

// NewMixer creates a mixer at sampleRate with a master volume in [0, 1].
func NewMixer(sampleRate int, volume float64, logger *zap.Logger) *Mixer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mixer{
		sampleRate: beep.SampleRate(sampleRate),
		volume:     volume,
		voices:     make([]*voice, 0, maxVoices),
		logger:     logger,
	}
}

// Format returns the stream format for speaker or encoder setup.
func (m *Mixer) Format() beep.Format {
	return beep.Format{SampleRate: m.sampleRate, NumChannels: 2, Precision: 2}
}

// SetVolume changes the master volume.
func (m *Mixer) SetVolume(v float64) {
	m.mu.Lock()
	m.volume = v
	m.mu.Unlock()
}

// Active returns how many cues are playing.
func (m *Mixer) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// HandleEvent queues the cue for an engine event. It is an engine listener
// and never blocks on audio output.
func (m *Mixer) HandleEvent(ev game.Event, _ any) {
	c, ok := cues[ev.Type]
	if !ok {
		return
	}
	m.play(c)
}

// play queues a cue, dropping the oldest voice when full.
func (m *Mixer) play(c cue) {
	s, total := m.build(c)
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.voices) >= maxVoices {
		copy(m.voices, m.voices[1:])
		m.voices = m.voices[:len(m.voices)-1]
	}
	m.voices = append(m.voices, &voice{s: s, gain: c.gain, total: total})
}

func (m *Mixer) build(c cue) (beep.Streamer, int) {
	parts := make([]beep.Streamer, 0, len(c.notes))
	total := 0
	for _, n := range c.notes {
		samples := m.sampleRate.N(n.dur)
		var (
			tone beep.Streamer
			err  error
		)
		switch n.wave {
		case sine:
			tone, err = generators.SineTone(m.sampleRate, n.freq)
		case square:
			tone, err = generators.SquareTone(m.sampleRate, n.freq)
		default:
			tone = generators.Silence(samples)
		}
		if err != nil {
			m.logger.Warn("⚠️ Cue note skipped", zap.Float64("freq", n.freq), zap.Error(err))
			return nil, 0
		}
		parts = append(parts, beep.Take(samples, tone))
		total += samples
	}
	return beep.Seq(parts...), total
}

// Stream implements beep.Streamer. It never runs dry; silence fills gaps.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range samples {
		samples[i] = [2]float64{}
	}
	if cap(m.scratch) < len(samples) {
		m.scratch = make([][2]float64, len(samples))
	}
	buf := m.scratch[:len(samples)]

	live := m.voices[:0]
	for _, v := range m.voices {
		n, ok := v.s.Stream(buf)
		for i := 0; i < n; i++ {
			// fade out over the cue to avoid clicks at the tail
			g := v.gain * (1 - float64(v.pos+i)/float64(v.total+1))
			samples[i][0] += buf[i][0] * g
			samples[i][1] += buf[i][1] * g
		}
		v.pos += n
		if ok && v.pos < v.total {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(m.voices); i++ {
		m.voices[i] = nil
	}
	m.voices = live

	for i := range samples {
		samples[i][0] = softClip(samples[i][0] * m.volume)
		samples[i][1] = softClip(samples[i][1] * m.volume)
	}
	return len(samples), true
}

// Err implements beep.Streamer.
func (m *Mixer) Err() error { return nil }

// ReadSamples fills buffer with interleaved stereo int16 PCM.
func (m *Mixer) ReadSamples(buffer []int16) int {
	frames := make([][2]float64, len(buffer)/2)
	m.Stream(frames)
	for i, f := range frames {
		buffer[i*2] = floatToInt16(f[0])
		buffer[i*2+1] = floatToInt16(f[1])
	}
	return len(frames) * 2
}

// softClip compresses peaks above 0.9 and hard limits at 1.
func softClip(x float64) float64 {
	switch {
	case x > 0.9:
		x = 0.9 + (x-0.9)/4
	case x < -0.9:
		x = -0.9 + (x+0.9)/4
	}
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

func floatToInt16(sample float64) int16 {
	return int16(softClip(sample) * 32767)
}
