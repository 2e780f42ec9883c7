package tui

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"arena-fps/internal/game"
)

type fakeActions struct {
	active  bool
	starts  int
	moves   []string
	turns   [][2]float64
	jumps   int
	fires   int
	fireErr error
	reload  error
}

func (f *fakeActions) StartGame()     { f.starts++; f.active = true }
func (f *fakeActions) IsActive() bool { return f.active }
func (f *fakeActions) SetMove(key game.MoveKey, down bool) {
	state := "up"
	if down {
		state = "down"
	}
	f.moves = append(f.moves, map[game.MoveKey]string{
		game.KeyForward: "forward", game.KeyBackward: "backward",
		game.KeyLeft: "left", game.KeyRight: "right",
	}[key]+" "+state)
}
func (f *fakeActions) Turn(dYaw, dPitch float64) { f.turns = append(f.turns, [2]float64{dYaw, dPitch}) }
func (f *fakeActions) Jump() bool                { f.jumps++; return true }
func (f *fakeActions) Reload() error             { return f.reload }
func (f *fakeActions) Fire() (game.ShotReport, error) {
	f.fires++
	return game.ShotReport{}, f.fireErr
}

func key(r rune) *tcell.EventKey { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

// TestHeldKeyReleasesAfterRepeatStops verifies auto-repeat keeps a key down
// and silence releases it.
func TestHeldKeyReleasesAfterRepeatStops(t *testing.T) {
	f := &fakeActions{active: true}
	c := NewController(f, nil)
	now := time.Unix(0, 0)
	c.now = func() time.Time { return now }

	c.HandleEvent(key('w'))
	now = now.Add(50 * time.Millisecond)
	c.HandleEvent(key('w')) // repeat
	assert.Equal(t, []string{"forward down"}, f.moves)

	now = now.Add(100 * time.Millisecond)
	c.ReleaseExpired()
	assert.Equal(t, []string{"forward down"}, f.moves)

	now = now.Add(keyHold)
	c.ReleaseExpired()
	assert.Equal(t, []string{"forward down", "forward up"}, f.moves)
}

func TestEnterStartsOnlyWhenIdle(t *testing.T) {
	f := &fakeActions{}
	c := NewController(f, nil)

	c.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	c.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, 1, f.starts)
}

func TestQuitKeys(t *testing.T) {
	c := NewController(&fakeActions{}, nil)
	assert.False(t, c.HandleEvent(key('q')))
	assert.False(t, c.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
	assert.True(t, c.HandleEvent(key('j')))
}

func TestArrowsTurn(t *testing.T) {
	f := &fakeActions{}
	c := NewController(f, nil)
	c.HandleEvent(tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone))
	c.HandleEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	assert.Equal(t, [][2]float64{{turnStep, 0}, {0, pitchStep}}, f.turns)
}

func TestFireOutOfAmmoSetsStatus(t *testing.T) {
	s := newScreen(t)
	v := NewView(s, nil, 150)
	f := &fakeActions{active: true, fireErr: game.ErrOutOfAmmo}
	c := NewController(f, v)

	c.HandleEvent(key(' '))
	assert.Equal(t, 1, f.fires)
	assert.Contains(t, v.status, "out of ammo")

	f.reload = game.ErrMagazineFull
	c.HandleEvent(key('r'))
	assert.Contains(t, v.status, "magazine full")
}

func TestMouseTurnsAndFires(t *testing.T) {
	f := &fakeActions{active: true}
	c := NewController(f, nil)

	c.HandleEvent(tcell.NewEventMouse(10, 5, tcell.ButtonNone, tcell.ModNone))
	c.HandleEvent(tcell.NewEventMouse(12, 5, tcell.Button1, tcell.ModNone))
	c.HandleEvent(tcell.NewEventMouse(12, 5, tcell.Button1, tcell.ModNone))

	assert.Equal(t, 1, f.fires)
	assert.Len(t, f.turns, 1)
	assert.Less(t, f.turns[0][0], 0.0)
}
