package tui

import (
	"errors"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"arena-fps/internal/game"
)

const (
	// Terminals report presses only, so a held key is a press refreshed by
	// auto-repeat. keyHold must outlast the repeat interval.
	keyHold   = 180 * time.Millisecond
	turnStep  = 0.06
	pitchStep = 0.04
	mouseTurn = 0.01
)

// Actions is the part of the engine the controller drives.
type Actions interface {
	StartGame()
	IsActive() bool
	SetMove(key game.MoveKey, down bool)
	Turn(dYaw, dPitch float64)
	Jump() bool
	Reload() error
	Fire() (game.ShotReport, error)
}

// Controller turns terminal events into engine actions.
type Controller struct {
	actions Actions
	view    *View
	held    map[game.MoveKey]time.Time
	now     func() time.Time

	mouseX, mouseY int
	mouseSeen      bool
	mouseDown      bool
}

// NewController creates a controller. view may be nil.
func NewController(actions Actions, view *View) *Controller {
	return &Controller{
		actions: actions,
		view:    view,
		held:    make(map[game.MoveKey]time.Time),
		now:     time.Now,
	}
}

var moveKeys = map[rune]game.MoveKey{
	'w': game.KeyForward, 'W': game.KeyForward,
	's': game.KeyBackward, 'S': game.KeyBackward,
	'a': game.KeyLeft, 'A': game.KeyLeft,
	'd': game.KeyRight, 'D': game.KeyRight,
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (c *Controller) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return c.handleKey(ev)
	case *tcell.EventMouse:
		c.handleMouse(ev)
	}
	return true
}

func (c *Controller) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyEnter:
		if !c.actions.IsActive() {
			c.actions.StartGame()
			c.status("")
		}
	case tcell.KeyTab:
		if c.view != nil {
			c.view.ToggleMap()
		}
	case tcell.KeyLeft:
		c.actions.Turn(turnStep, 0)
	case tcell.KeyRight:
		c.actions.Turn(-turnStep, 0)
	case tcell.KeyUp:
		c.actions.Turn(0, pitchStep)
	case tcell.KeyDown:
		c.actions.Turn(0, -pitchStep)
	case tcell.KeyRune:
		return c.handleRune(ev.Rune())
	}
	return true
}

func (c *Controller) handleRune(r rune) bool {
	if key, ok := moveKeys[r]; ok {
		c.press(key)
		return true
	}
	switch r {
	case 'q', 'Q':
		return false
	case ' ':
		c.fire()
	case 'j', 'J':
		c.actions.Jump()
	case 'r', 'R':
		switch err := c.actions.Reload(); {
		case errors.Is(err, game.ErrMagazineFull):
			c.status(" magazine full")
		case err == nil:
			c.status(" reloading...")
		}
	}
	return true
}

// handleMouse turns with horizontal motion and fires on a left press.
func (c *Controller) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	if c.mouseSeen {
		dx, dy := x-c.mouseX, y-c.mouseY
		if dx != 0 || dy != 0 {
			c.actions.Turn(-float64(dx)*mouseTurn*4, -float64(dy)*mouseTurn*2)
		}
	}
	c.mouseX, c.mouseY, c.mouseSeen = x, y, true

	down := ev.Buttons()&tcell.Button1 != 0
	if down && !c.mouseDown {
		c.fire()
	}
	c.mouseDown = down
}

func (c *Controller) fire() {
	report, err := c.actions.Fire()
	switch {
	case errors.Is(err, game.ErrOutOfAmmo):
		c.status(" out of ammo, press r")
	case err != nil:
	case report.Killed:
		c.status(" kill! +" + strconv.Itoa(report.Awarded))
	case report.Hit && report.Target == "enemy":
		c.status(" hit")
	default:
		c.status("")
	}
}

func (c *Controller) press(key game.MoveKey) {
	if _, down := c.held[key]; !down {
		c.actions.SetMove(key, true)
	}
	c.held[key] = c.now().Add(keyHold)
}

// ReleaseExpired releases movement keys whose auto-repeat stopped. Call it
// once per frame.
func (c *Controller) ReleaseExpired() {
	now := c.now()
	for key, until := range c.held {
		if now.After(until) {
			c.actions.SetMove(key, false)
			delete(c.held, key)
		}
	}
}

func (c *Controller) status(msg string) {
	if c.view != nil {
		c.view.SetStatus(msg)
	}
}
