// Package tui renders the arena in a terminal and maps terminal input onto
// engine actions.
package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

const (
	defaultFOV  = math.Pi / 3
	viewRange   = 120.0
	hudRows     = 2
	wallScale   = 1.2 // wall rows per unit of inverse distance, times screen height
	spriteScale = 0.9
)

var (
	styleDefault = tcell.StyleDefault
	styleSky     = tcell.StyleDefault.Background(tcell.NewRGBColor(20, 24, 36))
	styleFloor   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(70, 80, 60))
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 62, 62))
	styleSeen    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(255, 149, 0))
	styleRemote  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(80, 160, 255))
	stylePlayer  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(83, 255, 69))
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleWarn    = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
)

// wallColor shades obstacles by kind, like the minimap.
func wallColor(k game.ObstacleKind) tcell.Color {
	switch k {
	case game.KindWall:
		return tcell.NewRGBColor(150, 150, 160)
	case game.KindBuilding, game.KindBunker:
		return tcell.NewRGBColor(125, 118, 110)
	case game.KindTower, game.KindWatchTowerPlatform:
		return tcell.NewRGBColor(150, 115, 80)
	case game.KindHill:
		return tcell.NewRGBColor(80, 110, 60)
	case game.KindCrate, game.KindBarrel:
		return tcell.NewRGBColor(190, 140, 80)
	default:
		return tcell.NewRGBColor(170, 170, 150)
	}
}

// shade picks a block glyph by distance.
func shade(dist float64) rune {
	switch {
	case dist < 8:
		return '█'
	case dist < 20:
		return '▓'
	case dist < 45:
		return '▒'
	default:
		return '░'
	}
}

// View draws snapshots onto a tcell screen, either first person or as a map.
type View struct {
	screen    tcell.Screen
	obstacles *game.ObstacleRegistry
	fov       float64
	showMap   bool
	arenaHalf float64
	zbuf      []float64
	status    string
}

// NewView creates a first-person view over the given obstacle layout.
func NewView(screen tcell.Screen, obstacles []game.Obstacle, arenaSize float64) *View {
	return &View{
		screen:    screen,
		obstacles: game.NewObstacleRegistry(obstacles),
		fov:       defaultFOV,
		arenaHalf: arenaSize / 2,
	}
}

// ToggleMap switches between first person and the overhead map.
func (v *View) ToggleMap() { v.showMap = !v.showMap }

// ShowingMap reports whether the overhead map is active.
func (v *View) ShowingMap() bool { return v.showMap }

// SetStatus sets a one-line message shown under the HUD.
func (v *View) SetStatus(msg string) { v.status = msg }

// Draw renders snap and shows the frame.
func (v *View) Draw(snap game.GameSnapshot) {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= hudRows {
		return
	}
	if v.showMap {
		v.drawMap(snap, w, h-hudRows)
	} else {
		v.drawFirstPerson(snap, w, h-hudRows)
	}
	v.drawHUD(snap, w, h)
	v.screen.Show()
}

func (v *View) basis(yaw float64) (fwd, right geom.Vec3) {
	s, c := math.Sincos(yaw)
	return geom.V(-s, 0, -c), geom.V(c, 0, -s)
}

func (v *View) drawFirstPerson(snap game.GameSnapshot, w, h int) {
	if cap(v.zbuf) < w {
		v.zbuf = make([]float64, w)
	}
	v.zbuf = v.zbuf[:w]

	eye := snap.Player.Position
	yaw := snap.Player.Yaw
	horizon := h / 2

	for x := 0; x < w; x++ {
		offset := v.fov * (0.5 - (float64(x)+0.5)/float64(w))
		a := yaw + offset
		s, c := math.Sincos(a)
		dir := geom.V(-s, 0, -c)

		dist := viewRange
		kind := game.KindWall
		hit, ok := v.obstacles.Raycast(eye, dir, viewRange)
		if ok {
			dist = hit.Distance
			kind = v.obstacles.At(hit.Index).Kind
		}
		// remove fisheye
		perp := math.Max(0.1, dist*math.Cos(offset))
		v.zbuf[x] = perp

		rows := 0
		if ok {
			rows = int(float64(h) * wallScale / perp)
		}
		top := horizon - rows/2
		bottom := horizon + rows/2
		style := styleDefault.Foreground(wallColor(kind))
		for y := 0; y < h; y++ {
			switch {
			case y >= top && y <= bottom && ok:
				v.screen.SetContent(x, y, shade(perp), nil, style)
			case y > horizon:
				v.screen.SetContent(x, y, '.', nil, styleFloor)
			default:
				v.screen.SetContent(x, y, ' ', nil, styleSky)
			}
		}
	}

	for _, e := range snap.Enemies {
		style := styleEnemy
		if e.Visible {
			style = styleSeen
		}
		v.drawSprite(eye, yaw, e.Position, 'E', style, w, h)
	}
	for _, r := range snap.Remotes {
		v.drawSprite(eye, yaw, r.Position, 'P', styleRemote, w, h)
	}

	v.screen.SetContent(w/2, horizon, '+', nil, stylePlayer)
}

// drawSprite projects a world point into the view and draws a column of
// glyphs in front of nearer walls.
func (v *View) drawSprite(eye geom.Vec3, yaw float64, pos geom.Vec3, glyph rune, style tcell.Style, w, h int) {
	fwd, right := v.basis(yaw)
	rel := pos.Sub(eye).Horizontal()
	depth := rel.Dot(fwd)
	if depth < 0.3 {
		return
	}
	side := rel.Dot(right)
	half := float64(w) / 2
	sx := int(half + side/depth*half/math.Tan(v.fov/2))
	size := int(float64(h) * spriteScale / depth)
	if size < 1 {
		size = 1
	}
	horizon := h / 2
	for dx := -size / 4; dx <= size/4; dx++ {
		x := sx + dx
		if x < 0 || x >= w || depth >= v.zbuf[x] {
			continue
		}
		for y := horizon - size/2; y <= horizon+size/2; y++ {
			if y >= 0 && y < h {
				v.screen.SetContent(x, y, glyph, nil, style)
			}
		}
	}
}

// toCell maps world X/Z to a map cell.
func (v *View) toCell(p geom.Vec3, w, h int) (int, int) {
	x := int((p.X + v.arenaHalf) / (2 * v.arenaHalf) * float64(w))
	y := int((p.Z + v.arenaHalf) / (2 * v.arenaHalf) * float64(h))
	return x, y
}

func (v *View) drawMap(snap game.GameSnapshot, w, h int) {
	for i := 0; i < v.obstacles.Len(); i++ {
		o := v.obstacles.At(i)
		x0, y0 := v.toCell(o.Box.Min, w, h)
		x1, y1 := v.toCell(o.Box.Max, w, h)
		style := styleDefault.Foreground(wallColor(o.Kind))
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if x >= 0 && x < w && y >= 0 && y < h {
					v.screen.SetContent(x, y, '#', nil, style)
				}
			}
		}
	}
	put := func(p geom.Vec3, r rune, s tcell.Style) {
		x, y := v.toCell(p, w, h)
		if x >= 0 && x < w && y >= 0 && y < h {
			v.screen.SetContent(x, y, r, nil, s)
		}
	}
	for _, e := range snap.Enemies {
		put(e.Position, 'E', styleEnemy)
	}
	for _, r := range snap.Remotes {
		put(r.Position, 'P', styleRemote)
	}
	put(snap.Player.Position, headingGlyph(snap.Player.Yaw), stylePlayer)
}

// headingGlyph picks an arrow for the player's yaw; yaw 0 faces north (-Z).
func headingGlyph(yaw float64) rune {
	a := math.Mod(yaw, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	switch int(math.Round(a/(math.Pi/2))) % 4 {
	case 0:
		return '^'
	case 1:
		return '<'
	case 2:
		return 'v'
	default:
		return '>'
	}
}

func (v *View) drawHUD(snap game.GameSnapshot, w, h int) {
	p := snap.Player
	ammo := fmt.Sprintf("%d/%d", p.Ammo, p.MaxAmmo)
	if p.Reloading {
		ammo = fmt.Sprintf("reloading %d%%", int(p.ReloadProgress*100))
	}
	line := fmt.Sprintf(" HP %3d/%d  AMMO %s  SCORE %d  KILLS %d  ENEMIES %d", p.Health, p.MaxHealth, ammo, p.Score, p.Kills, len(snap.Enemies))
	drawText(v.screen, 0, h-2, w, line, styleHUD)

	msg, style := v.status, styleHUD
	switch {
	case snap.GameOver:
		msg, style = fmt.Sprintf(" GAME OVER  score %d  [enter] restart  [q] quit", p.Score), styleWarn
	case !snap.Active:
		msg = " [enter] start  wasd move  arrows turn  space fire  j jump  r reload  tab map  q quit"
	}
	drawText(v.screen, 0, h-1, w, msg, style)
}

func drawText(s tcell.Screen, x, y, maxW int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxW {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
