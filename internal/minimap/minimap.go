// Package minimap draws a top-down view of a game snapshot. North (-Z) is
// up; one image spans the whole arena.
package minimap

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

var (
	colorBackground = color.RGBA{24, 28, 22, 255}
	colorGrid       = color.RGBA{40, 46, 38, 255}
	colorPlayer     = color.RGBA{83, 255, 69, 255}
	colorRemote     = color.RGBA{80, 160, 255, 255}
	colorEnemy      = color.RGBA{255, 62, 62, 255}
	colorEnemySeen  = color.RGBA{255, 149, 0, 255} // has line of sight
	colorText       = color.RGBA{230, 230, 230, 255}
)

// obstacleColor shades obstacles by kind.
func obstacleColor(k game.ObstacleKind) color.RGBA {
	switch k {
	case game.KindWall:
		return color.RGBA{120, 120, 130, 255}
	case game.KindBuilding, game.KindBunker:
		return color.RGBA{95, 90, 85, 255}
	case game.KindTower, game.KindWatchTowerPlatform:
		return color.RGBA{110, 85, 60, 255}
	case game.KindHill:
		return color.RGBA{60, 80, 45, 255}
	case game.KindCrate, game.KindBarrel:
		return color.RGBA{150, 110, 60, 255}
	default:
		return color.RGBA{140, 140, 120, 255}
	}
}

// effectColor picks a colour for an effect kind name.
func effectColor(kind string) color.RGBA {
	switch kind {
	case "enemy_trail":
		return color.RGBA{255, 80, 80, 255}
	case "player_trail":
		return color.RGBA{255, 255, 120, 255}
	case "explosion":
		return color.RGBA{255, 140, 0, 255}
	case "teleport":
		return color.RGBA{170, 90, 255, 255}
	default:
		return color.RGBA{255, 255, 255, 255}
	}
}

// Renderer draws snapshots into a reused square canvas.
type Renderer struct {
	size      int
	arenaSize float64
	dc        *gg.Context
}

// NewRenderer creates a renderer producing size×size images of an arena
// arenaSize units across, centred on the origin.
func NewRenderer(size int, arenaSize float64) *Renderer {
	return &Renderer{
		size:      size,
		arenaSize: arenaSize,
		dc:        gg.NewContext(size, size),
	}
}

// Size returns the image edge in pixels.
func (r *Renderer) Size() int { return r.size }

// toPixel maps world X/Z to image coordinates.
func (r *Renderer) toPixel(p geom.Vec3) (float64, float64) {
	scale := float64(r.size) / r.arenaSize
	half := r.arenaSize / 2
	return (p.X + half) * scale, (p.Z + half) * scale
}

func (r *Renderer) scale() float64 { return float64(r.size) / r.arenaSize }

// Render draws snap over the obstacle layout. The returned image is reused
// by the next call.
func (r *Renderer) Render(snap *game.GameSnapshot, obstacles []game.Obstacle) image.Image {
	dc := r.dc
	dc.SetColor(colorBackground)
	dc.Clear()

	r.drawGrid()
	r.drawObstacles(obstacles)
	if snap != nil {
		r.drawEffects(snap.Effects)
		r.drawEnemies(snap.Enemies)
		r.drawRemotes(snap.Remotes)
		r.drawPlayer(snap.Player)
		r.drawHUD(snap)
	}
	return dc.Image()
}

// SavePNG renders and writes a PNG to path.
func (r *Renderer) SavePNG(path string, snap *game.GameSnapshot, obstacles []game.Obstacle) error {
	r.Render(snap, obstacles)
	return r.dc.SavePNG(path)
}

func (r *Renderer) drawGrid() {
	dc := r.dc
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	step := 10 * r.scale()
	for x := 0.0; x <= float64(r.size); x += step {
		dc.DrawLine(x, 0, x, float64(r.size))
		dc.Stroke()
	}
	for y := 0.0; y <= float64(r.size); y += step {
		dc.DrawLine(0, y, float64(r.size), y)
		dc.Stroke()
	}
}

func (r *Renderer) drawObstacles(obstacles []game.Obstacle) {
	dc := r.dc
	for _, o := range obstacles {
		x0, y0 := r.toPixel(o.Box.Min)
		x1, y1 := r.toPixel(o.Box.Max)
		dc.SetColor(obstacleColor(o.Kind))
		dc.DrawRectangle(x0, y0, math.Max(1, x1-x0), math.Max(1, y1-y0))
		dc.Fill()
	}
}

func (r *Renderer) drawEffects(effects []game.EffectSnapshot) {
	dc := r.dc
	for _, f := range effects {
		c := effectColor(f.Kind)
		c.A = uint8(255 * math.Max(0, math.Min(1, f.Alpha)))
		dc.SetColor(c)

		x, y := r.toPixel(f.Pos)
		switch f.Kind {
		case "enemy_trail", "player_trail":
			ex, ey := r.toPixel(f.End)
			dc.SetLineWidth(1)
			dc.DrawLine(x, y, ex, ey)
			dc.Stroke()
		case "explosion", "teleport":
			dc.DrawCircle(x, y, 2*r.scale()*(1.5-f.Alpha))
			dc.Fill()
		default:
			dc.DrawCircle(x, y, 1.5)
			dc.Fill()
		}
	}
}

func (r *Renderer) drawEnemies(enemies []game.EnemySnapshot) {
	dc := r.dc
	radius := math.Max(2, 0.6*r.scale())
	for _, e := range enemies {
		x, y := r.toPixel(e.Position)
		if e.Visible {
			dc.SetColor(colorEnemySeen)
		} else {
			dc.SetColor(colorEnemy)
		}
		dc.DrawCircle(x, y, radius)
		dc.Fill()

		// facing tick
		fx, fy := x+e.Facing.X*radius*2, y+e.Facing.Z*radius*2
		dc.SetLineWidth(1.5)
		dc.DrawLine(x, y, fx, fy)
		dc.Stroke()

		// health bar
		if e.MaxHealth > 0 {
			frac := float64(e.Health) / float64(e.MaxHealth)
			dc.SetColor(color.RGBA{51, 51, 51, 255})
			dc.DrawRectangle(x-radius, y-radius-4, radius*2, 2)
			dc.Fill()
			dc.SetColor(colorPlayer)
			dc.DrawRectangle(x-radius, y-radius-4, radius*2*frac, 2)
			dc.Fill()
		}
	}
}

func (r *Renderer) drawRemotes(remotes []game.RemoteSnapshot) {
	dc := r.dc
	radius := math.Max(2, 0.4*r.scale())
	dc.SetColor(colorRemote)
	for _, p := range remotes {
		x, y := r.toPixel(p.Position)
		dc.DrawCircle(x, y, radius)
		dc.Fill()
	}
}

func (r *Renderer) drawPlayer(p game.PlayerSnapshot) {
	dc := r.dc
	radius := math.Max(2, 0.4*r.scale())
	x, y := r.toPixel(p.Position)

	// view cone
	s, c := math.Sincos(p.Yaw)
	fx, fz := -s, -c
	reach := 8 * r.scale()
	dc.SetColor(color.RGBA{83, 255, 69, 60})
	dc.MoveTo(x, y)
	for _, a := range []float64{-0.5, 0.5} {
		sa, ca := math.Sincos(a)
		dx := fx*ca - fz*sa
		dz := fx*sa + fz*ca
		dc.LineTo(x+dx*reach, y+dz*reach)
	}
	dc.ClosePath()
	dc.Fill()

	dc.SetColor(colorPlayer)
	if p.IsDead {
		dc.SetLineWidth(2)
		dc.DrawLine(x-radius, y-radius, x+radius, y+radius)
		dc.Stroke()
		dc.DrawLine(x+radius, y-radius, x-radius, y+radius)
		dc.Stroke()
		return
	}
	dc.DrawCircle(x, y, radius)
	dc.Fill()
}

func (r *Renderer) drawHUD(snap *game.GameSnapshot) {
	dc := r.dc
	p := snap.Player
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("HP %d  AMMO %d/%d  SCORE %d  KILLS %d", p.Health, p.Ammo, p.MaxAmmo, p.Score, p.Kills), 8, 16)
	dc.DrawString(fmt.Sprintf("tick %d  enemies %d", snap.TickNumber, len(snap.Enemies)), 8, 30)
	if snap.GameOver {
		dc.SetColor(colorEnemy)
		dc.DrawStringAnchored("GAME OVER", float64(r.size)/2, float64(r.size)/2, 0.5, 0.5)
	}
}
