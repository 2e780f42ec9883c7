package game

import (
	"math"

	"arena-fps/internal/game/geom"
)

const (
	positionWindowSize = 5
	minStuckSamples    = 3
	cornerEscapeHits   = 3
	cornerEscapeStep   = 1.5
	slideMinAxis       = 0.001
	teleportAttempts   = 10
	teleportMinDist    = 3.0
	teleportSpread     = 5.0
	teleportJitter     = 0.5
)

// slideFactors are tried in order on the other axis when one axis is blocked.
var slideFactors = [4]float64{0.8, -0.8, 1.2, -1.2}

// cornerDirections are the eight escape headings, diagonals pre-scaled.
var cornerDirections = [8]geom.Vec3{
	{X: 1}, {X: -1}, {Z: 1}, {Z: -1},
	{X: 0.7, Z: 0.7}, {X: -0.7, Z: 0.7}, {X: 0.7, Z: -0.7}, {X: -0.7, Z: -0.7},
}

type stuckState struct {
	isStuck    bool
	stuckTime  float64
	severeTime float64
	wallHits   int
}

// positionWindow is a fixed-size ring of recent positions (oldest first).
type positionWindow struct {
	points [positionWindowSize]geom.Vec3
	write  int
	count  int
}

func (w *positionWindow) push(p geom.Vec3) {
	w.points[w.write] = p
	w.write = (w.write + 1) % len(w.points)
	if w.count < len(w.points) {
		w.count++
	}
}

func (w *positionWindow) len() int { return w.count }

func (w *positionWindow) reset() { *w = positionWindow{} }

// totalMovement sums the distance between consecutive samples.
func (w *positionWindow) totalMovement() float64 {
	if w.count < 2 {
		return 0
	}
	start := w.write - w.count
	if start < 0 {
		start += len(w.points)
	}
	total := 0.0
	prev := w.points[start]
	for i := 1; i < w.count; i++ {
		cur := w.points[(start+i)%len(w.points)]
		total += cur.Dist(prev)
		prev = cur
	}
	return total
}

// trackPosition records the current position and flags the enemy as stuck
// when it has barely moved across the window.
func (e *Enemy) trackPosition() {
	e.positions.push(e.Position)
	if e.positions.len() >= minStuckSamples && e.positions.totalMovement() < e.Tuning.StuckDistance {
		e.stuck.isStuck = true
	}
}

// tryMoveWithSlide moves by (dx, dz) unless that collides, in which case it
// tries sliding along the other axis. Returns true when every attempt failed
// and the enemy did not move.
func (e *Enemy) tryMoveWithSlide(dx, dz float64, obstacles *ObstacleRegistry) bool {
	orig := e.Position
	next := orig.Add(geom.V(dx, 0, dz))
	if !obstacles.Collides(e.boxAt(next)) {
		e.Position = next
		return false
	}

	if math.Abs(dx) > slideMinAxis {
		for _, f := range slideFactors {
			next = orig.Add(geom.V(0, 0, f*math.Abs(dx)))
			if !obstacles.Collides(e.boxAt(next)) {
				e.Position = next
				return false
			}
		}
	}
	if math.Abs(dz) > slideMinAxis {
		for _, f := range slideFactors {
			next = orig.Add(geom.V(f*math.Abs(dz), 0, 0))
			if !obstacles.Collides(e.boxAt(next)) {
				e.Position = next
				return false
			}
		}
	}

	e.Position = orig
	return true
}

// cornerEscape tries the eight headings in random order and takes the first
// clear step.
func (e *Enemy) cornerEscape(obstacles *ObstacleRegistry) bool {
	order := e.rng.Perm(len(cornerDirections))
	for _, i := range order {
		next := e.Position.Add(cornerDirections[i].Scale(cornerEscapeStep))
		if !obstacles.Collides(e.boxAt(next)) {
			e.Position = next
			return true
		}
	}
	return false
}

// emergencyTeleport jumps toward the player after a long stretch of being
// stuck. On failure the enemy is left unchanged and retries next cycle.
func (e *Enemy) emergencyTeleport(ctx EnemyContext) bool {
	target := e.target(ctx.Player)
	toward, ok := target.Sub(e.Position).Horizontal().NormalizeOK()
	if !ok {
		return false
	}

	for i := 0; i < teleportAttempts; i++ {
		jitter := geom.V((e.rng.Float64()-0.5)*teleportJitter, 0, (e.rng.Float64()-0.5)*teleportJitter)
		dir := toward.Add(jitter).Normalize()
		dist := teleportMinDist + e.rng.Float64()*teleportSpread
		candidate := e.Position.Add(dir.Scale(dist))
		if ctx.Obstacles.Collides(e.boxAt(candidate)) {
			continue
		}

		e.Position = candidate
		e.PreviousPosition = candidate
		e.positions.reset()
		e.stuck = stuckState{}
		e.Mode = ModeDirect
		e.hasPathDir = false
		e.breakout = 0
		return true
	}
	return false
}

// Knockback pushes the enemy by d, one axis at a time, skipping any axis
// that would put it inside an obstacle.
func (e *Enemy) Knockback(d geom.Vec3, obstacles *ObstacleRegistry) {
	if e.dead || !d.IsFinite() {
		return
	}
	if next := e.Position.Add(geom.V(d.X, 0, 0)); !obstacles.Collides(e.boxAt(next)) {
		e.Position = next
	}
	if next := e.Position.Add(geom.V(0, 0, d.Z)); !obstacles.Collides(e.boxAt(next)) {
		e.Position = next
	}
}
