package game

import (
	"math"

	"arena-fps/internal/game/geom"
)

const (
	aroundSideWeight = 0.5
	zigzagAmplitude  = 1.2
	zigzagPeriodMs   = 200.0
	huntProbeAhead   = 0.5
	huntNoise        = 1.5
	switchJitter     = 0.5
	breakoutDuration = 0.5
)

// updatePath runs every PathUpdateInterval and picks the navigation mode.
func (e *Enemy) updatePath(ctx EnemyContext) {
	dist := e.Position.Dist(e.target(ctx.Player))

	e.wandering = false
	switch {
	case dist > e.Tuning.DetectionRadius && !e.hasMemory:
		e.Mode = ModeDirect
		e.wandering = true
		e.wanderDir = geom.V(e.rng.Float64()-0.5, 0, e.rng.Float64()-0.5).Normalize()
	case e.visible:
		e.Mode = ModeDirect
	case e.hasMemory && e.Mode == ModeDirect:
		e.Mode = ModeHunting
		e.huntingTime = 0
	}
}

// switchMode rotates direct → around → hunting → around after the enemy has
// been stuck for StuckThreshold. Each transition re-rolls the side heading.
func (e *Enemy) switchMode(player geom.Vec3) {
	toPlayer := player.Sub(e.Position).Horizontal().Normalize()

	switch e.Mode {
	case ModeDirect:
		side := math.Pi / 2
		if e.rng.Float64() < 0.5 {
			side = -side
		}
		angle := side + (e.rng.Float64()-0.5)*switchJitter
		e.pathDir = geom.RotateY(toPlayer, angle).Normalize()
		e.hasPathDir = !e.pathDir.IsZero()
		e.Mode = ModeAround

	case ModeAround:
		e.Mode = ModeHunting
		e.huntingTime = 0
		if e.hasPathDir {
			jitter := geom.V((e.rng.Float64()-0.5)*switchJitter, 0, (e.rng.Float64()-0.5)*switchJitter)
			e.pathDir = e.pathDir.Negate().Add(jitter).Normalize()
			e.hasPathDir = !e.pathDir.IsZero()
		}

	case ModeHunting:
		if e.huntingTime > e.Tuning.OscillationBreak {
			// Long hunts that keep getting stuck tend to oscillate; break
			// out along a random heading instead of rotating modes.
			e.breakoutDir = geom.FromAngle(e.rng.Float64() * 2 * math.Pi)
			e.breakout = breakoutDuration
			return
		}
		e.pathDir = geom.FromAngle(e.rng.Float64() * 2 * math.Pi)
		e.hasPathDir = true
		e.Mode = ModeAround
	}
}

// desiredDirection returns the unit heading for this frame before avoidance.
func (e *Enemy) desiredDirection(ctx EnemyContext) geom.Vec3 {
	if e.wandering {
		return e.wanderDir
	}
	if e.breakout > 0 {
		return e.breakoutDir
	}

	toTarget := e.target(ctx.Player).Sub(e.Position).Horizontal().Normalize()

	switch e.Mode {
	case ModeAround:
		return e.aroundDirection(toTarget)
	case ModeHunting:
		return e.huntingDirection(toTarget, ctx)
	default:
		return toTarget
	}
}

func (e *Enemy) aroundDirection(toTarget geom.Vec3) geom.Vec3 {
	if !e.hasPathDir {
		perp := toTarget.Perp()
		if e.rng.Float64() < 0.5 {
			perp = perp.Negate()
		}
		e.pathDir = perp
		e.hasPathDir = !perp.IsZero()
	}
	blend := e.pathDir.Scale(aroundSideWeight).Add(toTarget.Scale(1 - aroundSideWeight))
	if n, ok := blend.NormalizeOK(); ok {
		return n
	}
	return toTarget
}

func (e *Enemy) huntingDirection(toTarget geom.Vec3, ctx EnemyContext) geom.Vec3 {
	ms := float64(ctx.Elapsed) / float64(1e6)
	wave := math.Sin(ms/zigzagPeriodMs) * zigzagAmplitude
	dir := toTarget.Add(toTarget.Perp().Scale(wave)).Normalize()

	probe := e.boxAt(e.Position.Add(dir.Scale(huntProbeAhead)))
	if ctx.Obstacles.Collides(probe) {
		noise := geom.V((e.rng.Float64()-0.5)*huntNoise, 0, (e.rng.Float64()-0.5)*huntNoise)
		if n, ok := toTarget.Add(noise).NormalizeOK(); ok {
			return n
		}
		return toTarget
	}
	return dir
}

// avoidance sums the repulsion from live enemies inside AvoidanceRadius,
// weighted by how close they are.
func (e *Enemy) avoidance(ctx EnemyContext) geom.Vec3 {
	var force geom.Vec3
	r := e.Tuning.AvoidanceRadius
	if r <= 0 {
		return force
	}

	consider := func(other *Enemy) {
		if other == nil || other == e || other.dead {
			return
		}
		diff := e.Position.Sub(other.Position).Horizontal()
		d := diff.Len()
		if d >= r {
			return
		}
		away, ok := diff.NormalizeOK()
		if !ok {
			// Exactly overlapping: push apart along a random heading.
			away = geom.FromAngle(e.rng.Float64() * 2 * math.Pi)
		}
		force = force.Add(away.Scale((r - d) / r))
	}

	if ctx.Grid != nil {
		for _, idx := range ctx.Grid.QueryRadius(e.Position.X, e.Position.Z, r) {
			if int(idx) < len(ctx.Enemies) {
				consider(ctx.Enemies[idx])
			}
		}
	} else {
		for _, other := range ctx.Enemies {
			consider(other)
		}
	}
	return force
}

// move applies one frame of movement with axis-separated collision.
func (e *Enemy) move(ctx EnemyContext) {
	dir := e.desiredDirection(ctx)

	if push := e.avoidance(ctx); !push.IsZero() {
		dir = dir.Add(push.Scale(e.Tuning.AvoidanceWeight))
	}
	dir, ok := dir.NormalizeOK()
	if !ok {
		return
	}
	e.MoveDirection = dir

	stepLen := e.Tuning.Speed * ctx.Delta
	dx := dir.X * stepLen
	dz := dir.Z * stepLen

	blockedX := e.tryMoveWithSlide(dx, 0, ctx.Obstacles)
	blockedZ := e.tryMoveWithSlide(0, dz, ctx.Obstacles)

	switch {
	case blockedX && blockedZ:
		e.stuck.isStuck = true
		e.stuck.wallHits++
		if e.stuck.wallHits > cornerEscapeHits {
			e.cornerEscape(ctx.Obstacles)
			e.stuck.wallHits = 0
		}
	case !blockedX && !blockedZ:
		e.stuck.isStuck = false
		e.stuck.stuckTime = 0
		if e.stuck.wallHits > 0 {
			e.stuck.wallHits--
		}
	}
}
