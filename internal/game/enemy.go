package game

import (
	"math"
	"math/rand"
	"time"

	"arena-fps/internal/game/geom"
	"arena-fps/internal/game/spatial"
)

// PathMode is the enemy navigation state.
type PathMode uint8

const (
	ModeDirect  PathMode = iota // straight at the target
	ModeAround                  // blended sideways to skirt an obstacle
	ModeHunting                 // zigzag toward the remembered position
)

func (m PathMode) String() string {
	switch m {
	case ModeDirect:
		return "direct"
	case ModeAround:
		return "around"
	case ModeHunting:
		return "hunting"
	default:
		return "unknown"
	}
}

// EnemyTuning holds every constant that shapes enemy behaviour.
type EnemyTuning struct {
	Speed     float64   // units per second
	MaxHealth int
	Size      geom.Vec3 // collision box, centred on Position

	PathUpdateInterval float64 // seconds between path decisions
	StuckThreshold     float64 // seconds stuck before switching mode
	StuckDistance      float64 // total window movement below which we are stuck
	TeleportThreshold  float64 // seconds severely stuck before teleporting
	Memory             float64 // seconds the last seen position is remembered
	DetectionRadius    float64
	StopDistance       float64 // no movement when closer than this to the player
	AvoidanceRadius    float64
	AvoidanceWeight    float64
	HuntingTimeout     float64 // hunting reverts to direct after this long
	OscillationBreak   float64 // hunting this long picks a random heading on switch

	ShootCooldown float64
	ShootRange    float64
	ShootDamage   int
	ShootAccuracy float64 // probability in [0,1] that a shot lands
	MissJitter    float64 // half-width of the trail endpoint offset on a miss
}

// DefaultEnemyTuning returns the canonical enemy constants.
func DefaultEnemyTuning() EnemyTuning {
	return EnemyTuning{
		Speed:              3.5,
		MaxHealth:          100,
		Size:               geom.V(1, 2, 1),
		PathUpdateInterval: 0.08,
		StuckThreshold:     0.2,
		StuckDistance:      0.05,
		TeleportThreshold:  3.0,
		Memory:             15,
		DetectionRadius:    50,
		StopDistance:       1.5,
		AvoidanceRadius:    2.5,
		AvoidanceWeight:    1.5,
		HuntingTimeout:     5,
		OscillationBreak:   3,
		ShootCooldown:      2.0,
		ShootRange:         20,
		ShootDamage:        5,
		ShootAccuracy:      0.95,
		MissJitter:         0.1,
	}
}

// Enemy is one AI-controlled opponent.
//
// All mutation happens on the simulation goroutine. Exported fields are read
// by snapshotting under the engine lock.
type Enemy struct {
	ID               string
	Position         geom.Vec3
	PreviousPosition geom.Vec3
	Facing           geom.Vec3 // horizontal unit heading
	MoveDirection    geom.Vec3 // last applied movement direction
	Health           int
	MaxHealth        int
	Mode             PathMode
	Tuning           EnemyTuning

	// Perception
	lastKnown   geom.Vec3
	hasMemory   bool
	memoryTimer float64
	visible     bool

	// Navigation
	pathTimer   float64
	huntingTime float64
	pathDir     geom.Vec3 // side heading for around mode
	hasPathDir  bool
	wanderDir   geom.Vec3
	wandering   bool
	breakoutDir geom.Vec3
	breakout    float64 // seconds left on a random breakout heading

	stuck     stuckState
	positions positionWindow

	// Combat
	canShoot   bool
	shootTimer float64

	dead bool
	rng  *rand.Rand
}

// EnemyContext is everything an enemy may read during one update.
type EnemyContext struct {
	Delta     float64
	Elapsed   time.Duration // real time since session start, drives the hunting zigzag
	Player    geom.Vec3
	Enemies   []*Enemy
	Grid      *spatial.SpatialGrid // optional index over Enemies by slice position
	Obstacles *ObstacleRegistry
}

// EnemyStep reports what happened during one Update so the caller can turn
// it into effects and events.
type EnemyStep struct {
	Teleported   bool
	TeleportFrom geom.Vec3
}

// DamageOutcome is the result of TakeDamage.
type DamageOutcome uint8

const (
	DamageApplied DamageOutcome = iota
	DamageLethal                // this hit killed the enemy
	DamageAlreadyDead
)

// NewEnemy creates an enemy at pos. rng must not be nil.
func NewEnemy(id string, pos geom.Vec3, tuning EnemyTuning, rng *rand.Rand) *Enemy {
	return &Enemy{
		ID:               id,
		Position:         pos,
		PreviousPosition: pos,
		Facing:           geom.V(0, 0, -1),
		Health:           tuning.MaxHealth,
		MaxHealth:        tuning.MaxHealth,
		Mode:             ModeDirect,
		Tuning:           tuning,
		canShoot:         true,
		rng:              rng,
	}
}

// Box returns the enemy's collision box at its current position.
func (e *Enemy) Box() geom.AABB {
	return geom.BoxFromCenter(e.Position, e.Tuning.Size)
}

func (e *Enemy) boxAt(p geom.Vec3) geom.AABB {
	return geom.BoxFromCenter(p, e.Tuning.Size)
}

// IsDead reports whether the enemy has been killed.
func (e *Enemy) IsDead() bool { return e.dead }

// IsStuck reports the current stuck flag.
func (e *Enemy) IsStuck() bool { return e.stuck.isStuck }

// CanSeePlayer reports the line-of-sight result from the last update.
func (e *Enemy) CanSeePlayer() bool { return e.visible }

// LastKnownPlayerPosition returns the remembered player position, if any.
func (e *Enemy) LastKnownPlayerPosition() (geom.Vec3, bool) {
	return e.lastKnown, e.hasMemory
}

// TakeDamage subtracts amount from health, clamped at zero. It returns
// DamageLethal exactly once, on the hit that kills.
func (e *Enemy) TakeDamage(amount int) DamageOutcome {
	if e.dead {
		return DamageAlreadyDead
	}
	if amount < 0 {
		amount = 0
	}
	e.Health -= amount
	if e.Health <= 0 {
		e.Health = 0
		e.dead = true
		return DamageLethal
	}
	return DamageApplied
}

// Update advances the enemy by one frame: perception, path decisions, stuck
// recovery, movement and cooldowns, in that order.
func (e *Enemy) Update(ctx EnemyContext) EnemyStep {
	var step EnemyStep
	if e.dead || ctx.Delta <= 0 || math.IsNaN(ctx.Delta) {
		return step
	}
	e.PreviousPosition = e.Position

	e.trackPosition()

	e.visible = ctx.Obstacles.HasLineOfSight(e.Position, ctx.Player)
	e.perceive(e.visible, ctx.Player, ctx.Delta)

	e.pathTimer += ctx.Delta
	if e.pathTimer >= e.Tuning.PathUpdateInterval {
		e.pathTimer = 0
		e.updatePath(ctx)
	}

	// An enemy holding position next to the player is idle, not stuck.
	dist := e.Position.HorizontalDist(ctx.Player)
	wantsToMove := dist > e.Tuning.StopDistance
	if !wantsToMove {
		e.stuck.isStuck = false
		e.stuck.stuckTime = 0
	}

	if e.stuck.isStuck {
		e.stuck.stuckTime += ctx.Delta
		e.stuck.severeTime += ctx.Delta
		if e.stuck.stuckTime > e.Tuning.StuckThreshold {
			e.switchMode(ctx.Player)
			e.stuck.stuckTime = 0
		}
		if e.stuck.severeTime > e.Tuning.TeleportThreshold {
			from := e.Position
			if e.emergencyTeleport(ctx) {
				step.Teleported = true
				step.TeleportFrom = from
			}
			e.stuck.severeTime = 0
		}
	} else {
		e.stuck.severeTime = math.Max(0, e.stuck.severeTime-ctx.Delta)
	}

	if e.breakout > 0 {
		e.breakout -= ctx.Delta
	}

	if wantsToMove {
		e.move(ctx)
	}

	e.updateFacing(ctx.Player)
	e.tickHunting(ctx.Delta)
	e.tickShootCooldown(ctx.Delta)

	return step
}

// perceive refreshes the remembered player position while visible and
// forgets it once Memory seconds pass without sight.
func (e *Enemy) perceive(visible bool, player geom.Vec3, delta float64) {
	if visible {
		e.lastKnown = player
		e.hasMemory = true
		e.memoryTimer = 0
		return
	}
	if !e.hasMemory {
		return
	}
	e.memoryTimer += delta
	if e.memoryTimer > e.Tuning.Memory {
		e.hasMemory = false
		e.lastKnown = geom.Vec3{}
		e.memoryTimer = 0
	}
}

// target is the live player position while visible, else the remembered one.
func (e *Enemy) target(player geom.Vec3) geom.Vec3 {
	if !e.visible && e.hasMemory {
		return e.lastKnown
	}
	return player
}

func (e *Enemy) updateFacing(player geom.Vec3) {
	var dir geom.Vec3
	if e.Mode == ModeDirect || e.visible {
		dir = player.Sub(e.Position).Horizontal()
	} else {
		dir = e.MoveDirection.Horizontal()
	}
	if n, ok := dir.NormalizeOK(); ok {
		e.Facing = n
	}
}

// tickHunting reverts a hunt that has gone on too long back to direct.
func (e *Enemy) tickHunting(delta float64) {
	if e.Mode != ModeHunting {
		e.huntingTime = 0
		return
	}
	e.huntingTime += delta
	if e.huntingTime > e.Tuning.HuntingTimeout {
		e.Mode = ModeDirect
		e.huntingTime = 0
	}
}

func (e *Enemy) tickShootCooldown(delta float64) {
	if e.canShoot {
		return
	}
	e.shootTimer += delta
	if e.shootTimer >= e.Tuning.ShootCooldown {
		e.canShoot = true
		e.shootTimer = 0
	}
}
