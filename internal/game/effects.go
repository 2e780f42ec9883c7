package game

import "arena-fps/internal/game/geom"

// EffectKind identifies a transient visual effect.
type EffectKind uint8

const (
	EffectMuzzleFlash EffectKind = iota
	EffectEnemyTrail
	EffectPlayerTrail
	EffectBulletImpact
	EffectExplosion
	EffectTeleport
	EffectHitFlash
)

func (k EffectKind) String() string {
	switch k {
	case EffectMuzzleFlash:
		return "muzzle_flash"
	case EffectEnemyTrail:
		return "enemy_trail"
	case EffectPlayerTrail:
		return "player_trail"
	case EffectBulletImpact:
		return "bullet_impact"
	case EffectExplosion:
		return "explosion"
	case EffectTeleport:
		return "teleport"
	case EffectHitFlash:
		return "hit_flash"
	default:
		return "unknown"
	}
}

// Lifetime returns how long an effect of this kind stays alive, in seconds.
func (k EffectKind) Lifetime() float64 {
	switch k {
	case EffectMuzzleFlash:
		return 0.05
	case EffectEnemyTrail, EffectPlayerTrail, EffectHitFlash:
		return 0.1
	case EffectBulletImpact:
		return 3.0
	case EffectExplosion:
		return 1.5
	case EffectTeleport:
		return 1.0
	default:
		return 0
	}
}

// Effect is a short-lived visual with no gameplay meaning. Trails use both
// Pos and End; everything else only Pos. Effects age by simulation time so
// they pause with the simulation.
type Effect struct {
	Kind     EffectKind
	Pos      geom.Vec3
	End      geom.Vec3
	Age      float64 // seconds since creation
	Duration float64
	OwnerID  string // enemy id, or "" for the local player
}

// NewEffect creates an effect of the given kind with its standard lifetime.
func NewEffect(kind EffectKind, pos, end geom.Vec3, ownerID string) *Effect {
	return &Effect{
		Kind:     kind,
		Pos:      pos,
		End:      end,
		Duration: kind.Lifetime(),
		OwnerID:  ownerID,
	}
}

// Update ages the effect and reports whether it is still alive.
func (f *Effect) Update(delta float64) bool {
	f.Age += delta
	return f.Age < f.Duration
}

// Alpha fades linearly from 1 to 0 over the effect's lifetime.
func (f *Effect) Alpha() float64 {
	if f.Duration <= 0 {
		return 0
	}
	a := 1 - f.Age/f.Duration
	if a < 0 {
		return 0
	}
	return a
}
