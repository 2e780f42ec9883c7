package game

import (
	"math"

	"arena-fps/internal/game/geom"
)

// Combat balance. The simulation is single-player authoritative, so these
// live here rather than in config.
const (
	// Player weapon
	WeaponDamage   int     = 50
	WeaponRange    float64 = 100
	ReloadDuration float64 = 1.5 // seconds

	// Melee contact between an enemy and the player
	MeleeRange      float64 = 1.5
	ContactDamage   int     = 10
	ContactCooldown float64 = 0.3 // seconds
	KnockbackDist   float64 = 3

	// Kill score
	BaseKillScore    int     = 10
	BonusStartDist   float64 = 10
	MaxDistanceBonus int     = 40
	BonusFullDist    float64 = 40 // distance past BonusStartDist for the full bonus

	RespawnDelay float64 = 2 // seconds
)

// KillScore is the score for a kill at distance d: a flat base plus a bonus
// that grows linearly past BonusStartDist and caps at MaxDistanceBonus.
func KillScore(d float64) int {
	if math.IsNaN(d) || d <= BonusStartDist {
		return BaseKillScore
	}
	bonus := float64(MaxDistanceBonus) * (d - BonusStartDist) / BonusFullDist
	if bonus > float64(MaxDistanceBonus) {
		bonus = float64(MaxDistanceBonus)
	}
	return BaseKillScore + int(bonus)
}

// HitTarget is whatever a player shot struck. Exactly one of the concrete
// target types below.
type HitTarget interface {
	isHitTarget()
}

// EnemyTarget is a shot that struck an enemy.
type EnemyTarget struct{ Enemy *Enemy }

// RemotePlayerTarget is a shot that struck another networked player. Remote
// players stop bullets but take no damage.
type RemotePlayerTarget struct{ Remote RemotePlayer }

// ObstacleTarget is a shot that struck static geometry.
type ObstacleTarget struct{ Obstacle Obstacle }

func (EnemyTarget) isHitTarget()        {}
func (RemotePlayerTarget) isHitTarget() {}
func (ObstacleTarget) isHitTarget()     {}

// ShotHit is the resolved result of one player shot.
type ShotHit struct {
	Target   HitTarget
	Point    geom.Vec3
	Distance float64
}

// ResolveShot casts ray against obstacles, live enemies and remote players
// and returns the nearest thing it struck within maxDist. Obstacles are
// tested first and win ties, so an enemy standing flush behind a wall is
// shielded by it.
func ResolveShot(ray geom.Ray, maxDist float64, obstacles *ObstacleRegistry, enemies []*Enemy, remotes []RemotePlayer) (ShotHit, bool) {
	var best ShotHit
	found := false

	if hit, ok := obstacles.Raycast(ray.Origin, ray.Dir, maxDist); ok {
		best = ShotHit{Target: ObstacleTarget{Obstacle: obstacles.At(hit.Index)}, Point: hit.Point, Distance: hit.Distance}
		found = true
	}

	for _, e := range enemies {
		if e == nil || e.IsDead() {
			continue
		}
		t, ok := ray.IntersectBox(e.Box())
		if !ok || t > maxDist {
			continue
		}
		if !found || t < best.Distance {
			best = ShotHit{Target: EnemyTarget{Enemy: e}, Point: ray.At(t), Distance: t}
			found = true
		}
	}

	for _, r := range remotes {
		t, ok := ray.IntersectBox(r.Box())
		if !ok || t > maxDist {
			continue
		}
		if !found || t < best.Distance {
			best = ShotHit{Target: RemotePlayerTarget{Remote: r}, Point: ray.At(t), Distance: t}
			found = true
		}
	}

	return best, found
}
