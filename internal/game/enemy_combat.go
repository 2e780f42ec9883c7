package game

import "arena-fps/internal/game/geom"

// muzzleOffset lifts the shot origin from the body centre to chest height.
const muzzleOffset = 0.5

// EnemyShot describes one shot attempt. When Fired is false nothing happened
// and the other fields are zero.
type EnemyShot struct {
	Fired  bool
	Hit    bool
	Damage int
	From   geom.Vec3 // muzzle position
	To     geom.Vec3 // trail endpoint, jittered on a miss
}

// TryShoot fires at the player when the cooldown has elapsed, the player is
// within ShootRange and nothing blocks the line of fire. A single accuracy
// roll decides both the damage and where the trail ends.
func (e *Enemy) TryShoot(player geom.Vec3, obstacles *ObstacleRegistry) EnemyShot {
	if e.dead || !e.canShoot {
		return EnemyShot{}
	}
	if e.Position.Dist(player) >= e.Tuning.ShootRange {
		return EnemyShot{}
	}
	if !obstacles.HasLineOfSight(e.Position, player) {
		return EnemyShot{}
	}

	e.canShoot = false
	e.shootTimer = 0

	shot := EnemyShot{
		Fired: true,
		From:  e.Position.Add(geom.V(0, muzzleOffset, 0)),
		To:    player,
	}
	if e.rng.Float64() < e.Tuning.ShootAccuracy {
		shot.Hit = true
		shot.Damage = e.Tuning.ShootDamage
	} else {
		j := e.Tuning.MissJitter * 2
		shot.To = player.Add(geom.V(
			(e.rng.Float64()-0.5)*j,
			(e.rng.Float64()-0.5)*j,
			(e.rng.Float64()-0.5)*j,
		))
	}
	return shot
}

// CanShoot reports whether the shot cooldown has elapsed.
func (e *Enemy) CanShoot() bool { return e.canShoot }
