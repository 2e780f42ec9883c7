package game

import (
	"math/rand"

	"arena-fps/internal/game/geom"
)

// SpawnSource says which stage of the placement policy produced a position.
type SpawnSource uint8

const (
	SpawnRandom     SpawnSource = iota // random candidate inside the spawn square
	SpawnPreset                        // first obstacle-free preset
	SpawnLeastBad                      // preset with fewest overlaps, jittered
)

func (s SpawnSource) String() string {
	switch s {
	case SpawnRandom:
		return "random"
	case SpawnPreset:
		return "preset"
	case SpawnLeastBad:
		return "least_bad"
	default:
		return "unknown"
	}
}

// SpawnPolicy places new enemies. It tries random spots near the centre,
// then a fixed set of safe points, and never fails.
type SpawnPolicy struct {
	Attempts      int
	HalfRange     float64 // candidates are drawn from [-HalfRange, HalfRange]²
	MinSeparation float64 // from other live enemies
	Height        float64 // Y of a spawned enemy's centre
	Presets       []geom.Vec3
	Jitter        float64 // half-width of the jitter applied to a least-bad preset
}

// DefaultSpawnPolicy returns the canonical placement policy for an enemy of
// the given size.
func DefaultSpawnPolicy(enemySize geom.Vec3) SpawnPolicy {
	h := enemySize.Y / 2
	return SpawnPolicy{
		Attempts:      10,
		HalfRange:     20,
		MinSeparation: 3,
		Height:        h,
		Presets: []geom.Vec3{
			geom.V(30, h, 30), geom.V(-30, h, 30), geom.V(30, h, -30), geom.V(-30, h, -30),
			geom.V(0, h, 35), geom.V(0, h, -35), geom.V(35, h, 0), geom.V(-35, h, 0),
		},
		Jitter: 0.5,
	}
}

// Place picks a spawn position for a box of the given size.
func (p SpawnPolicy) Place(rng *rand.Rand, size geom.Vec3, obstacles *ObstacleRegistry, enemies []*Enemy) (geom.Vec3, SpawnSource) {
	for i := 0; i < p.Attempts; i++ {
		c := geom.V(
			(rng.Float64()*2-1)*p.HalfRange,
			p.Height,
			(rng.Float64()*2-1)*p.HalfRange,
		)
		if obstacles.Collides(geom.BoxFromCenter(c, size)) {
			continue
		}
		if tooClose(c, enemies, p.MinSeparation) {
			continue
		}
		return c, SpawnRandom
	}

	if len(p.Presets) == 0 {
		return geom.V(0, p.Height, 0), SpawnLeastBad
	}

	best := 0
	bestOverlaps := -1
	for i, c := range p.Presets {
		n := obstacles.CountOverlaps(geom.BoxFromCenter(c, size))
		if n == 0 {
			return c, SpawnPreset
		}
		if bestOverlaps < 0 || n < bestOverlaps {
			best, bestOverlaps = i, n
		}
	}

	c := p.Presets[best]
	c.X += (rng.Float64()*2 - 1) * p.Jitter
	c.Z += (rng.Float64()*2 - 1) * p.Jitter
	return c, SpawnLeastBad
}

func tooClose(c geom.Vec3, enemies []*Enemy, minDist float64) bool {
	for _, e := range enemies {
		if e == nil || e.IsDead() {
			continue
		}
		if e.Position.HorizontalDist(c) < minDist {
			return true
		}
	}
	return false
}
