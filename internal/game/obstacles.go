package game

import (
	"arena-fps/internal/game/geom"
)

// ObstacleKind classifies a static collider. The simulation treats every
// kind as a solid box; the kind only matters to renderers and the HUD.
type ObstacleKind uint8

const (
	KindWall ObstacleKind = iota
	KindCrate
	KindBarrier
	KindSandbag
	KindJerseyBarrier
	KindTower
	KindBuilding
	KindBunker
	KindWatchTowerPlatform
	KindVehicle
	KindBarrel
	KindConcreteBarrier
	KindHill
)

// String returns the kind name used in snapshots and logs
func (k ObstacleKind) String() string {
	switch k {
	case KindWall:
		return "wall"
	case KindCrate:
		return "obstacle"
	case KindBarrier:
		return "barrier"
	case KindSandbag:
		return "sandbag"
	case KindJerseyBarrier:
		return "jerseyBarrier"
	case KindTower:
		return "tower"
	case KindBuilding:
		return "building"
	case KindBunker:
		return "bunker"
	case KindWatchTowerPlatform:
		return "watchTowerPlatform"
	case KindVehicle:
		return "vehicle"
	case KindBarrel:
		return "barrel"
	case KindConcreteBarrier:
		return "concreteBarrier"
	case KindHill:
		return "hill"
	default:
		return "unknown"
	}
}

// Obstacle is one static collider in the arena.
type Obstacle struct {
	Box  geom.AABB    `json:"box"`
	Kind ObstacleKind `json:"kind"`
}

// ObstacleRegistry is the ordered set of static colliders for one map load.
// It is built once and never mutated while the simulation runs, so it can be
// shared by every agent without locking. A nil registry behaves as empty.
type ObstacleRegistry struct {
	obstacles []Obstacle
	boxes     []geom.AABB // parallel to obstacles, for raycasts
}

// NewObstacleRegistry copies obs into a new registry.
func NewObstacleRegistry(obs []Obstacle) *ObstacleRegistry {
	r := &ObstacleRegistry{
		obstacles: make([]Obstacle, len(obs)),
		boxes:     make([]geom.AABB, len(obs)),
	}
	copy(r.obstacles, obs)
	for i, o := range obs {
		r.boxes[i] = o.Box
	}
	return r
}

// Len returns the number of obstacles.
func (r *ObstacleRegistry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.obstacles)
}

// At returns the i-th obstacle.
func (r *ObstacleRegistry) At(i int) Obstacle {
	return r.obstacles[i]
}

// All returns a copy of the obstacle list.
func (r *ObstacleRegistry) All() []Obstacle {
	if r == nil {
		return nil
	}
	out := make([]Obstacle, len(r.obstacles))
	copy(out, r.obstacles)
	return out
}

// Collides reports whether box overlaps any obstacle.
func (r *ObstacleRegistry) Collides(box geom.AABB) bool {
	if r == nil {
		return false
	}
	for i := range r.boxes {
		if r.boxes[i].Intersects(box) {
			return true
		}
	}
	return false
}

// CountOverlaps returns how many obstacles box overlaps.
func (r *ObstacleRegistry) CountOverlaps(box geom.AABB) int {
	if r == nil {
		return 0
	}
	n := 0
	for i := range r.boxes {
		if r.boxes[i].Intersects(box) {
			n++
		}
	}
	return n
}

// Raycast returns the nearest obstacle hit along dir within maxDist.
func (r *ObstacleRegistry) Raycast(origin, dir geom.Vec3, maxDist float64) (geom.Hit, bool) {
	if r == nil || len(r.boxes) == 0 {
		return geom.Hit{Index: -1}, false
	}
	d, ok := dir.NormalizeOK()
	if !ok {
		return geom.Hit{Index: -1}, false
	}
	return geom.Nearest(geom.Ray{Origin: origin, Dir: d}, r.boxes, maxDist)
}

// HasLineOfSight reports whether nothing blocks the segment from -> to.
// Identical points always see each other.
func (r *ObstacleRegistry) HasLineOfSight(from, to geom.Vec3) bool {
	diff := to.Sub(from)
	dist := diff.Len()
	if dist < geom.Epsilon {
		return true
	}
	hit, ok := r.Raycast(from, diff, dist)
	return !ok || hit.Distance >= dist
}

// landingSlack absorbs float error when a player is resting exactly on a top.
const landingSlack = 1e-6

// LandingHeight returns the highest obstacle top under footprint that lies
// within [lowY, highY]. Used to land a falling player on top of obstacles.
func (r *ObstacleRegistry) LandingHeight(footprint geom.AABB, lowY, highY float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	best := 0.0
	found := false
	for i := range r.boxes {
		b := r.boxes[i]
		if !b.OverlapsXZ(footprint) {
			continue
		}
		top := b.Max.Y
		if top < lowY || top > highY+landingSlack {
			continue
		}
		if !found || top > best {
			best = top
			found = true
		}
	}
	return best, found
}

// StepTop returns the top of the tallest obstacle overlapping box, provided
// every overlapping obstacle rises at most maxStep above box.Min.Y. It fails
// when nothing overlaps or something is too tall to step onto.
func (r *ObstacleRegistry) StepTop(box geom.AABB, maxStep float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	best := 0.0
	found := false
	for i := range r.boxes {
		b := r.boxes[i]
		if !b.Intersects(box) {
			continue
		}
		if b.Max.Y-box.Min.Y > maxStep {
			return 0, false
		}
		if !found || b.Max.Y > best {
			best = b.Max.Y
			found = true
		}
	}
	return best, found
}
