// Package mapgen builds the static obstacle layout of the arena. The engine
// never constructs obstacles itself; it takes the list produced here at
// session start.
package mapgen

import (
	"math"
	"math/rand"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

const (
	MapSize       = 150.0
	WallHeight    = 5.0
	WallThickness = 1.0
)

type boxSpec struct {
	x, y, z float64 // centre
	w, h, d float64
}

type rotatedSpec struct {
	x, z     float64
	rotation float64 // about Y
}

var (
	cratePositions = [][2]float64{
		{5, 5}, {-8, 10}, {12, -7}, {-15, -12}, {3, -20}, {-5, 15}, {18, 18}, {-20, -18},
		{35, 25}, {-38, 30}, {42, -37}, {-45, -42}, {23, -60}, {-55, 65}, {68, 58},
		{-70, -68}, {52, 22}, {-48, 19}, {61, -14}, {-75, -29},
	}

	barriers = []boxSpec{
		{0, 1, 10, 10, 2, 1},
		{-15, 1, -5, 1, 2, 10},
		{15, 1, 5, 1, 2, 10},
		{10, 1, -10, 10, 2, 1},
		{30, 1, 30, 12, 2, 1},
		{-35, 1, -25, 1, 2, 12},
		{45, 1, 15, 1, 2, 12},
		{20, 1, -40, 12, 2, 1},
		{-60, 1, 40, 15, 2, 1},
		{55, 1, -55, 1, 2, 15},
	}

	sandbags = []boxSpec{
		{5, 0.6, 25, 8, 1, 2},
		{-25, 0.6, 5, 2, 1, 8},
		{40, 0.6, -30, 8, 1, 2},
		{-30, 0.6, -40, 2, 1, 8},
	}

	jerseyBarriers = [][2]float64{{15, 35}, {-35, 15}, {60, -20}, {-20, -60}}

	// towers are 4x4 with height twice the centre Y
	towers = [][3]float64{{-60, 5, 60}, {60, 5, -60}, {-50, 8, -50}, {50, 8, 50}, {0, 12, -70}}

	buildings = []boxSpec{
		{-40, 0, 40, 20, 15, 20},
		{40, 0, -40, 20, 12, 20},
		{-30, 0, -70, 25, 10, 15},
		{70, 0, 30, 15, 12, 25},
	}

	bunkers = []rotatedSpec{
		{-80, -20, math.Pi / 4},
		{80, 20, -math.Pi / 4},
	}

	watchTowers = [][2]float64{{-90, 90}, {90, -90}}

	vehicles = []rotatedSpec{
		{25, -15, math.Pi / 6},
		{-35, 55, -math.Pi / 3},
		{65, 5, math.Pi / 2},
	}

	barrels = [][2]float64{{15, 65}, {16, 64}, {14, 64}, {-55, 25}, {-54, 26}, {45, -65}, {44, -64}}

	concreteBarriers = []rotatedSpec{
		{0, 45, 0}, {5, 45, 0}, {10, 45, 0},
		{-45, 0, math.Pi / 2}, {-45, 5, math.Pi / 2}, {-45, 10, math.Pi / 2},
	}

	// x, z, radius, height
	hills = [][4]float64{{-70, -40, 20, 6}, {50, 70, 15, 4}}
)

// Arena returns the full obstacle layout. rng varies crate sizes in
// [0.8, 1.2); a nil rng gives every crate size 1.
func Arena(rng *rand.Rand) []game.Obstacle {
	obs := make([]game.Obstacle, 0, 64)
	add := func(kind game.ObstacleKind, box geom.AABB) {
		obs = append(obs, game.Obstacle{Kind: kind, Box: box})
	}

	obs = append(obs, Walls()...)

	for _, p := range cratePositions {
		size := 1.0
		if rng != nil {
			size = 0.8 + rng.Float64()*0.4
		}
		add(game.KindCrate, geom.BoxFromCenter(geom.V(p[0], 0.5, p[1]), geom.V(size, size, size)))
	}

	for _, b := range barriers {
		add(game.KindBarrier, b.box())
	}
	for _, b := range sandbags {
		add(game.KindSandbag, b.box())
	}
	for _, p := range jerseyBarriers {
		add(game.KindJerseyBarrier, geom.BoxFromCenter(geom.V(p[0], 1, p[1]), geom.V(1, 2, 4)))
	}
	for _, p := range towers {
		add(game.KindTower, geom.BoxFromCenter(geom.V(p[0], p[1], p[2]), geom.V(4, p[1]*2, 4)))
	}
	for _, b := range buildings {
		b.y = b.h / 2
		add(game.KindBuilding, b.box())
	}
	for _, b := range bunkers {
		add(game.KindBunker, rotatedBox(b, 1.5, geom.V(10, 3, 8)))
	}
	for _, p := range watchTowers {
		add(game.KindWatchTowerPlatform, geom.BoxFromCenter(geom.V(p[0], 15, p[1]), geom.V(6, 1, 6)))
	}
	for _, v := range vehicles {
		add(game.KindVehicle, rotatedBox(v, 1.02, geom.V(5, 2, 10)))
	}
	for _, p := range barrels {
		add(game.KindBarrel, geom.BoxFromCenter(geom.V(p[0], 1.01, p[1]), geom.V(1.6, 2, 1.6)))
	}
	for _, c := range concreteBarriers {
		add(game.KindConcreteBarrier, rotatedBox(c, 0.62, geom.V(2, 1.2, 4)))
	}
	// Hills are cones; they collide as their bounding box.
	for _, h := range hills {
		r := h[2]
		add(game.KindHill, geom.BoxFromCenter(geom.V(h[0], h[3]/2, h[1]), geom.V(2*r, h[3], 2*r)))
	}

	return obs
}

// Walls returns the four perimeter walls around the MapSize square.
func Walls() []game.Obstacle {
	half := MapSize / 2
	long := MapSize + WallThickness*2
	y := WallHeight / 2
	off := half + WallThickness/2
	return []game.Obstacle{
		{Kind: game.KindWall, Box: geom.BoxFromCenter(geom.V(0, y, -off), geom.V(long, WallHeight, WallThickness))},
		{Kind: game.KindWall, Box: geom.BoxFromCenter(geom.V(0, y, off), geom.V(long, WallHeight, WallThickness))},
		{Kind: game.KindWall, Box: geom.BoxFromCenter(geom.V(off, y, 0), geom.V(WallThickness, WallHeight, long))},
		{Kind: game.KindWall, Box: geom.BoxFromCenter(geom.V(-off, y, 0), geom.V(WallThickness, WallHeight, long))},
	}
}

func (b boxSpec) box() geom.AABB {
	return geom.BoxFromCenter(geom.V(b.x, b.y, b.z), geom.V(b.w, b.h, b.d))
}

// rotatedBox returns the axis-aligned bounds of a box of the given size
// rotated about Y.
func rotatedBox(r rotatedSpec, y float64, size geom.Vec3) geom.AABB {
	s, c := math.Abs(math.Sin(r.rotation)), math.Abs(math.Cos(r.rotation))
	w := size.X*c + size.Z*s
	d := size.X*s + size.Z*c
	return geom.BoxFromCenter(geom.V(r.x, y, r.z), geom.V(w, size.Y, d))
}
