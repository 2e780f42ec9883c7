package spatial

import (
	"math"
	"sort"
	"testing"

	"pgregory.net/rapid"
)

// TestGridQueryRadius verifies nearby entities are returned and far ones are not
func TestGridQueryRadius(t *testing.T) {
	g := NewCenteredGrid(150, 5, 16)
	g.Insert(0, 0, 0)
	g.Insert(1, 1, 1)
	g.Insert(2, 40, 40)
	g.Insert(3, -74, 74)

	got := append([]uint32(nil), g.QueryRadius(0, 0, 2.5)...)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("Expected [0 1], got %v", got)
	}
}

// TestGridMove verifies a moved entity is found at its new position only
func TestGridMove(t *testing.T) {
	g := NewCenteredGrid(150, 5, 16)
	g.Insert(0, 0, 0)
	g.Insert(1, 1, 1)

	g.Move(0, 0, 0, 30, 30)

	near := g.QueryRadius(0, 0, 2.5)
	for _, id := range near {
		if id == 0 {
			t.Errorf("Expected entity 0 gone from its old cell, got %v", near)
		}
	}
	if len(near) != 1 || near[0] != 1 {
		t.Errorf("Expected [1] near the origin, got %v", near)
	}

	far := g.QueryRadius(30, 30, 1)
	if len(far) != 1 || far[0] != 0 {
		t.Errorf("Expected [0] at the new position, got %v", far)
	}

	// Same cell: nothing changes.
	g.Move(1, 1, 1, 1.5, 1.5)
	if got := g.QueryRadius(1.5, 1.5, 0.1); len(got) != 1 || got[0] != 1 {
		t.Errorf("Expected [1] after an in-cell move, got %v", got)
	}
}

// TestGridClampsOutOfBounds verifies positions outside the arena land in
// border cells instead of panicking
func TestGridClampsOutOfBounds(t *testing.T) {
	g := NewCenteredGrid(10, 5, 4)
	g.Insert(7, 1000, -1000)

	found := false
	for _, id := range g.QueryRadius(5, -5, 1) {
		if id == 7 {
			found = true
		}
	}
	if !found {
		t.Error("Expected clamped entity in the border cell")
	}
}

// TestGridClear verifies Clear empties every cell
func TestGridClear(t *testing.T) {
	g := NewCenteredGrid(20, 5, 8)
	for i := uint32(0); i < 8; i++ {
		g.Insert(i, float64(i), float64(i))
	}
	if s := g.Stats(); s.TotalEntities != 8 {
		t.Fatalf("Expected 8 entities, got %d", s.TotalEntities)
	}

	g.Clear()

	if s := g.Stats(); s.TotalEntities != 0 || s.NonEmptyCells != 0 {
		t.Errorf("Expected empty grid, got %+v", s)
	}
	if s := g.Stats(); s.TotalCells != 16 {
		t.Errorf("Expected 4x4 cells, got %d", s.TotalCells)
	}
}

// TestGridNeverMissesNeighbors verifies the broad phase is conservative: every
// entity within the radius is among the candidates.
func TestGridNeverMissesNeighbors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := NewCenteredGrid(150, 5, 32)
		n := rapid.IntRange(1, 32).Draw(t, "n")
		xs := make([]float64, n)
		zs := make([]float64, n)
		for i := 0; i < n; i++ {
			xs[i] = rapid.Float64Range(-75, 75).Draw(t, "x")
			zs[i] = rapid.Float64Range(-75, 75).Draw(t, "z")
			g.Insert(uint32(i), xs[i], zs[i])
		}
		cx := rapid.Float64Range(-75, 75).Draw(t, "cx")
		cz := rapid.Float64Range(-75, 75).Draw(t, "cz")
		r := rapid.Float64Range(0, 10).Draw(t, "r")

		candidates := map[uint32]bool{}
		for _, id := range g.QueryRadius(cx, cz, r) {
			candidates[id] = true
		}
		for i := 0; i < n; i++ {
			if math.Hypot(xs[i]-cx, zs[i]-cz) <= r && !candidates[uint32(i)] {
				t.Fatalf("entity %d at (%v,%v) missed by query at (%v,%v) r=%v", i, xs[i], zs[i], cx, cz, r)
			}
		}
	})
}
