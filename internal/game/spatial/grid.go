// Package spatial provides a cache-efficient uniform grid for neighbour
// queries on the arena floor.
//
// All structures use preallocated slices with integer indices (not pointers)
// to minimize GC pressure and maximize cache locality.
package spatial

import (
	"math"
)

// SpatialGrid buckets entities on the XZ ground plane into fixed-size cells.
// Uses preallocated slices with entity indices (not pointers) for GC efficiency.
//
// Optimal cell size equals the largest query radius. For the arena:
//   - Enemy avoidance radius: 2.5u → Cell size: 5u keeps queries to 3x3 cells
//
// The grid covers [minX, minX+width) x [minZ, minZ+depth). Positions outside
// are clamped into the border cells.
//
// Memory layout: cells are stored in row-major order (cells[row*cols+col])
type SpatialGrid struct {
	minX, minZ  float64
	cellSize    float64
	invCellSize float64 // 1/cellSize for faster division
	cols, rows  int
	cells       [][]uint32 // cells[row*cols+col] = list of entity indices
	scratch     []uint32   // reusable buffer for query results
	maxEntities int
}

// NewSpatialGrid creates a grid for a width x depth area whose low corner is
// (minX, minZ). maxEntities is used to preallocate cell capacity.
func NewSpatialGrid(minX, minZ, width, depth, cellSize float64, maxEntities int) *SpatialGrid {
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(depth / cellSize))

	// Ensure at least 1x1 grid
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, avgPerCell)
	}

	return &SpatialGrid{
		minX:        minX,
		minZ:        minZ,
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
		maxEntities: maxEntities,
	}
}

// NewCenteredGrid covers a square arena of the given size centred on the origin.
func NewCenteredGrid(size, cellSize float64, maxEntities int) *SpatialGrid {
	half := size / 2
	return NewSpatialGrid(-half, -half, size, size, cellSize, maxEntities)
}

// Clear resets all cells without deallocating underlying memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0] // Keep capacity, reset length
	}
}

func (g *SpatialGrid) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *SpatialGrid) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}

// cellIndex computes the cell index for a position, with bounds checking.
func (g *SpatialGrid) cellIndex(x, z float64) int {
	col := g.clampCol(int(math.Floor((x - g.minX) * g.invCellSize)))
	row := g.clampRow(int(math.Floor((z - g.minZ) * g.invCellSize)))
	return row*g.cols + col
}

// Insert adds an entity at ground position (x, z).
// The entityID should be the index into your entity slice.
func (g *SpatialGrid) Insert(entityID uint32, x, z float64) {
	idx := g.cellIndex(x, z)
	g.cells[idx] = append(g.cells[idx], entityID)
}

// Move re-buckets an entity that went from (oldX, oldZ) to (newX, newZ).
// It does nothing when both positions share a cell.
func (g *SpatialGrid) Move(entityID uint32, oldX, oldZ, newX, newZ float64) {
	from := g.cellIndex(oldX, oldZ)
	to := g.cellIndex(newX, newZ)
	if from == to {
		return
	}
	cell := g.cells[from]
	for i, id := range cell {
		if id == entityID {
			last := len(cell) - 1
			cell[i] = cell[last]
			g.cells[from] = cell[:last]
			break
		}
	}
	g.cells[to] = append(g.cells[to], entityID)
}

// QueryRadius returns all entity IDs potentially within radius of (cx, cz).
// Uses an internal scratch buffer to avoid allocation.
//
// IMPORTANT: The returned slice is reused on subsequent calls.
// Copy the results if you need to persist them.
//
// The returned candidates may include entities outside the radius;
// the caller must perform a precise distance check (narrow phase).
func (g *SpatialGrid) QueryRadius(cx, cz, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	minCol := g.clampCol(int(math.Floor((cx - radius - g.minX) * g.invCellSize)))
	maxCol := g.clampCol(int(math.Floor((cx + radius - g.minX) * g.invCellSize)))
	minRow := g.clampRow(int(math.Floor((cz - radius - g.minZ) * g.invCellSize)))
	maxRow := g.clampRow(int(math.Floor((cz + radius - g.minZ) * g.invCellSize)))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}

	return g.scratch
}

// Stats returns grid statistics for debugging/profiling.
func (g *SpatialGrid) Stats() GridStats {
	var totalEntities, maxInCell, nonEmpty int
	for _, cell := range g.cells {
		count := len(cell)
		totalEntities += count
		if count > maxInCell {
			maxInCell = count
		}
		if count > 0 {
			nonEmpty++
		}
	}

	return GridStats{
		TotalCells:    len(g.cells),
		NonEmptyCells: nonEmpty,
		TotalEntities: totalEntities,
		MaxInCell:     maxInCell,
	}
}

// GridStats contains grid statistics for debugging.
type GridStats struct {
	TotalCells    int
	NonEmptyCells int
	TotalEntities int
	MaxInCell     int
}
