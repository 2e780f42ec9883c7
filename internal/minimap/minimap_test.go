package minimap

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

func rgbaAt(t *testing.T, r *Renderer, snap *game.GameSnapshot, obs []game.Obstacle, x, y int) color.RGBA {
	t.Helper()
	img := r.Render(snap, obs)
	return color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
}

func TestToPixel(t *testing.T) {
	r := NewRenderer(300, 150)
	x, y := r.toPixel(geom.V(0, 5, 0))
	assert.InDelta(t, 150, x, 1e-9)
	assert.InDelta(t, 150, y, 1e-9)

	x, y = r.toPixel(geom.V(-75, 0, -75))
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)
}

// TestRenderDrawsObstacle verifies an obstacle is painted in its colour.
func TestRenderDrawsObstacle(t *testing.T) {
	r := NewRenderer(150, 150)
	obs := []game.Obstacle{{Kind: game.KindBuilding, Box: geom.AABB{Min: geom.V(20, 0, 20), Max: geom.V(40, 10, 40)}}}

	got := rgbaAt(t, r, nil, obs, 105, 105) // world (30, 30)
	assert.Equal(t, obstacleColor(game.KindBuilding), got)
	assert.Equal(t, 150, r.Size())
}

// TestRenderDrawsEnemy verifies enemies appear at their world position.
func TestRenderDrawsEnemy(t *testing.T) {
	r := NewRenderer(300, 150)
	snap := &game.GameSnapshot{
		Player:  game.PlayerSnapshot{Position: geom.V(-50, 1.6, -50), Health: 100},
		Enemies: []game.EnemySnapshot{{ID: "e1", Position: geom.V(25, 1, 25)}},
	}
	got := rgbaAt(t, r, snap, nil, 200, 200)
	assert.Equal(t, colorEnemy, got)
}

func TestSavePNG(t *testing.T) {
	r := NewRenderer(128, 150)
	path := filepath.Join(t.TempDir(), "map.png")
	snap := &game.GameSnapshot{GameOver: true, Player: game.PlayerSnapshot{IsDead: true}}
	require.NoError(t, r.SavePNG(path, snap, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

// TestRecorderSkipsStaleSnapshots verifies only newer sequences are written.
func TestRecorderSkipsStaleSnapshots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "frames")
	rec, err := NewRecorder(NewRenderer(64, 150), dir)
	require.NoError(t, err)

	snap := &game.GameSnapshot{Sequence: 5, Active: true}
	wrote, err := rec.Record(snap, nil)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.FileExists(t, filepath.Join(dir, LatestFile))

	wrote, err = rec.Record(snap, nil)
	require.NoError(t, err)
	assert.False(t, wrote)

	wrote, err = rec.Record(nil, nil)
	require.NoError(t, err)
	assert.False(t, wrote)
}

func TestRecorderKeepsGameOverFrame(t *testing.T) {
	dir := t.TempDir()
	rec, err := NewRecorder(NewRenderer(64, 150), dir)
	require.NoError(t, err)

	over := &game.GameSnapshot{Sequence: 1, Seed: 7, GameOver: true, Player: game.PlayerSnapshot{Score: 120}}
	_, err = rec.Record(over, nil)
	require.NoError(t, err)
	over2 := *over
	over2.Sequence = 2
	_, err = rec.Record(&over2, nil)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "gameover-*.png"))
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "gameover-7-score-120.png")}, matches)
}
