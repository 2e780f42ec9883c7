package minimap

import (
	"fmt"
	"os"
	"path/filepath"

	"arena-fps/internal/game"
)

// LatestFile is the name of the continuously replaced frame.
const LatestFile = "latest.png"

// Recorder keeps dir/latest.png current and saves one frame per game over.
type Recorder struct {
	renderer *Renderer
	dir      string
	lastSeq  uint64
	wasOver  bool
}

// NewRecorder creates dir if needed.
func NewRecorder(r *Renderer, dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating minimap dir: %w", err)
	}
	return &Recorder{renderer: r, dir: dir}, nil
}

// Record renders snap if it is newer than the last one written. It reports
// whether a frame was written.
func (rec *Recorder) Record(snap *game.GameSnapshot, obstacles []game.Obstacle) (bool, error) {
	if snap == nil || (rec.lastSeq != 0 && snap.Sequence <= rec.lastSeq) {
		return false, nil
	}
	rec.lastSeq = snap.Sequence

	// rename so readers never see a partial file
	tmp := filepath.Join(rec.dir, ".latest.png.tmp")
	if err := rec.renderer.SavePNG(tmp, snap, obstacles); err != nil {
		return false, err
	}
	if err := os.Rename(tmp, filepath.Join(rec.dir, LatestFile)); err != nil {
		return false, err
	}

	if snap.GameOver && !rec.wasOver {
		name := fmt.Sprintf("gameover-%d-score-%d.png", snap.Seed, snap.Player.Score)
		if err := rec.renderer.dc.SavePNG(filepath.Join(rec.dir, name)); err != nil {
			return true, err
		}
	}
	rec.wasOver = snap.GameOver
	return true, nil
}
