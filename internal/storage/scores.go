// Package storage persists best scores reported through the relay.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS scores (
	name       TEXT PRIMARY KEY,
	best       INTEGER NOT NULL DEFAULT 0,
	last       INTEGER NOT NULL DEFAULT 0,
	games      INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_scores_best ON scores (best DESC);
`

// ScoreRecord is one player's persisted score line.
type ScoreRecord struct {
	Name      string    `json:"name"`
	Best      int       `json:"best"`
	Last      int       `json:"last"`
	Games     int       `json:"games"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScoreStore is a sqlite-backed best-score table.
type ScoreStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the score database at path.
func Open(path string, logger *zap.Logger) (*ScoreStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open score db: %w", err)
	}
	// sqlite serialises writers anyway; one connection also keeps :memory: shared
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create score schema: %w", err)
	}
	logger.Info("💾 Score store ready", zap.String("path", path))
	return &ScoreStore{db: db, logger: logger}, nil
}

// Close closes the database.
func (s *ScoreStore) Close() error {
	return s.db.Close()
}

// SaveScore records score as name's latest and returns the best score on
// record after the update.
func (s *ScoreStore) SaveScore(ctx context.Context, name string, score int) (int, error) {
	if name == "" {
		return 0, errors.New("score name must not be empty")
	}
	const upsert = `
	INSERT INTO scores (name, best, last, games, updated_at)
	VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
	ON CONFLICT(name) DO UPDATE SET
		best = MAX(best, excluded.best),
		last = excluded.last,
		games = games + 1,
		updated_at = CURRENT_TIMESTAMP;
	`
	if _, err := s.db.ExecContext(ctx, upsert, name, score, score); err != nil {
		s.logger.Warn("⚠️ Failed to save score", zap.String("name", name), zap.Error(err))
		return 0, fmt.Errorf("save score for %s: %w", name, err)
	}
	return s.Best(ctx, name)
}

// Best returns name's best score, or 0 if name has none.
func (s *ScoreStore) Best(ctx context.Context, name string) (int, error) {
	var best int
	err := s.db.QueryRowContext(ctx, "SELECT best FROM scores WHERE name = ?", name).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load best score for %s: %w", name, err)
	}
	return best, nil
}

// Top returns up to n records ordered by best score, highest first. Ties
// order by name.
func (s *ScoreStore) Top(ctx context.Context, n int) ([]ScoreRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, best, last, games, updated_at FROM scores ORDER BY best DESC, name ASC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []ScoreRecord
	for rows.Next() {
		var r ScoreRecord
		if err := rows.Scan(&r.Name, &r.Best, &r.Last, &r.Games, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
