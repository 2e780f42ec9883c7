package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *ScoreStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveScoreKeepsBest(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	best, err := s.SaveScore(ctx, "alice", 120)
	require.NoError(t, err)
	assert.Equal(t, 120, best)

	best, err = s.SaveScore(ctx, "alice", 40)
	require.NoError(t, err)
	assert.Equal(t, 120, best, "a lower score must not replace the best")

	best, err = s.SaveScore(ctx, "alice", 300)
	require.NoError(t, err)
	assert.Equal(t, 300, best)

	top, err := s.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 300, top[0].Best)
	assert.Equal(t, 300, top[0].Last)
	assert.Equal(t, 3, top[0].Games)
}

func TestBestUnknownName(t *testing.T) {
	s := openTestStore(t)
	best, err := s.Best(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, best)
}

func TestSaveScoreRejectsEmptyName(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveScore(context.Background(), "", 10)
	assert.Error(t, err)
}

func TestTopOrdering(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	for name, score := range map[string]int{"carol": 50, "bob": 80, "alice": 80, "dave": 10} {
		_, err := s.SaveScore(ctx, name, score)
		require.NoError(t, err)
	}

	top, err := s.Top(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"alice", "bob", "carol"}, []string{top[0].Name, top[1].Name, top[2].Name})

	none, err := s.Top(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReopenKeepsScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.db")
	s, err := Open(path, nil)
	require.NoError(t, err)
	_, err = s.SaveScore(context.Background(), "alice", 70)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	best, err := s.Best(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 70, best)
}
