package relay

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestLeaderboardOrdering verifies score-descending, id-ascending order.
func TestLeaderboardOrdering(t *testing.T) {
	lb := NewLeaderboard()
	lb.Update("carol", 30)
	lb.Update("alice", 50)
	lb.Update("bob", 50)
	lb.Update("dave", 10)

	top := lb.Top(10)
	require.Len(t, top, 4)
	assert.Equal(t, LeaderboardEntry{ID: "alice", Score: 50, Rank: 1}, top[0])
	assert.Equal(t, LeaderboardEntry{ID: "bob", Score: 50, Rank: 2}, top[1])
	assert.Equal(t, "carol", top[2].ID)
	assert.Equal(t, "dave", top[3].ID)

	assert.Equal(t, 3, lb.Rank("carol"))
	assert.Equal(t, 0, lb.Rank("nobody"))
}

// TestLeaderboardUpdateMoves verifies a new score repositions the player.
func TestLeaderboardUpdateMoves(t *testing.T) {
	lb := NewLeaderboard()
	lb.Update("a", 10)
	lb.Update("b", 20)
	lb.Update("a", 30)

	assert.Equal(t, 1, lb.Rank("a"))
	assert.Equal(t, 2, lb.Rank("b"))
	assert.Equal(t, 2, lb.Len())

	score, ok := lb.Score("a")
	assert.True(t, ok)
	assert.Equal(t, 30, score)
	assert.Equal(t, map[string]int{"a": 30, "b": 20}, lb.Scores())
}

func TestLeaderboardRemove(t *testing.T) {
	lb := NewLeaderboard()
	lb.Update("a", 10)
	lb.Update("b", 20)

	assert.True(t, lb.Remove("b"))
	assert.False(t, lb.Remove("b"))
	assert.Equal(t, 1, lb.Rank("a"))
	assert.Equal(t, 1, lb.Len())
	assert.Empty(t, lb.Top(0))
}

// TestSkipListMatchesSort checks ranks and ranges against a sorted slice
// after random sets and removes.
func TestSkipListMatchesSort(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sl := newSkipList(rapid.Int64().Draw(t, "seed"))
		model := map[string]int{}

		ops := rapid.IntRange(1, 200).Draw(t, "ops")
		for i := 0; i < ops; i++ {
			key := fmt.Sprintf("p%d", rapid.IntRange(0, 30).Draw(t, "key"))
			if rapid.IntRange(0, 4).Draw(t, "op") == 0 {
				_, had := model[key]
				if sl.Remove(key) != had {
					t.Fatalf("Remove(%s) disagreed with model", key)
				}
				delete(model, key)
				continue
			}
			score := rapid.IntRange(-5, 5).Draw(t, "score")
			sl.Set(key, score)
			model[key] = score
		}

		want := make([]rankedEntry, 0, len(model))
		for k, v := range model {
			want = append(want, rankedEntry{Key: k, Score: v})
		}
		sort.Slice(want, func(i, j int) bool { return want[i].before(want[j]) })

		if sl.Len() != len(want) {
			t.Fatalf("Expected length %d, got %d", len(want), sl.Len())
		}
		for i, e := range want {
			if r := sl.Rank(e.Key); r != i+1 {
				t.Fatalf("Expected rank %d for %s, got %d", i+1, e.Key, r)
			}
		}
		if len(want) > 0 {
			start := rapid.IntRange(1, len(want)).Draw(t, "start")
			got := sl.Range(start, 5)
			end := start - 1 + 5
			if end > len(want) {
				end = len(want)
			}
			if fmt.Sprint(got) != fmt.Sprint(want[start-1:end]) {
				t.Fatalf("Range(%d,5) = %v, want %v", start, got, want[start-1:end])
			}
		}
	})
}
