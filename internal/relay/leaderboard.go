package relay

import "sync"

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
	Rank  int    `json:"rank"`
}

// Leaderboard ranks connected players by their last reported score.
//
// Operations:
//   - Update, Remove, Rank: O(log n)
//   - Top: O(log n + k)
type Leaderboard struct {
	mu   sync.RWMutex
	list *skipList
}

// NewLeaderboard creates an empty leaderboard.
func NewLeaderboard() *Leaderboard {
	return &Leaderboard{list: newSkipList(1)}
}

// Update sets id's score.
func (lb *Leaderboard) Update(id string, score int) {
	lb.mu.Lock()
	lb.list.Set(id, score)
	lb.mu.Unlock()
}

// Remove drops id from the ranking.
func (lb *Leaderboard) Remove(id string) bool {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.list.Remove(id)
}

// Rank returns id's 1-based rank, 0 if unranked.
func (lb *Leaderboard) Rank(id string) int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.list.Rank(id)
}

// Score returns id's score.
func (lb *Leaderboard) Score(id string) (int, bool) {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.list.Score(id)
}

// Top returns the best n players, best first.
func (lb *Leaderboard) Top(n int) []LeaderboardEntry {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	entries := lb.list.Range(1, n)
	out := make([]LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = LeaderboardEntry{ID: e.Key, Score: e.Score, Rank: i + 1}
	}
	return out
}

// Scores returns every id's score, the shape of a leaderboardUpdate message.
func (lb *Leaderboard) Scores() map[string]int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()

	out := make(map[string]int, len(lb.list.scores))
	for k, v := range lb.list.scores {
		out[k] = v
	}
	return out
}

// Len returns the number of ranked players.
func (lb *Leaderboard) Len() int {
	lb.mu.RLock()
	defer lb.mu.RUnlock()
	return lb.list.Len()
}
