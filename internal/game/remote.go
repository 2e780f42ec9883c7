package game

import (
	"sort"

	"arena-fps/internal/game/geom"
)

// remoteHalfWidth and remoteEyeHeight size a remote player's box like ours.
const (
	remoteHalfWidth = 0.3
	remoteEyeHeight = 1.6
)

// RemotePlayer is another networked player, mirrored from relay messages.
// Remote players are never simulated locally; they only move when the relay
// says so.
type RemotePlayer struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Score    int       `json:"score"`
}

// Box returns the remote player's collision box (Position is the eye).
func (r RemotePlayer) Box() geom.AABB {
	return geom.AABB{
		Min: geom.V(r.Position.X-remoteHalfWidth, r.Position.Y-remoteEyeHeight, r.Position.Z-remoteHalfWidth),
		Max: geom.V(r.Position.X+remoteHalfWidth, r.Position.Y, r.Position.Z+remoteHalfWidth),
	}
}

// RemotePlayers is the set of mirrored players keyed by relay id. It is kept
// apart from the enemy list so no AI or damage logic ever touches it.
type RemotePlayers struct {
	players map[string]*RemotePlayer
	max     int
}

// NewRemotePlayers creates an empty set holding at most max players.
func NewRemotePlayers(max int) *RemotePlayers {
	return &RemotePlayers{
		players: make(map[string]*RemotePlayer),
		max:     max,
	}
}

// Upsert adds or replaces a player. Returns false when the set is full.
func (s *RemotePlayers) Upsert(p RemotePlayer) bool {
	if p.ID == "" || !p.Position.IsFinite() {
		return false
	}
	if existing, ok := s.players[p.ID]; ok {
		*existing = p
		return true
	}
	// HARD CAP: a hostile relay cannot grow this without bound
	if s.max > 0 && len(s.players) >= s.max {
		return false
	}
	cp := p
	s.players[p.ID] = &cp
	return true
}

// Move updates a known player's position. Unknown ids are ignored.
func (s *RemotePlayers) Move(id string, pos geom.Vec3) bool {
	p, ok := s.players[id]
	if !ok || !pos.IsFinite() {
		return false
	}
	p.Position = pos
	return true
}

// SetScore updates a known player's score.
func (s *RemotePlayers) SetScore(id string, score int) bool {
	p, ok := s.players[id]
	if !ok {
		return false
	}
	p.Score = score
	return true
}

// Remove drops a player.
func (s *RemotePlayers) Remove(id string) bool {
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	return true
}

// Reset clears the set.
func (s *RemotePlayers) Reset() {
	for id := range s.players {
		delete(s.players, id)
	}
}

// Len returns the number of mirrored players.
func (s *RemotePlayers) Len() int { return len(s.players) }

// List returns a copy of every player ordered by id.
func (s *RemotePlayers) List() []RemotePlayer {
	out := make([]RemotePlayer, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
