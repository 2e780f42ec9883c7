package game

import (
	"sync/atomic"
	"time"

	"arena-fps/internal/game/geom"
)

// ResourceLimits defines hard caps on per-session state
type ResourceLimits struct {
	MaxEnemies       int `mapstructure:"max_enemies"`        // Live plus pending enemies
	MaxEffects       int `mapstructure:"max_effects"`        // Transient effects alive at once
	MaxRemotePlayers int `mapstructure:"max_remote_players"` // Mirrored relay players
}

// DefaultLimits provides safe default limits
var DefaultLimits = ResourceLimits{
	MaxEnemies:       64,
	MaxEffects:       256,
	MaxRemotePlayers: 32,
}

// PlayerSnapshot is the HUD view of the local player
type PlayerSnapshot struct {
	Position       geom.Vec3 `json:"position"`
	Yaw            float64   `json:"yaw"`
	Pitch          float64   `json:"pitch"`
	Health         int       `json:"health"`
	MaxHealth      int       `json:"maxHealth"`
	Ammo           int       `json:"ammo"`
	MaxAmmo        int       `json:"maxAmmo"`
	Reloading      bool      `json:"reloading"`
	ReloadProgress float64   `json:"reloadProgress"` // 0..1 while reloading
	Score          int       `json:"score"`
	Kills          int       `json:"kills"`
	CanJump        bool      `json:"canJump"`
	IsDead         bool      `json:"isDead"`
}

// EnemySnapshot is an immutable copy of one live enemy
type EnemySnapshot struct {
	ID        string    `json:"id"`
	Position  geom.Vec3 `json:"position"`
	Facing    geom.Vec3 `json:"facing"`
	Health    int       `json:"health"`
	MaxHealth int       `json:"maxHealth"`
	Mode      string    `json:"mode"`
	Visible   bool      `json:"visible"` // enemy has line of sight to the player
	Stuck     bool      `json:"stuck"`
}

// RemoteSnapshot is a mirrored relay player
type RemoteSnapshot struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
	Score    int       `json:"score"`
}

// EffectSnapshot is an immutable transient effect
type EffectSnapshot struct {
	Kind  string    `json:"kind"`
	Pos   geom.Vec3 `json:"pos"`
	End   geom.Vec3 `json:"end"`
	Alpha float64   `json:"alpha"`
}

// GameSnapshot is a complete immutable game state for rendering
// All slices are pre-allocated and capped by ResourceLimits
type GameSnapshot struct {
	Sequence   uint64    `json:"sequence"`   // Monotonic sequence for ordering
	Timestamp  time.Time `json:"timestamp"`  // When snapshot was created
	TickNumber uint64    `json:"tickNumber"` // Game tick this represents
	Seed       int64     `json:"seed"`       // Session seed for replay

	Active   bool    `json:"active"`
	GameOver bool    `json:"gameOver"`
	SimTime  float64 `json:"simTime"` // seconds of simulated time this session

	Player  PlayerSnapshot   `json:"player"`
	Enemies []EnemySnapshot  `json:"enemies"`
	Remotes []RemoteSnapshot `json:"remotes"`
	Effects []EffectSnapshot `json:"effects"`

	PendingSpawns int `json:"pendingSpawns"`
}

// Clone returns a deep copy that shares no slices with the pool.
func (s *GameSnapshot) Clone() GameSnapshot {
	out := *s
	out.Enemies = append([]EnemySnapshot(nil), s.Enemies...)
	out.Remotes = append([]RemoteSnapshot(nil), s.Remotes...)
	out.Effects = append([]EffectSnapshot(nil), s.Effects...)
	return out
}

// SnapshotPool pre-allocates snapshots to avoid GC pressure
// Uses triple buffering so a reader never sees a half-written snapshot
type SnapshotPool struct {
	snapshots [3]GameSnapshot // Triple buffer
	limits    ResourceLimits
	writeIdx  uint32 // atomic - producer index
	readIdx   uint32 // atomic - consumer index
	sequence  uint64 // atomic - monotonic sequence
}

// NewSnapshotPool creates a pool with pre-allocated slices
func NewSnapshotPool(limits ResourceLimits) *SnapshotPool {
	pool := &SnapshotPool{limits: limits}

	for i := 0; i < 3; i++ {
		pool.snapshots[i] = GameSnapshot{
			Enemies: make([]EnemySnapshot, 0, limits.MaxEnemies),
			Remotes: make([]RemoteSnapshot, 0, limits.MaxRemotePlayers),
			Effects: make([]EffectSnapshot, 0, limits.MaxEffects),
		}
	}

	return pool
}

// AcquireWrite gets the next write slot (producer only, called from the tick)
// Returns a snapshot with reset slices but preserved capacity
func (p *SnapshotPool) AcquireWrite(now time.Time) *GameSnapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	snap := &p.snapshots[idx]

	snap.Enemies = snap.Enemies[:0]
	snap.Remotes = snap.Remotes[:0]
	snap.Effects = snap.Effects[:0]

	snap.Sequence = atomic.AddUint64(&p.sequence, 1)
	snap.Timestamp = now

	return snap
}

// PublishWrite marks write complete and advances read pointer
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead gets the latest complete snapshot (consumer only)
func (p *SnapshotPool) AcquireRead() *GameSnapshot {
	idx := atomic.LoadUint32(&p.readIdx) % 3
	return &p.snapshots[idx]
}

// GetLimits returns the resource limits
func (p *SnapshotPool) GetLimits() ResourceLimits {
	return p.limits
}
