package game

import (
	"encoding/json"
	"time"

	"arena-fps/internal/game/geom"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown       EventType = iota
	EventTypeTick                    // Tick boundary
	EventTypeGameStart               // Session reset and initial wave spawned
	EventTypeGameOver                // Player health reached zero
	EventTypeEnemySpawn              //
	EventTypeEnemyKilled             //
	EventTypeEnemyDamaged            // Player shot landed on an enemy
	EventTypePlayerDamaged           // Enemy shot or melee contact
	EventTypePlayerShot              // Player fired
	EventTypeEnemyShot               // Enemy fired (hit or miss)
	EventTypeBulletImpact            // Player shot struck geometry or a remote player
	EventTypeTeleport                // Enemy emergency teleport
	EventTypeReload                  // Reload finished
	EventTypePlayerMoved             // Input-driven movement this tick
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is the core event structure for the event log and observers
type Event struct {
	Version   uint8     `json:"version"`   // Schema version
	Type      EventType `json:"type"`      // Event type
	Timestamp int64     `json:"timestamp"` // Unix nano
	Sequence  uint64    `json:"sequence"`  // Monotonic sequence, assigned by the log
	TickNum   uint64    `json:"tickNum"`   // Game tick this occurred in
	EntityID  string    `json:"entityId"`  // Source entity (for rate limiting)
	Payload   []byte    `json:"payload"`   // JSON-encoded payload
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeGameStart:
		return "game_start"
	case EventTypeGameOver:
		return "game_over"
	case EventTypeEnemySpawn:
		return "enemy_spawn"
	case EventTypeEnemyKilled:
		return "enemy_killed"
	case EventTypeEnemyDamaged:
		return "enemy_damaged"
	case EventTypePlayerDamaged:
		return "player_damaged"
	case EventTypePlayerShot:
		return "player_shot"
	case EventTypeEnemyShot:
		return "enemy_shot"
	case EventTypeBulletImpact:
		return "bullet_impact"
	case EventTypeTeleport:
		return "teleport"
	case EventTypeReload:
		return "reload"
	case EventTypePlayerMoved:
		return "player_moved"
	default:
		return "unknown"
	}
}

// MarshalText lets event types appear by name in JSON and logs.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Typed payloads for different event types

// TickPayload contains tick boundary information for replay
type TickPayload struct {
	EnemyCount  int   `json:"enemyCount"`
	DeltaTimeNs int64 `json:"deltaTimeNs"`
}

// GameStartPayload records the seed so a session can be replayed
type GameStartPayload struct {
	Seed       int64 `json:"seed"`
	EnemyCount int   `json:"enemyCount"`
}

// GameOverPayload contains the final tally
type GameOverPayload struct {
	Score int `json:"score"`
	Kills int `json:"kills"`
}

// EnemySpawnPayload contains spawn details
type EnemySpawnPayload struct {
	EnemyID  string    `json:"enemyId"`
	Position geom.Vec3 `json:"position"`
	Source   string    `json:"source"`
}

// EnemyKilledPayload contains kill details
type EnemyKilledPayload struct {
	EnemyID    string    `json:"enemyId"`
	Position   geom.Vec3 `json:"position"`
	Distance   float64   `json:"distance"`
	Awarded    int       `json:"awarded"`
	TotalScore int       `json:"totalScore"`
	Kills      int       `json:"kills"`
}

// DamagePayload contains damage event details
type DamagePayload struct {
	SourceID    string `json:"sourceId"`
	TargetID    string `json:"targetId"`
	Damage      int    `json:"damage"`
	RemainingHP int    `json:"remainingHp"`
	Cause       string `json:"cause"` // "shot" or "melee"
}

// ShotPayload describes a fired shot and where its trail ends
type ShotPayload struct {
	ShooterID string    `json:"shooterId"`
	Origin    geom.Vec3 `json:"origin"`
	End       geom.Vec3 `json:"end"`
	Hit       bool      `json:"hit"`
	Ammo      int       `json:"ammo"`
}

// ImpactPayload contains where a player shot struck non-enemy geometry
type ImpactPayload struct {
	Point  geom.Vec3 `json:"point"`
	Target string    `json:"target"` // obstacle kind or "remote_player"
}

// TeleportPayload contains emergency teleport details
type TeleportPayload struct {
	EnemyID string    `json:"enemyId"`
	From    geom.Vec3 `json:"from"`
	To      geom.Vec3 `json:"to"`
}

// ReloadPayload is emitted when the magazine has been refilled
type ReloadPayload struct {
	Ammo int `json:"ammo"`
}

// PlayerMovedPayload carries the local position for the relay
type PlayerMovedPayload struct {
	Position geom.Vec3 `json:"position"`
	Yaw      float64   `json:"yaw"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload interface{}) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event stamped with at
func NewEvent(eventType EventType, tickNum uint64, entityID string, payload interface{}, at time.Time) Event {
	return Event{
		Version:   EventVersion,
		Type:      eventType,
		Timestamp: at.UnixNano(),
		TickNum:   tickNum,
		EntityID:  entityID,
		Payload:   EncodePayload(payload),
	}
}
