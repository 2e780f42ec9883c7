// Package relay is the multiplayer pass-through: a websocket hub that
// forwards player positions and scores between clients, and the game-side
// client that feeds those messages into an engine. The relay holds no
// authority; it never validates gameplay.
package relay

import (
	"encoding/json"

	"arena-fps/internal/game/geom"
)

// Event names on the wire.
const (
	EventConnected          = "connected" // server → client: your id
	EventCurrentPlayers     = "currentPlayers"
	EventNewPlayer          = "newPlayer"
	EventPlayerMovement     = "playerMovement" // client → server
	EventPlayerMoved        = "playerMoved"
	EventScoreUpdate        = "scoreUpdate" // client → server
	EventLeaderboardUpdate  = "leaderboardUpdate"
	EventPlayerDisconnected = "playerDisconnected"
)

// spawnEye is where every player starts, eye height above the origin.
var spawnEye = geom.V(0, 1.6, 0)

// Envelope frames every message as {"event": ..., "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// PlayerInfo is a connected player as other clients see it.
type PlayerInfo struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Position geom.Vec3 `json:"position"`
	Rotation float64   `json:"rotation"`
	Health   int       `json:"health"`
	Score    int       `json:"score"`
}

type connectedMessage struct {
	ID string `json:"id"`
}

type movementMessage struct {
	Position geom.Vec3 `json:"position"`
}

type movedMessage struct {
	ID       string    `json:"id"`
	Position geom.Vec3 `json:"position"`
}

type scoreMessage struct {
	Score int `json:"score"`
}

func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
