package ipc

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

// TestFraming verifies header layout and body recovery.
func TestFraming(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, MsgTypePing, nil))
	require.NoError(t, WriteMessage(&buf, MsgTypeArena, &ArenaMessage{Obstacles: []ObstacleData{{Kind: 2}}}))

	raw := buf.Bytes()
	assert.Equal(t, ProtocolVersion, binary.LittleEndian.Uint16(raw[0:2]))
	assert.Equal(t, MsgTypePing, raw[2])
	assert.Zero(t, binary.LittleEndian.Uint32(raw[4:8]))

	typ, body, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgTypePing, typ)
	assert.Empty(t, body)

	typ, body, err = ReadMessage(&buf)
	require.NoError(t, err)
	assert.Equal(t, MsgTypeArena, typ)
	arena, err := DecodeArena(body)
	require.NoError(t, err)
	require.Len(t, arena.Obstacles, 1)
	assert.Equal(t, uint8(2), arena.Obstacles[0].Kind)
}

func TestReadMessageRejectsBadHeaders(t *testing.T) {
	hdr := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint16(hdr[0:2], ProtocolVersion+1)
	_, _, err := ReadMessage(bytes.NewReader(hdr))
	assert.ErrorContains(t, err, "version mismatch")

	binary.LittleEndian.PutUint16(hdr[0:2], ProtocolVersion)
	binary.LittleEndian.PutUint32(hdr[4:8], MaxMessageSize+1)
	_, _, err = ReadMessage(bytes.NewReader(hdr))
	assert.ErrorContains(t, err, "too large")

	_, _, err = ReadMessage(bytes.NewReader(hdr[:3]))
	assert.Error(t, err)
}

// TestSnapshotConversion verifies a snapshot survives the wire form.
func TestSnapshotConversion(t *testing.T) {
	snap := &game.GameSnapshot{
		Sequence:   9,
		Timestamp:  time.Unix(0, 12345),
		TickNumber: 100,
		Seed:       42,
		SimTime:    1.5,
		Active:     true,
		Player: game.PlayerSnapshot{
			Position: geom.V(1, 1.6, 2), Yaw: 0.5, Health: 80, MaxHealth: 100,
			Ammo: 12, MaxAmmo: 30, Score: 25, Kills: 2, CanJump: true,
		},
		Enemies: []game.EnemySnapshot{{
			ID: "e1", Position: geom.V(5, 1, 5), Facing: geom.V(0, 0, 1),
			Health: 50, MaxHealth: 100, Mode: "chase", Visible: true,
		}},
		Remotes:       []game.RemoteSnapshot{{ID: "r1", Position: geom.V(0, 1.6, -3), Score: 7}},
		Effects:       []game.EffectSnapshot{{Kind: "explosion", Pos: geom.V(5, 1, 5), Alpha: 0.5}},
		PendingSpawns: 1,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, MsgTypeSnapshot, SnapshotToMessage(snap)))
	_, body, err := ReadMessage(&buf)
	require.NoError(t, err)
	msg, err := DecodeSnapshot(body)
	require.NoError(t, err)

	got := msg.ToGameSnapshot()
	assert.True(t, snap.Timestamp.Equal(got.Timestamp))
	got.Timestamp = snap.Timestamp
	assert.Equal(t, snap, got)
}

func TestArenaConversion(t *testing.T) {
	obs := []game.Obstacle{
		{Kind: game.KindWall, Box: geom.AABB{Min: geom.V(-1, 0, -1), Max: geom.V(1, 5, 1)}},
		{Kind: game.KindBarrel, Box: geom.AABB{Min: geom.V(2, 0, 2), Max: geom.V(3, 2, 3)}},
	}
	assert.Equal(t, obs, ArenaToMessage(obs).ToObstacles())
}
