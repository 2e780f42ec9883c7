// Package ipc streams simulation snapshots from a running game to local
// viewers (the spectator) over a Unix domain socket, or localhost TCP on
// Windows. Messages are gob bodies behind a fixed 8-byte header.
package ipc

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

const (
	// DefaultSocketPath is the Unix socket path for IPC
	DefaultSocketPath = "/tmp/arena-fps.sock"

	// DefaultTCPPort is used instead of a socket on Windows
	DefaultTCPPort = "127.0.0.1:9877"

	// Message types
	MsgTypeSnapshot byte = 0x01
	MsgTypePing     byte = 0x02
	MsgTypePong     byte = 0x03
	MsgTypeArena    byte = 0x04

	// Protocol version for compatibility checking
	ProtocolVersion uint16 = 2

	MaxMessageSize = 1024 * 1024 // 1MB max message
	WriteTimeout   = 50 * time.Millisecond
	ReadTimeout    = 100 * time.Millisecond
	ReconnectDelay = 500 * time.Millisecond
	MaxReconnects  = 20
)

// Vec is a wire vector.
type Vec [3]float64

// SnapshotMessage is one simulation frame on the wire.
type SnapshotMessage struct {
	Sequence   uint64
	Timestamp  int64 // Unix nano
	TickNumber uint64
	Seed       int64
	SimTime    float64
	Active     bool
	GameOver   bool

	Player  PlayerData
	Enemies []EnemyData
	Remotes []RemoteData
	Effects []EffectData

	PendingSpawns int
}

// PlayerData is the local player's HUD state.
type PlayerData struct {
	Pos            Vec
	Yaw, Pitch     float64
	Health         int
	MaxHealth      int
	Ammo, MaxAmmo  int
	Reloading      bool
	ReloadProgress float64
	Score, Kills   int
	CanJump        bool
	IsDead         bool
}

// EnemyData is one live enemy.
type EnemyData struct {
	ID        string
	Pos       Vec
	Facing    Vec
	Health    int
	MaxHealth int
	Mode      string
	Visible   bool
	Stuck     bool
}

// RemoteData is one mirrored relay player.
type RemoteData struct {
	ID    string
	Pos   Vec
	Score int
}

// EffectData is one transient effect.
type EffectData struct {
	Kind     string
	Pos, End Vec
	Alpha    float64
}

// ArenaMessage carries the static obstacle layout. It is sent to each
// viewer on connect and whenever the layout changes.
type ArenaMessage struct {
	Obstacles []ObstacleData
}

// ObstacleData is one obstacle box.
type ObstacleData struct {
	Kind     uint8
	Min, Max Vec
}

// Header is the message header for framing
type Header struct {
	Version  uint16
	Type     byte
	Reserved byte
	Length   uint32
}

const HeaderSize = 8 // 2 + 1 + 1 + 4

var bufferPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// WriteMessage gob-encodes data and writes it as one framed message. A nil
// data writes a header-only message.
func WriteMessage(w io.Writer, msgType byte, data interface{}) error {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	buf.Write(make([]byte, HeaderSize))
	if data != nil {
		if err := gob.NewEncoder(buf).Encode(data); err != nil {
			return fmt.Errorf("gob encode: %w", err)
		}
	}

	frame := buf.Bytes()
	bodyLen := len(frame) - HeaderSize
	if bodyLen > MaxMessageSize {
		return fmt.Errorf("message too large: %d > %d", bodyLen, MaxMessageSize)
	}
	binary.LittleEndian.PutUint16(frame[0:2], ProtocolVersion)
	frame[2] = msgType
	frame[3] = 0
	binary.LittleEndian.PutUint32(frame[4:8], uint32(bodyLen))

	// One write per frame so concurrent writers never interleave mid-frame
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// ReadMessage reads one framed message.
func ReadMessage(r io.Reader) (byte, []byte, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, fmt.Errorf("read header: %w", err)
	}

	header := Header{
		Version: binary.LittleEndian.Uint16(hdr[0:2]),
		Type:    hdr[2],
		Length:  binary.LittleEndian.Uint32(hdr[4:8]),
	}
	if header.Version != ProtocolVersion {
		return 0, nil, fmt.Errorf("version mismatch: got %d, want %d", header.Version, ProtocolVersion)
	}
	if header.Length > MaxMessageSize {
		return 0, nil, fmt.Errorf("message too large: %d > %d", header.Length, MaxMessageSize)
	}

	var body []byte
	if header.Length > 0 {
		body = make([]byte, header.Length)
		if _, err := io.ReadFull(r, body); err != nil {
			return 0, nil, fmt.Errorf("read body: %w", err)
		}
	}
	return header.Type, body, nil
}

// DecodeSnapshot decodes a snapshot body.
func DecodeSnapshot(data []byte) (*SnapshotMessage, error) {
	var msg SnapshotMessage
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&msg); err != nil {
		return nil, fmt.Errorf("gob decode snapshot: %w", err)
	}
	return &msg, nil
}

// DecodeArena decodes an arena body.
func DecodeArena(data []byte) (*ArenaMessage, error) {
	var msg ArenaMessage
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&msg); err != nil {
		return nil, fmt.Errorf("gob decode arena: %w", err)
	}
	return &msg, nil
}

// CleanupSocket removes the socket file if it exists
func CleanupSocket(path string) error {
	if _, err := os.Stat(path); err == nil {
		return os.Remove(path)
	}
	return nil
}

// Connect dials the publisher, retrying up to MaxReconnects times.
func Connect(path string) (net.Conn, error) {
	var lastErr error
	for i := 0; i < MaxReconnects; i++ {
		conn, err := ConnectPlatform(path)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(ReconnectDelay)
	}
	return nil, fmt.Errorf("connect failed after %d attempts: %w", MaxReconnects, lastErr)
}
