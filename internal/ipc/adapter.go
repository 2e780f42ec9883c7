package ipc

import (
	"time"

	"arena-fps/internal/game"
	"arena-fps/internal/game/geom"
)

func toVec(v geom.Vec3) Vec   { return Vec{v.X, v.Y, v.Z} }
func (v Vec) Vec3() geom.Vec3 { return geom.V(v[0], v[1], v[2]) }

// SnapshotToMessage flattens a game snapshot for the wire.
func SnapshotToMessage(s *game.GameSnapshot) *SnapshotMessage {
	p := s.Player
	msg := &SnapshotMessage{
		Sequence:   s.Sequence,
		Timestamp:  s.Timestamp.UnixNano(),
		TickNumber: s.TickNumber,
		Seed:       s.Seed,
		SimTime:    s.SimTime,
		Active:     s.Active,
		GameOver:   s.GameOver,
		Player: PlayerData{
			Pos:            toVec(p.Position),
			Yaw:            p.Yaw,
			Pitch:          p.Pitch,
			Health:         p.Health,
			MaxHealth:      p.MaxHealth,
			Ammo:           p.Ammo,
			MaxAmmo:        p.MaxAmmo,
			Reloading:      p.Reloading,
			ReloadProgress: p.ReloadProgress,
			Score:          p.Score,
			Kills:          p.Kills,
			CanJump:        p.CanJump,
			IsDead:         p.IsDead,
		},
		PendingSpawns: s.PendingSpawns,
	}

	msg.Enemies = make([]EnemyData, len(s.Enemies))
	for i, e := range s.Enemies {
		msg.Enemies[i] = EnemyData{
			ID:        e.ID,
			Pos:       toVec(e.Position),
			Facing:    toVec(e.Facing),
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Mode:      e.Mode,
			Visible:   e.Visible,
			Stuck:     e.Stuck,
		}
	}

	msg.Remotes = make([]RemoteData, len(s.Remotes))
	for i, r := range s.Remotes {
		msg.Remotes[i] = RemoteData{ID: r.ID, Pos: toVec(r.Position), Score: r.Score}
	}

	msg.Effects = make([]EffectData, len(s.Effects))
	for i, f := range s.Effects {
		msg.Effects[i] = EffectData{Kind: f.Kind, Pos: toVec(f.Pos), End: toVec(f.End), Alpha: f.Alpha}
	}
	return msg
}

// ToGameSnapshot converts a wire snapshot back so viewers can reuse code
// written against game.GameSnapshot.
func (msg *SnapshotMessage) ToGameSnapshot() *game.GameSnapshot {
	p := msg.Player
	snap := &game.GameSnapshot{
		Sequence:   msg.Sequence,
		Timestamp:  time.Unix(0, msg.Timestamp),
		TickNumber: msg.TickNumber,
		Seed:       msg.Seed,
		SimTime:    msg.SimTime,
		Active:     msg.Active,
		GameOver:   msg.GameOver,
		Player: game.PlayerSnapshot{
			Position:       p.Pos.Vec3(),
			Yaw:            p.Yaw,
			Pitch:          p.Pitch,
			Health:         p.Health,
			MaxHealth:      p.MaxHealth,
			Ammo:           p.Ammo,
			MaxAmmo:        p.MaxAmmo,
			Reloading:      p.Reloading,
			ReloadProgress: p.ReloadProgress,
			Score:          p.Score,
			Kills:          p.Kills,
			CanJump:        p.CanJump,
			IsDead:         p.IsDead,
		},
		PendingSpawns: msg.PendingSpawns,
	}

	snap.Enemies = make([]game.EnemySnapshot, len(msg.Enemies))
	for i, e := range msg.Enemies {
		snap.Enemies[i] = game.EnemySnapshot{
			ID:        e.ID,
			Position:  e.Pos.Vec3(),
			Facing:    e.Facing.Vec3(),
			Health:    e.Health,
			MaxHealth: e.MaxHealth,
			Mode:      e.Mode,
			Visible:   e.Visible,
			Stuck:     e.Stuck,
		}
	}

	snap.Remotes = make([]game.RemoteSnapshot, len(msg.Remotes))
	for i, r := range msg.Remotes {
		snap.Remotes[i] = game.RemoteSnapshot{ID: r.ID, Position: r.Pos.Vec3(), Score: r.Score}
	}

	snap.Effects = make([]game.EffectSnapshot, len(msg.Effects))
	for i, f := range msg.Effects {
		snap.Effects[i] = game.EffectSnapshot{Kind: f.Kind, Pos: f.Pos.Vec3(), End: f.End.Vec3(), Alpha: f.Alpha}
	}
	return snap
}

// ArenaToMessage flattens an obstacle layout.
func ArenaToMessage(obs []game.Obstacle) *ArenaMessage {
	msg := &ArenaMessage{Obstacles: make([]ObstacleData, len(obs))}
	for i, o := range obs {
		msg.Obstacles[i] = ObstacleData{Kind: uint8(o.Kind), Min: toVec(o.Box.Min), Max: toVec(o.Box.Max)}
	}
	return msg
}

// ToObstacles converts the layout back into obstacles.
func (msg *ArenaMessage) ToObstacles() []game.Obstacle {
	out := make([]game.Obstacle, len(msg.Obstacles))
	for i, o := range msg.Obstacles {
		out[i] = game.Obstacle{
			Kind: game.ObstacleKind(o.Kind),
			Box:  geom.AABB{Min: o.Min.Vec3(), Max: o.Max.Vec3()},
		}
	}
	return out
}
