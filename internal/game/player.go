package game

import (
	"math"

	"arena-fps/internal/game/geom"
)

// PlayerTuning holds the player movement constants.
type PlayerTuning struct {
	Speed         float64 // units per second
	Gravity       float64 // units per second squared
	JumpVelocity  float64
	EyeHeight     float64 // camera height above the feet
	HalfWidth     float64 // half the footprint of the collision box
	FloorY        float64
	ProbeDistance float64 // wall probe reach
	PushBack      float64 // distance pushed away from a probed wall
	StepHeight    float64 // tallest ledge walked onto without jumping
	ArenaHalf     float64 // |x| and |z| are clamped to this
	MaxHealth     int
	MagazineSize  int
}

// DefaultPlayerTuning returns the canonical player constants.
func DefaultPlayerTuning() PlayerTuning {
	return PlayerTuning{
		Speed:         8,
		Gravity:       20,
		JumpVelocity:  10,
		EyeHeight:     1.6,
		HalfWidth:     0.3,
		FloorY:        0,
		ProbeDistance: 0.5,
		PushBack:      0.1,
		StepHeight:    0.5,
		ArenaHalf:     75,
		MaxHealth:     100,
		MagazineSize:  30,
	}
}

// MoveInput is the set of held movement keys.
type MoveInput struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
}

// Any reports whether any movement key is held.
func (m MoveInput) Any() bool { return m.Forward || m.Backward || m.Left || m.Right }

// CameraControls turns camera-relative movement into world positions. The
// interactive client plugs its own implementation in; tests and headless
// sessions use YawPitchControls.
type CameraControls interface {
	MoveForward(pos geom.Vec3, distance float64) geom.Vec3
	MoveRight(pos geom.Vec3, distance float64) geom.Vec3
	ViewDirection() geom.Vec3
}

// YawPitchControls is a first-person camera. Yaw 0 looks down -Z.
type YawPitchControls struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

const maxPitch = math.Pi/2 - 0.01

// Turn adds to yaw and pitch, clamping pitch short of straight up or down.
func (c *YawPitchControls) Turn(dYaw, dPitch float64) {
	if math.IsNaN(dYaw) || math.IsNaN(dPitch) {
		return
	}
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+dPitch))
}

func (c *YawPitchControls) forward() geom.Vec3 {
	s, co := math.Sincos(c.Yaw)
	return geom.V(-s, 0, -co)
}

func (c *YawPitchControls) right() geom.Vec3 {
	s, co := math.Sincos(c.Yaw)
	return geom.V(co, 0, -s)
}

func (c *YawPitchControls) MoveForward(pos geom.Vec3, distance float64) geom.Vec3 {
	return pos.Add(c.forward().Scale(distance))
}

func (c *YawPitchControls) MoveRight(pos geom.Vec3, distance float64) geom.Vec3 {
	return pos.Add(c.right().Scale(distance))
}

func (c *YawPitchControls) ViewDirection() geom.Vec3 {
	sp, cp := math.Sincos(c.Pitch)
	f := c.forward()
	return geom.V(f.X*cp, sp, f.Z*cp)
}

// Player is the local first-person player. Position is the eye.
type Player struct {
	Position geom.Vec3 `json:"position"`
	Velocity geom.Vec3 `json:"velocity"`
	Input    MoveInput `json:"input"`
	CanJump  bool      `json:"canJump"`

	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Ammo      int `json:"ammo"`
	MaxAmmo   int `json:"maxAmmo"`
	Score     int `json:"score"`
	Kills     int `json:"kills"`

	Controls CameraControls `json:"-"`
	Tuning   PlayerTuning   `json:"-"`

	damageCooldown float64
}

// NewPlayer creates a player at the spawn point with yaw/pitch controls.
func NewPlayer(tuning PlayerTuning) *Player {
	p := &Player{
		Tuning:   tuning,
		Controls: &YawPitchControls{},
	}
	p.Reset()
	return p
}

// SpawnPoint is where the player starts every session.
func (p *Player) SpawnPoint() geom.Vec3 {
	return geom.V(0, p.Tuning.FloorY+p.Tuning.EyeHeight, 0)
}

// Reset puts the player back at spawn with full health and ammo.
func (p *Player) Reset() {
	p.Position = p.SpawnPoint()
	p.Velocity = geom.Vec3{}
	p.Input = MoveInput{}
	p.CanJump = true
	p.Health = p.Tuning.MaxHealth
	p.MaxHealth = p.Tuning.MaxHealth
	p.Ammo = p.Tuning.MagazineSize
	p.MaxAmmo = p.Tuning.MagazineSize
	p.Score = 0
	p.Kills = 0
	p.damageCooldown = 0
	if c, ok := p.Controls.(*YawPitchControls); ok {
		*c = YawPitchControls{}
	}
}

// Feet returns the Y of the bottom of the player.
func (p *Player) Feet() float64 { return p.Position.Y - p.Tuning.EyeHeight }

// Box returns the collision box from the feet to the eye.
func (p *Player) Box() geom.AABB { return p.boxAt(p.Position) }

func (p *Player) boxAt(pos geom.Vec3) geom.AABB {
	hw := p.Tuning.HalfWidth
	return geom.AABB{
		Min: geom.V(pos.X-hw, pos.Y-p.Tuning.EyeHeight, pos.Z-hw),
		Max: geom.V(pos.X+hw, pos.Y, pos.Z+hw),
	}
}

// ViewRay is the ray from the eye along the look direction.
func (p *Player) ViewRay() geom.Ray {
	dir := p.Controls.ViewDirection().Normalize()
	if dir.IsZero() {
		dir = geom.V(0, 0, -1)
	}
	return geom.Ray{Origin: p.Position, Dir: dir}
}

// IsDead reports whether health has reached zero.
func (p *Player) IsDead() bool { return p.Health <= 0 }

// TakeDamage subtracts amount, clamped at zero. Returns true on the hit that
// kills.
func (p *Player) TakeDamage(amount int) bool {
	if p.Health <= 0 || amount <= 0 {
		return false
	}
	p.Health -= amount
	if p.Health <= 0 {
		p.Health = 0
		return true
	}
	return false
}

// TakeContactDamage applies melee damage unless the contact cooldown is
// still running. Returns whether damage was applied.
func (p *Player) TakeContactDamage(amount int, cooldown float64) bool {
	if p.damageCooldown > 0 || p.IsDead() {
		return false
	}
	p.TakeDamage(amount)
	p.damageCooldown = cooldown
	return true
}

// Jump starts a jump if the player is standing on something.
func (p *Player) Jump() bool {
	if !p.CanJump {
		return false
	}
	p.Velocity.Y = p.Tuning.JumpVelocity
	p.CanJump = false
	return true
}

// Update advances the player by delta seconds: gravity, camera-relative
// movement, step-up, landing, wall probes and the arena clamp.
func (p *Player) Update(delta float64, obstacles *ObstacleRegistry) {
	if delta <= 0 || math.IsNaN(delta) {
		return
	}
	if p.damageCooldown > 0 {
		p.damageCooldown = math.Max(0, p.damageCooldown-delta)
	}
	p.move(delta, p.Input, obstacles)
}

// Fall advances gravity and landing only, as if no movement key were held.
// It leaves the contact cooldown alone.
func (p *Player) Fall(delta float64, obstacles *ObstacleRegistry) {
	if delta <= 0 || math.IsNaN(delta) {
		return
	}
	p.move(delta, MoveInput{}, obstacles)
}

func (p *Player) move(delta float64, in MoveInput, obstacles *ObstacleRegistry) {
	t := p.Tuning
	p.Velocity.Y -= t.Gravity * delta

	fwd := boolAxis(in.Forward, in.Backward)
	strafe := boolAxis(in.Right, in.Left)
	if l := math.Hypot(fwd, strafe); l > 0 {
		fwd /= l
		strafe /= l
	}

	pos := p.Position
	if in.Forward || in.Backward {
		pos = p.Controls.MoveForward(pos, fwd*t.Speed*delta)
	}
	if in.Left || in.Right {
		pos = p.Controls.MoveRight(pos, strafe*t.Speed*delta)
	}
	pos.Y = p.Position.Y
	pos = p.stepUp(pos, obstacles)

	prevFeet := pos.Y - t.EyeHeight
	pos.Y += p.Velocity.Y * delta
	newFeet := pos.Y - t.EyeHeight

	if p.Velocity.Y <= 0 {
		if top, ok := obstacles.LandingHeight(p.boxAt(pos), newFeet, prevFeet); ok {
			pos.Y = top + t.EyeHeight
			p.Velocity.Y = 0
			p.CanJump = true
		}
	}

	if pos.Y < t.FloorY+t.EyeHeight {
		pos.Y = t.FloorY + t.EyeHeight
		p.Velocity.Y = 0
		p.CanJump = true
	}

	pos = p.probeWalls(pos, obstacles)

	pos.X = clamp(pos.X, -t.ArenaHalf, t.ArenaHalf)
	pos.Z = clamp(pos.Z, -t.ArenaHalf, t.ArenaHalf)
	p.Position = pos
}

// Motion is the part of the player state a movement frame changes.
type Motion struct {
	Position geom.Vec3
	Velocity geom.Vec3
	CanJump  bool
}

// Motion captures the current movement state.
func (p *Player) Motion() Motion {
	return Motion{Position: p.Position, Velocity: p.Velocity, CanJump: p.CanJump}
}

// Restore puts back a movement state taken with Motion.
func (p *Player) Restore(m Motion) {
	p.Position = m.Position
	p.Velocity = m.Velocity
	p.CanJump = m.CanJump
}

// stepUp lifts the player onto a ledge no taller than StepHeight.
func (p *Player) stepUp(pos geom.Vec3, obstacles *ObstacleRegistry) geom.Vec3 {
	top, ok := obstacles.StepTop(p.boxAt(pos), p.Tuning.StepHeight)
	if !ok {
		return pos
	}
	raised := pos
	raised.Y = top + p.Tuning.EyeHeight
	if obstacles.Collides(p.boxAt(raised)) {
		return pos
	}
	return raised
}

var probeDirections = [4]geom.Vec3{
	{X: 1}, {X: -1}, {Z: 1}, {Z: -1},
}

// probeWalls casts a short ray along each world axis from the eye and nudges
// the player away from any wall it touches.
func (p *Player) probeWalls(pos geom.Vec3, obstacles *ObstacleRegistry) geom.Vec3 {
	for _, dir := range probeDirections {
		if hit, ok := obstacles.Raycast(pos, dir, p.Tuning.ProbeDistance); ok && hit.Distance < p.Tuning.ProbeDistance {
			pos = pos.Sub(dir.Scale(p.Tuning.PushBack))
		}
	}
	return pos
}

func boolAxis(pos, neg bool) float64 {
	v := 0.0
	if pos {
		v++
	}
	if neg {
		v--
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}
