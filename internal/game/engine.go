package game

import (
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"arena-fps/internal/game/geom"
	"arena-fps/internal/game/spatial"
)

var (
	ErrSessionNotActive = errors.New("session not active")
	ErrSessionActive    = errors.New("session in progress")
	ErrOutOfAmmo        = errors.New("out of ammo")
	ErrReloading        = errors.New("reloading")
	ErrMagazineFull     = errors.New("magazine full")
)

const (
	// maxFrameDelta caps a measured frame so a stalled host does not tunnel
	// enemies through walls on the next tick.
	maxFrameDelta = 0.1

	gridCellSize = 5.0
)

// Clock is the engine's only source of wall-clock time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock reads time.Now.
var SystemClock Clock = systemClock{}

// EventListener observes engine events. Listeners run synchronously inside
// the tick while the engine lock is held: they must not block and must not
// call back into the engine.
type EventListener func(ev Event, payload any)

// TickObserver receives the wall time a tick took and the live enemy count.
type TickObserver func(took time.Duration, enemies int)

// MoveKey is one of the four movement inputs.
type MoveKey uint8

const (
	KeyForward MoveKey = iota
	KeyBackward
	KeyLeft
	KeyRight
)

// EngineConfig configures a session engine.
type EngineConfig struct {
	TickRate       int
	InitialEnemies int
	Seed           int64 // 0 picks a time-based seed
	Limits         ResourceLimits
	Enemy          EnemyTuning
	Player         PlayerTuning
	Spawn          SpawnPolicy
	Obstacles      []Obstacle
	Clock          Clock
	Logger         *zap.Logger
	NewID          func() string // enemy ids, uuid by default
}

// DefaultEngineConfig returns the canonical single-player configuration with
// an empty arena.
func DefaultEngineConfig() EngineConfig {
	enemy := DefaultEnemyTuning()
	return EngineConfig{
		TickRate:       60,
		InitialEnemies: 5,
		Limits:         DefaultLimits,
		Enemy:          enemy,
		Player:         DefaultPlayerTuning(),
		Spawn:          DefaultSpawnPolicy(enemy.Size),
	}
}

// ShotReport is what a player shot did.
type ShotReport struct {
	Hit      bool      `json:"hit"`
	Target   string    `json:"target,omitempty"` // "enemy", "remote_player" or an obstacle kind
	EnemyID  string    `json:"enemyId,omitempty"`
	Killed   bool      `json:"killed"`
	Awarded  int       `json:"awarded"`
	Point    geom.Vec3 `json:"point"` // hit point, or the end of the weapon's range
	Distance float64   `json:"distance"`
	Ammo     int       `json:"ammo"`
}

type pendingSpawn struct {
	due float64 // simulation time
}

// Engine owns one game session and advances it one frame at a time.
type Engine struct {
	mu sync.RWMutex

	cfg       EngineConfig
	player    *Player
	enemies   []*Enemy
	obstacles *ObstacleRegistry
	remotes   *RemotePlayers
	effects   []*Effect
	pending   []pendingSpawn

	// Spatial index over enemies by slice position, rebuilt every tick
	grid *spatial.SpatialGrid

	active      bool
	gameOver    bool
	simTime     float64
	startedAt   time.Time
	tickCount   uint64
	reloading   bool
	reloadTimer float64

	tickRate int
	running  bool
	ticker   *time.Ticker
	stopChan chan struct{}

	listeners []EventListener
	observers []TickObserver

	snapshotPool *SnapshotPool
	eventLog     *EventLog

	// Deterministic RNG: seeder hands out one seed per session
	seeder *rand.Rand
	rng    *rand.Rand
	seed   int64

	clock  Clock
	logger *zap.Logger
}

// NewEngine creates an idle engine. Call StartGame to begin a session.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	if cfg.Limits == (ResourceLimits{}) {
		cfg.Limits = DefaultLimits
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Seed == 0 {
		cfg.Seed = cfg.Clock.Now().UnixNano()
	}

	arena := cfg.Player.ArenaHalf * 2
	if arena <= 0 {
		arena = 150
	}

	seeder := rand.New(rand.NewSource(cfg.Seed))
	return &Engine{
		cfg:          cfg,
		player:       NewPlayer(cfg.Player),
		enemies:      make([]*Enemy, 0, cfg.Limits.MaxEnemies),
		obstacles:    NewObstacleRegistry(cfg.Obstacles),
		remotes:      NewRemotePlayers(cfg.Limits.MaxRemotePlayers),
		effects:      make([]*Effect, 0, cfg.Limits.MaxEffects),
		grid:         spatial.NewCenteredGrid(arena, gridCellSize, cfg.Limits.MaxEnemies),
		tickRate:     cfg.TickRate,
		stopChan:     make(chan struct{}),
		snapshotPool: NewSnapshotPool(cfg.Limits),
		eventLog:     NewEventLog(cfg.Logger),
		seeder:       seeder,
		rng:          rand.New(rand.NewSource(seeder.Int63())),
		clock:        cfg.Clock,
		logger:       cfg.Logger,
	}
}

// Start drives Tick from a ticker at the configured rate, using measured
// frame time capped at maxFrameDelta.
func (e *Engine) Start() {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	e.stopChan = make(chan struct{})
	e.ticker = time.NewTicker(time.Second / time.Duration(e.tickRate))
	ticker, stop := e.ticker, e.stopChan
	e.mu.Unlock()

	go func() {
		last := e.clock.Now()
		for {
			select {
			case <-ticker.C:
				now := e.clock.Now()
				delta := math.Min(now.Sub(last).Seconds(), maxFrameDelta)
				last = now
				e.Tick(delta)
			case <-stop:
				return
			}
		}
	}()

	e.logger.Info("🎮 Game engine started", zap.Int("tps", e.tickRate))
}

// Stop stops the game loop
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}

	e.running = false
	e.ticker.Stop()
	close(e.stopChan)
	e.logger.Info("🛑 Game engine stopped")
}

// OnEvent registers an event listener.
func (e *Engine) OnEvent(l EventListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// OnTick registers a tick observer.
func (e *Engine) OnTick(o TickObserver) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

// LoadObstacles replaces the obstacle registry. Only allowed between sessions.
func (e *Engine) LoadObstacles(obs []Obstacle) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active {
		return ErrSessionActive
	}
	e.obstacles = NewObstacleRegistry(obs)
	return nil
}

// Obstacles returns a copy of the current obstacle list.
func (e *Engine) Obstacles() []Obstacle {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.obstacles.All()
}

// StartGame resets the player, clears enemies, effects and pending spawns,
// reseeds the session RNG and spawns the initial wave.
func (e *Engine) StartGame() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seed = e.seeder.Int63()
	e.rng = rand.New(rand.NewSource(e.seed))

	e.player.Reset()
	e.enemies = e.enemies[:0]
	e.effects = e.effects[:0]
	e.pending = e.pending[:0]
	e.active = true
	e.gameOver = false
	e.simTime = 0
	e.startedAt = e.clock.Now()
	e.reloading = false
	e.reloadTimer = 0

	n := e.cfg.InitialEnemies
	if n > e.cfg.Limits.MaxEnemies {
		n = e.cfg.Limits.MaxEnemies
	}
	for i := 0; i < n; i++ {
		e.spawnEnemy()
	}

	e.emit(EventTypeGameStart, "", GameStartPayload{Seed: e.seed, EnemyCount: len(e.enemies)})
	e.logger.Info("🏁 Session started",
		zap.Int64("seed", e.seed),
		zap.Int("enemies", len(e.enemies)),
		zap.Int("obstacles", e.obstacles.Len()))

	e.produceSnapshot()
}

// Tick advances the session by delta seconds of simulated time.
func (e *Engine) Tick(delta float64) {
	if delta <= 0 || math.IsNaN(delta) || math.IsInf(delta, 0) {
		return
	}
	started := e.clock.Now()

	e.mu.Lock()
	e.tick(delta)
	enemies := len(e.enemies)
	observers := e.observers
	e.mu.Unlock()

	took := e.clock.Now().Sub(started)
	for _, o := range observers {
		o(took, enemies)
	}
}

// tick runs one frame. Caller holds e.mu.
func (e *Engine) tick(delta float64) {
	e.tickCount++
	e.simTime += delta

	if !e.active {
		e.updateEffects(delta)
		e.produceSnapshot()
		return
	}

	e.emit(EventTypeTick, "", TickPayload{
		EnemyCount:  len(e.enemies),
		DeltaTimeNs: int64(delta * 1e9),
	})

	e.updateReload(delta)

	// Player first, then the whole-frame revert if the result is inside an
	// obstacle. A reverted frame still falls so a player pressed against a
	// low obstacle in mid-air does not hang there.
	prev := e.player.Motion()
	e.player.Update(delta, e.obstacles)
	if e.obstacles.Collides(e.player.Box()) {
		e.player.Restore(prev)
		e.player.Fall(delta, e.obstacles)
		if e.obstacles.Collides(e.player.Box()) {
			e.player.Restore(prev)
		}
	}
	moved := e.player.Input.Any() && e.player.Position.Horizontal() != prev.Position.Horizontal()

	e.grid.Clear()
	for i, en := range e.enemies {
		e.grid.Insert(uint32(i), en.Position.X, en.Position.Z)
	}

	ctx := EnemyContext{
		Delta:     delta,
		Elapsed:   e.clock.Now().Sub(e.startedAt),
		Player:    e.player.Position,
		Enemies:   e.enemies,
		Grid:      e.grid,
		Obstacles: e.obstacles,
	}

	// The grid follows each enemy as it moves, so later avoidance queries in
	// the same frame see current cells.
	for i, en := range e.enemies {
		if en.IsDead() {
			continue
		}
		from := en.Position
		step := en.Update(ctx)
		if step.Teleported {
			e.addEffect(NewEffect(EffectTeleport, step.TeleportFrom, en.Position, en.ID))
			e.emit(EventTypeTeleport, en.ID, TeleportPayload{EnemyID: en.ID, From: step.TeleportFrom, To: en.Position})
			e.logger.Debug("🌀 Enemy teleported", zap.String("enemy", en.ID))
		}

		e.resolveMelee(en)
		e.grid.Move(uint32(i), from.X, from.Z, en.Position.X, en.Position.Z)
		if !e.active {
			break
		}
		e.resolveEnemyShot(en)
		if !e.active {
			break
		}
	}

	e.updateEffects(delta)
	e.processPendingSpawns()

	if moved && e.active {
		e.emit(EventTypePlayerMoved, "", PlayerMovedPayload{Position: e.player.Position, Yaw: e.yaw()})
	}

	e.produceSnapshot()
}

// resolveMelee knocks a touching enemy back and applies contact damage when
// the player's contact cooldown allows.
func (e *Engine) resolveMelee(en *Enemy) {
	if en.Position.HorizontalDist(e.player.Position) >= MeleeRange {
		return
	}

	away, ok := en.Position.Sub(e.player.Position).Horizontal().NormalizeOK()
	if !ok {
		away = en.Facing.Negate()
	}
	en.Knockback(away.Scale(KnockbackDist), e.obstacles)

	if e.player.TakeContactDamage(ContactDamage, ContactCooldown) {
		e.playerDamaged(en.ID, ContactDamage, "melee")
	}
}

func (e *Engine) resolveEnemyShot(en *Enemy) {
	shot := en.TryShoot(e.player.Position, e.obstacles)
	if !shot.Fired {
		return
	}

	e.addEffect(NewEffect(EffectMuzzleFlash, shot.From, shot.From, en.ID))
	e.addEffect(NewEffect(EffectEnemyTrail, shot.From, shot.To, en.ID))
	e.emit(EventTypeEnemyShot, en.ID, ShotPayload{ShooterID: en.ID, Origin: shot.From, End: shot.To, Hit: shot.Hit})

	if shot.Hit {
		e.player.TakeDamage(shot.Damage)
		e.playerDamaged(en.ID, shot.Damage, "shot")
	}
}

// playerDamaged reports damage already applied and ends the session on death.
func (e *Engine) playerDamaged(sourceID string, amount int, cause string) {
	e.emit(EventTypePlayerDamaged, sourceID, DamagePayload{
		SourceID:    sourceID,
		TargetID:    "player",
		Damage:      amount,
		RemainingHP: e.player.Health,
		Cause:       cause,
	})
	if e.player.IsDead() && e.active {
		e.endGame()
	}
}

func (e *Engine) endGame() {
	e.active = false
	e.gameOver = true
	e.reloading = false
	e.player.Input = MoveInput{}
	e.emit(EventTypeGameOver, "", GameOverPayload{Score: e.player.Score, Kills: e.player.Kills})
	e.logger.Info("💀 Game over",
		zap.Int("score", e.player.Score),
		zap.Int("kills", e.player.Kills),
		zap.Float64("survived", e.simTime))
}

func (e *Engine) updateReload(delta float64) {
	if !e.reloading {
		return
	}
	e.reloadTimer -= delta
	if e.reloadTimer > 0 {
		return
	}
	e.reloading = false
	e.reloadTimer = 0
	e.player.Ammo = e.player.MaxAmmo
	e.emit(EventTypeReload, "", ReloadPayload{Ammo: e.player.Ammo})
}

// updateEffects ages effects and drops expired ones in place.
func (e *Engine) updateEffects(delta float64) {
	n := 0
	for _, f := range e.effects {
		if f.Update(delta) {
			e.effects[n] = f
			n++
		}
	}
	for i := n; i < len(e.effects); i++ {
		e.effects[i] = nil
	}
	e.effects = e.effects[:n]
}

func (e *Engine) addEffect(f *Effect) {
	if len(e.effects) >= e.cfg.Limits.MaxEffects {
		return
	}
	e.effects = append(e.effects, f)
}

// processPendingSpawns creates the replacements that have come due.
func (e *Engine) processPendingSpawns() {
	n := 0
	for _, p := range e.pending {
		if p.due > e.simTime {
			e.pending[n] = p
			n++
			continue
		}
		if e.active && len(e.enemies) < e.cfg.Limits.MaxEnemies {
			e.spawnEnemy()
		}
	}
	e.pending = e.pending[:n]
}

func (e *Engine) spawnEnemy() *Enemy {
	pos, src := e.cfg.Spawn.Place(e.rng, e.cfg.Enemy.Size, e.obstacles, e.enemies)
	en := NewEnemy(e.cfg.NewID(), pos, e.cfg.Enemy, e.rng)
	e.enemies = append(e.enemies, en)
	e.emit(EventTypeEnemySpawn, en.ID, EnemySpawnPayload{EnemyID: en.ID, Position: pos, Source: src.String()})
	return en
}

func (e *Engine) removeEnemy(target *Enemy) {
	for i, en := range e.enemies {
		if en == target {
			copy(e.enemies[i:], e.enemies[i+1:])
			e.enemies[len(e.enemies)-1] = nil
			e.enemies = e.enemies[:len(e.enemies)-1]
			return
		}
	}
}

// SetMove presses or releases a movement key.
func (e *Engine) SetMove(key MoveKey, down bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch key {
	case KeyForward:
		e.player.Input.Forward = down
	case KeyBackward:
		e.player.Input.Backward = down
	case KeyLeft:
		e.player.Input.Left = down
	case KeyRight:
		e.player.Input.Right = down
	}
}

// SetInput replaces the held movement keys.
func (e *Engine) SetInput(in MoveInput) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.player.Input = in
}

// Turn rotates the camera. It is a no-op for camera controls other than
// YawPitchControls.
func (e *Engine) Turn(dYaw, dPitch float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if c, ok := e.player.Controls.(*YawPitchControls); ok {
		c.Turn(dYaw, dPitch)
	}
}

// Jump starts a jump if the player is grounded.
func (e *Engine) Jump() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.active {
		return false
	}
	return e.player.Jump()
}

// Reload starts a reload. The magazine refills after ReloadDuration of
// simulated time.
func (e *Engine) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch {
	case !e.active:
		return ErrSessionNotActive
	case e.reloading:
		return ErrReloading
	case e.player.Ammo >= e.player.MaxAmmo:
		return ErrMagazineFull
	}
	e.reloading = true
	e.reloadTimer = ReloadDuration
	return nil
}

// Fire shoots once along the view ray. The nearest of obstacle, enemy and
// remote player is struck; only enemies take damage.
func (e *Engine) Fire() (ShotReport, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case !e.active:
		return ShotReport{}, ErrSessionNotActive
	case e.reloading:
		return ShotReport{}, ErrReloading
	case e.player.Ammo <= 0:
		return ShotReport{}, ErrOutOfAmmo
	}
	e.player.Ammo--

	ray := e.player.ViewRay()
	hit, ok := ResolveShot(ray, WeaponRange, e.obstacles, e.enemies, e.remotes.List())

	report := ShotReport{Hit: ok, Point: ray.At(WeaponRange), Distance: WeaponRange, Ammo: e.player.Ammo}
	if ok {
		report.Point = hit.Point
		report.Distance = hit.Distance
	}

	e.addEffect(NewEffect(EffectMuzzleFlash, ray.Origin, ray.Origin, ""))
	e.addEffect(NewEffect(EffectPlayerTrail, ray.Origin, report.Point, ""))
	e.emit(EventTypePlayerShot, "", ShotPayload{ShooterID: "player", Origin: ray.Origin, End: report.Point, Hit: ok, Ammo: e.player.Ammo})

	switch t := hit.Target.(type) {
	case ObstacleTarget:
		report.Target = t.Obstacle.Kind.String()
		e.bulletImpact(hit.Point, report.Target)
	case RemotePlayerTarget:
		report.Target = "remote_player"
		e.bulletImpact(hit.Point, report.Target)
	case EnemyTarget:
		report.Target = "enemy"
		report.EnemyID = t.Enemy.ID
		report.Killed, report.Awarded = e.shootEnemy(t.Enemy, hit.Point)
	}

	e.produceSnapshot()
	return report, nil
}

func (e *Engine) bulletImpact(at geom.Vec3, target string) {
	e.addEffect(NewEffect(EffectBulletImpact, at, at, ""))
	e.emit(EventTypeBulletImpact, "", ImpactPayload{Point: at, Target: target})
}

// shootEnemy applies weapon damage and, on the killing hit, scores the kill
// and schedules a replacement.
func (e *Engine) shootEnemy(en *Enemy, at geom.Vec3) (killed bool, awarded int) {
	outcome := en.TakeDamage(WeaponDamage)
	if outcome == DamageAlreadyDead {
		return false, 0
	}

	e.addEffect(NewEffect(EffectHitFlash, at, at, en.ID))
	e.emit(EventTypeEnemyDamaged, en.ID, DamagePayload{
		SourceID:    "player",
		TargetID:    en.ID,
		Damage:      WeaponDamage,
		RemainingHP: en.Health,
		Cause:       "shot",
	})

	if outcome != DamageLethal {
		return false, 0
	}

	dist := e.player.Position.Dist(en.Position)
	awarded = KillScore(dist)
	e.player.Score += awarded
	e.player.Kills++

	e.addEffect(NewEffect(EffectExplosion, en.Position, en.Position, en.ID))
	e.removeEnemy(en)
	e.pending = append(e.pending, pendingSpawn{due: e.simTime + RespawnDelay})

	e.emit(EventTypeEnemyKilled, en.ID, EnemyKilledPayload{
		EnemyID:    en.ID,
		Position:   en.Position,
		Distance:   dist,
		Awarded:    awarded,
		TotalScore: e.player.Score,
		Kills:      e.player.Kills,
	})
	e.logger.Debug("🎯 Enemy killed",
		zap.String("enemy", en.ID),
		zap.Float64("distance", dist),
		zap.Int("awarded", awarded))
	return true, awarded
}

// Remote player sink. The relay client feeds these from network messages.

// UpsertRemote adds or updates a mirrored player.
func (e *Engine) UpsertRemote(p RemotePlayer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remotes.Upsert(p)
}

// ReplaceRemotes swaps the whole mirrored set, as on connect.
func (e *Engine) ReplaceRemotes(ps []RemotePlayer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.remotes.Reset()
	for _, p := range ps {
		e.remotes.Upsert(p)
	}
}

// MoveRemote moves a mirrored player.
func (e *Engine) MoveRemote(id string, pos geom.Vec3) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remotes.Move(id, pos)
}

// SetRemoteScore updates a mirrored player's score.
func (e *Engine) SetRemoteScore(id string, score int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remotes.SetScore(id, score)
}

// RemoveRemote drops a mirrored player.
func (e *Engine) RemoveRemote(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remotes.Remove(id)
}

func (e *Engine) emit(t EventType, entityID string, payload any) {
	ev := NewEvent(t, e.tickCount, entityID, payload, e.clock.Now())
	e.eventLog.Emit(ev)
	for _, l := range e.listeners {
		l(ev, payload)
	}
}

func (e *Engine) yaw() float64 {
	if c, ok := e.player.Controls.(*YawPitchControls); ok {
		return c.Yaw
	}
	return 0
}

// GetSnapshot returns a copy of the latest published snapshot.
func (e *Engine) GetSnapshot() GameSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshotPool.AcquireRead().Clone()
}

// ProduceSnapshot publishes the current state immediately.
func (e *Engine) ProduceSnapshot() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.produceSnapshot()
}

// produceSnapshot writes the current state into the pool. Caller holds e.mu.
func (e *Engine) produceSnapshot() {
	snap := e.snapshotPool.AcquireWrite(e.clock.Now())
	limits := e.snapshotPool.GetLimits()

	snap.TickNumber = e.tickCount
	snap.Seed = e.seed
	snap.Active = e.active
	snap.GameOver = e.gameOver
	snap.SimTime = e.simTime
	snap.PendingSpawns = len(e.pending)

	p := e.player
	var yaw, pitch float64
	if c, ok := p.Controls.(*YawPitchControls); ok {
		yaw, pitch = c.Yaw, c.Pitch
	}
	progress := 0.0
	if e.reloading {
		progress = 1 - e.reloadTimer/ReloadDuration
	}
	snap.Player = PlayerSnapshot{
		Position:       p.Position,
		Yaw:            yaw,
		Pitch:          pitch,
		Health:         p.Health,
		MaxHealth:      p.MaxHealth,
		Ammo:           p.Ammo,
		MaxAmmo:        p.MaxAmmo,
		Reloading:      e.reloading,
		ReloadProgress: progress,
		Score:          p.Score,
		Kills:          p.Kills,
		CanJump:        p.CanJump,
		IsDead:         p.IsDead(),
	}

	for _, en := range e.enemies {
		if len(snap.Enemies) >= limits.MaxEnemies {
			break
		}
		snap.Enemies = append(snap.Enemies, EnemySnapshot{
			ID:        en.ID,
			Position:  en.Position,
			Facing:    en.Facing,
			Health:    en.Health,
			MaxHealth: en.MaxHealth,
			Mode:      en.Mode.String(),
			Visible:   en.CanSeePlayer(),
			Stuck:     en.IsStuck(),
		})
	}

	for _, r := range e.remotes.List() {
		if len(snap.Remotes) >= limits.MaxRemotePlayers {
			break
		}
		snap.Remotes = append(snap.Remotes, RemoteSnapshot{ID: r.ID, Position: r.Position, Score: r.Score})
	}

	for _, f := range e.effects {
		if len(snap.Effects) >= limits.MaxEffects {
			break
		}
		snap.Effects = append(snap.Effects, EffectSnapshot{
			Kind:  f.Kind.String(),
			Pos:   f.Pos,
			End:   f.End,
			Alpha: f.Alpha(),
		})
	}

	e.snapshotPool.PublishWrite()
}

// Player returns a copy of the local player's state. Yaw/pitch controls are
// copied too; any other camera implementation is left out of the copy.
func (e *Engine) Player() Player {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p := *e.player
	if c, ok := e.player.Controls.(*YawPitchControls); ok {
		cc := *c
		p.Controls = &cc
	} else {
		p.Controls = nil
	}
	return p
}

// IsActive reports whether a session is running.
func (e *Engine) IsActive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.active
}

// EnemyCount returns the number of live enemies.
func (e *Engine) EnemyCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.enemies)
}

// StartEventLog starts the session journal, appending to filePath
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog stops the session journal
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// EventLogStats returns the journal counters
func (e *Engine) EventLogStats() EventLogStats {
	return e.eventLog.Stats()
}

// GetLimits returns the resource limits
func (e *Engine) GetLimits() ResourceLimits {
	return e.cfg.Limits
}

// TickRate returns the configured ticks per second
func (e *Engine) TickRate() int {
	return e.tickRate
}
