package game

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"pgregory.net/rapid"

	"arena-fps/internal/game/geom"
)

func newTestEnemy(pos geom.Vec3) *Enemy {
	return NewEnemy("e1", pos, DefaultEnemyTuning(), rand.New(rand.NewSource(1)))
}

func approx(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// TestEnemyOpenFieldChase verifies an enemy with sight of the player heads
// straight for it.
func TestEnemyOpenFieldChase(t *testing.T) {
	e := newTestEnemy(geom.V(0, 0, 0))
	e.Tuning.DetectionRadius = 40
	player := geom.V(5, 0, 0)

	ctx := EnemyContext{Delta: 0.1, Player: player, Obstacles: NewObstacleRegistry(nil)}
	e.Update(ctx)

	if e.Mode != ModeDirect {
		t.Errorf("Expected mode direct, got %s", e.Mode)
	}
	if !approx(e.MoveDirection.X, 1, 1e-9) || !approx(e.MoveDirection.Z, 0, 1e-9) {
		t.Errorf("Expected movement (1,0,0), got %v", e.MoveDirection)
	}
	if !approx(e.Position.X, 0.35, 1e-9) {
		t.Errorf("Expected x=0.35 after one step, got %v", e.Position.X)
	}
	if !e.CanSeePlayer() {
		t.Error("Expected line of sight in an empty arena")
	}
}

// TestEnemyNilRegistry verifies a missing registry is treated as empty.
func TestEnemyNilRegistry(t *testing.T) {
	e := newTestEnemy(geom.V(0, 0, 0))
	e.Update(EnemyContext{Delta: 0.1, Player: geom.V(0, 0, 10)})
	if e.Position.Z <= 0 {
		t.Errorf("Expected enemy to advance toward player, got %v", e.Position)
	}
}

// TestEnemyLethalHit verifies death is reported exactly once.
func TestEnemyLethalHit(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.Health = 50

	lethal := 0
	for i := 0; i < 3; i++ {
		if e.TakeDamage(50) == DamageLethal {
			lethal++
		}
	}

	if lethal != 1 {
		t.Errorf("Expected exactly one lethal outcome, got %d", lethal)
	}
	if e.Health != 0 {
		t.Errorf("Expected health 0, got %d", e.Health)
	}
	if got := e.TakeDamage(10); got != DamageAlreadyDead {
		t.Errorf("Expected already dead, got %v", got)
	}
}

// TestEnemyHealthBounds verifies 0 <= health <= max for any damage sequence.
func TestEnemyHealthBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		e := newTestEnemy(geom.Vec3{})
		hits := rapid.SliceOfN(rapid.IntRange(-50, 200), 0, 20).Draw(t, "hits")
		lethal := 0
		for _, h := range hits {
			if e.TakeDamage(h) == DamageLethal {
				lethal++
			}
			if e.Health < 0 || e.Health > e.MaxHealth {
				t.Fatalf("health out of bounds: %d", e.Health)
			}
		}
		if lethal > 1 {
			t.Fatalf("died %d times", lethal)
		}
	})
}

// TestEnemyMemoryExpiry verifies the last seen position is forgotten after
// Memory seconds without sight.
func TestEnemyMemoryExpiry(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	seen := geom.V(10, 0, 0)

	e.perceive(true, seen, 0.1)
	if pos, ok := e.LastKnownPlayerPosition(); !ok || pos != seen {
		t.Fatalf("Expected memory of %v, got %v ok=%v", seen, pos, ok)
	}

	for i := 0; i < 56; i++ {
		e.perceive(false, geom.V(99, 0, 99), 0.25)
	}
	if _, ok := e.LastKnownPlayerPosition(); !ok {
		t.Fatal("Memory expired too early")
	}

	e.perceive(false, geom.V(99, 0, 99), 1.5)
	if _, ok := e.LastKnownPlayerPosition(); ok {
		t.Error("Expected memory to expire after 15s")
	}
}

// TestEnemyStuckTracker verifies the position window flags standing still.
func TestEnemyStuckTracker(t *testing.T) {
	t.Run("standing still", func(t *testing.T) {
		e := newTestEnemy(geom.V(1, 0, 1))
		for i := 0; i < 5; i++ {
			e.trackPosition()
		}
		if !e.IsStuck() {
			t.Error("Expected stuck after five identical samples")
		}
	})

	t.Run("moving", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		for i := 0; i < 5; i++ {
			e.Position = geom.V(float64(i)*0.2, 0, 0)
			e.trackPosition()
		}
		if e.IsStuck() {
			t.Error("Expected not stuck while moving 0.2 per sample")
		}
	})
}

// TestPositionWindowBound verifies the window never exceeds its capacity.
func TestPositionWindowBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var w positionWindow
		n := rapid.IntRange(0, 50).Draw(t, "n")
		for i := 0; i < n; i++ {
			w.push(geom.V(float64(i), 0, 0))
			if w.len() > positionWindowSize {
				t.Fatalf("window grew to %d", w.len())
			}
		}
		if n >= positionWindowSize && w.totalMovement() != float64(positionWindowSize-1) {
			t.Fatalf("expected movement %d, got %v", positionWindowSize-1, w.totalMovement())
		}
	})
}

// TestEnemyModeRotation verifies the stuck-triggered switch order.
func TestEnemyModeRotation(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	player := geom.V(10, 0, 0)

	e.switchMode(player)
	if e.Mode != ModeAround {
		t.Fatalf("Expected around after first switch, got %s", e.Mode)
	}
	if !e.hasPathDir || !approx(e.pathDir.Len(), 1, 1e-9) {
		t.Errorf("Expected a unit side heading, got %v", e.pathDir)
	}

	e.switchMode(player)
	if e.Mode != ModeHunting {
		t.Fatalf("Expected hunting after second switch, got %s", e.Mode)
	}

	e.switchMode(player)
	if e.Mode != ModeAround {
		t.Errorf("Expected around after third switch, got %s", e.Mode)
	}
}

// TestEnemyOscillationBreak verifies a long hunt picks a random heading
// rather than changing mode.
func TestEnemyOscillationBreak(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.Mode = ModeHunting
	e.huntingTime = 3.5

	e.switchMode(geom.V(10, 0, 0))

	if e.Mode != ModeHunting {
		t.Errorf("Expected mode to stay hunting, got %s", e.Mode)
	}
	if e.breakout <= 0 || !approx(e.breakoutDir.Len(), 1, 1e-9) {
		t.Errorf("Expected an active breakout heading, got %v for %v", e.breakoutDir, e.breakout)
	}
}

// TestEnemyHuntingTimeout verifies hunting reverts to direct after 5s.
func TestEnemyHuntingTimeout(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.Mode = ModeHunting

	for i := 0; i < 20; i++ {
		e.tickHunting(0.25)
	}
	if e.Mode != ModeHunting {
		t.Fatalf("Expected still hunting at 5.0s, got %s", e.Mode)
	}

	e.tickHunting(0.25)
	if e.Mode != ModeDirect {
		t.Errorf("Expected direct after 5.25s, got %s", e.Mode)
	}
}

// TestEnemyHuntingTimeoutDuringUpdate runs the full update loop with the
// player hidden behind a thick wall.
func TestEnemyHuntingTimeoutDuringUpdate(t *testing.T) {
	wall := Obstacle{Kind: KindWall, Box: geom.AABB{Min: geom.V(25, -5, -60), Max: geom.V(40, 10, 60)}}
	e := newTestEnemy(geom.Vec3{})
	e.Tuning.TeleportThreshold = 1e9
	e.Mode = ModeHunting
	e.lastKnown = geom.V(45, 0, 0)
	e.hasMemory = true

	ctx := EnemyContext{
		Delta:     0.05,
		Player:    geom.V(45, 0, 0),
		Obstacles: NewObstacleRegistry([]Obstacle{wall}),
	}

	reverted := false
	for i := 0; i < 110 && !reverted; i++ {
		ctx.Elapsed = time.Duration(i) * 50 * time.Millisecond
		e.Update(ctx)
		reverted = e.Mode == ModeDirect
	}
	if !reverted {
		t.Error("Expected hunting to time out back to direct")
	}
	if e.Position.X >= 25 {
		t.Errorf("Enemy walked into the wall: %v", e.Position)
	}
}

// TestEnemyAxisSeparatedCollision verifies a blocked X step does not stop Z.
func TestEnemyAxisSeparatedCollision(t *testing.T) {
	// Wall just east of the enemy.
	wall := Obstacle{Kind: KindWall, Box: geom.AABB{Min: geom.V(0.55, -2, -20), Max: geom.V(2, 2, 20)}}
	obstacles := NewObstacleRegistry([]Obstacle{wall})
	e := newTestEnemy(geom.Vec3{})

	if blocked := e.tryMoveWithSlide(0.2, 0, obstacles); blocked {
		t.Fatal("Expected the blocked x step to slide along z")
	}
	if e.Position.X != 0 {
		t.Errorf("Expected x unchanged, got %v", e.Position.X)
	}
	if !approx(e.Position.Z, 0.16, 1e-9) {
		t.Errorf("Expected a 0.8x slide to z=0.16, got %v", e.Position.Z)
	}

	startZ := e.Position.Z
	if blocked := e.tryMoveWithSlide(0, 0.2, obstacles); blocked {
		t.Fatal("Expected z movement to succeed")
	}
	if !approx(e.Position.Z, startZ+0.2, 1e-9) {
		t.Errorf("Expected z=%v, got %v", startZ+0.2, e.Position.Z)
	}
	if obstacles.Collides(e.Box()) {
		t.Error("Enemy ended inside the wall")
	}
}

// TestEnemyBlockedBothAxes verifies full blockage counts wall hits and
// eventually triggers a corner escape.
func TestEnemyBlockedBothAxes(t *testing.T) {
	// Thin walls boxing the enemy in on all four sides.
	walls := []Obstacle{
		{Box: geom.AABB{Min: geom.V(0.55, -2, -1), Max: geom.V(1, 2, 1)}},
		{Box: geom.AABB{Min: geom.V(-1, -2, -1), Max: geom.V(-0.55, 2, 1)}},
		{Box: geom.AABB{Min: geom.V(-1, -2, 0.55), Max: geom.V(1, 2, 1)}},
		{Box: geom.AABB{Min: geom.V(-1, -2, -1), Max: geom.V(1, 2, -0.55)}},
	}
	obstacles := NewObstacleRegistry(walls)
	e := newTestEnemy(geom.Vec3{})
	e.Tuning.Speed = 1

	ctx := EnemyContext{Delta: 0.1, Player: geom.V(20, 0, 20), Obstacles: obstacles}
	for i := 0; i < 3; i++ {
		e.move(ctx)
	}
	if e.stuck.wallHits != 3 {
		t.Fatalf("Expected 3 wall hits, got %d", e.stuck.wallHits)
	}
	if !e.IsStuck() || e.Position != (geom.Vec3{}) {
		t.Fatalf("Expected a stuck enemy at the origin, got %v stuck=%v", e.Position, e.IsStuck())
	}

	e.move(ctx)
	if e.stuck.wallHits != 0 {
		t.Errorf("Expected wall hits reset after corner escape, got %d", e.stuck.wallHits)
	}
	if moved := e.Position.Len(); !approx(moved, 1.5, 1e-9) {
		t.Errorf("Expected a 1.5 unit escape step, moved %v", moved)
	}
	if obstacles.Collides(e.Box()) {
		t.Error("Corner escape landed inside an obstacle")
	}
}

// TestEnemyAvoidance verifies nearby enemies push each other apart.
func TestEnemyAvoidance(t *testing.T) {
	a := newTestEnemy(geom.V(0, 0, 0))
	b := newTestEnemy(geom.V(1, 0, 0))
	ctx := EnemyContext{Enemies: []*Enemy{a, b}}

	push := a.avoidance(ctx)
	if push.X >= 0 {
		t.Errorf("Expected push away from neighbour (negative x), got %v", push)
	}

	b.dead = true
	if push := a.avoidance(ctx); !push.IsZero() {
		t.Errorf("Expected dead neighbours to be ignored, got %v", push)
	}
}

// TestEnemyEmergencyTeleport verifies a successful jump lands clear and
// resets navigation state.
func TestEnemyEmergencyTeleport(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.Mode = ModeAround
	e.stuck = stuckState{isStuck: true, stuckTime: 1, severeTime: 4, wallHits: 2}
	ctx := EnemyContext{Player: geom.V(20, 0, 0), Obstacles: NewObstacleRegistry(nil)}

	if !e.emergencyTeleport(ctx) {
		t.Fatal("Expected teleport to succeed in open space")
	}
	d := e.Position.Dist(geom.Vec3{})
	if d < 3-1e-9 || d > 8+1e-9 {
		t.Errorf("Expected jump distance in [3,8], got %v", d)
	}
	if e.Position.X <= 0 {
		t.Errorf("Expected jump toward the player, got %v", e.Position)
	}
	if e.Mode != ModeDirect || e.IsStuck() || e.stuck.wallHits != 0 {
		t.Errorf("Expected reset state, got mode=%s stuck=%+v", e.Mode, e.stuck)
	}
}

// TestEnemyEmergencyTeleportBlocked verifies a failed jump leaves the enemy
// where it was.
func TestEnemyEmergencyTeleportBlocked(t *testing.T) {
	block := Obstacle{Box: geom.AABB{Min: geom.V(0.6, -5, -30), Max: geom.V(30, 5, 30)}}
	e := newTestEnemy(geom.Vec3{})
	ctx := EnemyContext{Player: geom.V(20, 0, 0), Obstacles: NewObstacleRegistry([]Obstacle{block})}

	if e.emergencyTeleport(ctx) {
		t.Fatal("Expected every candidate to collide")
	}
	if e.Position != (geom.Vec3{}) {
		t.Errorf("Expected position unchanged, got %v", e.Position)
	}
}

// TestEnemyTryShoot covers cooldown, range, sight and the accuracy roll.
func TestEnemyTryShoot(t *testing.T) {
	player := geom.V(10, 0, 0)

	t.Run("hit", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		e.Tuning.ShootAccuracy = 1
		shot := e.TryShoot(player, nil)
		if !shot.Fired || !shot.Hit || shot.Damage != 5 {
			t.Errorf("Expected a 5 damage hit, got %+v", shot)
		}
		if again := e.TryShoot(player, nil); again.Fired {
			t.Error("Expected cooldown to block a second shot")
		}
		e.tickShootCooldown(2.0)
		if !e.CanShoot() {
			t.Error("Expected cooldown to elapse after 2s")
		}
	})

	t.Run("miss", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		e.Tuning.ShootAccuracy = 0
		shot := e.TryShoot(player, nil)
		if !shot.Fired || shot.Hit || shot.Damage != 0 {
			t.Errorf("Expected a miss, got %+v", shot)
		}
		if shot.To.Dist(player) > 0.1*math.Sqrt(3)+1e-9 {
			t.Errorf("Miss trail strayed too far: %v", shot.To)
		}
	})

	t.Run("out of range", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		if shot := e.TryShoot(geom.V(25, 0, 0), nil); shot.Fired {
			t.Error("Expected no shot beyond range")
		}
	})

	t.Run("blocked", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		wall := NewObstacleRegistry([]Obstacle{{Box: geom.AABB{Min: geom.V(4, -5, -5), Max: geom.V(5, 5, 5)}}})
		if shot := e.TryShoot(player, wall); shot.Fired {
			t.Error("Expected no shot without line of sight")
		}
		if !e.CanShoot() {
			t.Error("A blocked attempt must not start the cooldown")
		}
	})
}

// TestEnemyDeadIgnoresUpdate verifies dead enemies do nothing.
func TestEnemyDeadIgnoresUpdate(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.TakeDamage(1000)
	e.Update(EnemyContext{Delta: 0.1, Player: geom.V(5, 0, 0)})
	if e.Position != (geom.Vec3{}) {
		t.Errorf("Expected dead enemy to stay put, got %v", e.Position)
	}
}

// TestEnemySlideOrder verifies the lateral slide offsets are tried in the
// order +0.8, -0.8, +1.2, -1.2 of the blocked step.
func TestEnemySlideOrder(t *testing.T) {
	east := Obstacle{Kind: KindWall, Box: geom.AABB{Min: geom.V(0.55, -2, -20), Max: geom.V(2, 2, 20)}}
	north := Obstacle{Kind: KindCrate, Box: geom.AABB{Min: geom.V(-2, -2, 0.6), Max: geom.V(0.5, 2, 2)}}
	south := Obstacle{Kind: KindCrate, Box: geom.AABB{Min: geom.V(-2, -2, -2), Max: geom.V(0.5, 2, -0.6)}}
	// Thin slab the enemy already straddles; only the -1.2 offset clears it.
	sliver := Obstacle{Kind: KindBarrier, Box: geom.AABB{Min: geom.V(-0.4, -2, 0.3), Max: geom.V(0.4, 2, 0.32)}}

	tests := []struct {
		name        string
		obstacles   []Obstacle
		dx, dz      float64
		wantBlocked bool
		wantX       float64
		wantZ       float64
	}{
		{"x blocked slides +0.8", []Obstacle{east}, 0.2, 0, false, 0, 0.16},
		{"x blocked slides -0.8", []Obstacle{east, north}, 0.2, 0, false, 0, -0.16},
		{"x blocked slides -1.2", []Obstacle{east, sliver}, 0.2, 0, false, 0, -0.24},
		{"z blocked slides +0.8 along x", []Obstacle{north}, 0, 0.2, false, 0.16, 0},
		{"boxed in stays put", []Obstacle{east, north, south}, 0.2, 0, true, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnemy(geom.Vec3{})
			blocked := e.tryMoveWithSlide(tt.dx, tt.dz, NewObstacleRegistry(tt.obstacles))

			if blocked != tt.wantBlocked {
				t.Errorf("Expected blocked=%v, got %v", tt.wantBlocked, blocked)
			}
			if !approx(e.Position.X, tt.wantX, 1e-9) || !approx(e.Position.Z, tt.wantZ, 1e-9) {
				t.Errorf("Expected (%v, %v), got (%v, %v)", tt.wantX, tt.wantZ, e.Position.X, e.Position.Z)
			}
		})
	}
}

// TestEnemyWandersWithoutMemory verifies an enemy that cannot see a distant
// player and remembers nothing picks a random heading.
func TestEnemyWandersWithoutMemory(t *testing.T) {
	wall := Obstacle{Kind: KindWall, Box: geom.AABB{Min: geom.V(-50, -5, 10), Max: geom.V(50, 5, 11)}}
	e := newTestEnemy(geom.Vec3{})
	ctx := EnemyContext{
		Delta:     0.1,
		Player:    geom.V(0, 0, 100),
		Obstacles: NewObstacleRegistry([]Obstacle{wall}),
	}

	e.Update(ctx)

	ref := rand.New(rand.NewSource(1))
	want := geom.V(ref.Float64()-0.5, 0, ref.Float64()-0.5).Normalize()

	if !e.wandering {
		t.Fatal("Expected the enemy to wander")
	}
	if e.Mode != ModeDirect {
		t.Errorf("Expected mode direct while wandering, got %s", e.Mode)
	}
	if !approx(e.MoveDirection.X, want.X, 1e-9) || !approx(e.MoveDirection.Z, want.Z, 1e-9) {
		t.Errorf("Expected wander heading %v, got %v", want, e.MoveDirection)
	}
	if !approx(e.Position.HorizontalDist(geom.Vec3{}), 0.35, 1e-9) {
		t.Errorf("Expected one full step along the heading, got %v", e.Position)
	}
}

// TestEnemyRemembersInsteadOfWandering verifies memory of the player beats
// the wander rule even beyond the detection radius.
func TestEnemyRemembersInsteadOfWandering(t *testing.T) {
	e := newTestEnemy(geom.Vec3{})
	e.hasMemory = true
	e.lastKnown = geom.V(0, 0, 100)

	e.updatePath(EnemyContext{Delta: 0.1, Player: geom.V(0, 0, 100)})

	if e.wandering {
		t.Error("Expected no wandering with a remembered position")
	}
	if e.Mode != ModeHunting {
		t.Errorf("Expected hunting toward the memory, got %s", e.Mode)
	}
}

// TestEnemyAroundBlend verifies around mode mixes the side heading and the
// target heading half and half.
func TestEnemyAroundBlend(t *testing.T) {
	ctx := EnemyContext{Delta: 0.1, Player: geom.V(10, 0, 0)}
	h := math.Sqrt2 / 2

	t.Run("stored side heading", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		e.Mode = ModeAround
		e.pathDir = geom.V(0, 0, 1)
		e.hasPathDir = true

		dir := e.desiredDirection(ctx)
		if !approx(dir.X, h, 1e-9) || !approx(dir.Z, h, 1e-9) {
			t.Errorf("Expected (%v, 0, %v), got %v", h, h, dir)
		}
	})

	t.Run("picks a perpendicular side", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		e.Mode = ModeAround

		dir := e.desiredDirection(ctx)
		if !e.hasPathDir {
			t.Fatal("Expected a side heading to be stored")
		}
		if !approx(math.Abs(e.pathDir.Z), 1, 1e-9) || !approx(e.pathDir.X, 0, 1e-9) {
			t.Errorf("Expected a side heading along z, got %v", e.pathDir)
		}
		if !approx(dir.X, h, 1e-9) || !approx(dir.Z, e.pathDir.Z*h, 1e-9) {
			t.Errorf("Expected a 45 degree blend toward the side, got %v", dir)
		}
	})
}

// TestEnemyHuntingZigzag verifies the hunting heading weaves across the
// target line and falls back to a jittered direct heading near obstacles.
func TestEnemyHuntingZigzag(t *testing.T) {
	quarterTurn := math.Pi / 2
	elapsed := time.Duration(float64(200*time.Millisecond) * quarterTurn)
	wave := math.Sin(float64(elapsed)/1e6/200) * 1.2
	zigzag := geom.V(1, 0, -wave).Normalize()

	t.Run("open ground", func(t *testing.T) {
		e := newTestEnemy(geom.Vec3{})
		e.Mode = ModeHunting
		ctx := EnemyContext{Delta: 0.1, Elapsed: elapsed, Player: geom.V(10, 0, 0), Obstacles: NewObstacleRegistry(nil)}

		dir := e.desiredDirection(ctx)
		if !approx(dir.X, zigzag.X, 1e-9) || !approx(dir.Z, zigzag.Z, 1e-9) {
			t.Errorf("Expected zigzag heading %v, got %v", zigzag, dir)
		}
	})

	t.Run("obstacle ahead", func(t *testing.T) {
		crate := Obstacle{Kind: KindCrate, Box: geom.AABB{Min: geom.V(0.6, -1, -1.5), Max: geom.V(1.5, 1, -0.6)}}
		e := newTestEnemy(geom.Vec3{})
		e.Mode = ModeHunting
		ctx := EnemyContext{Delta: 0.1, Elapsed: elapsed, Player: geom.V(10, 0, 0), Obstacles: NewObstacleRegistry([]Obstacle{crate})}

		ref := rand.New(rand.NewSource(1))
		noise := geom.V((ref.Float64()-0.5)*1.5, 0, (ref.Float64()-0.5)*1.5)
		want := geom.V(1, 0, 0).Add(noise).Normalize()

		dir := e.desiredDirection(ctx)
		if !approx(dir.X, want.X, 1e-9) || !approx(dir.Z, want.Z, 1e-9) {
			t.Errorf("Expected jittered direct heading %v, got %v", want, dir)
		}
		if approx(dir.Z, zigzag.Z, 1e-9) {
			t.Error("Expected the zigzag to be abandoned next to the crate")
		}
	})
}
