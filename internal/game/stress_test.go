package game

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"arena-fps/internal/game/geom"
)

// =============================================================================
// STRESS TEST SUITE: CONCURRENT ACCESS UNDER A RUNNING TICK LOOP
// Run with: go test -race -run=TestStress -timeout=60s ./internal/game/...
// =============================================================================

// StressTestResult contains metrics from stress tests
type StressTestResult struct {
	Duration      time.Duration
	TotalTicks    int64
	MaxTickTime   time.Duration
	SnapshotReads int64
	InputCalls    int64
	RemoteCalls   int64
}

// TestStressConcurrentAccess hammers a running engine with snapshot readers,
// player input and relay updates at once.
func TestStressConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	cfg := DefaultEngineConfig()
	cfg.Seed = 99
	cfg.TickRate = 120
	cfg.InitialEnemies = 20
	cfg.Obstacles = pillarLayout()
	cfg.Player.MaxHealth = 1 << 30
	e := NewEngine(cfg)

	var res StressTestResult
	var maxTick atomic.Int64
	e.OnTick(func(took time.Duration, _ int) {
		atomic.AddInt64(&res.TotalTicks, 1)
		for {
			cur := maxTick.Load()
			if int64(took) <= cur || maxTick.CompareAndSwap(cur, int64(took)) {
				break
			}
		}
	})

	e.StartGame()
	e.Start()
	defer e.Stop()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	errs := make(chan error, 16)

	// Snapshot readers: sequences must never go backwards and slices stay
	// within their caps.
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			var last uint64
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := e.GetSnapshot()
				atomic.AddInt64(&res.SnapshotReads, 1)
				if snap.Sequence < last {
					errs <- fmt.Errorf("reader %d: sequence went back %d -> %d", reader, last, snap.Sequence)
					return
				}
				last = snap.Sequence
				if len(snap.Enemies) > cfg.Limits.MaxEnemies {
					errs <- fmt.Errorf("reader %d: %d enemies over cap", reader, len(snap.Enemies))
					return
				}
			}
		}(r)
	}

	// Player input
	wg.Add(1)
	go func() {
		defer wg.Done()
		keys := []MoveKey{KeyForward, KeyLeft, KeyBackward, KeyRight}
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			e.SetMove(keys[i%4], i%2 == 0)
			e.Turn(0.05, 0)
			if i%5 == 0 {
				if _, err := e.Fire(); err == ErrOutOfAmmo {
					e.Reload()
				}
			}
			if i%50 == 0 {
				e.Jump()
			}
			atomic.AddInt64(&res.InputCalls, 1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Relay updates
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			id := fmt.Sprintf("remote-%d", i%8)
			e.UpsertRemote(RemotePlayer{ID: id, Position: geom.V(float64(i%40)-20, 1.6, 10)})
			e.MoveRemote(id, geom.V(float64(i%30)-15, 1.6, -10))
			e.SetRemoteScore(id, i)
			if i%7 == 0 {
				e.RemoveRemote(id)
			}
			atomic.AddInt64(&res.RemoteCalls, 1)
			time.Sleep(time.Millisecond)
		}
	}()

	start := time.Now()
	time.Sleep(time.Second)
	close(stop)
	wg.Wait()
	close(errs)
	e.Stop()
	res.Duration = time.Since(start)
	res.MaxTickTime = time.Duration(maxTick.Load())

	for err := range errs {
		t.Error(err)
	}

	t.Logf("ticks=%d max_tick=%v reads=%d inputs=%d remote=%d",
		atomic.LoadInt64(&res.TotalTicks), res.MaxTickTime, res.SnapshotReads, res.InputCalls, res.RemoteCalls)

	if atomic.LoadInt64(&res.TotalTicks) == 0 {
		t.Error("Expected the tick loop to run")
	}
	if n := len(e.GetSnapshot().Remotes); n > cfg.Limits.MaxRemotePlayers {
		t.Errorf("Expected at most %d remotes, got %d", cfg.Limits.MaxRemotePlayers, n)
	}
}

// TestStressStartStopCycles verifies the tick loop can be restarted.
func TestStressStartStopCycles(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.Seed = 5
	cfg.TickRate = 200
	e := NewEngine(cfg)
	e.StartGame()

	for i := 0; i < 10; i++ {
		e.Start()
		e.Start() // idempotent
		time.Sleep(5 * time.Millisecond)
		e.Stop()
		e.Stop()
	}
}
