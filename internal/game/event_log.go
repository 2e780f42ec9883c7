package game

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	EventBufferSize      = 1024                   // Ring buffer size
	MaxEventsPerSec      = 10000                  // Global rate limit
	MaxEventsPerEntity   = 200                    // Per-entity rate limit per second
	BatchFlushSize       = 64                     // Events per batch write
	BatchFlushInterval   = 100 * time.Millisecond // How often to flush
	EntityLimiterCleanup = 5 * time.Minute        // Idle time before an entity limiter is dropped
)

// ErrEventLogStopped is returned when starting a journal that was already
// stopped. A stopped journal cannot be restarted; create a new one.
var ErrEventLogStopped = errors.New("event log stopped")

// EventLog is the session journal: a bounded, rate-limited ring of events
// flushed to newline-delimited JSON in the background. Together with the
// game_start seed it is enough to audit or replay a session.
type EventLog struct {
	mu       sync.Mutex
	buffer   [EventBufferSize]Event
	head     uint64 // next sequence to assign
	tail     uint64 // next sequence to flush
	sequence uint64

	globalLimiter  *rate.Limiter
	entityLimiters sync.Map // map[string]*entityLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
	stopped  atomic.Bool

	out    *bufio.Writer
	closer io.Closer
	outMu  sync.Mutex

	logger *zap.Logger

	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
	writtenCount uint64 // atomic
}

type entityLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed atomic.Int64 // unix nano
}

// EventLogStats is a point-in-time view of the journal counters.
type EventLogStats struct {
	Total   uint64 `json:"total"`
	Dropped uint64 `json:"dropped"`
	Written uint64 `json:"written"`
	Pending uint64 `json:"pending"`
	Running bool   `json:"running"`
}

// NewEventLog creates a new bounded event log. A nil logger is allowed.
func NewEventLog(logger *zap.Logger) *EventLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// Start opens filePath for append and starts the background writer. An
// empty path keeps events in memory only.
func (el *EventLog) Start(filePath string) error {
	if el.stopped.Load() {
		return ErrEventLogStopped
	}
	if filePath == "" {
		return el.StartWriter(nil)
	}
	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if err := el.StartWriter(file); err != nil {
		file.Close()
		return err
	}
	return nil
}

// StartWriter starts the background writer on w. If w is an io.Closer it is
// closed by Stop.
func (el *EventLog) StartWriter(w io.Writer) error {
	if el.stopped.Load() {
		return ErrEventLogStopped
	}
	if !el.running.CompareAndSwap(false, true) {
		return nil
	}
	if el.stopped.Load() {
		el.running.Store(false)
		return ErrEventLogStopped
	}
	if w != nil {
		el.out = bufio.NewWriter(w)
		if c, ok := w.(io.Closer); ok {
			el.closer = c
		}
	}
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()
	return nil
}

// Stop flushes what is pending and shuts the writer down.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.stopped.Store(true)
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.outMu.Lock()
		defer el.outMu.Unlock()
		if el.out != nil {
			if err := el.out.Flush(); err != nil {
				el.logger.Warn("event log flush failed", zap.Error(err))
			}
		}
		if el.closer != nil {
			el.closer.Close()
		}
	})
}

// Emit appends an event. Returns false when rate limited or not running.
// When the ring is full the oldest unflushed event is dropped.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	if event.EntityID != "" && !el.entityLimiter(event.EntityID).Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	el.mu.Lock()
	if el.head-el.tail >= EventBufferSize {
		el.tail++
		atomic.AddUint64(&el.droppedCount, 1)
	}
	el.sequence++
	event.Sequence = el.sequence
	el.buffer[el.head%EventBufferSize] = event
	el.head++
	el.mu.Unlock()

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

func (el *EventLog) entityLimiter(id string) *rate.Limiter {
	now := time.Now().UnixNano()
	if v, ok := el.entityLimiters.Load(id); ok {
		e := v.(*entityLimiterEntry)
		e.lastUsed.Store(now)
		return e.limiter
	}

	entry := &entityLimiterEntry{
		limiter: rate.NewLimiter(MaxEventsPerEntity, MaxEventsPerEntity/10),
	}
	entry.lastUsed.Store(now)
	actual, _ := el.entityLimiters.LoadOrStore(id, entry)
	return actual.(*entityLimiterEntry).limiter
}

func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			for {
				batch = el.collectBatch(batch[:0])
				if len(batch) == 0 {
					return
				}
				el.flushBatch(batch)
			}

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(EntityLimiterCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupEntityLimiters(time.Now().Add(-EntityLimiterCleanup))
		}
	}
}

func (el *EventLog) cleanupEntityLimiters(cutoff time.Time) {
	c := cutoff.UnixNano()
	el.entityLimiters.Range(func(key, value interface{}) bool {
		if value.(*entityLimiterEntry).lastUsed.Load() < c {
			el.entityLimiters.Delete(key)
		}
		return true
	})
}

func (el *EventLog) collectBatch(batch []Event) []Event {
	el.mu.Lock()
	defer el.mu.Unlock()
	for el.tail < el.head && len(batch) < BatchFlushSize {
		batch = append(batch, el.buffer[el.tail%EventBufferSize])
		el.tail++
	}
	return batch
}

func (el *EventLog) flushBatch(batch []Event) {
	el.outMu.Lock()
	defer el.outMu.Unlock()

	if el.out == nil {
		return
	}

	enc := json.NewEncoder(el.out)
	for _, event := range batch {
		if err := enc.Encode(event); err != nil {
			el.logger.Warn("event log write failed",
				zap.Uint64("sequence", event.Sequence),
				zap.Error(err))
			continue
		}
		atomic.AddUint64(&el.writtenCount, 1)
	}
	if err := el.out.Flush(); err != nil {
		el.logger.Warn("event log flush failed", zap.Error(err))
	}
}

// Stats returns the journal counters.
func (el *EventLog) Stats() EventLogStats {
	el.mu.Lock()
	pending := el.head - el.tail
	el.mu.Unlock()

	return EventLogStats{
		Total:   atomic.LoadUint64(&el.totalCount),
		Dropped: atomic.LoadUint64(&el.droppedCount),
		Written: atomic.LoadUint64(&el.writtenCount),
		Pending: pending,
		Running: el.running.Load(),
	}
}
