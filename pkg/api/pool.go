package api

import (
	"context"
	"errors"
	"sync/atomic"
)

// Lane selects which half of the WorkerPool a request runs in.
type Lane int

const (
	// Fast is for single-turn work: validate, legal moves, tree search.
	Fast Lane = iota
	// Slow is for roll surveys, which run 21 tree searches each.
	Slow
)

func (l Lane) String() string {
	if l == Slow {
		return "slow"
	}
	return "fast"
}

// ErrPoolFull is returned by TryRun when no slot is free.
var ErrPoolFull = errors.New("worker pool full")

// lane is one bounded semaphore with its counters.
type lane struct {
	sem    chan struct{}
	queued int64
	active int64
	total  int64
}

func newLane(size int) *lane {
	return &lane{sem: make(chan struct{}, size)}
}

func (l *lane) acquire(ctx context.Context) error {
	atomic.AddInt64(&l.queued, 1)
	defer atomic.AddInt64(&l.queued, -1)

	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *lane) tryAcquire() bool {
	select {
	case l.sem <- struct{}{}:
		atomic.AddInt64(&l.active, 1)
		return true
	default:
		return false
	}
}

func (l *lane) release() {
	atomic.AddInt64(&l.active, -1)
	atomic.AddInt64(&l.total, 1)
	<-l.sem
}

// WorkerPool bounds how many engine calls run at once, with separate
// limits for fast and slow work so surveys cannot starve validation.
type WorkerPool struct {
	lanes [2]*lane
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int // Max concurrent fast operations (default: 64)
	MaxSlowWorkers int // Max concurrent slow operations (default: 2)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 64,
		MaxSlowWorkers: 2,
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
// Non-positive limits fall back to the defaults.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	def := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = def.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = def.MaxSlowWorkers
	}
	return &WorkerPool{
		lanes: [2]*lane{newLane(config.MaxFastWorkers), newLane(config.MaxSlowWorkers)},
	}
}

// Acquire waits for a slot in the lane.
// Returns the context error if ctx ends while waiting.
func (p *WorkerPool) Acquire(ctx context.Context, l Lane) error {
	return p.lanes[l].acquire(ctx)
}

// TryAcquire takes a slot only if one is free right now.
func (p *WorkerPool) TryAcquire(l Lane) bool {
	return p.lanes[l].tryAcquire()
}

// Release returns a slot taken by Acquire or TryAcquire.
func (p *WorkerPool) Release(l Lane) {
	p.lanes[l].release()
}

// Run executes fn while holding a slot in the lane.
func (p *WorkerPool) Run(ctx context.Context, l Lane, fn func(ctx context.Context) error) error {
	if err := p.Acquire(ctx, l); err != nil {
		return err
	}
	defer p.Release(l)
	return fn(ctx)
}

// TryRun is Run without waiting: it returns ErrPoolFull if the lane is busy.
func (p *WorkerPool) TryRun(ctx context.Context, l Lane, fn func(ctx context.Context) error) error {
	if !p.TryAcquire(l) {
		return ErrPoolFull
	}
	defer p.Release(l)
	return fn(ctx)
}

// PoolStats is a snapshot of the pool counters.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	fast, slow := p.lanes[Fast], p.lanes[Slow]
	return PoolStats{
		ActiveFast: atomic.LoadInt64(&fast.active),
		ActiveSlow: atomic.LoadInt64(&slow.active),
		QueuedFast: atomic.LoadInt64(&fast.queued),
		QueuedSlow: atomic.LoadInt64(&slow.queued),
		TotalFast:  atomic.LoadInt64(&fast.total),
		TotalSlow:  atomic.LoadInt64(&slow.total),
		MaxFast:    cap(fast.sem),
		MaxSlow:    cap(slow.sem),
	}
}
