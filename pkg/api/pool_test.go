package api

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolBasic(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 2, MaxSlowWorkers: 1})

	if err := pool.Acquire(context.Background(), Fast); err != nil {
		t.Fatalf("Failed to acquire fast worker: %v", err)
	}
	if got := pool.Stats().ActiveFast; got != 1 {
		t.Errorf("Expected 1 active fast worker, got %d", got)
	}

	pool.Release(Fast)
	stats := pool.Stats()
	if stats.ActiveFast != 0 {
		t.Errorf("Expected 0 active fast workers after release, got %d", stats.ActiveFast)
	}
	if stats.TotalFast != 1 {
		t.Errorf("Expected 1 total fast request, got %d", stats.TotalFast)
	}
}

func TestWorkerPoolLanesAreIndependent(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})

	if !pool.TryAcquire(Slow) {
		t.Fatal("Failed to acquire slow worker")
	}
	if pool.TryAcquire(Slow) {
		t.Error("Should not be able to acquire a second slow worker")
	}
	if !pool.TryAcquire(Fast) {
		t.Error("A full slow lane should not block the fast lane")
	}
	pool.Release(Fast)
	pool.Release(Slow)

	if got := pool.Stats().TotalSlow; got != 1 {
		t.Errorf("Expected 1 total slow request, got %d", got)
	}
}

func TestWorkerPoolContextCancellation(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})

	if err := pool.Acquire(context.Background(), Fast); err != nil {
		t.Fatalf("Failed to acquire fast worker: %v", err)
	}
	defer pool.Release(Fast)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pool.Acquire(ctx, Fast); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	timeout, cancelTimeout := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancelTimeout()
	if err := pool.Acquire(timeout, Fast); err != context.DeadlineExceeded {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}
}

func TestWorkerPoolRun(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 3, MaxSlowWorkers: 1})

	var running, peak int64
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Run(context.Background(), Fast, func(ctx context.Context) error {
				n := atomic.AddInt64(&running, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&running, -1)
				return nil
			})
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		}()
	}
	wg.Wait()

	if peak > 3 {
		t.Errorf("Expected at most 3 concurrent runs, saw %d", peak)
	}
	if got := pool.Stats().TotalFast; got != 12 {
		t.Errorf("Expected 12 total fast requests, got %d", got)
	}
}

func TestWorkerPoolRunReturnsError(t *testing.T) {
	pool := NewWorkerPool(DefaultPoolConfig())
	boom := errors.New("boom")
	err := pool.Run(context.Background(), Slow, func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}
	if got := pool.Stats().ActiveSlow; got != 0 {
		t.Errorf("Slot leaked: %d active", got)
	}
}

func TestWorkerPoolStats(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 10, MaxSlowWorkers: 4})

	stats := pool.Stats()
	if stats.MaxFast != 10 {
		t.Errorf("Expected MaxFast=10, got %d", stats.MaxFast)
	}
	if stats.MaxSlow != 4 {
		t.Errorf("Expected MaxSlow=4, got %d", stats.MaxSlow)
	}

	defaults := NewWorkerPool(PoolConfig{}).Stats()
	if defaults.MaxFast != DefaultPoolConfig().MaxFastWorkers || defaults.MaxSlow != DefaultPoolConfig().MaxSlowWorkers {
		t.Errorf("Zero config should use defaults, got %+v", defaults)
	}
}

func TestWorkerPoolTryRun(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{MaxFastWorkers: 1, MaxSlowWorkers: 1})
	if !pool.TryAcquire(Fast) {
		t.Fatal("Failed to acquire fast worker")
	}
	called := false
	err := pool.TryRun(context.Background(), Fast, func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrPoolFull) || called {
		t.Errorf("Expected ErrPoolFull without running, got %v (called=%v)", err, called)
	}
	pool.Release(Fast)

	if err := pool.TryRun(context.Background(), Fast, func(context.Context) error { return nil }); err != nil {
		t.Errorf("TryRun on a free lane: %v", err)
	}
}
