package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
}

func TestWorkerPool_CreateZeroWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestWorkerPool_CreateNegativeWorkers(t *testing.T) {
	pool := NewWorkerPool(-5)
	defer pool.Close()

	expected := runtime.GOMAXPROCS(0)
	if pool.Workers() != expected {
		t.Errorf("Workers() = %d, want %d (GOMAXPROCS)", pool.Workers(), expected)
	}
}

func TestWorkerPool_SubmitJoin(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	for i := 0; i < numTasks; i++ {
		pool.Submit(func(int) {
			counter.Add(1)
		})
	}
	pool.Join()

	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

// TestWorkerPool_JoinWaitsForSlowTasks is the pool-join-correctness
// scenario: N+1 tasks each sleep 10ms; Join must not return until every
// one of them has completed, not merely until the queue drains.
func TestWorkerPool_JoinWaitsForSlowTasks(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var done atomic.Int64
	n := pool.Workers() + 1

	for i := 0; i < n; i++ {
		pool.Submit(func(int) {
			time.Sleep(10 * time.Millisecond)
			done.Add(1)
		})
	}
	pool.Join()

	if int(done.Load()) != n {
		t.Errorf("done = %d, want %d", done.Load(), n)
	}
}

func TestWorkerPool_SubmitOrder(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var mu sync.Mutex
	results := make([]int, 0, 10)

	for i := 0; i < 10; i++ {
		idx := i
		pool.Submit(func(int) {
			mu.Lock()
			results = append(results, idx)
			mu.Unlock()
		})
	}
	pool.Join()

	if len(results) != 10 {
		t.Errorf("results length = %d, want 10", len(results))
	}

	seen := make(map[int]bool)
	for _, v := range results {
		seen[v] = true
	}
	for i := 0; i < 10; i++ {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

func TestWorkerPool_JoinEmpty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	pool.Join() // should return immediately, not block
}

func TestWorkerPool_WorkerIDInRange(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)

	for i := 0; i < 200; i++ {
		pool.Submit(func(id int) {
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		})
	}
	pool.Join()

	for id := range seen {
		if id < 0 || id >= pool.Workers() {
			t.Errorf("worker id %d out of range [0, %d)", id, pool.Workers())
		}
	}
}

func TestWorkerPool_ContainsPanics(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var ran atomic.Int64

	pool.Submit(func(int) {
		panic("boom")
	})
	for i := 0; i < 10; i++ {
		pool.Submit(func(int) {
			ran.Add(1)
		})
	}
	pool.Join()

	if ran.Load() != 10 {
		t.Errorf("ran = %d, want 10 (a panicking task must not take down the pool)", ran.Load())
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	var ran atomic.Bool
	pool.Submit(func(int) {
		ran.Store(true)
	})

	if ran.Load() {
		t.Error("task submitted after Close should not run")
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close() // must not panic or deadlock
}
