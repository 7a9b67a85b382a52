package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolConcurrencyLimit(t *testing.T) {
	pool := New(2)

	var current int32
	var peak int32

	work := func() {
		val := atomic.AddInt32(&current, 1)
		for {
			prev := atomic.LoadInt32(&peak)
			if val <= prev {
				break
			}
			if atomic.CompareAndSwapInt32(&peak, prev, val) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt32(&current, -1)
	}

	for i := 0; i < 6; i++ {
		if err := pool.Submit(work); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	if peak > 2 {
		t.Fatalf("expected max concurrency <= 2, got %d", peak)
	}
}

func TestPoolSubmitAfterShutdown(t *testing.T) {
	pool := New(1)
	_ = pool.Shutdown(context.Background())
	if err := pool.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("expected ErrPoolClosed, got %v", err)
	}
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("second shutdown failed: %v", err)
	}
}

func TestPoolSubmitWaitReturnsTaskError(t *testing.T) {
	pool := New(1)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	want := errors.New("boom")
	if err := pool.SubmitWait(func() error { return want }); !errors.Is(err, want) {
		t.Fatalf("expected task error, got %v", err)
	}
}

func TestPoolSubmitWaitContextTimeout(t *testing.T) {
	pool := New(1)
	defer func() {
		_ = pool.Shutdown(context.Background())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := pool.SubmitWaitContext(ctx, func() error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context deadline exceeded, got %v", err)
	}
}

func TestPoolShutdownDuringSubmit(t *testing.T) {
	pool := New(1)
	release := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pool.Submit(func() { <-release })
		}()
	}
	close(release)
	if err := pool.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown failed: %v", err)
	}
	wg.Wait()
}
