package model

import (
	"context"
	"sync"
	"sync/atomic"
)

// LazyState is the resolution state of a lazy attribute.
type LazyState int32

const (
	Unresolved LazyState = iota
	Resolved
)

func (s LazyState) String() string {
	if s == Resolved {
		return "resolved"
	}
	return "unresolved"
}

// LazyField is a per-entity, per-attribute resolution slot. It moves from
// Unresolved to Resolved exactly once; concurrent readers wait on the first.
type LazyField struct {
	name  string
	mu    sync.Mutex
	state atomic.Int32
}

// State returns the current slot state.
func (f *LazyField) State() LazyState {
	return LazyState(f.state.Load())
}

func (f *LazyField) resolve(ctx context.Context, b *base) error {
	if f.State() == Resolved {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.State() == Resolved {
		return nil
	}
	if _, ok := b.Get(f.name); !ok {
		if err := b.loadDetail(ctx); err != nil {
			return err
		}
	}
	f.state.Store(int32(Resolved))
	return nil
}
