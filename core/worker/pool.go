// Package worker runs tasks with bounded concurrency.
package worker

import (
	"context"
	"errors"
	"sync"
)

var ErrPoolClosed = errors.New("worker pool closed")

// Pool provides bounded concurrency execution.
type Pool struct {
	tasks    chan func()
	wg       sync.WaitGroup
	shutdown chan struct{}
	stopOnce sync.Once
	// mu is held for reading while a task is being enqueued so tasks is
	// never closed under a pending send.
	mu     sync.RWMutex
	closed bool
	size   int
}

// New creates a worker pool with the given size.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{
		tasks:    make(chan func(), max(size*8, 8)),
		shutdown: make(chan struct{}),
		size:     size,
	}
	for range size {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				if task != nil {
					task()
				}
			}
		}()
	}
	return p
}

// Submit enqueues a task for execution.
func (p *Pool) Submit(task func()) error {
	return p.submit(context.Background(), task)
}

// SubmitWait enqueues a task and waits for it to complete.
func (p *Pool) SubmitWait(task func() error) error {
	return p.SubmitWaitContext(context.Background(), task)
}

// SubmitWaitContext is SubmitWait that gives up waiting when ctx is done.
// The task itself still runs once dequeued.
func (p *Pool) SubmitWaitContext(ctx context.Context, task func() error) error {
	if task == nil {
		return nil
	}
	result := make(chan error, 1)
	if err := p.submit(ctx, func() { result <- task() }); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-result:
		return err
	}
}

func (p *Pool) submit(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}
	select {
	case <-p.shutdown:
		return ErrPoolClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for queued ones until ctx is done.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.close()
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

func (p *Pool) close() {
	p.stopOnce.Do(func() {
		close(p.shutdown)
		p.mu.Lock()
		p.closed = true
		close(p.tasks)
		p.mu.Unlock()
	})
}

// Size returns the worker count.
func (p *Pool) Size() int {
	return p.size
}
