// Package loop runs closures on a single consumer goroutine.
//
// Producers on any goroutine Post tasks; the consumer executes them in the
// order they were posted, either by calling Drain from its own event loop
// (after receiving from Wake) or by handing its goroutine to Run.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Post once the loop has been closed.
var ErrClosed = errors.New("loop closed")

// Task is a unit of work executed on the consumer goroutine.
type Task func()

// Loop is an unbounded FIFO of tasks with a single consumer.
type Loop struct {
	mu     sync.Mutex
	tasks  []Task
	closed bool

	wake chan struct{}
	done chan struct{}
}

// New returns an empty loop.
func New() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Post enqueues t. It never blocks.
func (l *Loop) Post(t Task) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.tasks = append(l.tasks, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Wake receives a value whenever tasks may be pending.
// Several posts can collapse into one wake-up.
func (l *Loop) Wake() <-chan struct{} {
	return l.wake
}

// Done is closed when the loop is closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Drain executes queued tasks until the queue is empty, including tasks
// posted by the tasks themselves. It must only be called from the consumer
// goroutine and returns the number of tasks executed.
func (l *Loop) Drain() int {
	var n int
	for {
		l.mu.Lock()
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return n
		}

		for _, t := range batch {
			t()
		}
		n += len(batch)
	}
}

// Run makes the calling goroutine the consumer until ctx is cancelled or the
// loop is closed. Tasks still queued at that point are discarded.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.Drain()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.done:
			return nil
		case <-l.wake:
		}
	}
}

// Close stops accepting tasks. It is safe to call more than once.
func (l *Loop) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.tasks = nil
	close(l.done)
}
