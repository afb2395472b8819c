// Package eventloop provides the scheduling primitives the boot console runs
// on: a Scheduler contract, a real single-goroutine Loop and a virtual-time
// Manual scheduler.
package eventloop

import (
	"context"
	"errors"
	"time"
)

// ErrStopped is returned when a task is handed to a loop that is no longer running.
var ErrStopped = errors.New("event loop stopped")

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented the
	// callback from running.
	Stop() bool
}

// Scheduler runs callbacks after a delay. Callbacks scheduled on the same
// Scheduler never run concurrently with each other.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop executes tasks and timer callbacks one at a time on the goroutine that
// calls Run. State owned by loop tasks needs no locking.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// New creates a loop whose task queue holds up to queue pending tasks before
// Post blocks.
func New(queue int) *Loop {
	if queue <= 0 {
		queue = 1
	}
	return &Loop{
		tasks: make(chan func(), queue),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled. It must be called exactly once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Done is closed once Run has returned.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post enqueues fn. It returns false if the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish. It must not be called
// from a loop task.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		// fn may have completed just before Run returned.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	}
}

// Now returns the wall clock.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules fn to run on the loop after d. The returned Timer must
// be stopped from a loop task.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	lt := &loopTimer{}
	lt.t = time.AfterFunc(d, func() {
		l.Post(func() {
			if lt.stopped {
				return
			}
			lt.fired = true
			fn()
		})
	})
	return lt
}

// loopTimer fields are only touched on the loop goroutine.
type loopTimer struct {
	t       *time.Timer
	stopped bool
	fired   bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	// The runtime timer may already have posted its task; stopped makes that
	// task a no-op.
	t.t.Stop()
	return true
}
