package field

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// Timer is a pending callback scheduled by a Clock.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped a pending timer.
	Stop() bool
}

// Clock supplies time and expiration timers to fields.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type clockworkClock struct {
	clockwork.Clock
}

func (c clockworkClock) AfterFunc(d time.Duration, f func()) Timer {
	return c.Clock.AfterFunc(d, f)
}

// WrapClock adapts a clockwork clock. Tests pass a clockwork.FakeClock to
// move time by hand.
func WrapClock(c clockwork.Clock) Clock {
	return clockworkClock{Clock: c}
}

// SystemClock is the wall clock. Its callbacks run on their own goroutine;
// wrap it in a Loop before handing it to objects.
var SystemClock = WrapClock(clockwork.NewRealClock())

// Loop is a Clock that queues timer callbacks instead of running them. The
// owner of the objects drains the queue on its own goroutine, so expiration
// resets never run concurrently with regular reads and writes.
type Loop struct {
	clock Clock

	mu    sync.Mutex
	tasks []func()
	wake  chan struct{}
	armed atomic.Int64
}

// NewLoop queues the callbacks of timers scheduled on clock.
func NewLoop(clock Clock) *Loop {
	if clock == nil {
		clock = SystemClock
	}
	return &Loop{clock: clock, wake: make(chan struct{}, 1)}
}

// Now returns the time of the underlying clock.
func (l *Loop) Now() time.Time { return l.clock.Now() }

// AfterFunc queues f once d has passed on the underlying clock.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{loop: l}
	l.armed.Add(1)
	lt.timer = l.clock.AfterFunc(d, func() {
		l.Post(func() {
			if lt.done.Swap(true) {
				return
			}
			l.armed.Add(-1)
			f()
		})
	})
	return lt
}

// Pending returns the number of timers that have neither run nor been
// stopped.
func (l *Loop) Pending() int { return int(l.armed.Load()) }

// Post enqueues a task. It never blocks.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, f)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) pop() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) == 0 {
		return nil
	}
	f := l.tasks[0]
	l.tasks[0] = nil
	l.tasks = l.tasks[1:]
	return f
}

// RunPending runs the queued tasks without blocking and returns how many
// ran.
func (l *Loop) RunPending() int {
	n := 0
	for f := l.pop(); f != nil; f = l.pop() {
		f()
		n++
	}
	return n
}

// Next blocks until a task is queued and runs it.
func (l *Loop) Next(ctx context.Context) error {
	for {
		if f := l.pop(); f != nil {
			f()
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run executes tasks until ctx is done. Objects fed by the loop must then
// only be used from tasks posted to it.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

type loopTimer struct {
	loop  *Loop
	timer Timer
	done  atomic.Bool
}

func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	if t.done.Swap(true) {
		return false
	}
	t.loop.armed.Add(-1)
	return true
}
