package lifecycle

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

const queueSize = 64

// Loop runs posted functions one at a time on a single goroutine.
type Loop struct {
	clock clockwork.Clock
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop. Functions can be posted before Run starts.
func NewLoop(clock clockwork.Clock) *Loop {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Loop{
		clock: clock,
		tasks: make(chan func(), queueSize),
		done:  make(chan struct{}),
	}
}

// Clock returns the clock timers are scheduled on.
func (l *Loop) Clock() clockwork.Clock {
	return l.clock
}

// Post queues fn. It reports false once the loop has stopped.
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

// After posts fn once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) {
	l.clock.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// Run executes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}
