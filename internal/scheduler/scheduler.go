// Package scheduler runs independent polling loops. Each loop runs one cycle,
// waits for it to settle, then sleeps a fixed interval before the next one,
// so a loop never has two cycles in flight and a failed cycle never stops it.
package scheduler

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/liquidmon/lmon/internal/clock"
	"github.com/liquidmon/lmon/internal/logger"
)

// Loop is one named fetch-process-render cycle and the delay between cycles.
type Loop struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Observer is told about every settled cycle.
type Observer interface {
	CycleDone(loop string, err error, elapsed time.Duration)
}

// Scheduler owns a set of loops. Loops start together and run until the
// context passed to Start is cancelled.
type Scheduler struct {
	clock    clock.Clock
	log      logger.Logger
	observer Observer

	mu       sync.Mutex
	loops    []Loop
	triggers map[string]chan struct{}
	started  bool
	wg       sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the clock used for inter-cycle delays.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger sets the logger failed cycles are reported to.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithObserver registers a cycle observer.
func WithObserver(o Observer) Option {
	return func(s *Scheduler) { s.observer = o }
}

// New creates an empty Scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    clock.Real(),
		log:      logger.Noop(),
		triggers: make(map[string]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add registers a loop. It fails once the scheduler has started.
func (s *Scheduler) Add(l Loop) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started, cannot add loop %q", l.Name)
	}
	if l.Run == nil || l.Interval <= 0 {
		return fmt.Errorf("loop %q needs a Run func and a positive interval", l.Name)
	}
	if _, dup := s.triggers[l.Name]; dup {
		return fmt.Errorf("loop %q registered twice", l.Name)
	}

	s.loops = append(s.loops, l)
	s.triggers[l.Name] = make(chan struct{}, 1)
	return nil
}

// Start launches every loop in its own goroutine. Each loop runs its first
// cycle immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, l := range s.loops {
		s.wg.Add(1)
		go s.run(ctx, l, s.triggers[l.Name])
	}
}

// Wait blocks until every loop has returned. Loops return only after the
// Start context is cancelled and their in-flight cycle settles.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Trigger asks the named loop to start its next cycle without waiting for the
// rest of its interval. A cycle already in flight is not interrupted; the
// request is coalesced and honored once it settles. Unknown names are ignored.
func (s *Scheduler) Trigger(name string) {
	s.mu.Lock()
	ch, ok := s.triggers[name]
	s.mu.Unlock()
	if !ok {
		return
	}
	select {
	case ch <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run(ctx context.Context, l Loop, trigger <-chan struct{}) {
	defer s.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		s.cycle(ctx, l)

		timer := s.clock.NewTimer(l.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C():
		case <-trigger:
			timer.Stop()
		}
	}
}

// cycle runs one cycle inside a failure boundary: errors and panics are
// logged and swallowed.
func (s *Scheduler) cycle(ctx context.Context, l Loop) {
	start := s.clock.Now()
	var err error

	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				s.log.Error("loop %s: cycle panicked: %v\n%s", l.Name, r, debug.Stack())
			}
		}()
		err = l.Run(ctx)
	}()

	if err != nil && ctx.Err() == nil {
		s.log.Warn("loop %s: cycle failed: %v", l.Name, err)
	}

	if s.observer != nil {
		s.observer.CycleDone(l.Name, err, s.clock.Now().Sub(start))
	}
}
