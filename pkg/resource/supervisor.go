// pkg/resource/supervisor.go
package resource

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/go-floatsim/pkg/logging"
)

// ErrLimitReached is returned by Go when the supervisor is full.
var ErrLimitReached = errors.New("worker limit reached")

// ErrStopped is returned by Go after Shutdown has been called.
var ErrStopped = errors.New("supervisor stopped")

// WorkerFailure records a worker that returned an error or panicked.
type WorkerFailure struct {
	Name string
	Err  error
}

// Supervisor runs the long-lived goroutines of a process (the simulation
// loop, the health server, the view) and waits for them on shutdown. A
// panicking worker is recovered and recorded as a failure.
type Supervisor struct {
	maxWorkers int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	running  map[string]int
	failures []WorkerFailure
	stopped  bool

	logger *logging.Logger
}

// NewSupervisor creates a supervisor whose workers are cancelled when
// parent is done or Shutdown is called.
func NewSupervisor(parent context.Context, maxWorkers int, logger *logging.Logger) *Supervisor {
	ctx, cancel := context.WithCancel(parent)
	return &Supervisor{
		maxWorkers: maxWorkers,
		ctx:        ctx,
		cancel:     cancel,
		running:    make(map[string]int),
		logger:     logger,
	}
}

// Context is cancelled when the supervisor begins shutting down.
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// Go starts fn under name. An error other than context cancellation is
// recorded as a failure.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return fmt.Errorf("start %q: %w", name, ErrStopped)
	}
	if n := s.countLocked(); n >= s.maxWorkers {
		s.mu.Unlock()
		s.logger.Warn(s.ctx, "Worker limit reached", "name", name, "limit", s.maxWorkers)
		return fmt.Errorf("start %q: %w (%d/%d)", name, ErrLimitReached, n, s.maxWorkers)
	}
	s.running[name]++
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		err := s.run(name, fn)

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.running[name]--; s.running[name] == 0 {
			delete(s.running, name)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.failures = append(s.failures, WorkerFailure{Name: name, Err: err})
		}
	}()
	return nil
}

func (s *Supervisor) run(name string, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			s.logger.Error(s.ctx, "Worker panic", err, "name", name)
		}
	}()
	s.logger.Debug(s.ctx, "Worker started", "name", name)
	return fn(s.ctx)
}

// Running returns the number of live workers.
func (s *Supervisor) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *Supervisor) countLocked() int {
	n := 0
	for _, c := range s.running {
		n += c
	}
	return n
}

// Failures returns the workers that have failed so far.
func (s *Supervisor) Failures() []WorkerFailure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]WorkerFailure(nil), s.failures...)
}

// Shutdown cancels every worker and waits for them until ctx is done.
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info(ctx, "All workers finished")
		return nil
	case <-ctx.Done():
		remaining := s.Running()
		s.logger.Warn(ctx, "Shutdown timeout exceeded with workers still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d workers still running", remaining)
	}
}
