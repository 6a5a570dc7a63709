// pkg/resource/health.go
package resource

import (
	"context"
	"fmt"
)

// WorkerHealthCheck fails once any supervised worker has failed.
type WorkerHealthCheck struct {
	supervisor *Supervisor
}

// NewWorkerHealthCheck creates a health check over s.
func NewWorkerHealthCheck(s *Supervisor) *WorkerHealthCheck {
	return &WorkerHealthCheck{supervisor: s}
}

// Name returns the name of this health check.
func (w *WorkerHealthCheck) Name() string {
	return "workers"
}

// Check reports the first failed worker.
func (w *WorkerHealthCheck) Check(ctx context.Context) error {
	failures := w.supervisor.Failures()
	if len(failures) == 0 {
		return nil
	}
	f := failures[0]
	return fmt.Errorf("worker %q failed: %v (%d failures)", f.Name, f.Err, len(failures))
}
