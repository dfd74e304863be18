// Package lifecycle runs a set of long-lived jobs until the first failure or
// cancellation, then runs shutdown hooks in registration order.
package lifecycle

import (
	"context"
	"errors"
	"sync"
)

type job struct {
	name string
	run  func(context.Context) error
}

type Manager struct {
	mu           sync.Mutex
	runJobs      []job
	shutdownJobs []job
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) AddRun(name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.runJobs = append(m.runJobs, job{name: name, run: fn})
	m.mu.Unlock()
}

func (m *Manager) AddShutdown(name string, fn func(context.Context) error) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	m.shutdownJobs = append(m.shutdownJobs, job{name: name, run: fn})
	m.mu.Unlock()
}

// StartAndWait blocks until every run job returns, the parent context is
// cancelled, or one job fails. A single failure cancels the rest. Shutdown
// hooks always run, with a fresh context, and their errors are joined onto
// the run error.
func (m *Manager) StartAndWait(ctx context.Context) error {
	runCtx, cancelRuns := context.WithCancel(ctx)
	defer cancelRuns()

	m.mu.Lock()
	runJobs := append([]job(nil), m.runJobs...)
	shutdownJobs := append([]job(nil), m.shutdownJobs...)
	m.mu.Unlock()

	errCh := make(chan error, len(runJobs))
	var wg sync.WaitGroup
	for _, j := range runJobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			if err := j.run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- err
				cancelRuns()
			}
		}(j)
	}

	doneCh := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		cancelRuns()
	case err := <-errCh:
		runErr = err
		cancelRuns()
	case <-doneCh:
	}
	<-doneCh

	var shutdownErr error
	for _, j := range shutdownJobs {
		if err := j.run(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
			shutdownErr = errors.Join(shutdownErr, err)
		}
	}
	return errors.Join(runErr, shutdownErr)
}
