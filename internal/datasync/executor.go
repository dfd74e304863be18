// Package datasync holds the client-side synchronization primitives: an
// observable request executor, an ordered collection cache with snapshot
// rollback, and the mutation coordinator that ties the two together.
package datasync

import (
	"context"
	"sync"

	"devevent/cli/internal/remoteapi"
)

// Status is the lifecycle of one request slot. Exactly one status holds at a
// time; transitions within an invocation are monotonic.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// RequestState is the observable snapshot of an executor slot.
type RequestState[T any] struct {
	Status  Status
	Data    T
	HasData bool
	Err     *remoteapi.Error
}

// Operation is the asynchronous call an executor drives.
type Operation[T any] func(ctx context.Context) (T, error)

// Executor owns one request-state slot. It is safe for concurrent use;
// invocations are fenced with a sequence number so a stale response can
// never overwrite the result of a later call.
type Executor[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state RequestState[T]
	subs  []func(RequestState[T])
}

func NewExecutor[T any]() *Executor[T] {
	return &Executor[T]{state: RequestState[T]{Status: StatusIdle}}
}

// State returns the current snapshot of the slot.
func (e *Executor[T]) State() RequestState[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Subscribe registers a listener for every state transition. Listeners run
// synchronously under the transition; they must not call back into the
// executor.
func (e *Executor[T]) Subscribe(fn func(RequestState[T])) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	e.subs = append(e.subs, fn)
	e.mu.Unlock()
}

// Execute runs op through the slot. It transitions to Pending immediately,
// clearing any prior error, then to Succeeded or Failed when op resolves.
// The resolved value is returned alongside the normalized error so a
// coordinator can react to failures.
//
// A newer Execute call issued while this one is in flight wins the slot: the
// older call still returns its own result to its caller, but its resolution
// leaves the slot untouched.
func (e *Executor[T]) Execute(ctx context.Context, op Operation[T]) (T, error) {
	e.mu.Lock()
	e.seq++
	seq := e.seq
	e.state = RequestState[T]{Status: StatusPending}
	e.notifyLocked()
	e.mu.Unlock()

	out, err := op(ctx)

	e.mu.Lock()
	if seq == e.seq {
		if err != nil {
			e.state = RequestState[T]{Status: StatusFailed, Err: remoteapi.AsError(err)}
		} else {
			e.state = RequestState[T]{Status: StatusSucceeded, Data: out, HasData: true}
		}
		e.notifyLocked()
	}
	e.mu.Unlock()

	if err != nil {
		var zero T
		return zero, remoteapi.AsError(err)
	}
	return out, nil
}

// Reset returns the slot to Idle, discarding any terminal state. In-flight
// calls become stale and will not touch the slot when they resolve.
func (e *Executor[T]) Reset() {
	e.mu.Lock()
	e.seq++
	e.state = RequestState[T]{Status: StatusIdle}
	e.notifyLocked()
	e.mu.Unlock()
}

func (e *Executor[T]) notifyLocked() {
	st := e.state
	for _, fn := range e.subs {
		fn(st)
	}
}
