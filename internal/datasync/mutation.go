package datasync

import (
	"context"
	"errors"

	"devevent/cli/internal/remoteapi"
)

// Coordinator composes an executor with an optimistic update against a
// collection and automatic rollback on failure. One coordinator serves one
// screen's collection; coordinators are never shared across screens.
type Coordinator[K comparable, V any] struct {
	store *Collection[K, V]
	exec  *Executor[V]
}

func NewCoordinator[K comparable, V any](store *Collection[K, V]) *Coordinator[K, V] {
	return &Coordinator[K, V]{
		store: store,
		exec:  NewExecutor[V](),
	}
}

// Store returns the collection this coordinator guards.
func (m *Coordinator[K, V]) Store() *Collection[K, V] { return m.store }

// Executor exposes the underlying request slot for state observation.
func (m *Coordinator[K, V]) Executor() *Executor[V] { return m.exec }

// Mutate runs a write with optional optimistic local state.
//
// When optimistic is non-nil, a snapshot is taken first and optimistic runs
// synchronously against the store (typically an Upsert of a placeholder or a
// Remove). The network call then runs through the executor. On success the
// server record is reconciled into the store, replacing any placeholder for
// the same key. On failure the store is restored to the pre-optimistic
// snapshot exactly and the normalized error is surfaced.
//
// No retry happens here; the caller decides what a failure means.
func (m *Coordinator[K, V]) Mutate(ctx context.Context, optimistic func(*Collection[K, V]), call Operation[V]) (V, error) {
	var zero V
	if m == nil || m.store == nil {
		return zero, remoteapi.NetworkError(errors.New("mutation coordinator is not initialized"))
	}

	applied := false
	var snap Snapshot[K, V]
	if optimistic != nil {
		snap = m.store.Snapshot()
		optimistic(m.store)
		applied = true
	}

	out, err := m.exec.Execute(ctx, call)
	if err != nil {
		if applied {
			m.store.Restore(snap)
		}
		return zero, err
	}

	m.store.Upsert(out)
	return out, nil
}

// MutateRemove runs a deletion with an optimistic remove of key. On success
// the entry stays removed; on failure the store is rolled back so the entry
// reappears exactly as it was.
func (m *Coordinator[K, V]) MutateRemove(ctx context.Context, key K, call func(ctx context.Context) error) error {
	if m == nil || m.store == nil {
		return remoteapi.NetworkError(errors.New("mutation coordinator is not initialized"))
	}

	snap := m.store.Snapshot()
	m.store.Remove(key)

	_, err := m.exec.Execute(ctx, func(ctx context.Context) (V, error) {
		var zero V
		return zero, call(ctx)
	})
	if err != nil {
		m.store.Restore(snap)
		return err
	}
	return nil
}
