package datasync

import (
	"context"
	"testing"

	"devevent/cli/internal/remoteapi"
)

func entryEq(a, b entry) bool { return a == b }

func TestCoordinator_ReconcilesServerRecordOnSuccess(t *testing.T) {
	store := newEntryCollection()
	store.Upsert(entry{Slug: "existing", Title: "keep"})
	m := NewCoordinator(store)

	out, err := m.Mutate(context.Background(),
		func(c *Collection[string, entry]) {
			c.Upsert(entry{Slug: "new", Title: "optimistic placeholder"})
		},
		func(ctx context.Context) (entry, error) {
			return entry{Slug: "new", Title: "authoritative"}, nil
		},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Title != "authoritative" {
		t.Fatalf("unexpected result: %+v", out)
	}

	got, ok := store.Get("new")
	if !ok {
		t.Fatal("expected reconciled entry in store")
	}
	if got.Title != "authoritative" {
		t.Fatalf("store still holds the placeholder: %+v", got)
	}
}

func TestCoordinator_RollsBackOnFailure(t *testing.T) {
	store := newEntryCollection()
	store.Upsert(entry{Slug: "existing", Title: "keep"})
	m := NewCoordinator(store)

	before := store.Snapshot()
	_, err := m.Mutate(context.Background(),
		func(c *Collection[string, entry]) {
			c.Upsert(entry{Slug: "doomed", Title: "optimistic"})
		},
		func(ctx context.Context) (entry, error) {
			return entry{}, remoteapi.HTTPError(500, "server error")
		},
	)
	if !remoteapi.IsKind(err, remoteapi.KindHTTP) {
		t.Fatalf("expected http kind, got %v", err)
	}

	if !before.Equal(store.Snapshot(), entryEq) {
		t.Fatal("store must equal the pre-optimistic snapshot after a failed mutation")
	}
	if _, ok := store.Get("doomed"); ok {
		t.Fatal("optimistic entry survived a rejected write")
	}
}

func TestCoordinator_NoOptimisticUpdateNoRollbackNeeded(t *testing.T) {
	store := newEntryCollection()
	m := NewCoordinator(store)

	_, err := m.Mutate(context.Background(), nil, func(ctx context.Context) (entry, error) {
		return entry{}, remoteapi.NetworkError(nil)
	})
	if !remoteapi.IsKind(err, remoteapi.KindNetwork) {
		t.Fatalf("expected network kind, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("store should stay empty, got %d entries", store.Len())
	}
}

func TestCoordinator_MutateRemoveRollsBackDeletion(t *testing.T) {
	store := newEntryCollection()
	store.Upsert(entry{Slug: "a", Title: "first"})
	store.Upsert(entry{Slug: "b", Title: "second"})
	m := NewCoordinator(store)

	before := store.Snapshot()
	err := m.MutateRemove(context.Background(), "a", func(ctx context.Context) error {
		return remoteapi.HTTPError(500, "delete rejected")
	})
	if !remoteapi.IsKind(err, remoteapi.KindHTTP) {
		t.Fatalf("expected http kind, got %v", err)
	}
	if !before.Equal(store.Snapshot(), entryEq) {
		t.Fatal("failed deletion must restore the removed entry in order")
	}

	if err := m.MutateRemove(context.Background(), "a", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.Get("a"); ok {
		t.Fatal("entry should stay removed after a confirmed deletion")
	}
}
