package datasync

import "testing"

type entry struct {
	Slug  string
	Title string
}

func newEntryCollection() *Collection[string, entry] {
	return NewCollection(func(e entry) string { return e.Slug })
}

func TestCollection_UpsertPreservesInsertionOrder(t *testing.T) {
	c := newEntryCollection()
	c.Upsert(entry{Slug: "a", Title: "first"})
	c.Upsert(entry{Slug: "b", Title: "second"})
	c.Upsert(entry{Slug: "c", Title: "third"})

	got := c.List()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].Slug != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].Slug)
		}
	}
}

func TestCollection_UpsertReplacesInPlace(t *testing.T) {
	c := newEntryCollection()
	c.Upsert(entry{Slug: "a", Title: "first"})
	c.Upsert(entry{Slug: "b", Title: "second"})
	c.Upsert(entry{Slug: "a", Title: "updated"})

	got := c.List()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Slug != "a" || got[0].Title != "updated" {
		t.Fatalf("expected a/updated in place, got %+v", got[0])
	}
	if got[1].Slug != "b" {
		t.Fatalf("expected b to keep its position, got %+v", got[1])
	}
}

func TestCollection_RemoveAbsentIsNoop(t *testing.T) {
	c := newEntryCollection()
	c.Upsert(entry{Slug: "a"})
	c.Remove("missing")
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
}

func TestCollection_SnapshotIsDetached(t *testing.T) {
	c := newEntryCollection()
	c.Upsert(entry{Slug: "a", Title: "first"})
	snap := c.Snapshot()

	c.Upsert(entry{Slug: "a", Title: "mutated"})
	c.Upsert(entry{Slug: "b"})

	c.Restore(snap)
	got := c.List()
	if len(got) != 1 {
		t.Fatalf("expected restore to 1 entry, got %d", len(got))
	}
	if got[0].Title != "first" {
		t.Fatalf("expected pre-snapshot title, got %s", got[0].Title)
	}
}

func TestSnapshot_Equal(t *testing.T) {
	c := newEntryCollection()
	c.Upsert(entry{Slug: "a", Title: "first"})
	c.Upsert(entry{Slug: "b", Title: "second"})

	before := c.Snapshot()
	after := c.Snapshot()
	eq := func(x, y entry) bool { return x == y }
	if !before.Equal(after, eq) {
		t.Fatal("identical snapshots should be equal")
	}

	c.Remove("b")
	if before.Equal(c.Snapshot(), eq) {
		t.Fatal("snapshots should differ after a removal")
	}
}
