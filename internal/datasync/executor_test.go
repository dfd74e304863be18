package datasync

import (
	"context"
	"errors"
	"testing"

	"devevent/cli/internal/remoteapi"
)

func TestExecutor_SuccessTransitions(t *testing.T) {
	e := NewExecutor[string]()
	if st := e.State(); st.Status != StatusIdle {
		t.Fatalf("expected idle initially, got %s", st.Status)
	}

	var seen []Status
	e.Subscribe(func(st RequestState[string]) { seen = append(seen, st.Status) })

	out, err := e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "value", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "value" {
		t.Fatalf("unexpected result: %s", out)
	}

	st := e.State()
	if st.Status != StatusSucceeded || !st.HasData || st.Data != "value" || st.Err != nil {
		t.Fatalf("unexpected terminal state: %+v", st)
	}
	if len(seen) != 2 || seen[0] != StatusPending || seen[1] != StatusSucceeded {
		t.Fatalf("unexpected transition sequence: %v", seen)
	}
}

func TestExecutor_FailureNormalizesError(t *testing.T) {
	e := NewExecutor[string]()
	_, err := e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "", remoteapi.HTTPError(500, "boom")
	})
	if !remoteapi.IsKind(err, remoteapi.KindHTTP) {
		t.Fatalf("expected http kind, got %v", err)
	}

	st := e.State()
	if st.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", st.Status)
	}
	if st.Err == nil || st.Err.Status != 500 {
		t.Fatalf("expected http 500 in state, got %+v", st.Err)
	}
}

func TestExecutor_NewInvocationClearsPriorError(t *testing.T) {
	e := NewExecutor[string]()
	_, _ = e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "", errors.New("transport down")
	})

	var pending RequestState[string]
	e.Subscribe(func(st RequestState[string]) {
		if st.Status == StatusPending {
			pending = st
		}
	})
	_, err := e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pending.Err != nil {
		t.Fatal("pending transition should clear the prior error")
	}
}

func TestExecutor_StaleResponseIsDiscarded(t *testing.T) {
	e := NewExecutor[string]()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = e.Execute(context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()
	<-started

	// Second call issued while the first is still in flight wins the slot.
	out, err := e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "fresh", nil
	})
	if err != nil || out != "fresh" {
		t.Fatalf("unexpected result: %s err=%v", out, err)
	}

	close(release)
	<-done

	st := e.State()
	if st.Status != StatusSucceeded || st.Data != "fresh" {
		t.Fatalf("stale response overwrote the slot: %+v", st)
	}
}

func TestExecutor_ResetDiscardsTerminalState(t *testing.T) {
	e := NewExecutor[string]()
	_, _ = e.Execute(context.Background(), func(ctx context.Context) (string, error) {
		return "value", nil
	})
	e.Reset()
	st := e.State()
	if st.Status != StatusIdle || st.HasData {
		t.Fatalf("expected idle empty state after reset, got %+v", st)
	}
}
