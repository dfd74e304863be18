package remoteapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Event{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenSourceFunc(func() (string, error) { return "tok-123", nil }))
	if _, err := c.ListEvents(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
}

func TestDo_AnonymousSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]Event{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, TokenSourceFunc(func() (string, error) { return "", nil }))
	if _, err := c.ListEvents(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("anonymous call must not send auth, got %q", gotAuth)
	}
}

func TestDo_NormalizesMessageShapes(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"bad input"}`, "bad input"},
		{"detail field", `{"detail":"Event not found"}`, "Event not found"},
		{"empty body", ``, "unexpected status 404"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, nil)
			_, err := c.GetEvent(context.Background(), "missing")
			be := AsError(err)
			if be.Kind != KindHTTP || be.Status != 404 {
				t.Fatalf("expected http 404, got %+v", be)
			}
			if be.Message != tc.want {
				t.Fatalf("expected message %q, got %q", tc.want, be.Message)
			}
		})
	}
}

func TestDo_ConflictBecomesDuplicate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"booking already exists"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.CreateBooking(context.Background(), Booking{UserID: "u1", EventSlug: "devconf-2024"})
	if !IsKind(err, KindDuplicate) {
		t.Fatalf("expected duplicate kind, got %v", err)
	}
}

func TestDo_TransportFailureIsNetworkKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(srv.URL, nil)
	_, err := c.ListEvents(context.Background())
	if !IsKind(err, KindNetwork) {
		t.Fatalf("expected network kind, got %v", err)
	}
}

func TestValidation_PrecedesNetworkCalls(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	c := NewClient(srv.URL, nil)

	checks := []struct {
		name  string
		field string
		run   func() error
	}{
		{"get event", "slug", func() error { _, err := c.GetEvent(context.Background(), " "); return err }},
		{"create booking", "userId", func() error { _, err := c.CreateBooking(context.Background(), Booking{EventSlug: "x"}); return err }},
		{"check booking", "eventId", func() error { _, err := c.CheckBooking(context.Background(), "u1", ""); return err }},
		{"login", "email", func() error { _, err := c.Login(context.Background(), Credentials{Password: "p"}); return err }},
		{"signup", "name", func() error { _, err := c.Signup(context.Background(), SignupInput{Email: "a@b.c", Password: "p"}); return err }},
	}
	for _, tc := range checks {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			be := AsError(err)
			if be == nil || be.Kind != KindValidation || be.Field != tc.field {
				t.Fatalf("expected validation on %s, got %+v", tc.field, be)
			}
		})
	}
	if calls != 0 {
		t.Fatalf("validation must fire before any request, saw %d calls", calls)
	}
}
