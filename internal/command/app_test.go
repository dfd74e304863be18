package command

import (
	"context"
	"testing"

	"devevent/cli/internal/config"
)

func TestBuildApp_DefaultCommandIsServe(t *testing.T) {
	serveCalled := 0
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		RunServe: func(context.Context, config.Config) error {
			serveCalled++
			return nil
		},
	})
	if err := app.RunContext(context.Background(), []string{"devevent"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if serveCalled != 1 {
		t.Fatalf("serve called %d times, want 1", serveCalled)
	}
}

func TestBuildApp_BookCommandPassesParams(t *testing.T) {
	var got BookParams
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		Book: func(_ context.Context, _ config.Config, p BookParams) error {
			got = p
			return nil
		},
	})
	args := []string{"devevent", "book", "--name", "Dana", "--email", "dana@example.com", "devconf-2024"}
	if err := app.RunContext(context.Background(), args); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got.EventSlug != "devconf-2024" || got.Name != "Dana" || got.Email != "dana@example.com" {
		t.Fatalf("unexpected params: %+v", got)
	}
}

func TestBuildApp_BookRequiresSlug(t *testing.T) {
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		Book:       func(context.Context, config.Config, BookParams) error { return nil },
	})
	if err := app.RunContext(context.Background(), []string{"devevent", "book"}); err == nil {
		t.Fatal("expected error without a slug argument")
	}
}

func TestBuildApp_BookingsCancelParsesID(t *testing.T) {
	var got int64
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		CancelBooking: func(_ context.Context, _ config.Config, id int64) error {
			got = id
			return nil
		},
	})
	if err := app.RunContext(context.Background(), []string{"devevent", "bookings", "cancel", "42"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got != 42 {
		t.Fatalf("id = %d, want 42", got)
	}

	if err := app.RunContext(context.Background(), []string{"devevent", "bookings", "cancel", "abc"}); err == nil {
		t.Fatal("expected error for non-numeric booking id")
	}
}

func TestBuildApp_MigrateUpCommand(t *testing.T) {
	migrateCalled := 0
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		RunMigrateUp: func(context.Context, config.Config) error {
			migrateCalled++
			return nil
		},
	})
	if err := app.RunContext(context.Background(), []string{"devevent", "migrate", "up"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if migrateCalled != 1 {
		t.Fatalf("migrate called %d times, want 1", migrateCalled)
	}
}

func TestBuildApp_AdminDeleteEvent(t *testing.T) {
	var got string
	app := BuildApp(Deps{
		LoadConfig: func() config.Config { return config.Config{} },
		DeleteEvent: func(_ context.Context, _ config.Config, slug string) error {
			got = slug
			return nil
		},
	})
	if err := app.RunContext(context.Background(), []string{"devevent", "admin", "delete-event", "gosummit"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if got != "gosummit" {
		t.Fatalf("slug = %q", got)
	}
}
