package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"devevent/cli/internal/command"
	"devevent/cli/internal/config"
	"devevent/cli/internal/db"
	"devevent/cli/internal/logging"
)

var version = "dev"
var buildTime = "unknown"

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := command.BuildApp(command.Deps{
		LoadConfig:   config.LoadConfig,
		RunServe:     runServe,
		RunMigrateUp: runMigrateUp,

		ListEvents: runListEvents,
		ShowEvent:  runShowEvent,

		Book:          runBook,
		ListBookings:  runListBookings,
		CancelBooking: runCancelBooking,

		Login:  runLogin,
		Signup: runSignup,
		Logout: runLogout,

		CreateEvent: runCreateEvent,
		UpdateEvent: runUpdateEvent,
		DeleteEvent: runDeleteEvent,
	})

	if err := app.RunContext(rootCtx, os.Args); err != nil {
		logging.NewLogger(logging.Options{Level: "error", Writer: os.Stderr, Component: "devevent"}).Error("devevent failed", "err", err)
		os.Exit(1)
	}
}

// runMigrateUp opens the local database, which syncs the schema as a side
// effect of Open.
func runMigrateUp(_ context.Context, cfg config.Config) error {
	gdb, err := db.Open(filepath.Join(cfg.DataDir, "devevent.db"))
	if err != nil {
		return err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
