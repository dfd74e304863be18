package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"devevent/cli/internal/config"
)

// BookParams is one "book" invocation from the command line.
type BookParams struct {
	EventSlug string
	Name      string
	Email     string
}

// Deps holds the runners the CLI dispatches to. Every field is injectable so
// command wiring is testable without a network or a database.
type Deps struct {
	LoadConfig   func() config.Config
	RunServe     func(context.Context, config.Config) error
	RunMigrateUp func(context.Context, config.Config) error

	ListEvents func(context.Context, config.Config) error
	ShowEvent  func(context.Context, config.Config, string) error

	Book          func(context.Context, config.Config, BookParams) error
	ListBookings  func(context.Context, config.Config) error
	CancelBooking func(context.Context, config.Config, int64) error

	Login  func(context.Context, config.Config, string, string) error
	Signup func(context.Context, config.Config, string, string, string) error
	Logout func(context.Context, config.Config) error

	CreateEvent func(context.Context, config.Config, string) error
	UpdateEvent func(context.Context, config.Config, string, string) error
	DeleteEvent func(context.Context, config.Config, string) error
}

func BuildApp(deps Deps) *cli.App {
	return &cli.App{
		Name:  "devevent",
		Usage: "developer events booking client",
		Action: func(ctx *cli.Context) error {
			cfg := loadConfig(deps)
			return runServe(ctx.Context, deps, cfg)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the local app server",
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					return runServe(ctx.Context, deps, cfg)
				},
			},
			{
				Name:  "events",
				Usage: "browse events",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list upcoming events",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							if deps.ListEvents == nil {
								return errors.New("events runner is not configured")
							}
							return deps.ListEvents(ctx.Context, cfg)
						},
					},
					{
						Name:      "show",
						Usage:     "show one event",
						ArgsUsage: "<slug>",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							slug := ctx.Args().First()
							if slug == "" {
								return errors.New("event slug is required")
							}
							if deps.ShowEvent == nil {
								return errors.New("events runner is not configured")
							}
							return deps.ShowEvent(ctx.Context, cfg, slug)
						},
					},
				},
			},
			{
				Name:      "book",
				Usage:     "book a spot at an event",
				ArgsUsage: "<slug>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Usage: "attendee name"},
					&cli.StringFlag{Name: "email", Usage: "confirmation email address"},
				},
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					slug := ctx.Args().First()
					if slug == "" {
						return errors.New("event slug is required")
					}
					if deps.Book == nil {
						return errors.New("book runner is not configured")
					}
					return deps.Book(ctx.Context, cfg, BookParams{
						EventSlug: slug,
						Name:      ctx.String("name"),
						Email:     ctx.String("email"),
					})
				},
			},
			{
				Name:  "bookings",
				Usage: "manage your bookings",
				Subcommands: []*cli.Command{
					{
						Name:  "list",
						Usage: "list your bookings",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							if deps.ListBookings == nil {
								return errors.New("bookings runner is not configured")
							}
							return deps.ListBookings(ctx.Context, cfg)
						},
					},
					{
						Name:      "cancel",
						Usage:     "cancel a booking",
						ArgsUsage: "<booking-id>",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							raw := ctx.Args().First()
							if raw == "" {
								return errors.New("booking id is required")
							}
							parsed, err := parseBookingID(raw)
							if err != nil {
								return err
							}
							if deps.CancelBooking == nil {
								return errors.New("bookings runner is not configured")
							}
							return deps.CancelBooking(ctx.Context, cfg, parsed)
						},
					},
				},
			},
			{
				Name:  "login",
				Usage: "sign in and store the session",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					if deps.Login == nil {
						return errors.New("auth runner is not configured")
					}
					return deps.Login(ctx.Context, cfg, ctx.String("email"), ctx.String("password"))
				},
			},
			{
				Name:  "signup",
				Usage: "create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Required: true},
					&cli.StringFlag{Name: "email", Required: true},
					&cli.StringFlag{Name: "password", Required: true},
				},
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					if deps.Signup == nil {
						return errors.New("auth runner is not configured")
					}
					return deps.Signup(ctx.Context, cfg, ctx.String("name"), ctx.String("email"), ctx.String("password"))
				},
			},
			{
				Name:  "logout",
				Usage: "discard the stored session",
				Action: func(ctx *cli.Context) error {
					cfg := loadConfig(deps)
					if deps.Logout == nil {
						return errors.New("auth runner is not configured")
					}
					return deps.Logout(ctx.Context, cfg)
				},
			},
			{
				Name:  "admin",
				Usage: "event administration",
				Subcommands: []*cli.Command{
					{
						Name:  "create-event",
						Usage: "create an event from a JSON file",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Required: true, Usage: "path to event JSON"},
						},
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							if deps.CreateEvent == nil {
								return errors.New("admin runner is not configured")
							}
							return deps.CreateEvent(ctx.Context, cfg, ctx.String("file"))
						},
					},
					{
						Name:      "update-event",
						Usage:     "update an event from a JSON file",
						ArgsUsage: "<slug>",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "file", Required: true, Usage: "path to event JSON"},
						},
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							slug := ctx.Args().First()
							if slug == "" {
								return errors.New("event slug is required")
							}
							if deps.UpdateEvent == nil {
								return errors.New("admin runner is not configured")
							}
							return deps.UpdateEvent(ctx.Context, cfg, slug, ctx.String("file"))
						},
					},
					{
						Name:      "delete-event",
						Usage:     "delete an event",
						ArgsUsage: "<slug>",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							slug := ctx.Args().First()
							if slug == "" {
								return errors.New("event slug is required")
							}
							if deps.DeleteEvent == nil {
								return errors.New("admin runner is not configured")
							}
							return deps.DeleteEvent(ctx.Context, cfg, slug)
						},
					},
				},
			},
			{
				Name:  "migrate",
				Usage: "run database migration",
				Subcommands: []*cli.Command{
					{
						Name:  "up",
						Usage: "apply pending migrations",
						Action: func(ctx *cli.Context) error {
							cfg := loadConfig(deps)
							if deps.RunMigrateUp == nil {
								return errors.New("migrate up runner is not configured")
							}
							return deps.RunMigrateUp(ctx.Context, cfg)
						},
					},
				},
			},
		},
	}
}

func loadConfig(deps Deps) config.Config {
	if deps.LoadConfig != nil {
		return deps.LoadConfig()
	}
	return config.LoadConfig()
}

func runServe(ctx context.Context, deps Deps, cfg config.Config) error {
	if deps.RunServe == nil {
		return errors.New("serve runner is not configured")
	}
	return deps.RunServe(ctx, cfg)
}

func parseBookingID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid booking id %q", raw)
	}
	return id, nil
}
