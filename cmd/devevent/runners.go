package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gorm.io/gorm"

	"devevent/cli/internal/bookingflow"
	"devevent/cli/internal/command"
	"devevent/cli/internal/config"
	"devevent/cli/internal/credstore"
	"devevent/cli/internal/db"
	"devevent/cli/internal/global"
	"devevent/cli/internal/notifier"
	"devevent/cli/internal/remoteapi"
)

// cliEnv is the slice of the stack terminal commands need: local state plus
// an authenticated remote client.
type cliEnv struct {
	cfg    config.Config
	gdb    *gorm.DB
	creds  *credstore.Store
	client *remoteapi.Client
}

func openEnv(cfg config.Config) (*cliEnv, error) {
	gdb, err := db.Open(filepath.Join(cfg.DataDir, "devevent.db"))
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}
	creds, err := credstore.NewStore(gdb, filepath.Join(cfg.DataDir, "secret.key"))
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}
	configDir, err := global.DefaultConfigDir()
	if err != nil {
		return nil, err
	}
	gcfg, err := global.NewConfigStore(configDir).LoadOrInit()
	if err != nil {
		return nil, err
	}
	return &cliEnv{
		cfg:    cfg,
		gdb:    gdb,
		creds:  creds,
		client: remoteapi.NewClient(resolveAPIBaseURL(cfg, gcfg), creds),
	}, nil
}

func (e *cliEnv) Close() error {
	sqlDB, err := e.gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func runListEvents(ctx context.Context, cfg config.Config) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	events, err := env.client.ListEvents(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SLUG\tTITLE\tDATE\tLOCATION\tBOOKED")
	for _, ev := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", ev.Slug, ev.Title, ev.Date, ev.Location, ev.BookedSpots)
	}
	return tw.Flush()
}

func runShowEvent(ctx context.Context, cfg config.Config, slug string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	ev, err := env.client.GetEvent(ctx, slug)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", ev.Title)
	fmt.Printf("  slug:      %s\n", ev.Slug)
	fmt.Printf("  date:      %s %s\n", ev.Date, ev.Time)
	fmt.Printf("  location:  %s (%s)\n", ev.Location, ev.Venue)
	fmt.Printf("  mode:      %s\n", ev.Mode)
	fmt.Printf("  audience:  %s\n", ev.Audience)
	fmt.Printf("  organizer: %s\n", ev.Organizer)
	fmt.Printf("  booked:    %d\n", ev.BookedSpots)
	if ev.Overview != "" {
		fmt.Printf("\n%s\n", ev.Overview)
	}
	return nil
}

func runBook(ctx context.Context, cfg config.Config, p command.BookParams) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	ev, err := env.client.GetEvent(ctx, p.EventSlug)
	if err != nil {
		return err
	}

	sess, err := env.creds.Load()
	if err != nil {
		return err
	}
	name := p.Name
	if name == "" {
		name = sess.Name
	}
	email := p.Email
	if email == "" {
		email = sess.Email
	}

	configDir, err := global.DefaultConfigDir()
	if err != nil {
		return err
	}
	gcfg, err := global.NewConfigStore(configDir).LoadOrInit()
	if err != nil {
		return err
	}

	journal, err := bookingflow.NewJournal(env.gdb)
	if err != nil {
		return err
	}
	orch := bookingflow.New(bookingflow.Options{
		API:     env.client,
		Notify:  notifier.NewClient(resolveNotifyConfig(cfg, gcfg)),
		Session: env.creds,
		Journal: journal,
	})

	res := orch.Run(ctx, bookingflow.Input{Event: ev, Name: name, Email: email})
	switch res.State {
	case bookingflow.StateConfirmed:
		fmt.Printf("booked %s, confirmation sent to %s\n", ev.Title, email)
	case bookingflow.StateNotifyFailed:
		fmt.Printf("booked %s, but the confirmation email failed: %v\n", ev.Title, res.Err)
	case bookingflow.StateAlreadyBooked:
		fmt.Printf("you already have a spot at %s\n", ev.Title)
	default:
		if res.Err != nil {
			return fmt.Errorf("booking failed: %w", res.Err)
		}
		return fmt.Errorf("booking ended in state %s", res.State)
	}
	return nil
}

func runListBookings(ctx context.Context, cfg config.Config) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	sess, err := env.creds.Load()
	if err != nil {
		return err
	}
	if sess.Anonymous() {
		return errors.New("sign in first: devevent login")
	}

	bookings, err := env.client.ListBookings(ctx, sess.UserID)
	if err != nil {
		return err
	}
	if len(bookings) == 0 {
		fmt.Println("no bookings")
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEVENT\tDATE")
	for _, b := range bookings {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.EventTitle, b.EventDate)
	}
	return tw.Flush()
}

func runCancelBooking(ctx context.Context, cfg config.Config, id int64) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.client.DeleteBooking(ctx, id); err != nil {
		return err
	}
	fmt.Printf("booking %d cancelled\n", id)
	return nil
}

func runLogin(ctx context.Context, cfg config.Config, email, password string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	auth, err := env.client.Login(ctx, remoteapi.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}
	if err := env.creds.Save(credstore.Session{
		Token:  auth.Token,
		UserID: auth.UserID,
		Name:   auth.Name,
		Email:  auth.Email,
	}); err != nil {
		return err
	}
	fmt.Printf("signed in as %s\n", auth.Email)
	return nil
}

func runSignup(ctx context.Context, cfg config.Config, name, email, password string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	auth, err := env.client.Signup(ctx, remoteapi.SignupInput{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	if err := env.creds.Save(credstore.Session{
		Token:  auth.Token,
		UserID: auth.UserID,
		Name:   auth.Name,
		Email:  auth.Email,
	}); err != nil {
		return err
	}
	fmt.Printf("account created for %s\n", auth.Email)
	return nil
}

func runLogout(_ context.Context, cfg config.Config) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.creds.Clear(); err != nil {
		return err
	}
	fmt.Println("signed out")
	return nil
}

func runCreateEvent(ctx context.Context, cfg config.Config, file string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	in, err := readEventFile(file)
	if err != nil {
		return err
	}
	out, err := env.client.CreateEvent(ctx, in)
	if err != nil {
		return err
	}
	fmt.Printf("created event %s\n", out.Slug)
	return nil
}

func runUpdateEvent(ctx context.Context, cfg config.Config, slug, file string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	in, err := readEventFile(file)
	if err != nil {
		return err
	}
	in.Slug = slug
	out, err := env.client.UpdateEvent(ctx, slug, in)
	if err != nil {
		return err
	}
	fmt.Printf("updated event %s\n", out.Slug)
	return nil
}

func runDeleteEvent(ctx context.Context, cfg config.Config, slug string) error {
	env, err := openEnv(cfg)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.client.DeleteEvent(ctx, slug); err != nil {
		return err
	}
	fmt.Printf("deleted event %s\n", slug)
	return nil
}

func readEventFile(path string) (remoteapi.Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return remoteapi.Event{}, err
	}
	var ev remoteapi.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return remoteapi.Event{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if strings.TrimSpace(ev.Slug) == "" && strings.TrimSpace(ev.Title) == "" {
		return remoteapi.Event{}, errors.New("event file needs at least a slug or title")
	}
	return ev, nil
}
