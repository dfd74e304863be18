package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"devevent/cli/internal/appserver"
	"devevent/cli/internal/bookingflow"
	"devevent/cli/internal/config"
	"devevent/cli/internal/credstore"
	"devevent/cli/internal/db"
	"devevent/cli/internal/global"
	"devevent/cli/internal/lifecycle"
	"devevent/cli/internal/localapi"
	"devevent/cli/internal/logging"
	"devevent/cli/internal/notifier"
	"devevent/cli/internal/remoteapi"
)

// runServe wires the full local stack: sqlite state, the remote API client,
// the booking workflow, and the HTTP server fronting the web UI.
func runServe(ctx context.Context, cfg config.Config) error {
	logger := logging.NewLogger(logging.Options{
		Level:     cfg.ListenLogLevel,
		Writer:    os.Stderr,
		Component: "devevent",
	})

	gdb, err := db.Open(filepath.Join(cfg.DataDir, "devevent.db"))
	if err != nil {
		return fmt.Errorf("open local database: %w", err)
	}

	creds, err := credstore.NewStore(gdb, filepath.Join(cfg.DataDir, "secret.key"))
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}

	configDir, err := global.DefaultConfigDir()
	if err != nil {
		return err
	}
	cfgStore := global.NewConfigStore(configDir)
	gcfg, err := cfgStore.LoadOrInit()
	if err != nil {
		return fmt.Errorf("load global config: %w", err)
	}

	client := remoteapi.NewClient(resolveAPIBaseURL(cfg, gcfg), creds)
	notify := notifier.NewClient(resolveNotifyConfig(cfg, gcfg))

	journal, err := bookingflow.NewJournal(gdb)
	if err != nil {
		return err
	}

	// The transition sink closes over the server variable; the orchestrator
	// never fires before the server exists because only HTTP handlers run it.
	var server *appserver.Server
	orch := bookingflow.New(bookingflow.Options{
		API:     client,
		Notify:  notify,
		Session: creds,
		Journal: journal,
		Sink: func(tr bookingflow.Transition) {
			server.PublishTransition(tr)
		},
		Logger: logger.With("module", "bookingflow"),
	})

	server, err = appserver.NewServer(appserver.Deps{
		LocalAPI: localapi.Deps{
			Events:      client,
			Bookings:    client,
			Auth:        client,
			Session:     creds,
			Booking:     orch,
			Attempts:    journal,
			ConfigStore: cfgStore,
			Logger:      logger.With("module", "localapi"),
		},
		WebUI: appserver.WebUIConfig{
			Mode:        cfg.WebUIMode,
			DevProxyURL: cfg.WebUIDevProxyURL,
			DistDir:     cfg.WebUIDistDir,
		},
	})
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.LocalHost, cfg.LocalPort)
	fmt.Fprintf(os.Stdout, "devevent local server listening at http://%s (version=%s built=%s)\n", addr, version, buildTime)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	mgr := lifecycle.NewManager()
	mgr.AddRun("http-server", func(runCtx context.Context) error {
		go func() {
			<-runCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	mgr.AddShutdown("close-database", func(context.Context) error {
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
	return mgr.StartAndWait(ctx)
}

// resolveAPIBaseURL prefers the environment over the config file so a dev
// session can point at a scratch backend without editing config.toml.
func resolveAPIBaseURL(cfg config.Config, gcfg global.GlobalConfig) string {
	if os.Getenv("DEVEVENT_API_BASE_URL") != "" {
		return cfg.APIBaseURL
	}
	if gcfg.APIBaseURL != "" {
		return gcfg.APIBaseURL
	}
	return cfg.APIBaseURL
}

func resolveNotifyConfig(cfg config.Config, gcfg global.GlobalConfig) notifier.Config {
	out := notifier.Config{
		BaseURL:    gcfg.Notify.BaseURL,
		ServiceID:  gcfg.Notify.ServiceID,
		TemplateID: gcfg.Notify.TemplateID,
		PublicKey:  gcfg.Notify.PublicKey,
	}
	if os.Getenv("DEVEVENT_NOTIFY_BASE_URL") != "" || out.BaseURL == "" {
		out.BaseURL = cfg.NotifyBaseURL
	}
	if cfg.NotifyServiceID != "" {
		out.ServiceID = cfg.NotifyServiceID
	}
	if cfg.NotifyTemplateID != "" {
		out.TemplateID = cfg.NotifyTemplateID
	}
	if cfg.NotifyPublicKey != "" {
		out.PublicKey = cfg.NotifyPublicKey
	}
	return out
}
