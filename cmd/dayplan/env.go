package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/nhle/dayplan/internal/credential"
	"github.com/nhle/dayplan/internal/day"
	"github.com/nhle/dayplan/internal/model"
	"github.com/nhle/dayplan/internal/notify"
	"github.com/nhle/dayplan/internal/prefs"
	"github.com/nhle/dayplan/internal/store"
)

// env holds the services shared by every command.
type env struct {
	cfg        *model.AppConfig
	log        *slog.Logger
	logFile    io.Closer
	store      *store.SQLiteStore
	prefs      *prefs.Store
	clock      day.Clock
	reconciler *day.Reconciler
	scheduler  *notify.Scheduler
	dispatcher *notify.Dispatcher
}

// setup loads configuration and opens storage. With toFile set, logs go
// to <data_dir>/dayplan.log so they do not draw over the TUI.
func setup(toFile bool) (*env, error) {
	cfg, err := model.LoadConfig(resolvedConfigPath())
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, clock: day.SystemClock{}}

	var out io.Writer = os.Stderr
	if toFile {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "dayplan.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out, e.logFile = f, f
	}
	e.log = makeLogger(cfg.Log.Level, out)

	e.store, err = store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ring, err := credential.Open(cfg.Preferences)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.prefs = prefs.New(ring)

	e.reconciler = day.NewReconciler(e.store, e.prefs, e.clock, e.log)
	e.scheduler = notify.NewScheduler(
		notify.NewStoreNotifier(e.store, cfg.Notifications.Allowed),
		e.prefs,
		notify.NewPicker(notify.DefaultPools(), e.prefs, nil),
		e.clock,
		e.log,
	)
	e.dispatcher = notify.NewDispatcher(e.store, e.log)

	e.log.Debug("environment ready", "db", cfg.DBPath, "preferences", cfg.Preferences.Backend)
	return e, nil
}

// prefsOrDefault returns the stored preferences, or the defaults when they
// cannot be read.
func (e *env) prefsOrDefault() model.Preferences {
	p, err := e.prefs.Load()
	if err != nil {
		e.log.Warn("loading preferences", "error", err)
		return model.DefaultPreferences()
	}
	return p
}

// Close releases the database and log file.
func (e *env) Close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.log.Error("closing database", "error", err)
		}
	}
	if e.logFile != nil {
		e.logFile.Close()
	}
}

func makeLogger(levelStr string, w io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
