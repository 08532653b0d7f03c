package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/ekaraca/jobtrack/internal/config"
	"github.com/ekaraca/jobtrack/internal/db"
	"github.com/ekaraca/jobtrack/internal/prefs"
	"github.com/ekaraca/jobtrack/internal/storage"
	"github.com/ekaraca/jobtrack/internal/taxonomy"
	"github.com/ekaraca/jobtrack/internal/tracker"
)

// session bundles the dependencies a CLI command needs: resolved config,
// database, the hydrated tracker store and the preference stores.
type session struct {
	cfg      config.Config
	db       *db.DB
	store    *tracker.Store
	settings *taxonomy.Store
	prefs    *prefs.Store
	userID   uuid.UUID
}

// loadConfig resolves the effective configuration: config file values win
// over environment values, built-in defaults fill the rest.
func loadConfig() (config.Config, error) {
	envCfg, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	if rootDBURL != "" {
		envCfg.DatabaseURL = rootDBURL
	}

	cfg := *envCfg
	if rootConfigPath != "" {
		fileCfg, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.Normalize(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openSession connects to the database, resolves the acting user and
// hydrates a tracker store for it.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required (set DATABASE_URL or --db-url)")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	email := rootUserEmail
	if email == "" {
		email = os.Getenv("JOBTRACK_USER")
	}
	if email == "" {
		database.Close()
		return nil, fmt.Errorf("acting user is required (set JOBTRACK_USER or --user)")
	}

	user, err := database.GetUserByEmail(ctx, email)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		database.Close()
		return nil, fmt.Errorf("no account for %s; run 'jobtrack register' first", email)
	}

	objects, err := storage.NewFileStore(cfg.StorageRoot)
	if err != nil {
		database.Close()
		return nil, err
	}

	prefStore, err := prefs.NewStore(cfg.PrefsPath)
	if err != nil {
		database.Close()
		return nil, err
	}

	settings := taxonomy.New(database)
	if err := settings.Load(ctx, user.ID); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to load user settings: %w", err)
	}

	store := tracker.New(tracker.Config{
		Records:  database,
		Objects:  objects,
		Settings: settings,
		Resolve: func(context.Context) (uuid.UUID, error) {
			return user.ID, nil
		},
	})

	store.Fetch(ctx)
	if snap := store.Snapshot(); !snap.HasHydrated || snap.Err != "" {
		database.Close()
		return nil, fmt.Errorf("failed to load applications: %s", snap.Err)
	}

	return &session{
		cfg:      cfg,
		db:       database,
		store:    store,
		settings: settings,
		prefs:    prefStore,
		userID:   user.ID,
	}, nil
}

// Close releases the session's database pool.
func (s *session) Close() {
	s.db.Close()
}

// mustParseID parses a command line application id argument.
func mustParseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid application id %q", arg)
	}
	return id, nil
}
