package root

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/nhle/studytrack/internal/events"
	"github.com/nhle/studytrack/internal/logutil"
	"github.com/nhle/studytrack/internal/model"
	"github.com/nhle/studytrack/internal/store"
	"github.com/nhle/studytrack/internal/tracker"
)

// env is everything a command needs: configuration, logger and the
// tracker service over an open store.
type env struct {
	cfg *model.AppConfig
	log zerolog.Logger
	svc *tracker.Service

	closers []func()
}

func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g *globalFlags) (*model.AppConfig, error) {
	path := g.configPath
	if path == "" {
		path = model.DefaultConfigPath()
	}
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if g.dbPath != "" {
		cfg.Database.Path = g.dbPath
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	if g.logFile != "" {
		cfg.Log.File = g.logFile
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(dataDir(cfg), "studytrack.log")
	}
	return cfg, nil
}

func dataDir(cfg *model.AppConfig) string {
	if cfg.Database.Path == "" || cfg.Database.Path == ":memory:" {
		return model.DefaultDataDir()
	}
	return filepath.Dir(cfg.Database.Path)
}

// openEnv loads config, opens the logger and the store, and seeds an
// empty database.
func openEnv(ctx context.Context, g *globalFlags) (*env, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := logutil.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	e := &env{cfg: cfg, log: logger, closers: []func(){closeLog}}

	dbPath := cfg.Database.Path
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			e.Close()
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	if g.recoverDB {
		backup, err := store.RecoverFromCorruption(dbPath)
		if err != nil {
			e.Close()
			return nil, err
		}
		logger.Warn().Str("db", dbPath).Str("backup", backup).Msg("moved database aside")
	}

	st, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		e.Close()
		if store.IsCorruptionError(err) {
			return nil, fmt.Errorf("database %s is unreadable, rerun with --recover-db to move it aside: %w", dbPath, err)
		}
		return nil, err
	}
	e.closers = append(e.closers, func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("closing store")
		}
	})

	bus := events.New()
	events.RegisterDebugLogger(bus, logger)
	e.svc = tracker.NewService(st, bus, tracker.WithLogger(logger))

	if _, err := e.svc.Seed(ctx, cfg.Seed); err != nil {
		e.Close()
		return nil, fmt.Errorf("seeding database: %w", err)
	}

	logger.Debug().Str("db", dbPath).Msg("store ready")
	return e, nil
}

// withEnv opens the environment around fn.
func withEnv(ctx context.Context, g *globalFlags, fn func(e *env) error) error {
	e, err := openEnv(ctx, g)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}
