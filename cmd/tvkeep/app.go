package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vmunix/tvkeep/internal/config"
	"github.com/vmunix/tvkeep/internal/database"
	"github.com/vmunix/tvkeep/internal/events"
	"github.com/vmunix/tvkeep/internal/library"
	"github.com/vmunix/tvkeep/internal/metadata"
	"github.com/vmunix/tvkeep/internal/series"
	"github.com/vmunix/tvkeep/pkg/tvdb"
)

// app is the wired object graph behind every catalog command.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	db         *sql.DB
	cache      *metadata.Cache
	service    *metadata.TVDBService
	eventLog   *events.EventLog
	bus        *events.Bus
	reconciler *series.Reconciler
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openApp loads configuration, opens and migrates the database, and wires
// the reconciler. Logs go to logOut.
func openApp(ctx context.Context, opts *rootOptions, logOut io.Writer) (*app, error) {
	path := opts.configPath
	if path == "" {
		found, err := config.Discover()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		path = found
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	for _, w := range cfg.Warnings() {
		logger.Warn("config warning", "detail", w)
	}

	db, err := database.OpenAndMigrate(ctx, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	tvdbOpts := []tvdb.Option{tvdb.WithLogger(logger)}
	if cfg.TVDB.BaseURL != "" {
		tvdbOpts = append(tvdbOpts, tvdb.WithBaseURL(cfg.TVDB.BaseURL))
	}
	client := tvdb.New(cfg.TVDB.APIKey, tvdbOpts...)

	cache := metadata.NewCache(db)
	service := metadata.NewTVDBService(client, cache, logger)
	provider := metadata.NewProvider(service)

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger.With("component", "events"))

	reconciler := series.NewReconciler(library.NewStore(db), provider, cfg,
		series.WithLogger(logger),
		series.WithPublisher(bus),
	)

	return &app{
		cfg:        cfg,
		log:        logger,
		db:         db,
		cache:      cache,
		service:    service,
		eventLog:   eventLog,
		bus:        bus,
		reconciler: reconciler,
	}, nil
}

func (a *app) Close() error {
	_ = a.bus.Close()
	return a.db.Close()
}

// seriesPath places a relative folder under the configured series root.
// Absolute POSIX and Windows paths are used as given.
func seriesPath(root, path string) string {
	if root == "" || filepath.IsAbs(path) || isWindowsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func isWindowsAbs(path string) bool {
	if strings.HasPrefix(path, `\\`) {
		return true
	}
	return len(path) >= 3 && path[1] == ':' && (path[2] == '\\' || path[2] == '/')
}
