// Package factory wires the application components together
package factory

import (
	"io"
	"log/slog"

	"github.com/bulbousnub/wats-go/internal/dependencies/clock"
	"github.com/bulbousnub/wats-go/internal/dependencies/random"
	"github.com/bulbousnub/wats-go/internal/services/scoring"
	"github.com/bulbousnub/wats-go/internal/session"
	"github.com/bulbousnub/wats-go/internal/store"
)

// App contains all wired application components
type App struct {
	Store   *store.Store
	Scoring *scoring.Engine
	Session *session.Manager

	Clock  clock.Clock
	Random random.Random
	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// DataPath is the location of the persistence file (optional)
	// If empty, the platform default documents location is used
	DataPath string
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired. The store
// loads, migrates, and re-saves its data file during construction.
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	path := cfg.DataPath
	if path == "" {
		var err error
		path, err = store.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	clk := clock.New()
	rnd := random.New()
	return newWithDependencies(path, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(path string, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	st := store.New(path, logger)
	return &App{
		Store:   st,
		Scoring: scoring.New(st, clk, logger),
		Session: session.NewManager(clk, logger),
		Clock:   clk,
		Random:  rnd,
		Logger:  logger,
	}
}
