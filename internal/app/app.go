// Package app wires a configured Engine from config.Calculator.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/udisondev/plantcalc/internal/config"
	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/db"
	"github.com/udisondev/plantcalc/internal/engine"
	"github.com/udisondev/plantcalc/internal/fusion"
	"github.com/udisondev/plantcalc/internal/observe"
)

// App is a built Engine plus the resources it holds.
type App struct {
	Engine *engine.Engine
	// DB is set when plants come from PostgreSQL.
	DB *db.DB
}

// Close releases the database pool, if any.
func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Build loads plant data per cfg and returns a ready App. metrics may be nil.
func Build(ctx context.Context, cfg config.Calculator, metrics *observe.Metrics) (*App, error) {
	rules, err := fusion.NewRules(cfg.FusionRules)
	if err != nil {
		return nil, err
	}

	a := &App{}
	ecfg := engine.Config{
		Mode:      cfg.Mode,
		Rules:     rules,
		IndexName: cfg.Tables.Index,
		Metrics:   metrics,
	}

	switch cfg.Mode {
	case config.ModeFormula:
		src, database, err := PlantSource(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.DB = database
		ecfg.Plants = src
	case config.ModeTable:
		ecfg.Tables = TableFetcher(cfg.Tables)
	}

	e, err := engine.New(ctx, ecfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building engine: %w", err)
	}
	a.Engine = e

	if cfg.Tables.Prefetch {
		if err := e.Prefetch(ctx, cfg.Tables.PrefetchLimit); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// PlantSource returns the plant index source selected by cfg.Plants.Source.
// For the postgres source the opened DB is returned too and must be closed.
func PlantSource(ctx context.Context, cfg config.Calculator) (data.PlantSource, *db.DB, error) {
	switch cfg.Plants.Source {
	case config.SourceEmbedded, "":
		return data.EmbeddedSource(), nil, nil

	case config.SourceFile:
		return data.JSONSource{
			Fetcher: data.DirFetcher{FS: os.DirFS(filepath.Dir(cfg.Plants.Path))},
			Name:    filepath.Base(cfg.Plants.Path),
		}, nil, nil

	case config.SourceHTTP:
		return data.JSONSource{
			Fetcher: data.NewHTTPFetcher("", cfg.Tables.FetchTimeout),
			Name:    cfg.Plants.URL,
		}, nil, nil

	case config.SourcePostgres:
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		return database, database, nil

	default:
		return nil, nil, fmt.Errorf("unknown plants.source %q", cfg.Plants.Source)
	}
}

// TableFetcher serves damage tables over HTTP when BaseURL is set, else from Dir.
func TableFetcher(cfg config.TablesConfig) data.Fetcher {
	if cfg.BaseURL != "" {
		return data.NewHTTPFetcher(cfg.BaseURL, cfg.FetchTimeout)
	}
	return data.DirFetcher{FS: os.DirFS(cfg.Dir)}
}
