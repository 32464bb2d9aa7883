// Package engine runs the damage and fuse calculations.
//
// An Engine owns all loaded state (plants, variant catalog, damage table
// cache) and is built once at startup. It works in one of two modes:
// formula mode computes damage in closed form from a plant's base value,
// table mode reads damage from per-variant CSV tables.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/plantcalc/internal/config"
	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/fusion"
	"github.com/udisondev/plantcalc/internal/mutation"
	"github.com/udisondev/plantcalc/internal/observe"
)

// Config selects the engine's mode and data sources.
type Config struct {
	Mode  string // config.ModeFormula or config.ModeTable
	Rules fusion.Rules

	// Plants is the plant index in formula mode.
	Plants data.PlantSource

	// Tables serves the variant index and damage tables in table mode.
	Tables    data.Fetcher
	IndexName string

	// Metrics is optional.
	Metrics *observe.Metrics
}

// Engine is the calculator. Safe for concurrent use once built.
type Engine struct {
	mode    string
	rules   fusion.Rules
	metrics *observe.Metrics

	plants     map[string]data.Plant
	plantNames []string

	// formula mode
	variants []fusion.Variant

	// table mode
	index *data.Index
	store *data.Store
}

// New loads the plant data for cfg.Mode and returns a ready Engine.
func New(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Rules == nil {
		return nil, fmt.Errorf("fusion rules are required")
	}
	e := &Engine{
		mode:    cfg.Mode,
		rules:   cfg.Rules,
		metrics: cfg.Metrics,
	}
	if e.metrics == nil {
		e.metrics = observe.Discard()
	}

	var plants []data.Plant
	switch cfg.Mode {
	case config.ModeFormula:
		if cfg.Plants == nil {
			return nil, fmt.Errorf("formula mode requires a plant source")
		}
		var err error
		plants, err = cfg.Plants.LoadPlants(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading plants: %w", err)
		}
		e.variants = fusion.BuildDamageVariants(cfg.Rules, mutation.Singles())

	case config.ModeTable:
		if cfg.Tables == nil {
			return nil, fmt.Errorf("table mode requires a table fetcher")
		}
		ix, err := data.LoadIndex(ctx, cfg.Tables, cfg.IndexName)
		if err != nil {
			return nil, fmt.Errorf("loading variant index: %w", err)
		}
		e.index = ix
		e.store = data.NewStore(cfg.Tables)
		e.store.SetObserver(func(_ string, took time.Duration, err error) {
			e.metrics.RecordTableLoad(context.Background(), took, err)
		})
		plants = ix.Plants()

	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}

	e.plants = make(map[string]data.Plant, len(plants))
	e.plantNames = make([]string, 0, len(plants))
	for _, p := range plants {
		e.plants[p.Name] = p
		e.plantNames = append(e.plantNames, p.Name)
	}

	slog.Info("engine ready",
		"mode", e.mode,
		"fusion_rules", e.rules.Name(),
		"plants", len(e.plants),
		"variants", len(e.variants))
	return e, nil
}

// Mode returns config.ModeFormula or config.ModeTable.
func (e *Engine) Mode() string { return e.mode }

// Rules returns the fusion rule set in use.
func (e *Engine) Rules() fusion.Rules { return e.rules }

// Plants returns all plants sorted by name.
func (e *Engine) Plants() []data.Plant {
	out := make([]data.Plant, len(e.plantNames))
	for i, n := range e.plantNames {
		out[i] = e.plants[n]
	}
	return out
}

// Plant returns the plant with the given name.
func (e *Engine) Plant(name string) (data.Plant, error) {
	p, ok := e.plants[name]
	if !ok {
		return data.Plant{}, &UnknownPlantError{Name: name, Suggestion: suggestPlant(name, e.plantNames)}
	}
	return p, nil
}

// VariantOption is one entry of the damage lookup list.
type VariantOption struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Mult  float64 `json:"mult"`
}

// Variants returns the selectable damage variants for plant. In formula
// mode the list is the same for every plant; in table mode it is the
// plant's tabulated variants.
func (e *Engine) Variants(plant string) ([]VariantOption, error) {
	if _, err := e.Plant(plant); err != nil {
		return nil, err
	}

	if e.mode == config.ModeTable {
		entries := e.index.Variants(plant)
		out := make([]VariantOption, len(entries))
		for i, v := range entries {
			out[i] = VariantOption{Key: v.Label, Label: v.Label, Mult: v.Mult}
		}
		return out, nil
	}

	out := make([]VariantOption, len(e.variants))
	for i, v := range e.variants {
		out[i] = VariantOption{Key: v.Key, Label: v.Label, Mult: v.Mult}
	}
	return out, nil
}

// FuseInputs returns the mutations selectable as fuse inputs. Base is never one.
func (e *Engine) FuseInputs() []mutation.Mutation {
	return mutation.Singles()
}

// Prefetch warms the damage table cache in table mode. No-op in formula mode.
func (e *Engine) Prefetch(ctx context.Context, limit int) error {
	if e.store == nil {
		return nil
	}
	return e.store.Prefetch(ctx, e.index.Files(), limit)
}

func (e *Engine) record(ctx context.Context, op string, err error) {
	e.metrics.RecordCalculation(ctx, op, e.mode, Kind(err))
}
