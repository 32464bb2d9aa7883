package engine

import (
	"context"
	"fmt"

	"github.com/udisondev/plantcalc/internal/config"
	"github.com/udisondev/plantcalc/internal/damage"
	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/fusion"
	"github.com/udisondev/plantcalc/internal/mutation"
)

// DamageRequest asks for the damage of one plant variant.
type DamageRequest struct {
	Plant   string
	Variant string // variant key (formula) or label (table)
	Kg      float64
	Level   float64
}

// DamageResult is a computed damage value with everything needed to report it.
type DamageResult struct {
	Plant   data.Plant
	Variant VariantOption
	Kg      float64 // rounded to one decimal, uncapped
	KgUsed  float64 // weight the damage was computed for
	Capped  bool
	Level   int
	Damage  float64
	DPS     float64
	HasDPS  bool
	// Row is the table row used in table mode.
	Row string
}

// Damage computes the damage for req.
func (e *Engine) Damage(ctx context.Context, req DamageRequest) (res DamageResult, err error) {
	defer func() { e.record(ctx, "damage", err) }()

	plant, err := e.Plant(req.Plant)
	if err != nil {
		return DamageResult{}, err
	}

	res = DamageResult{
		Plant:  plant,
		Kg:     damage.RoundKg(req.Kg),
		KgUsed: damage.ClampKgForDamage(req.Kg),
		Capped: damage.IsCapped(req.Kg),
		Level:  damage.ClampLevel(req.Level),
	}

	if e.mode == config.ModeTable {
		entry, err := e.index.VariantByLabel(plant.Name, req.Variant)
		if err != nil {
			return DamageResult{}, err
		}
		res.Variant = VariantOption{Key: entry.Label, Label: entry.Label, Mult: entry.Mult}

		cell, err := e.lookup(ctx, entry, res.Kg, res.Level)
		if err != nil {
			return DamageResult{}, err
		}
		res.Damage = cell.Damage
		res.Row = cell.Key
	} else {
		v, ok := fusion.FindVariant(e.variants, req.Variant)
		if !ok {
			return DamageResult{}, fmt.Errorf("%w: %q", data.ErrUnknownVariant, req.Variant)
		}
		res.Variant = VariantOption{Key: v.Key, Label: v.Label, Mult: v.Mult}
		res.Damage = damage.Compute(plant.Base, res.KgUsed, v.Mult, res.Level)
	}

	res.DPS, res.HasDPS = damage.DPS(res.Damage, plant.CD)
	return res, nil
}

// FuseRequest asks for the result of fusing two plants of the same kind.
type FuseRequest struct {
	Plant     string
	MutationA string
	MutationB string
	KgA, KgB  float64
	Level     int
}

// FuseResult is the fused plant and its damage.
type FuseResult struct {
	Plant    data.Plant
	KgA, KgB float64
	Fusion   fusion.Result
	Kg       float64 // fused weight
	KgUsed   float64
	Capped   bool
	Level    int
	Damage   float64
	DPS      float64
	HasDPS   bool
	// Variant is the tabulated variant matched by multiplier in table mode.
	Variant *data.VariantEntry
	Row     string
}

// Fuse resolves the fusion of two mutations and computes the fused plant's damage.
func (e *Engine) Fuse(ctx context.Context, req FuseRequest) (res FuseResult, err error) {
	defer func() { e.record(ctx, "fuse", err) }()

	plant, err := e.Plant(req.Plant)
	if err != nil {
		return FuseResult{}, err
	}

	a, errA := mutation.ByName(req.MutationA)
	b, errB := mutation.ByName(req.MutationB)
	if errA != nil || errB != nil {
		return FuseResult{}, fmt.Errorf("fuse inputs %q + %q: %w", req.MutationA, req.MutationB, mutation.ErrUnknown)
	}

	fused, err := fusion.Resolve(e.rules, a, b)
	if err != nil {
		return FuseResult{}, err
	}

	kg := fusion.FuseWeight(req.KgA, req.KgB)
	res = FuseResult{
		Plant:  plant,
		KgA:    req.KgA,
		KgB:    req.KgB,
		Fusion: fused,
		Kg:     kg,
		KgUsed: damage.ClampKgForDamage(kg),
		Capped: damage.IsCapped(kg),
		Level:  damage.ClampLevel(float64(req.Level)),
	}

	if e.mode == config.ModeTable {
		entry, err := e.index.LookupByMultiplier(plant.Name, fused.Mult)
		if err != nil {
			return FuseResult{}, err
		}
		cell, err := e.lookup(ctx, entry, kg, res.Level)
		if err != nil {
			return FuseResult{}, err
		}
		res.Variant = &entry
		res.Damage = cell.Damage
		res.Row = cell.Key
	} else {
		res.Damage = damage.Compute(plant.Base, res.KgUsed, fused.Mult, res.Level)
	}

	res.DPS, res.HasDPS = damage.DPS(res.Damage, plant.CD)
	return res, nil
}

func (e *Engine) lookup(ctx context.Context, entry data.VariantEntry, kg float64, level int) (damage.Cell, error) {
	tbl, err := e.store.Table(ctx, entry.File)
	if err != nil {
		return damage.Cell{}, err
	}
	cell, err := tbl.Lookup(kg, level)
	if err != nil {
		return damage.Cell{}, fmt.Errorf("%s %s: %w", entry.Plant, entry.Label, err)
	}
	return cell, nil
}
