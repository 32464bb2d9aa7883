package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/udisondev/plantcalc/internal/damage"
	"github.com/udisondev/plantcalc/internal/data"
	"github.com/udisondev/plantcalc/internal/fusion"
	"github.com/udisondev/plantcalc/internal/mutation"
)

// Errors.
var (
	ErrInvalidNumericInput = errors.New("input is not a number")
	ErrUnknownPlant        = errors.New("unknown plant")
)

// NumericInputError names the input field that failed to parse.
type NumericInputError struct {
	Field string // kg, level, kg_a, kg_b
	Value string
}

func (e *NumericInputError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, ErrInvalidNumericInput)
}

// Is makes errors.Is(err, ErrInvalidNumericInput) match.
func (e *NumericInputError) Is(target error) bool { return target == ErrInvalidNumericInput }

// UnknownPlantError carries the closest known plant name, if any.
type UnknownPlantError struct {
	Name       string
	Suggestion string
}

func (e *UnknownPlantError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s %q (did you mean %q?)", ErrUnknownPlant, e.Name, e.Suggestion)
	}
	return fmt.Sprintf("%s %q", ErrUnknownPlant, e.Name)
}

// Is makes errors.Is(err, ErrUnknownPlant) match.
func (e *UnknownPlantError) Is(target error) bool { return target == ErrUnknownPlant }

// suggestPlant returns the known name closest to name within an edit
// distance that scales with the name length.
func suggestPlant(name string, known []string) string {
	in := strings.ToLower(strings.TrimSpace(name))
	if in == "" {
		return ""
	}
	best, bestDist := "", -1
	for _, k := range known {
		kl := strings.ToLower(k)
		if kl == in {
			return k
		}
		d := levenshtein.ComputeDistance(in, kl)
		if d > distanceLimit(len(kl)) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Kind classifies err for metrics and API responses.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidNumericInput):
		return "invalid_input"
	case errors.Is(err, ErrUnknownPlant):
		return "unknown_plant"
	case errors.Is(err, data.ErrUnknownVariant):
		return "unknown_variant"
	case errors.Is(err, mutation.ErrUnknown):
		return "unknown_mutation"
	case errors.Is(err, fusion.ErrSelfFusion):
		return "self_fusion"
	case errors.Is(err, fusion.ErrNotFusable):
		return "not_fusable"
	case errors.Is(err, fusion.ErrUnsupportedCombo):
		return "unsupported_combo"
	case errors.Is(err, damage.ErrNotFound):
		return "not_found"
	case errors.Is(err, damage.ErrNoDataAtCell):
		return "no_data"
	case errors.Is(err, data.ErrNoMatchingVariant):
		return "no_matching_variant"
	case errors.Is(err, data.ErrResourceLoad):
		return "resource_load"
	default:
		return "internal"
	}
}

// UserMessage renders err as a short line for the person using the calculator.
func UserMessage(err error) string {
	var (
		numErr   *NumericInputError
		plantErr *UnknownPlantError
		selfErr  *fusion.SelfFusionError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &numErr):
		switch numErr.Field {
		case FieldKg:
			return "KG value isn't a number."
		case FieldLevel:
			return "Level isn't a number."
		case FieldKgA, FieldKgB:
			return "KG A / KG B must be numbers."
		default:
			return fmt.Sprintf("%s isn't a number.", numErr.Field)
		}
	case errors.As(err, &plantErr):
		if plantErr.Suggestion != "" {
			return fmt.Sprintf("Unknown plant. Did you mean %s?", plantErr.Suggestion)
		}
		return "Unknown plant."
	case errors.As(err, &selfErr):
		return fmt.Sprintf("You can't fuse the same mutation with itself (%s + %s).", selfErr.A, selfErr.B)
	}

	switch Kind(err) {
	case "unknown_variant":
		return "Unknown variant."
	case "unknown_mutation", "not_fusable":
		return "Pick two valid mutations."
	case "unsupported_combo":
		return "Unsupported fusion combo (not in the current matrix)."
	case "not_found":
		return "No damage data for this plant variant."
	case "no_data":
		return "No damage data at that weight and level."
	case "no_matching_variant":
		return "No damage table matches the fused multiplier."
	case "resource_load":
		return "Error loading plant data. Try again."
	default:
		return "Something went wrong."
	}
}
