package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/udisondev/plantcalc/internal/damage"
)

// Input field names.
const (
	FieldKg    = "kg"
	FieldLevel = "level"
	FieldKgA   = "kg_a"
	FieldKgB   = "kg_b"
)

// ParseNumber parses a user-entered number. Surrounding spaces are ignored;
// empty, NaN and infinite values are rejected.
func ParseNumber(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &NumericInputError{Field: field, Value: s}
	}
	return v, nil
}

// ParseFuseLevel parses the optional fuse level. Anything that isn't a
// number means level 1.
func ParseFuseLevel(s string) int {
	v, err := ParseNumber(FieldLevel, s)
	if err != nil {
		return damage.MinLevel
	}
	return damage.ClampLevel(v)
}
