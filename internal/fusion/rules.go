// Package fusion resolves the result of fusing two single mutations.
//
// Two rule sets exist and they are not meant to agree with each other:
// the matrix (one multiplier per group pair) and the priority rules
// (ordered overrides). A deployment picks one.
package fusion

import (
	"fmt"
	"slices"

	"github.com/udisondev/plantcalc/internal/mutation"
)

// Rule set names, as used in configuration.
const (
	RulesMatrix   = "matrix"
	RulesPriority = "priority"
)

// Rules maps an unordered pair of groups to a fused multiplier.
// ok is false for unsupported combinations.
type Rules interface {
	Name() string
	Mult(a, b mutation.Group) (mult float64, ok bool)
}

// NewRules returns the rule set registered under name.
func NewRules(name string) (Rules, error) {
	switch name {
	case RulesMatrix:
		return DefaultMatrix(), nil
	case RulesPriority:
		return PriorityRules{}, nil
	default:
		return nil, fmt.Errorf("unknown fusion rules %q", name)
	}
}

// pairKey canonicalizes an unordered group pair as "a|b" with a <= b.
func pairKey(a, b mutation.Group) string {
	pair := []string{string(a), string(b)}
	slices.Sort(pair)
	return pair[0] + "|" + pair[1]
}

// Matrix is the table-driven rule set.
type Matrix struct {
	entries map[string]float64
}

// NewMatrix builds a matrix from group pairs. Pairs are symmetric:
// declaring a|b also answers b|a.
func NewMatrix(entries map[[2]mutation.Group]float64) *Matrix {
	m := &Matrix{entries: make(map[string]float64, len(entries))}
	for pair, mult := range entries {
		m.entries[pairKey(pair[0], pair[1])] = mult
	}
	return m
}

// DefaultMatrix returns the current fusion chart.
func DefaultMatrix() *Matrix {
	const (
		corrupted = mutation.GroupCorrupted
		any2      = mutation.GroupAny2
		diamond   = mutation.GroupDiamond
		ruby4     = mutation.GroupRuby4
		neon      = mutation.GroupNeon
		wrapped   = mutation.GroupWrapped
	)
	return NewMatrix(map[[2]mutation.Group]float64{
		{any2, corrupted}: 2.65,
		{any2, any2}:      3.15,
		{any2, diamond}:   4.40,
		{any2, ruby4}:     5.40,
		{any2, neon}:      6.40,
		{any2, wrapped}:   6.50,

		{corrupted, diamond}: 3.15,
		{corrupted, ruby4}:   3.70,
		{corrupted, neon}:    4.20,

		{diamond, ruby4}:   5.50,
		{diamond, neon}:    6.50,
		{diamond, wrapped}: 6.75,

		{ruby4, ruby4}:   5.25,
		{neon, ruby4}:    6.65,
		{ruby4, wrapped}: 7.00,

		{neon, wrapped}: 7.50,
	})
}

// Name implements Rules.
func (m *Matrix) Name() string { return RulesMatrix }

// Mult implements Rules.
func (m *Matrix) Mult(a, b mutation.Group) (float64, bool) {
	mult, ok := m.entries[pairKey(a, b)]
	return mult, ok
}

// Len returns the number of group pairs in the matrix.
func (m *Matrix) Len() int { return len(m.entries) }

// Priority rule results.
const (
	PriorityNeonMult       = 6.25
	PriorityRubyMult       = 5.25
	PriorityTwoTwoMult     = 3.15
	PriorityTwoDiamondMult = 4.25
)

// PriorityRules is the override-based rule set used with tabulated damage.
// Neon on either side wins, then Ruby, then the two 2x combinations.
type PriorityRules struct{}

// Name implements Rules.
func (PriorityRules) Name() string { return RulesPriority }

// Mult implements Rules.
func (PriorityRules) Mult(a, b mutation.Group) (float64, bool) {
	either := func(g mutation.Group) bool { return a == g || b == g }
	switch {
	case either(mutation.GroupNeon):
		return PriorityNeonMult, true
	case either(mutation.GroupRuby4):
		return PriorityRubyMult, true
	case a == mutation.GroupAny2 && b == mutation.GroupAny2:
		return PriorityTwoTwoMult, true
	case either(mutation.GroupAny2) && either(mutation.GroupDiamond):
		return PriorityTwoDiamondMult, true
	default:
		return 0, false
	}
}
