// Package mutation holds the static catalog of plant mutations.
//
// A mutation scales plant damage by a fixed multiplier. Mutations sharing a
// Group fuse identically; the name only matters for self-fusion checks.
package mutation

import (
	"errors"
	"fmt"
	"strconv"
)

// Group is the fusion category of a mutation.
type Group string

// Fusion groups.
const (
	GroupBase      Group = "base"
	GroupCorrupted Group = "corrupted"
	GroupAny2      Group = "any2"
	GroupDiamond   Group = "diamond"
	GroupRuby4     Group = "ruby4"
	GroupNeon      Group = "neon"
	GroupWrapped   Group = "wrapped"
)

// ErrUnknown is returned when a mutation name is not in the catalog.
var ErrUnknown = errors.New("unknown mutation")

// Mutation is a named single-category damage modifier.
type Mutation struct {
	Name  string
	Mult  float64
	Group Group
}

// Label returns the display label, e.g. "Wrapped (5.5x)".
func (m Mutation) Label() string {
	return fmt.Sprintf("%s (%sx)", m.Name, strconv.FormatFloat(m.Mult, 'f', -1, 64))
}

// Base is the "no mutation" variant. Usable for damage lookup, never as a fuse input.
var Base = Mutation{Name: "Base", Mult: 1.0, Group: GroupBase}

// singles is the ordered list of fusable single mutations.
var singles = []Mutation{
	{Name: "Corrupted", Mult: 1.0, Group: GroupCorrupted},

	{Name: "Gold", Mult: 2.0, Group: GroupAny2},
	{Name: "Foggy", Mult: 2.0, Group: GroupAny2},
	{Name: "Electrified", Mult: 2.0, Group: GroupAny2},
	{Name: "Scorched", Mult: 2.0, Group: GroupAny2},

	{Name: "Diamond", Mult: 3.0, Group: GroupDiamond},

	{Name: "Ruby", Mult: 4.0, Group: GroupRuby4},
	{Name: "Frozen", Mult: 4.0, Group: GroupRuby4},

	{Name: "Neon", Mult: 5.0, Group: GroupNeon},

	{Name: "Wrapped", Mult: 5.5, Group: GroupWrapped},
}

var byName map[string]Mutation

func init() {
	byName = make(map[string]Mutation, len(singles))
	for _, m := range singles {
		byName[m.Name] = m
	}
}

// Singles returns a copy of the single mutations in catalog order.
func Singles() []Mutation {
	out := make([]Mutation, len(singles))
	copy(out, singles)
	return out
}

// ByName returns the single mutation with the given name.
// Base is not a single mutation and is never returned.
func ByName(name string) (Mutation, error) {
	m, ok := byName[name]
	if !ok {
		return Mutation{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return m, nil
}

// Names returns the names of all single mutations in catalog order.
func Names() []string {
	out := make([]string, len(singles))
	for i, m := range singles {
		out[i] = m.Name
	}
	return out
}
