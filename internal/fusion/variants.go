package fusion

import (
	"cmp"
	"fmt"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/udisondev/plantcalc/internal/damage"
	"github.com/udisondev/plantcalc/internal/mutation"
)

// Variant is one selectable entry of the damage lookup list.
type Variant struct {
	// Key is the stable identifier: "Base", "Gold" or "Gold+Wrapped".
	Key   string
	Label string
	Mult  float64
	// Parts holds the fused mutation names; empty for Base and singles.
	Parts []string
}

// Fused reports whether the variant is a fusion of two mutations.
func (v Variant) Fused() bool { return len(v.Parts) == 2 }

// VariantKey returns the stable key of a fusion of a and b, in the given order.
func VariantKey(a, b string) string { return a + "+" + b }

// BuildDamageVariants returns Base, every single mutation and every named
// fusion of two distinct singles that rules support, sorted by multiplier
// then by label.
func BuildDamageVariants(rules Rules, singles []mutation.Mutation) []Variant {
	out := make([]Variant, 0, 1+len(singles)+len(singles)*len(singles)/2)

	out = append(out, Variant{Key: mutation.Base.Name, Label: mutation.Base.Label(), Mult: mutation.Base.Mult})
	for _, m := range singles {
		out = append(out, Variant{Key: m.Name, Label: m.Label(), Mult: m.Mult})
	}

	for i := 0; i < len(singles); i++ {
		for j := i + 1; j < len(singles); j++ {
			a, b := singles[i], singles[j]
			if a.Name == b.Name {
				continue
			}
			mult, ok := rules.Mult(a.Group, b.Group)
			if !ok {
				continue
			}
			out = append(out, Variant{
				Key:   VariantKey(a.Name, b.Name),
				Label: fmt.Sprintf("%s + %s (%sx)", a.Name, b.Name, damage.FormatNumber(mult)),
				Mult:  mult,
				Parts: []string{a.Name, b.Name},
			})
		}
	}

	SortVariants(out)
	return out
}

// SortVariants orders variants by multiplier, then by label using
// English collation.
func SortVariants(vs []Variant) {
	col := collate.New(language.English)
	slices.SortStableFunc(vs, func(x, y Variant) int {
		if c := cmp.Compare(x.Mult, y.Mult); c != 0 {
			return c
		}
		return col.CompareString(x.Label, y.Label)
	})
}

// FindVariant returns the variant with the given key. Fusion keys match
// in either order.
func FindVariant(vs []Variant, key string) (Variant, bool) {
	for _, v := range vs {
		if v.Key == key {
			return v, true
		}
		if v.Fused() && VariantKey(v.Parts[1], v.Parts[0]) == key {
			return v, true
		}
	}
	return Variant{}, false
}
