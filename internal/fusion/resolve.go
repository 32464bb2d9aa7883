package fusion

import (
	"errors"
	"fmt"

	"github.com/udisondev/plantcalc/internal/damage"
	"github.com/udisondev/plantcalc/internal/mutation"
)

// Errors.
var (
	ErrSelfFusion       = errors.New("cannot fuse a mutation with itself")
	ErrUnsupportedCombo = errors.New("unsupported fusion combo")
	ErrNotFusable       = errors.New("mutation is not a fuse input")
)

// SelfFusionError reports an attempt to fuse a mutation with itself.
type SelfFusionError struct {
	A, B string
}

func (e *SelfFusionError) Error() string {
	return fmt.Sprintf("%s (%s + %s)", ErrSelfFusion, e.A, e.B)
}

// Is makes errors.Is(err, ErrSelfFusion) match.
func (e *SelfFusionError) Is(target error) bool { return target == ErrSelfFusion }

// Result is a resolved fusion.
type Result struct {
	A, B  mutation.Mutation
	Mult  float64
	Label string // "Gold + Wrapped"
	Note  string // "any2 + wrapped => 6.5x"
}

// Resolve fuses two single mutations under rules.
// Self-fusion is checked by name before any group lookup.
func Resolve(rules Rules, a, b mutation.Mutation) (Result, error) {
	if a.Name == b.Name {
		return Result{}, &SelfFusionError{A: a.Name, B: b.Name}
	}
	if a.Group == mutation.GroupBase || b.Group == mutation.GroupBase {
		return Result{}, fmt.Errorf("%w: %s", ErrNotFusable, mutation.Base.Name)
	}

	mult, ok := rules.Mult(a.Group, b.Group)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s + %s", ErrUnsupportedCombo, a.Group, b.Group)
	}

	return Result{
		A:     a,
		B:     b,
		Mult:  mult,
		Label: a.Name + " + " + b.Name,
		Note:  fmt.Sprintf("%s + %s => %sx", a.Group, b.Group, damage.FormatNumber(mult)),
	}, nil
}

// ResolveNames looks both mutations up in the catalog and resolves them.
func ResolveNames(rules Rules, nameA, nameB string) (Result, error) {
	a, err := mutation.ByName(nameA)
	if err != nil {
		return Result{}, err
	}
	b, err := mutation.ByName(nameB)
	if err != nil {
		return Result{}, err
	}
	return Resolve(rules, a, b)
}
