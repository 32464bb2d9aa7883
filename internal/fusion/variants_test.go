package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/udisondev/plantcalc/internal/mutation"
)

func TestBuildDamageVariantsMatrix(t *testing.T) {
	t.Parallel()

	vs := BuildDamageVariants(DefaultMatrix(), mutation.Singles())

	// Base + 10 singles + 44 named fusions.
	require.Len(t, vs, 55)
	assertSortedUnique(t, vs)

	assert.Equal(t, "Base (1x)", vs[0].Label)
	assert.Equal(t, "Corrupted (1x)", vs[1].Label)

	last := vs[len(vs)-1]
	assert.Equal(t, "Neon + Wrapped (7.5x)", last.Label)
	assert.Equal(t, 7.5, last.Mult)
	assert.Equal(t, []string{"Neon", "Wrapped"}, last.Parts)

	v, ok := FindVariant(vs, "Gold+Wrapped")
	require.True(t, ok)
	assert.Equal(t, "Gold + Wrapped (6.5x)", v.Label)
	assert.True(t, v.Fused())

	_, ok = FindVariant(vs, "Corrupted+Wrapped")
	assert.False(t, ok)
}

func TestBuildDamageVariantsPriority(t *testing.T) {
	t.Parallel()

	vs := BuildDamageVariants(PriorityRules{}, mutation.Singles())

	// Base + 10 singles + 9 neon + 15 ruby + 6 two-2x + 4 2x-diamond.
	require.Len(t, vs, 45)
	assertSortedUnique(t, vs)
}

func TestBuildDamageVariantsSkipsSameName(t *testing.T) {
	t.Parallel()

	gold, err := mutation.ByName("Gold")
	require.NoError(t, err)

	vs := BuildDamageVariants(DefaultMatrix(), []mutation.Mutation{gold, gold})
	for _, v := range vs {
		assert.False(t, v.Fused(), v.Label)
	}
}

func TestFindVariantEitherOrder(t *testing.T) {
	t.Parallel()

	vs := BuildDamageVariants(DefaultMatrix(), mutation.Singles())

	a, ok := FindVariant(vs, "Wrapped+Gold")
	require.True(t, ok)
	b, ok := FindVariant(vs, "Gold+Wrapped")
	require.True(t, ok)
	assert.Equal(t, a, b)

	base, ok := FindVariant(vs, "Base")
	require.True(t, ok)
	assert.Equal(t, 1.0, base.Mult)
}

func assertSortedUnique(t *testing.T, vs []Variant) {
	t.Helper()

	col := collate.New(language.English)

	labels := make(map[string]bool, len(vs))
	keys := make(map[string]bool, len(vs))
	for i, v := range vs {
		assert.False(t, labels[v.Label], "duplicate label %q", v.Label)
		assert.False(t, keys[v.Key], "duplicate key %q", v.Key)
		labels[v.Label] = true
		keys[v.Key] = true
		if i > 0 {
			assert.LessOrEqual(t, vs[i-1].Mult, v.Mult, "order at %d", i)
			if vs[i-1].Mult == v.Mult {
				assert.LessOrEqual(t, col.CompareString(vs[i-1].Label, v.Label), 0,
					"label order at %d: %q before %q", i, vs[i-1].Label, v.Label)
			}
		}
	}
}

func TestSortVariantsCollatesLabels(t *testing.T) {
	t.Parallel()

	vs := []Variant{
		{Key: "Neon", Label: "Neon", Mult: 2},
		{Key: "gold", Label: "gold", Mult: 2},
		{Key: "Zap", Label: "Zap", Mult: 1.5},
		{Key: "Base", Label: "Base", Mult: 1},
	}
	SortVariants(vs)

	got := make([]string, len(vs))
	for i, v := range vs {
		got[i] = v.Label
	}
	assert.Equal(t, []string{"Base", "Zap", "gold", "Neon"}, got)
}
