package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIndex = `plant,label,multiplier,file
Cactus,Base (1x),1,cactus/base.csv
Cactus,Gold (2x),2,cactus/gold.csv
Cactus,"Gold + Neon (6.25x)",6.25,cactus/gold_neon.csv,1.5

Melon,Base (1x),1,melon/base.csv
Melon,Ruby (4x),four,melon/ruby.csv
Melon,Short,2
,Nameless,2,x.csv
`

func TestParseIndex(t *testing.T) {
	t.Parallel()

	ix, err := ParseIndex([]byte(testIndex))
	require.NoError(t, err)

	plants := ix.Plants()
	require.Len(t, plants, 2)
	assert.Equal(t, Plant{Name: "Cactus", CD: 1.5}, plants[0])
	assert.Equal(t, Plant{Name: "Melon"}, plants[1])

	require.Len(t, ix.Variants("Cactus"), 3)
	require.Len(t, ix.Variants("Melon"), 1)
	assert.Empty(t, ix.Variants("Nope"))

	assert.Equal(t, []string{
		"cactus/base.csv", "cactus/gold.csv", "cactus/gold_neon.csv", "melon/base.csv",
	}, ix.Files())

	v, err := ix.VariantByLabel("Cactus", "Gold + Neon (6.25x)")
	require.NoError(t, err)
	assert.Equal(t, "cactus/gold_neon.csv", v.File)

	_, err = ix.VariantByLabel("Cactus", "Ruby (4x)")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestLookupByMultiplier(t *testing.T) {
	t.Parallel()

	ix, err := ParseIndex([]byte(testIndex))
	require.NoError(t, err)

	v, err := ix.LookupByMultiplier("Cactus", 6.25)
	require.NoError(t, err)
	assert.Equal(t, "cactus/gold_neon.csv", v.File)

	v, err = ix.LookupByMultiplier("Cactus", 6.2500001)
	require.NoError(t, err)
	assert.Equal(t, "cactus/gold_neon.csv", v.File)

	v, err = ix.LookupByMultiplier("Cactus", 2.004)
	require.NoError(t, err)
	assert.Equal(t, "cactus/gold.csv", v.File)

	_, err = ix.LookupByMultiplier("Cactus", 5.25)
	assert.ErrorIs(t, err, ErrNoMatchingVariant)

	_, err = ix.LookupByMultiplier("Nope", 1)
	assert.ErrorIs(t, err, ErrNoMatchingVariant)
}

func TestLoadIndex(t *testing.T) {
	t.Parallel()

	f := NewMapFetcher(map[string]string{IndexFile: testIndex})
	ix, err := LoadIndex(context.Background(), f, "")
	require.NoError(t, err)
	assert.Len(t, ix.Plants(), 2)

	_, err = LoadIndex(context.Background(), f, "other.csv")
	assert.ErrorIs(t, err, ErrResourceLoad)
}
