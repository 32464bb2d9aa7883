package mutation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		m    Mutation
		want string
	}{
		{Base, "Base (1x)"},
		{Mutation{Name: "Gold", Mult: 2}, "Gold (2x)"},
		{Mutation{Name: "Wrapped", Mult: 5.5}, "Wrapped (5.5x)"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.m.Label())
		})
	}
}

func TestByName(t *testing.T) {
	t.Parallel()

	m, err := ByName("Frozen")
	require.NoError(t, err)
	assert.Equal(t, GroupRuby4, m.Group)
	assert.Equal(t, 4.0, m.Mult)

	_, err = ByName("Base")
	assert.ErrorIs(t, err, ErrUnknown)

	_, err = ByName("frozen")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestSinglesUniqueAndCopied(t *testing.T) {
	t.Parallel()

	got := Singles()
	require.Len(t, got, 10)

	seen := make(map[string]bool)
	for _, m := range got {
		assert.False(t, seen[m.Name], "duplicate %s", m.Name)
		seen[m.Name] = true
		assert.Positive(t, m.Mult)
		assert.NotEqual(t, GroupBase, m.Group)
	}

	got[0].Name = "Mutated"
	assert.Equal(t, "Corrupted", Singles()[0].Name)
}

func TestGroupsShared(t *testing.T) {
	t.Parallel()

	ruby, _ := ByName("Ruby")
	frozen, _ := ByName("Frozen")
	assert.Equal(t, ruby.Group, frozen.Group)

	for _, name := range []string{"Gold", "Foggy", "Electrified", "Scorched"} {
		m, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, GroupAny2, m.Group, name)
	}
}
