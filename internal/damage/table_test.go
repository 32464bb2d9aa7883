package damage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowOf(vals ...float64) Row {
	var r Row
	copy(r[:], vals)
	return r
}

func TestLookupNearestFallback(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Add(1.0, rowOf(10, 20, 30, 40, 50, 60, 70, 80, 90, 100))
	tbl.Add(3.0, rowOf(11, 21, 31, 41, 51, 61, 71, 81, 91, 101))

	cell, err := tbl.Lookup(2.4, 1)
	require.NoError(t, err)
	assert.Equal(t, "3.0", cell.Key)
	assert.False(t, cell.Exact)
	assert.Equal(t, 11.0, cell.Damage)

	cell, err = tbl.Lookup(1.0, 10)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cell.Key)
	assert.True(t, cell.Exact)
	assert.Equal(t, 100.0, cell.Damage)
}

func TestLookupTieGoesToFirstRow(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Add(3.0, rowOf(3, 3, 3, 3, 3, 3, 3, 3, 3, 3))
	tbl.Add(1.0, rowOf(1, 1, 1, 1, 1, 1, 1, 1, 1, 1))

	cell, err := tbl.Lookup(2.0, 1)
	require.NoError(t, err)
	assert.Equal(t, "3.0", cell.Key)
}

func TestLookupClampsWeight(t *testing.T) {
	t.Parallel()

	tbl := NewTable()
	tbl.Add(1.0, rowOf(1, 1, 1, 1, 1, 1, 1, 1, 1, 1))
	tbl.Add(30.0, rowOf(30, 30, 30, 30, 30, 30, 30, 30, 30, 30))

	cell, err := tbl.Lookup(55, 1)
	require.NoError(t, err)
	assert.Equal(t, "30.0", cell.Key)
	assert.True(t, cell.Exact)

	cell, err = tbl.Lookup(0.2, 1)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cell.Key)
	assert.True(t, cell.Exact)
}

func TestLookupErrors(t *testing.T) {
	t.Parallel()

	_, err := NewTable().Lookup(5, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	var nilTable *Table
	_, err = nilTable.Lookup(5, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	tbl := NewTable()
	tbl.Add(5, rowOf(10, 0, 30))
	_, err = tbl.Lookup(5, 2)
	assert.ErrorIs(t, err, ErrNoDataAtCell)
	_, err = tbl.Lookup(5, 4)
	assert.ErrorIs(t, err, ErrNoDataAtCell)
	_, err = tbl.Lookup(5, 11)
	assert.ErrorIs(t, err, ErrNoDataAtCell)
	_, err = tbl.Lookup(5, 0)
	assert.ErrorIs(t, err, ErrNoDataAtCell)
}

func TestWeightKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12.5", WeightKey(12.45))
	assert.Equal(t, "1.0", WeightKey(0.3))
	assert.Equal(t, "30.0", WeightKey(31))
	assert.Equal(t, "7.0", WeightKey(7))
}

func TestParseTable(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"kg,lvl1,lvl2,lvl3,lvl4,lvl5,lvl6,lvl7,lvl8,lvl9,lvl10",
		"1,10,15,20,25,30,35,40,45,50,55",
		"",
		"   ",
		"2.0,\"20\",30,40,50,60,70,80,90,100,110",
		"3,1,2,3",
		"abc,1,2,3,4,5,6,7,8,9,10",
		"4,,x,40,50,60,70,80,90,100,110\r",
		"1.0,99,99,99,99,99,99,99,99,99,99",
	}, "\n")

	tbl, err := ParseTable(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0", "2.0", "4.0"}, tbl.Keys())

	cell, err := tbl.Lookup(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 15.0, cell.Damage, "first row for a weight wins")

	cell, err = tbl.Lookup(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cell.Damage)

	_, err = tbl.Lookup(4, 1)
	assert.ErrorIs(t, err, ErrNoDataAtCell)
	_, err = tbl.Lookup(4, 2)
	assert.ErrorIs(t, err, ErrNoDataAtCell)

	cell, err = tbl.Lookup(4, 10)
	require.NoError(t, err)
	assert.Equal(t, 110.0, cell.Damage)
}

func TestParseTableEmpty(t *testing.T) {
	t.Parallel()

	tbl, err := ParseTable(strings.NewReader("kg,a,b\n\n"))
	require.NoError(t, err)
	_, err = tbl.Lookup(1, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSplitCSVLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{`"a,b",c`, []string{"a,b", "c"}},
		{`"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"a,,", []string{"a", "", ""}},
		{"", []string{""}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitCSVLine(tt.in), tt.in)
	}
}

func TestHasHeaderPrefix(t *testing.T) {
	t.Parallel()

	assert.True(t, HasHeaderPrefix("kg,lvl1", "kg"))
	assert.True(t, HasHeaderPrefix("KG,lvl1", "kg"))
	assert.True(t, HasHeaderPrefix("plant,label,multiplier,file", "plant"))
	assert.False(t, HasHeaderPrefix("kgs,lvl1", "kg"))
	assert.False(t, HasHeaderPrefix("1.0,2", "kg"))
}
