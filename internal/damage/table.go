package damage

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Errors.
var (
	ErrNotFound     = errors.New("no damage data for this weight")
	ErrNoDataAtCell = errors.New("no damage data at this level")
)

// tableColumns is kg plus one column per level.
const tableColumns = 1 + Levels

// Row holds damage for levels 1..10. Zero means no data.
type Row [Levels]float64

// Table maps a one-decimal weight key ("12.5") to a damage row.
type Table struct {
	keys []tableKey // in file order
	rows map[string]Row
}

type tableKey struct {
	key string
	kg  float64
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[string]Row)}
}

// WeightKey canonicalizes kg for table lookup: rounded to one decimal,
// clamped to [MinTableKg, MaxDamageKg], formatted "%.1f".
func WeightKey(kg float64) string {
	k := RoundKg(kg)
	k = max(k, MinTableKg)
	k = min(k, MaxDamageKg)
	return FormatKgFixed(k)
}

// Add stores row under the canonical key of kg. The first row for a key wins.
func (t *Table) Add(kg float64, row Row) bool {
	key := FormatKgFixed(RoundKg(kg))
	if _, ok := t.rows[key]; ok {
		return false
	}
	t.rows[key] = row
	t.keys = append(t.keys, tableKey{key: key, kg: RoundKg(kg)})
	return true
}

// Len returns the number of weight rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys returns the weight keys in file order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.keys))
	for i, k := range t.keys {
		out[i] = k.key
	}
	return out
}

// Cell is a resolved table lookup.
type Cell struct {
	Key    string  // row actually used
	Exact  bool    // Key equals the canonical key of the requested weight
	Level  int
	Damage float64
}

// Lookup returns the damage for kg at level. When the exact weight row is
// missing, the row with the numerically nearest key is used; ties go to the
// row that appears first.
func (t *Table) Lookup(kg float64, level int) (Cell, error) {
	if t.Len() == 0 {
		return Cell{}, ErrNotFound
	}

	want := WeightKey(kg)
	row, exact := t.rows[want]
	key := want
	if !exact {
		target, _ := strconv.ParseFloat(want, 64)
		best := -1
		bestDist := math.Inf(1)
		for i, k := range t.keys {
			if d := math.Abs(k.kg - target); d < bestDist {
				best, bestDist = i, d
			}
		}
		if best < 0 {
			return Cell{}, ErrNotFound
		}
		key = t.keys[best].key
		row = t.rows[key]
	}

	cell := Cell{Key: key, Exact: exact, Level: level}
	idx := level - 1
	if idx < 0 || idx >= len(row) {
		return cell, fmt.Errorf("%w: level %d", ErrNoDataAtCell, level)
	}
	if row[idx] == 0 {
		return cell, fmt.Errorf("%w: %skg level %d", ErrNoDataAtCell, key, level)
	}
	cell.Damage = row[idx]
	return cell, nil
}

// ParseTable reads a damage table CSV: header "kg,...", then
// kg,dmg_lvl1,...,dmg_lvl10 per line. Blank lines, short rows and rows
// with a non-numeric kg are skipped.
func ParseTable(r io.Reader) (*Table, error) {
	t := NewTable()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if HasHeaderPrefix(line, "kg") {
			continue
		}

		fields := SplitCSVLine(line)
		if len(fields) < tableColumns {
			slog.Debug("skipping short damage row", "line", lineNo, "fields", len(fields))
			continue
		}
		kg, ok := parseNumber(fields[0])
		if !ok {
			slog.Debug("skipping damage row with non-numeric kg", "line", lineNo, "kg", fields[0])
			continue
		}

		var row Row
		for i := range row {
			if v, ok := parseNumber(fields[1+i]); ok {
				row[i] = v
			}
		}
		if !t.Add(kg, row) {
			slog.Debug("duplicate damage row ignored", "line", lineNo, "kg", fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading damage table: %w", err)
	}
	return t, nil
}

// parseNumber parses a trimmed, finite float. Empty fields are not numbers.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
