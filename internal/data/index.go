package data

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/udisondev/plantcalc/internal/damage"
)

// IndexFile is the default name of the variant index resource.
const IndexFile = "index.csv"

// Errors.
var (
	ErrNoMatchingVariant = errors.New("no tabulated variant matches this multiplier")
	ErrUnknownVariant    = errors.New("unknown variant")
)

// VariantEntry is one tabulated variant of a plant: "Gold + Wrapped" at 6.5x in gold_wrapped.csv.
type VariantEntry struct {
	Plant string
	Label string
	Mult  float64
	File  string
}

// Index is the parsed variant index: plant → variants, in file order.
type Index struct {
	plants   []Plant
	variants map[string][]VariantEntry
}

// Plants returns the plants of the index sorted by name.
func (ix *Index) Plants() []Plant {
	out := make([]Plant, len(ix.plants))
	copy(out, ix.plants)
	return out
}

// Variants returns the variants declared for plant.
func (ix *Index) Variants(plant string) []VariantEntry {
	return ix.variants[plant]
}

// Files returns every distinct table file referenced by the index.
func (ix *Index) Files() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range ix.plants {
		for _, v := range ix.variants[p.Name] {
			if !seen[v.File] {
				seen[v.File] = true
				out = append(out, v.File)
			}
		}
	}
	return out
}

// VariantByLabel returns the plant variant with the given label.
func (ix *Index) VariantByLabel(plant, label string) (VariantEntry, error) {
	for _, v := range ix.variants[plant] {
		if v.Label == label {
			return v, nil
		}
	}
	return VariantEntry{}, fmt.Errorf("%w: %s / %s", ErrUnknownVariant, plant, label)
}

// LookupByMultiplier returns the first variant of plant whose declared
// multiplier equals mult at two-decimal precision.
func (ix *Index) LookupByMultiplier(plant string, mult float64) (VariantEntry, error) {
	want := cents(mult)
	for _, v := range ix.variants[plant] {
		if cents(v.Mult) == want {
			return v, nil
		}
	}
	return VariantEntry{}, fmt.Errorf("%w: %s at %sx", ErrNoMatchingVariant, plant, damage.FormatNumber(mult))
}

func cents(x float64) int64 {
	return int64(math.Floor(x*100 + 0.5))
}

// LoadIndex fetches and parses the variant index.
func LoadIndex(ctx context.Context, f Fetcher, name string) (*Index, error) {
	if name == "" {
		name = IndexFile
	}
	raw, err := f.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	ix, err := ParseIndex(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	slog.Info("loaded variant index", "source", name, "plants", len(ix.plants), "files", len(ix.Files()))
	return ix, nil
}

// ParseIndex parses "plant,label,multiplier,file[,cd]" rows.
// The header, blank lines and rows without a numeric multiplier are skipped.
func ParseIndex(raw []byte) (*Index, error) {
	ix := &Index{variants: make(map[string][]VariantEntry)}
	cds := make(map[string]float64)

	sc := bufio.NewScanner(bytes.NewReader(raw))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || damage.HasHeaderPrefix(line, "plant") {
			continue
		}

		fields := damage.SplitCSVLine(line)
		if len(fields) < 4 {
			slog.Debug("skipping short index row", "line", lineNo)
			continue
		}
		plant := strings.TrimSpace(fields[0])
		label := strings.TrimSpace(fields[1])
		file := strings.TrimSpace(fields[3])
		mult, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
		if plant == "" || file == "" || err != nil || mult <= 0 {
			slog.Debug("skipping malformed index row", "line", lineNo)
			continue
		}
		if len(fields) > 4 {
			if cd, err := strconv.ParseFloat(strings.TrimSpace(fields[4]), 64); err == nil && cd > 0 {
				cds[plant] = cd
			}
		}

		if _, ok := ix.variants[plant]; !ok {
			ix.plants = append(ix.plants, Plant{Name: plant})
		}
		ix.variants[plant] = append(ix.variants[plant], VariantEntry{
			Plant: plant,
			Label: label,
			Mult:  mult,
			File:  file,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}

	for i := range ix.plants {
		ix.plants[i].CD = cds[ix.plants[i].Name]
	}
	SortPlantNames(ix.plants)
	return ix, nil
}
