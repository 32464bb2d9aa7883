package data

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PlantsFile is the default name of the plant index resource.
const PlantsFile = "plants_base.json"

// Embedded holds the built-in plants_base.json.
//
//go:embed plants_base.json
var Embedded embed.FS

// Plant is a plant the calculator knows about.
type Plant struct {
	Name string
	Base float64 // damage scaling constant
	CD   float64 // cooldown in seconds, 0 if unknown
}

// HasCD reports whether the plant declares a positive cooldown.
func (p Plant) HasCD() bool { return p.CD > 0 }

// PlantSource loads the plant index.
type PlantSource interface {
	LoadPlants(ctx context.Context) ([]Plant, error)
}

// JSONSource reads the plant index as {"plants":[{name, base, cd?}]} through a Fetcher.
type JSONSource struct {
	Fetcher Fetcher
	Name    string // resource name, PlantsFile if empty
}

// EmbeddedSource returns a JSONSource over the built-in plant index.
func EmbeddedSource() JSONSource {
	return JSONSource{Fetcher: DirFetcher{FS: Embedded}, Name: PlantsFile}
}

// LoadPlants implements PlantSource.
func (s JSONSource) LoadPlants(ctx context.Context) ([]Plant, error) {
	name := s.Name
	if name == "" {
		name = PlantsFile
	}
	raw, err := s.Fetcher.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	plants, err := ParsePlantsJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	slog.Info("loaded plants", "source", name, "count", len(plants))
	return plants, nil
}

// ParsePlantsJSON parses the plant index. Entries without a name or without
// a finite numeric base are skipped; numeric strings are accepted.
// The result is sorted by name.
func ParsePlantsJSON(raw []byte) ([]Plant, error) {
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("invalid JSON")
	}

	entries := gjson.GetBytes(raw, "plants")
	if !entries.IsArray() {
		return nil, nil
	}

	var plants []Plant
	seen := make(map[string]bool)
	for _, e := range entries.Array() {
		name := strings.TrimSpace(e.Get("name").String())
		if name == "" {
			continue
		}
		base, ok := jsonNumber(e.Get("base"))
		if !ok {
			slog.Debug("skipping plant without numeric base", "name", name)
			continue
		}
		if seen[name] {
			slog.Debug("duplicate plant ignored", "name", name)
			continue
		}
		seen[name] = true

		p := Plant{Name: name, Base: base}
		if cd, ok := jsonNumber(e.Get("cd")); ok {
			p.CD = cd
		}
		plants = append(plants, p)
	}

	SortPlantNames(plants)
	return plants, nil
}

// SortPlantNames orders plants by name using English collation.
func SortPlantNames(plants []Plant) {
	col := collate.New(language.English)
	names := make([]string, len(plants))
	byName := make(map[string]Plant, len(plants))
	for i, p := range plants {
		names[i] = p.Name
		byName[p.Name] = p
	}
	col.SortStrings(names)
	for i, n := range names {
		plants[i] = byName[n]
	}
}

// jsonNumber returns a finite number from a JSON number or numeric string.
func jsonNumber(r gjson.Result) (float64, bool) {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
