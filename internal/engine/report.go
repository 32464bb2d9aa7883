package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/udisondev/plantcalc/internal/damage"
)

const (
	reportRule = "--------------------------------"
	cappedNote = "  (capped to 30.0 for damage)"
)

// DamageReport renders r as the copyable text block shown to the user.
func DamageReport(r DamageResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant:   %s\n", r.Plant.Name)
	fmt.Fprintf(&b, "Variant: %s\n", r.Variant.Label)
	fmt.Fprintf(&b, "KG:      %s", damage.FormatKgFixed(r.Kg))
	if r.Capped {
		b.WriteString(cappedNote)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Level:   %d\n", r.Level)
	if r.Row != "" && r.Row != damage.WeightKey(r.Kg) {
		fmt.Fprintf(&b, "Row:     %skg (nearest)\n", r.Row)
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Damage:  %s", damage.FormatNumber(r.Damage))

	if r.HasDPS {
		fmt.Fprintf(&b, "\nCD:      %ss\nDPS:     %s", formatCD(r.Plant.CD), damage.FormatNumber(r.DPS))
	}
	return b.String()
}

// FuseReport renders r as the copyable text block shown to the user.
func FuseReport(r FuseResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plant A: %s | %skg | %s\n", r.Plant.Name, damage.FormatKg(r.KgA), r.Fusion.A.Label())
	fmt.Fprintf(&b, "Plant B: %s | %skg | %s\n", r.Plant.Name, damage.FormatKg(r.KgB), r.Fusion.B.Label())
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Result KG:       %skg", damage.FormatKgFixed(r.Kg))
	if r.Capped {
		b.WriteString(cappedNote)
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Result Mutation: %s  [%sx]\n", r.Fusion.Label, damage.FormatNumber(r.Fusion.Mult))
	fmt.Fprintf(&b, "Rule used:       %s\n", r.Fusion.Note)
	if r.Variant != nil {
		fmt.Fprintf(&b, "Table:           %s\n", r.Variant.Label)
	}
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "Damage (Level %d): %s", r.Level, damage.FormatNumber(r.Damage))

	if r.HasDPS {
		fmt.Fprintf(&b, "\nCD: %ss | DPS: %s", formatCD(r.Plant.CD), damage.FormatNumber(r.DPS))
	}
	return b.String()
}

func formatCD(cd float64) string {
	return strconv.FormatFloat(cd, 'f', -1, 64)
}
