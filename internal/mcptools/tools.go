// Package mcptools exposes the calculator as MCP tools.
package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/udisondev/plantcalc/internal/engine"
)

// DamageInput is the plant_damage tool input.
type DamageInput struct {
	Plant   string  `json:"plant" jsonschema:"plant name, see list_plants"`
	Variant string  `json:"variant" jsonschema:"variant key, see list_variants"`
	Kg      float64 `json:"kg" jsonschema:"plant weight in kilograms"`
	Level   float64 `json:"level" jsonschema:"plant level, 1 to 10"`
}

// DamageOutput is the plant_damage tool result.
type DamageOutput struct {
	Plant   string   `json:"plant" jsonschema:"plant name"`
	Variant string   `json:"variant" jsonschema:"variant label"`
	Mult    float64  `json:"mult" jsonschema:"variant multiplier"`
	KgUsed  float64  `json:"kg_used" jsonschema:"weight the damage was computed for"`
	Capped  bool     `json:"capped" jsonschema:"whether the weight was capped"`
	Level   int      `json:"level" jsonschema:"effective level"`
	Damage  float64  `json:"damage" jsonschema:"damage per hit"`
	DPS     *float64 `json:"dps,omitempty" jsonschema:"damage per second when the plant has a cooldown"`
	Report  string   `json:"report" jsonschema:"human readable report"`
}

// FuseInput is the plant_fuse tool input.
type FuseInput struct {
	Plant     string  `json:"plant" jsonschema:"plant name"`
	MutationA string  `json:"mutation_a" jsonschema:"first mutation name, see list_mutations"`
	MutationB string  `json:"mutation_b" jsonschema:"second mutation name"`
	KgA       float64 `json:"kg_a" jsonschema:"weight of the first plant"`
	KgB       float64 `json:"kg_b" jsonschema:"weight of the second plant"`
	Level     int     `json:"level,omitempty" jsonschema:"level of the fused plant, defaults to 1"`
}

// FuseOutput is the plant_fuse tool result.
type FuseOutput struct {
	Plant  string   `json:"plant" jsonschema:"plant name"`
	Result string   `json:"result" jsonschema:"fused mutation label"`
	Mult   float64  `json:"mult" jsonschema:"fused multiplier"`
	Rule   string   `json:"rule" jsonschema:"fusion rule applied"`
	Kg     float64  `json:"kg" jsonschema:"fused weight"`
	Level  int      `json:"level" jsonschema:"effective level"`
	Damage float64  `json:"damage" jsonschema:"damage per hit"`
	DPS    *float64 `json:"dps,omitempty" jsonschema:"damage per second when the plant has a cooldown"`
	Report string   `json:"report" jsonschema:"human readable report"`
}

// ListVariantsInput is the list_variants tool input.
type ListVariantsInput struct {
	Plant string `json:"plant" jsonschema:"plant name"`
}

// ListVariantsOutput is the list_variants tool result.
type ListVariantsOutput struct {
	Variants []engine.VariantOption `json:"variants" jsonschema:"selectable damage variants"`
}

// ListPlantsInput is the list_plants tool input.
type ListPlantsInput struct{}

// PlantInfo describes one plant.
type PlantInfo struct {
	Name string   `json:"name" jsonschema:"plant name"`
	Base float64  `json:"base,omitempty" jsonschema:"damage scaling constant"`
	CD   *float64 `json:"cd,omitempty" jsonschema:"cooldown in seconds"`
}

// ListPlantsOutput is the list_plants tool result.
type ListPlantsOutput struct {
	Plants []PlantInfo `json:"plants" jsonschema:"known plants"`
}

// ListMutationsInput is the list_mutations tool input.
type ListMutationsInput struct{}

// MutationInfo describes one fuse input.
type MutationInfo struct {
	Name  string  `json:"name" jsonschema:"mutation name"`
	Mult  float64 `json:"mult" jsonschema:"multiplier"`
	Group string  `json:"group" jsonschema:"fusion group"`
}

// ListMutationsOutput is the list_mutations tool result.
type ListMutationsOutput struct {
	Mutations []MutationInfo `json:"mutations" jsonschema:"mutations usable as fuse inputs"`
}

func damageTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "plant_damage",
		Description: "Computes the damage of a plant variant at a weight and level",
	}
}

func fuseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "plant_fuse",
		Description: "Fuses two plants of the same kind and computes the fused plant's damage",
	}
}

func listVariantsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_variants",
		Description: "Lists the damage variants of a plant",
	}
}

func listPlantsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_plants",
		Description: "Lists the known plants",
	}
}

func listMutationsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_mutations",
		Description: "Lists the mutations that can be fused",
	}
}

// toolError keeps the user-facing message first so MCP clients can show it as is.
func toolError(err error) error {
	return fmt.Errorf("%s (%s): %w", engine.UserMessage(err), engine.Kind(err), err)
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

// DamageHandler runs a damage lookup.
func DamageHandler(e *engine.Engine) mcp.ToolHandlerFor[DamageInput, DamageOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DamageInput) (*mcp.CallToolResult, DamageOutput, error) {
		res, err := e.Damage(ctx, engine.DamageRequest{
			Plant:   input.Plant,
			Variant: input.Variant,
			Kg:      input.Kg,
			Level:   input.Level,
		})
		if err != nil {
			return nil, DamageOutput{}, toolError(err)
		}

		out := DamageOutput{
			Plant:   res.Plant.Name,
			Variant: res.Variant.Label,
			Mult:    res.Variant.Mult,
			KgUsed:  res.KgUsed,
			Capped:  res.Capped,
			Level:   res.Level,
			Damage:  res.Damage,
			Report:  engine.DamageReport(res),
		}
		if res.HasDPS {
			out.DPS = &res.DPS
		}
		return textResult(out.Report), out, nil
	}
}

// FuseHandler runs a fusion.
func FuseHandler(e *engine.Engine) mcp.ToolHandlerFor[FuseInput, FuseOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FuseInput) (*mcp.CallToolResult, FuseOutput, error) {
		res, err := e.Fuse(ctx, engine.FuseRequest{
			Plant:     input.Plant,
			MutationA: input.MutationA,
			MutationB: input.MutationB,
			KgA:       input.KgA,
			KgB:       input.KgB,
			Level:     input.Level,
		})
		if err != nil {
			return nil, FuseOutput{}, toolError(err)
		}

		out := FuseOutput{
			Plant:  res.Plant.Name,
			Result: res.Fusion.Label,
			Mult:   res.Fusion.Mult,
			Rule:   res.Fusion.Note,
			Kg:     res.Kg,
			Level:  res.Level,
			Damage: res.Damage,
			Report: engine.FuseReport(res),
		}
		if res.HasDPS {
			out.DPS = &res.DPS
		}
		return textResult(out.Report), out, nil
	}
}

// ListVariantsHandler lists a plant's variants.
func ListVariantsHandler(e *engine.Engine) mcp.ToolHandlerFor[ListVariantsInput, ListVariantsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ListVariantsInput) (*mcp.CallToolResult, ListVariantsOutput, error) {
		vs, err := e.Variants(input.Plant)
		if err != nil {
			return nil, ListVariantsOutput{}, toolError(err)
		}
		return nil, ListVariantsOutput{Variants: vs}, nil
	}
}

// ListPlantsHandler lists all plants.
func ListPlantsHandler(e *engine.Engine) mcp.ToolHandlerFor[ListPlantsInput, ListPlantsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListPlantsInput) (*mcp.CallToolResult, ListPlantsOutput, error) {
		plants := e.Plants()
		out := ListPlantsOutput{Plants: make([]PlantInfo, len(plants))}
		for i, p := range plants {
			out.Plants[i] = PlantInfo{Name: p.Name, Base: p.Base}
			if p.HasCD() {
				cd := p.CD
				out.Plants[i].CD = &cd
			}
		}
		return nil, out, nil
	}
}

// ListMutationsHandler lists the fuse inputs.
func ListMutationsHandler(e *engine.Engine) mcp.ToolHandlerFor[ListMutationsInput, ListMutationsOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ListMutationsInput) (*mcp.CallToolResult, ListMutationsOutput, error) {
		muts := e.FuseInputs()
		out := ListMutationsOutput{Mutations: make([]MutationInfo, len(muts))}
		for i, m := range muts {
			out.Mutations[i] = MutationInfo{Name: m.Name, Mult: m.Mult, Group: string(m.Group)}
		}
		return nil, out, nil
	}
}
