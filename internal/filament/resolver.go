// Package filament turns per-extruder filament consumption into weighed,
// priced material entries.
package filament

import (
	"fmt"
	"math"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

// PresetProvider looks up per-extruder filament preset values. A missing key,
// an index beyond the stored array or an unparsable value all report false.
type PresetProvider interface {
	String(key string, idx int) (string, bool)
	Float(key string, idx int) (float64, bool)
	FilamentName(idx int) (string, bool)
}

// CrossSectionArea returns the filament cross-section in mm² for a diameter in mm.
func CrossSectionArea(diameter float64) float64 {
	r := diameter / 2.0
	return math.Pi * r * r
}

// WeightGrams converts a filament length in mm to grams.
func WeightGrams(lengthMM, diameter, density float64) float64 {
	if lengthMM <= 0 {
		return 0
	}
	return lengthMM * CrossSectionArea(diameter) * density / 1000.0
}

// Resolve builds one FilamentUsage per extruder with recorded usage, ordered
// by extruder id. Preset values that are absent fall back to the model
// defaults. With a single extruder the slicer's reported total weight, when
// known, replaces the geometric estimate. When no extruder reported usage but
// a total weight is known, a single default entry carries that weight.
// presets may be nil.
func Resolve(stats slicer.Statistics, presets PresetProvider) []model.FilamentUsage {
	ids := stats.ExtruderIDs()
	out := make([]model.FilamentUsage, 0, len(ids))

	for _, id := range ids {
		p := lookup(presets, id)
		weight := WeightGrams(stats.FilamentUsage[id], p.diameter, p.density)
		if len(ids) == 1 && stats.TotalWeight > 0 {
			weight = stats.TotalWeight
		}
		out = append(out, model.NewFilamentUsage(id, p.name, p.color, weight, p.costPerKg))
	}

	if len(out) == 0 && stats.TotalWeight > 0 {
		out = append(out, model.NewFilamentUsage(0, model.DefaultFilamentName,
			model.DefaultFilamentColor, stats.TotalWeight, model.DefaultFilamentCostPerKg))
	}
	return out
}

type resolvedPreset struct {
	name      string
	color     string
	costPerKg float64
	density   float64
	diameter  float64
}

func lookup(presets PresetProvider, id int) resolvedPreset {
	p := resolvedPreset{
		name:      fmt.Sprintf("Filament %d", id+1),
		color:     model.DefaultFilamentColor,
		costPerKg: model.DefaultFilamentCostPerKg,
		density:   model.DefaultFilamentDensity,
		diameter:  model.DefaultFilamentDiameter,
	}
	if presets == nil {
		return p
	}

	if v, ok := presets.FilamentName(id); ok {
		p.name = v
	}
	if v, ok := presets.String(slicer.KeyFilamentColour, id); ok {
		p.color = v
	}
	if v, ok := presets.Float(slicer.KeyFilamentCost, id); ok && v >= 0 {
		p.costPerKg = v
	}
	// Non-positive density or diameter would yield a zero or NaN weight.
	if v, ok := presets.Float(slicer.KeyFilamentDensity, id); ok && v > 0 {
		p.density = v
	}
	if v, ok := presets.Float(slicer.KeyFilamentDiameter, id); ok && v > 0 {
		p.diameter = v
	}
	return p
}
