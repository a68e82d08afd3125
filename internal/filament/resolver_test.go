package filament

import (
	"math"
	"testing"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

func nearlyEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}

func TestCrossSectionArea(t *testing.T) {
	if got := CrossSectionArea(1.75); !nearlyEqual(got, 2.405, 0.001) {
		t.Errorf("expected area ~2.405, got %f", got)
	}
}

func TestResolveSingleExtruderExample(t *testing.T) {
	stats := slicer.Statistics{FilamentUsage: map[int]float64{0: 100}}

	out := Resolve(stats, nil)

	if len(out) != 1 {
		t.Fatalf("expected 1 filament, got %d", len(out))
	}
	f := out[0]
	if !nearlyEqual(f.WeightG, 0.2981, 0.001) {
		t.Errorf("expected weight ~0.2981 g, got %f", f.WeightG)
	}
	if !nearlyEqual(f.CalculatedCost, 0.00596, 0.00001) {
		t.Errorf("expected cost ~0.00596, got %f", f.CalculatedCost)
	}
	if f.Name != "Filament 1" {
		t.Errorf("expected fallback name Filament 1, got %q", f.Name)
	}
	if f.Color != model.DefaultFilamentColor {
		t.Errorf("expected default colour, got %q", f.Color)
	}
	if f.CostPerKg != model.DefaultFilamentCostPerKg {
		t.Errorf("expected default cost, got %f", f.CostPerKg)
	}
}

func TestResolveUsesPresets(t *testing.T) {
	stats := slicer.Statistics{FilamentUsage: map[int]float64{2: 1000, 0: 500}}
	presets := slicer.NewPresets()
	presets.SetStrings(slicer.KeyFilamentSettings, []string{"PLA Basic", "", "PETG HF"})
	presets.SetStrings(slicer.KeyFilamentColour, []string{"#FF0000", "", "#00FF00"})
	presets.SetFloats(slicer.KeyFilamentCost, []float64{25, 0, 30})
	presets.SetFloats(slicer.KeyFilamentDensity, []float64{1.24, 0, 1.27})
	presets.SetFloats(slicer.KeyFilamentDiameter, []float64{1.75, 0, 2.85})

	out := Resolve(stats, presets)

	if len(out) != 2 {
		t.Fatalf("expected 2 filaments, got %d", len(out))
	}
	if out[0].ExtruderID != 0 || out[1].ExtruderID != 2 {
		t.Fatalf("expected ids in order 0,2, got %d,%d", out[0].ExtruderID, out[1].ExtruderID)
	}
	if out[1].Name != "PETG HF" || out[1].Color != "#00FF00" || out[1].CostPerKg != 30 {
		t.Errorf("unexpected preset values: %+v", out[1])
	}
	want := 1000 * CrossSectionArea(2.85) * 1.27 / 1000
	if !nearlyEqual(out[1].WeightG, want, 1e-9) {
		t.Errorf("expected weight %f, got %f", want, out[1].WeightG)
	}
	if !nearlyEqual(out[1].CalculatedCost, want/1000*30, 1e-9) {
		t.Errorf("calculated cost does not follow weight and price: %f", out[1].CalculatedCost)
	}
}

func TestResolveSingleExtruderTotalWeightOverrides(t *testing.T) {
	stats := slicer.Statistics{
		FilamentUsage: map[int]float64{0: 100},
		TotalWeight:   42,
	}
	out := Resolve(stats, nil)
	if len(out) != 1 || out[0].WeightG != 42 {
		t.Fatalf("expected reported weight 42 g, got %+v", out)
	}
	if !nearlyEqual(out[0].CalculatedCost, 0.84, 1e-9) {
		t.Errorf("expected cost 0.84, got %f", out[0].CalculatedCost)
	}
}

func TestResolveMultiExtruderIgnoresTotalWeight(t *testing.T) {
	stats := slicer.Statistics{
		FilamentUsage: map[int]float64{0: 100, 1: 100},
		TotalWeight:   42,
	}
	out := Resolve(stats, nil)
	for _, f := range out {
		if f.WeightG == 42 {
			t.Errorf("extruder %d took the total weight", f.ExtruderID)
		}
	}
}

func TestResolveSynthesizesDefaultFilament(t *testing.T) {
	out := Resolve(slicer.Statistics{TotalWeight: 150}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 synthesized filament, got %d", len(out))
	}
	f := out[0]
	if f.ExtruderID != 0 || f.Name != model.DefaultFilamentName || f.Color != "#808080" {
		t.Errorf("unexpected default entry: %+v", f)
	}
	if f.CostPerKg != 20 || !nearlyEqual(f.CalculatedCost, 3, 1e-9) {
		t.Errorf("expected $20/kg and $3, got %f and %f", f.CostPerKg, f.CalculatedCost)
	}
}

func TestResolveEmpty(t *testing.T) {
	if out := Resolve(slicer.Statistics{}, nil); len(out) != 0 {
		t.Errorf("expected no filaments, got %d", len(out))
	}
}

func TestResolveInvalidPresetsFallBack(t *testing.T) {
	stats := slicer.Statistics{FilamentUsage: map[int]float64{0: 100}}
	presets := slicer.NewPresets()
	presets.SetStrings(slicer.KeyFilamentCost, []string{"cheap"})
	presets.SetFloats(slicer.KeyFilamentDensity, []float64{-1})
	presets.SetFloats(slicer.KeyFilamentDiameter, []float64{0})

	out := Resolve(stats, presets)

	if out[0].CostPerKg != model.DefaultFilamentCostPerKg {
		t.Errorf("expected default cost for malformed value, got %f", out[0].CostPerKg)
	}
	if math.IsNaN(out[0].WeightG) || !nearlyEqual(out[0].WeightG, 0.2981, 0.001) {
		t.Errorf("expected default density and diameter, got weight %f", out[0].WeightG)
	}
}
