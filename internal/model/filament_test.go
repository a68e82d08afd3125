package model

import "testing"

func TestFilamentCostFollowsEdits(t *testing.T) {
	f := NewFilamentUsage(0, "PLA", "#FFFFFF", 250, 20)
	if f.CalculatedCost != 5 {
		t.Fatalf("expected initial cost 5, got %f", f.CalculatedCost)
	}

	f.SetCostPerKg(30)
	if f.CalculatedCost != 7.5 {
		t.Errorf("expected cost 7.5 after price edit, got %f", f.CalculatedCost)
	}

	f.SetWeight(1000)
	if f.CalculatedCost != 30 {
		t.Errorf("expected cost 30 after weight edit, got %f", f.CalculatedCost)
	}

	f.Recalculate()
	f.Recalculate()
	if f.CalculatedCost != 30 {
		t.Errorf("recalculation is not idempotent: %f", f.CalculatedCost)
	}
}

func TestFilamentTotals(t *testing.T) {
	filaments := []FilamentUsage{
		NewFilamentUsage(0, "A", "", 100, 20),
		NewFilamentUsage(1, "B", "", 300, 10),
	}
	if got := TotalFilamentWeight(filaments); got != 400 {
		t.Errorf("expected 400 g, got %f", got)
	}
	if got := TotalMaterialCost(filaments); got != 5 {
		t.Errorf("expected $5, got %f", got)
	}
	if got := TotalMaterialCost(nil); got != 0 {
		t.Errorf("expected 0 for no filaments, got %f", got)
	}
}
