package slicer

import "testing"

func TestPresetsLookup(t *testing.T) {
	p := NewPresets()
	p.SetFloats(KeyFilamentCost, []float64{24.99, 0})
	p.SetStrings(KeyFilamentColour, []string{"#FF0000", " "})
	p.SetStrings(KeyFilamentDensity, []string{"abc"})

	if v, ok := p.Float(KeyFilamentCost, 0); !ok || v != 24.99 {
		t.Errorf("expected cost 24.99, got %f (%v)", v, ok)
	}
	if v, ok := p.Float(KeyFilamentCost, 1); !ok || v != 0 {
		t.Errorf("expected present zero cost, got %f (%v)", v, ok)
	}
	if _, ok := p.Float(KeyFilamentCost, 2); ok {
		t.Error("expected index beyond array to be absent")
	}
	if _, ok := p.Float(KeyFilamentCost, -1); ok {
		t.Error("expected negative index to be absent")
	}
	if _, ok := p.String(KeyFilamentColour, 1); ok {
		t.Error("expected blank value to be absent")
	}
	if _, ok := p.Float(KeyFilamentDensity, 0); ok {
		t.Error("expected malformed number to be absent")
	}
	if _, ok := p.String("missing", 0); ok {
		t.Error("expected missing key to be absent")
	}
}

func TestPresetsSetValueGrows(t *testing.T) {
	var p Presets
	p.SetValue(KeyFilamentSettings, 2, "PETG")
	p.SetValue(KeyFilamentSettings, -1, "ignored")

	if p.Len() != 3 {
		t.Fatalf("expected length 3, got %d", p.Len())
	}
	if name, ok := p.FilamentName(2); !ok || name != "PETG" {
		t.Errorf("expected PETG at index 2, got %q (%v)", name, ok)
	}
	if _, ok := p.FilamentName(0); ok {
		t.Error("expected padded slot to be absent")
	}
}

func TestNilPresets(t *testing.T) {
	var p *Presets
	if _, ok := p.String(KeyFilamentCost, 0); ok {
		t.Error("expected nil presets to report absent")
	}
	if p.Len() != 0 {
		t.Errorf("expected length 0, got %d", p.Len())
	}
}

func TestSetIntsStoresText(t *testing.T) {
	p := NewPresets()
	p.SetInts("extruder", []int{1, 2})
	if v, ok := p.Float("extruder", 1); !ok || v != 2 {
		t.Errorf("expected 2, got %f (%v)", v, ok)
	}
}
