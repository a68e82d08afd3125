package slicer

import (
	"strconv"
	"strings"
)

// Preset keys understood by the filament resolver.
const (
	KeyFilamentColour   = "filament_colour"
	KeyFilamentCost     = "filament_cost"
	KeyFilamentDensity  = "filament_density"
	KeyFilamentDiameter = "filament_diameter"
	KeyFilamentSettings = "filament_settings_id"
)

// Presets holds per-extruder preset arrays. Every value is kept as text so a
// single typed accessor serves string, float and integer options alike.
// The zero value is usable and reports every lookup as not found.
type Presets struct {
	values map[string][]string
}

// NewPresets creates an empty preset set.
func NewPresets() *Presets {
	return &Presets{values: make(map[string][]string)}
}

// SetStrings stores a string array option.
func (p *Presets) SetStrings(key string, vals []string) {
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	p.values[key] = append([]string(nil), vals...)
}

// SetFloats stores a float array option.
func (p *Presets) SetFloats(key string, vals []float64) {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	p.SetStrings(key, strs)
}

// SetInts stores an integer array option.
func (p *Presets) SetInts(key string, vals []int) {
	strs := make([]string, len(vals))
	for i, v := range vals {
		strs[i] = strconv.Itoa(v)
	}
	p.SetStrings(key, strs)
}

// SetValue stores a single value at idx, growing the array as needed.
func (p *Presets) SetValue(key string, idx int, val string) {
	if idx < 0 {
		return
	}
	if p.values == nil {
		p.values = make(map[string][]string)
	}
	arr := p.values[key]
	for len(arr) <= idx {
		arr = append(arr, "")
	}
	arr[idx] = val
	p.values[key] = arr
}

// String returns the option value for an extruder. Absent keys, indices
// beyond the array and empty values all report false.
func (p *Presets) String(key string, idx int) (string, bool) {
	if p == nil || idx < 0 {
		return "", false
	}
	arr, ok := p.values[key]
	if !ok || idx >= len(arr) {
		return "", false
	}
	v := strings.TrimSpace(arr[idx])
	if v == "" {
		return "", false
	}
	return v, true
}

// Float returns the option value parsed as a number. Malformed text is
// reported as not found.
func (p *Presets) Float(key string, idx int) (float64, bool) {
	s, ok := p.String(key, idx)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FilamentName returns the preset name selected for an extruder.
func (p *Presets) FilamentName(idx int) (string, bool) {
	return p.String(KeyFilamentSettings, idx)
}

// Len returns the length of the longest stored array.
func (p *Presets) Len() int {
	if p == nil {
		return 0
	}
	n := 0
	for _, arr := range p.values {
		if len(arr) > n {
			n = len(arr)
		}
	}
	return n
}
