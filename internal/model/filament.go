package model

// Fallback values used whenever a filament preset does not provide a value.
const (
	DefaultFilamentCostPerKg = 20.0      // $/kg
	DefaultFilamentDensity   = 1.24      // g/cm³ (PLA)
	DefaultFilamentDiameter  = 1.75      // mm
	DefaultFilamentColor     = "#808080" // neutral grey
	DefaultFilamentName      = "Default Filament"
)

// FilamentUsage describes the material consumed by one extruder slot.
// CalculatedCost is a cache of WeightG/1000*CostPerKg; use the setters so
// it never drifts from its inputs.
type FilamentUsage struct {
	ExtruderID     int     `json:"extruder_id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`           // Preset colour string, not validated
	WeightG        float64 `json:"weight_g"`        // Grams consumed
	CostPerKg      float64 `json:"cost_per_kg"`     // $/kg from the preset or a user override
	CalculatedCost float64 `json:"calculated_cost"` // Derived, see Recalculate
}

// NewFilamentUsage builds a usage record with its cost already computed.
func NewFilamentUsage(id int, name, color string, weightG, costPerKg float64) FilamentUsage {
	f := FilamentUsage{
		ExtruderID: id,
		Name:       name,
		Color:      color,
		WeightG:    weightG,
		CostPerKg:  costPerKg,
	}
	f.Recalculate()
	return f
}

// Recalculate refreshes CalculatedCost from WeightG and CostPerKg.
func (f *FilamentUsage) Recalculate() {
	f.CalculatedCost = (f.WeightG / 1000.0) * f.CostPerKg
}

// SetCostPerKg updates the $/kg price and the derived cost.
func (f *FilamentUsage) SetCostPerKg(cost float64) {
	f.CostPerKg = cost
	f.Recalculate()
}

// SetWeight updates the consumed weight and the derived cost.
func (f *FilamentUsage) SetWeight(grams float64) {
	f.WeightG = grams
	f.Recalculate()
}

// WeightKg returns the consumed weight in kilograms.
func (f FilamentUsage) WeightKg() float64 {
	return f.WeightG / 1000.0
}

// TotalFilamentWeight returns the combined weight in grams of all filaments.
func TotalFilamentWeight(filaments []FilamentUsage) float64 {
	var total float64
	for _, f := range filaments {
		total += f.WeightG
	}
	return total
}

// TotalMaterialCost sums the cached cost of all filaments.
func TotalMaterialCost(filaments []FilamentUsage) float64 {
	var total float64
	for _, f := range filaments {
		total += f.CalculatedCost
	}
	return total
}
