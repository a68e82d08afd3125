package model

import "math"

// JobParameters holds every business input needed to price a print job.
// It is a plain value: callers own it and pass it to the pure functions in
// this package.
type JobParameters struct {
	// Identity
	JobName        string `json:"job_name" yaml:"job_name"`
	JobDescription string `json:"job_description" yaml:"job_description"`
	CustomerName   string `json:"customer_name" yaml:"customer_name"`
	CustomerEmail  string `json:"customer_email" yaml:"customer_email"`
	CustomerPhone  string `json:"customer_phone" yaml:"customer_phone"`
	BusinessName   string `json:"business_name" yaml:"business_name"`

	// Quantity and risk
	PartsPerPlate int     `json:"parts_per_plate" yaml:"parts_per_plate"`
	NumPlates     int     `json:"num_plates" yaml:"num_plates"`
	FailureRate   float64 `json:"failure_rate" yaml:"failure_rate"` // percent, [0,100)

	// Labor (times in minutes)
	LaborRate         float64 `json:"labor_rate" yaml:"labor_rate"` // $/hour
	PrepTime          float64 `json:"prep_time" yaml:"prep_time"`
	SetupTime         float64 `json:"setup_time" yaml:"setup_time"`
	FinishingPerPart  float64 `json:"finishing_per_part" yaml:"finishing_per_part"`
	FinishingPerPlate float64 `json:"finishing_per_plate" yaml:"finishing_per_plate"`

	// Machine
	PrinterCost     float64 `json:"printer_cost" yaml:"printer_cost"`         // $
	PrinterLifespan float64 `json:"printer_lifespan" yaml:"printer_lifespan"` // hours
	MaintenanceCost float64 `json:"maintenance_cost" yaml:"maintenance_cost"` // $/hour
	PowerWatts      float64 `json:"power_watts" yaml:"power_watts"`
	ElectricityCost float64 `json:"electricity_cost" yaml:"electricity_cost"` // $/kWh

	// Tooling
	BedCost          float64 `json:"bed_cost" yaml:"bed_cost"`
	BedLifespan      float64 `json:"bed_lifespan" yaml:"bed_lifespan"` // hours
	NozzleCost       float64 `json:"nozzle_cost" yaml:"nozzle_cost"`
	NozzleLifespanKg float64 `json:"nozzle_lifespan_kg" yaml:"nozzle_lifespan_kg"`

	// Post-processing
	SolventCost        float64 `json:"solvent_cost" yaml:"solvent_cost"`
	SolvingTime        float64 `json:"solving_time" yaml:"solving_time"`               // hours
	TankPower          float64 `json:"tank_power" yaml:"tank_power"`                   // watts
	FinishingMaterials float64 `json:"finishing_materials" yaml:"finishing_materials"` // $/plate

	MarkupPercent float64 `json:"markup_percent" yaml:"markup_percent"`

	// FilamentCosts overrides the preset $/kg for an extruder id.
	FilamentCosts map[int]float64 `json:"filament_costs,omitempty" yaml:"filament_costs,omitempty"`
}

// DefaultJobParameters returns the parameter set a fresh session starts with.
func DefaultJobParameters() JobParameters {
	return JobParameters{
		PartsPerPlate:      1,
		NumPlates:          1,
		FailureRate:        5.0,
		LaborRate:          20.0,
		PrepTime:           15.0,
		SetupTime:          10.0,
		FinishingPerPart:   5.0,
		FinishingPerPlate:  0.0,
		PrinterCost:        300.0,
		PrinterLifespan:    15000.0,
		MaintenanceCost:    0.10,
		PowerWatts:         130.0,
		ElectricityCost:    0.15,
		BedCost:            30.0,
		BedLifespan:        5000.0,
		NozzleCost:         2.0,
		NozzleLifespanKg:   25.0,
		SolventCost:        0.0,
		SolvingTime:        0.0,
		TankPower:          0.0,
		FinishingMaterials: 0.0,
		MarkupPercent:      50.0,
	}
}

// Clone returns a copy that shares no mutable state with p.
func (p JobParameters) Clone() JobParameters {
	if p.FilamentCosts != nil {
		costs := make(map[int]float64, len(p.FilamentCosts))
		for id, c := range p.FilamentCosts {
			costs[id] = c
		}
		p.FilamentCosts = costs
	}
	return p
}

// Normalize returns a copy with every negative or non-finite numeric input
// clamped to zero.
func (p JobParameters) Normalize() JobParameters {
	p = p.Clone()
	if p.PartsPerPlate < 0 {
		p.PartsPerPlate = 0
	}
	if p.NumPlates < 0 {
		p.NumPlates = 0
	}
	for _, v := range []*float64{
		&p.FailureRate,
		&p.LaborRate, &p.PrepTime, &p.SetupTime, &p.FinishingPerPart, &p.FinishingPerPlate,
		&p.PrinterCost, &p.PrinterLifespan, &p.MaintenanceCost, &p.PowerWatts, &p.ElectricityCost,
		&p.BedCost, &p.BedLifespan, &p.NozzleCost, &p.NozzleLifespanKg,
		&p.SolventCost, &p.SolvingTime, &p.TankPower, &p.FinishingMaterials,
		&p.MarkupPercent,
	} {
		if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = 0
		}
	}
	return p
}

// TotalParts is the number of parts the customer receives.
func (p JobParameters) TotalParts() int {
	return p.PartsPerPlate * p.NumPlates
}

// FailureFraction converts FailureRate from percent to a fraction.
func (p JobParameters) FailureFraction() float64 {
	return p.FailureRate / 100.0
}

// MarkupFraction converts MarkupPercent from percent to a fraction.
func (p JobParameters) MarkupFraction() float64 {
	return p.MarkupPercent / 100.0
}

// SetFilamentCost records a $/kg override for an extruder.
func (p *JobParameters) SetFilamentCost(extruderID int, costPerKg float64) {
	if p.FilamentCosts == nil {
		p.FilamentCosts = make(map[int]float64)
	}
	p.FilamentCosts[extruderID] = costPerKg
}

// ApplyFilamentOverrides returns a copy of filaments with the overridden
// $/kg applied and every cost recomputed. The input slice is not modified.
func (p JobParameters) ApplyFilamentOverrides(filaments []FilamentUsage) []FilamentUsage {
	out := make([]FilamentUsage, len(filaments))
	copy(out, filaments)
	for i := range out {
		if cost, ok := p.FilamentCosts[out[i].ExtruderID]; ok {
			out[i].SetCostPerKg(cost)
		} else {
			out[i].Recalculate()
		}
	}
	return out
}
