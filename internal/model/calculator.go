package model

import "math"

// CostBreakdown holds the results of a job cost calculation. Every field is
// derived from the inputs to Compute; money values are unrounded.
type CostBreakdown struct {
	MaterialCost      float64 `json:"material_cost"`
	LaborCost         float64 `json:"labor_cost"`
	MachineCost       float64 `json:"machine_cost"`
	ToolingCost       float64 `json:"tooling_cost"`
	PostProcessCost   float64 `json:"post_process_cost"`
	Subtotal          float64 `json:"subtotal"`           // Sum of the five categories, per plate
	FailureAdjustment float64 `json:"failure_adjustment"` // Expected scrap amortized over good plates
	TotalPlateCost    float64 `json:"total_plate_cost"`   // Subtotal + FailureAdjustment
	CostPerPart       float64 `json:"cost_per_part"`
	MarkupAmount      float64 `json:"markup_amount"`  // Per part
	FinalPrice        float64 `json:"final_price"`    // Per part, what the customer pays
	TotalJobCost      float64 `json:"total_job_cost"` // FinalPrice x all parts
	PrintTimeHours    float64 `json:"print_time_hours"`
	TotalParts        int     `json:"total_parts"`
	TotalFilamentG    float64 `json:"total_filament_g"`
}

// Compute prices a job. It is a pure function: it reads params, filaments and
// the print time and returns a fresh breakdown without modifying any input.
//
// Degenerate inputs take guarded branches instead of producing Inf or NaN:
// a failure rate of 100% or more adds no adjustment, zero parts per plate
// leaves the cost per part equal to the plate cost, and a zero lifespan drops
// the matching depreciation term. Overflowing inputs can yield +Inf amounts
// but never NaN.
func Compute(params JobParameters, filaments []FilamentUsage, printTimeHours float64) CostBreakdown {
	p := params.Normalize()
	if printTimeHours < 0 || math.IsNaN(printTimeHours) || math.IsInf(printTimeHours, 0) {
		printTimeHours = 0
	}

	materialCost := TotalMaterialCost(filaments)
	totalFilamentKg := TotalFilamentWeight(filaments) / 1000.0

	laborMinutes := p.PrepTime + p.SetupTime + scale(p.FinishingPerPart, float64(p.PartsPerPlate)) + p.FinishingPerPlate
	laborCost := scale(laborMinutes/60.0, p.LaborRate)

	powerPerHour := scale(p.PowerWatts/1000.0, p.ElectricityCost)
	machineHourly := perUnit(p.PrinterCost, p.PrinterLifespan) + p.MaintenanceCost + powerPerHour
	machineCost := scale(machineHourly, printTimeHours)

	bedCost := scale(perUnit(p.BedCost, p.BedLifespan), printTimeHours)
	nozzleCost := scale(perUnit(p.NozzleCost, p.NozzleLifespanKg), totalFilamentKg)
	toolingCost := bedCost + nozzleCost

	tankCost := scale(scale(p.TankPower/1000.0, p.ElectricityCost), p.SolvingTime)
	postProcessCost := tankCost + p.FinishingMaterials

	subtotal := materialCost + laborCost + machineCost + toolingCost + postProcessCost

	// An overflowed subtotal has no meaningful adjustment; Inf-Inf is NaN.
	failureAdjustment := 0.0
	if rate := p.FailureFraction(); rate < 1.0 && !math.IsInf(subtotal, 0) {
		failureAdjustment = subtotal/(1.0-rate) - subtotal
	}

	totalPlateCost := subtotal + failureAdjustment
	costPerPart := totalPlateCost
	if p.PartsPerPlate > 0 {
		costPerPart = totalPlateCost / float64(p.PartsPerPlate)
	}

	markupAmount := scale(costPerPart, p.MarkupFraction())
	finalPrice := costPerPart + markupAmount
	totalParts := p.TotalParts()

	return CostBreakdown{
		MaterialCost:      materialCost,
		LaborCost:         laborCost,
		MachineCost:       machineCost,
		ToolingCost:       toolingCost,
		PostProcessCost:   postProcessCost,
		Subtotal:          subtotal,
		FailureAdjustment: failureAdjustment,
		TotalPlateCost:    totalPlateCost,
		CostPerPart:       costPerPart,
		MarkupAmount:      markupAmount,
		FinalPrice:        finalPrice,
		TotalJobCost:      scale(finalPrice, float64(totalParts)),
		PrintTimeHours:    printTimeHours,
		TotalParts:        totalParts,
		TotalFilamentG:    totalFilamentKg * 1000.0,
	}
}

// scale multiplies v by f, treating a zero factor as exact so an overflowed
// v never turns into NaN.
func scale(v, f float64) float64 {
	if f == 0 || v == 0 {
		return 0
	}
	return v * f
}

// perUnit divides cost by lifespan, returning 0 for a non-positive lifespan.
func perUnit(cost, lifespan float64) float64 {
	if lifespan <= 0 {
		return 0
	}
	return cost / lifespan
}

// Finite reports whether every amount in b is a finite number.
func (b CostBreakdown) Finite() bool {
	for _, v := range []float64{
		b.MaterialCost, b.LaborCost, b.MachineCost, b.ToolingCost, b.PostProcessCost,
		b.Subtotal, b.FailureAdjustment, b.TotalPlateCost, b.CostPerPart,
		b.MarkupAmount, b.FinalPrice, b.TotalJobCost, b.PrintTimeHours, b.TotalFilamentG,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
