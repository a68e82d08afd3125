// Package slicer reads the print statistics and filament presets a slicer
// reports for a sliced plate. It is the input boundary of the cost engine:
// nothing here fails on missing values, absent data is simply not reported.
package slicer

import (
	"regexp"
	"sort"
	"strconv"
)

// Statistics is the subset of slicer output the cost engine consumes.
type Statistics struct {
	// FilamentUsage maps extruder id to consumed filament length in mm.
	FilamentUsage map[int]float64 `json:"filament_usage"`
	// TotalWeight is the slicer-reported weight of all filament in grams.
	TotalWeight float64 `json:"total_weight"`
	// EstimatedPrintTime is the slicer's human readable estimate, e.g. "1d 2h 3m 4s".
	EstimatedPrintTime string `json:"estimated_print_time"`
}

// ExtruderIDs returns the extruders with recorded usage in ascending order.
func (s Statistics) ExtruderIDs() []int {
	ids := make([]int, 0, len(s.FilamentUsage))
	for id := range s.FilamentUsage {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// PrintTimeHours is ParsePrintTime applied to EstimatedPrintTime.
func (s Statistics) PrintTimeHours() float64 {
	return ParsePrintTime(s.EstimatedPrintTime)
}

// Components are whole numbers only; "1.5h" reads as 5 hours.
var (
	dayRe    = regexp.MustCompile(`(\d+)\s*d`)
	hourRe   = regexp.MustCompile(`(\d+)\s*h`)
	minuteRe = regexp.MustCompile(`(\d+)\s*m`)
	secondRe = regexp.MustCompile(`(\d+)\s*s`)
)

// ParsePrintTime converts a compound duration such as "1d 2h 30m 15s" to
// hours. Each component is optional; a missing or unparsable component
// contributes nothing.
func ParsePrintTime(s string) float64 {
	hours := 0.0
	hours += firstNumber(dayRe, s) * 24.0
	hours += firstNumber(hourRe, s)
	hours += firstNumber(minuteRe, s) / 60.0
	hours += firstNumber(secondRe, s) / 3600.0
	return hours
}

// FormatPrintTime returns the estimate for display, or "N/A" when unknown.
func FormatPrintTime(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func firstNumber(re *regexp.Regexp, s string) float64 {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}
