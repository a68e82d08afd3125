package slicer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Comment keys OrcaSlicer writes into the header and config block of a
// sliced G-code file.
const (
	gcodeFilamentUsedMM    = "filament used [mm]"
	gcodeFilamentUsedG     = "filament used [g]"
	gcodeTotalWeight       = "total filament weight [g]"
	gcodeTotalUsedG        = "total filament used [g]"
	gcodeEstimatedTime     = "estimated printing time (normal mode)"
	maxGCodeLineBytes      = 1024 * 1024
	gcodeListSeparators    = ",;"
	gcodeStringSeparator   = ";"
	gcodeQuoteCharacters   = "\""
	gcodeKeyValueSeparator = "="
)

// ParseGCodeFile opens a sliced G-code file and parses its statistics.
func ParseGCodeFile(path string) (Statistics, *Presets, error) {
	f, err := os.Open(path)
	if err != nil {
		return Statistics{}, nil, fmt.Errorf("open gcode: %w", err)
	}
	defer f.Close()
	return ParseGCode(f)
}

// ParseGCode scans the comment lines of a sliced G-code stream for filament
// usage, weight, print time and filament preset values. Movement commands are
// skipped. Only read errors are returned; unknown or malformed comments are
// ignored.
func ParseGCode(r io.Reader) (Statistics, *Presets, error) {
	stats := Statistics{FilamentUsage: make(map[int]float64)}
	presets := NewPresets()

	var perExtruderGrams float64
	haveTotal := false

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxGCodeLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if !strings.HasPrefix(line, ";") {
			continue
		}
		key, value, ok := splitComment(line)
		if !ok {
			continue
		}

		switch key {
		case gcodeFilamentUsedMM:
			for i, v := range parseFloatList(value) {
				if v > 0 {
					stats.FilamentUsage[i] = v
				}
			}
		case gcodeFilamentUsedG:
			perExtruderGrams = 0
			for _, v := range parseFloatList(value) {
				perExtruderGrams += v
			}
		case gcodeTotalWeight, gcodeTotalUsedG:
			if v, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
				stats.TotalWeight = v
				haveTotal = true
			}
		case gcodeEstimatedTime:
			stats.EstimatedPrintTime = strings.TrimSpace(value)
		case KeyFilamentColour, KeyFilamentSettings:
			presets.SetStrings(key, parseStringList(value))
		case KeyFilamentCost, KeyFilamentDensity, KeyFilamentDiameter:
			presets.SetStrings(key, splitAny(value, gcodeListSeparators))
		}
	}
	if err := sc.Err(); err != nil {
		return Statistics{}, nil, fmt.Errorf("read gcode: %w", err)
	}

	if !haveTotal && perExtruderGrams > 0 {
		stats.TotalWeight = perExtruderGrams
	}
	return stats, presets, nil
}

// splitComment turns "; key = value" or "; key : value" into its parts.
func splitComment(line string) (string, string, bool) {
	body := strings.TrimSpace(strings.TrimLeft(line, ";"))
	key, value, ok := strings.Cut(body, gcodeKeyValueSeparator)
	if !ok {
		key, value, ok = strings.Cut(body, ":")
		if !ok {
			return "", "", false
		}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(value), true
}

func parseFloatList(value string) []float64 {
	parts := splitAny(value, gcodeListSeparators)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			continue
		}
		out[i] = v
	}
	return out
}

func parseStringList(value string) []string {
	parts := strings.Split(value, gcodeStringSeparator)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.Trim(strings.TrimSpace(p), gcodeQuoteCharacters)
	}
	return out
}

func splitAny(value, seps string) []string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return strings.ContainsRune(seps, r)
	})
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
