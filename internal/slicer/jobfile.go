package slicer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// JobFile is a hand-written description of a sliced plate, for jobs that
// were not exported as G-code or whose statistics need adjusting.
//
//	print_time: 2h 30m
//	total_weight: 0
//	filaments:
//	  - extruder: 0
//	    usage_mm: 1500
//	    name: PLA Basic
//	    color: "#FF0000"
//	    cost: 24.99
type JobFile struct {
	PrintTime   string        `json:"print_time" yaml:"print_time" toml:"print_time"`
	TotalWeight float64       `json:"total_weight" yaml:"total_weight" toml:"total_weight"`
	Filaments   []JobFilament `json:"filaments" yaml:"filaments" toml:"filaments"`
}

// JobFilament is one extruder entry of a JobFile. Zero preset values are
// left unset so the resolver falls back to its defaults.
type JobFilament struct {
	Extruder int     `json:"extruder" yaml:"extruder" toml:"extruder"`
	UsageMM  float64 `json:"usage_mm" yaml:"usage_mm" toml:"usage_mm"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Cost     float64 `json:"cost,omitempty" yaml:"cost,omitempty" toml:"cost,omitempty"`
	Density  float64 `json:"density,omitempty" yaml:"density,omitempty" toml:"density,omitempty"`
	Diameter float64 `json:"diameter,omitempty" yaml:"diameter,omitempty" toml:"diameter,omitempty"`
}

// LoadStatisticsFile reads a job description from disk. The format follows
// the file extension: .yaml/.yml, .json or .toml. A .gcode file is handed to
// ParseGCodeFile.
func LoadStatisticsFile(path string) (Statistics, *Presets, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gcode" || ext == ".gco" {
		return ParseGCodeFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Statistics{}, nil, fmt.Errorf("read job file: %w", err)
	}

	var jf JobFile
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &jf)
	case ".json":
		err = json.Unmarshal(data, &jf)
	case ".toml":
		err = toml.Unmarshal(data, &jf)
	default:
		return Statistics{}, nil, fmt.Errorf("unsupported job file extension %q", ext)
	}
	if err != nil {
		return Statistics{}, nil, fmt.Errorf("parse job file %s: %w", filepath.Base(path), err)
	}

	stats, presets := jf.Statistics()
	return stats, presets, nil
}

// Statistics converts the job description into slicer statistics and the
// matching preset arrays.
func (jf JobFile) Statistics() (Statistics, *Presets) {
	stats := Statistics{
		FilamentUsage:      make(map[int]float64),
		TotalWeight:        jf.TotalWeight,
		EstimatedPrintTime: jf.PrintTime,
	}
	presets := NewPresets()

	for _, f := range jf.Filaments {
		if f.Extruder < 0 {
			continue
		}
		if f.UsageMM > 0 {
			stats.FilamentUsage[f.Extruder] += f.UsageMM
		}
		if f.Name != "" {
			presets.SetValue(KeyFilamentSettings, f.Extruder, f.Name)
		}
		if f.Color != "" {
			presets.SetValue(KeyFilamentColour, f.Extruder, f.Color)
		}
		setPositive(presets, KeyFilamentCost, f.Extruder, f.Cost)
		setPositive(presets, KeyFilamentDensity, f.Extruder, f.Density)
		setPositive(presets, KeyFilamentDiameter, f.Extruder, f.Diameter)
	}
	return stats, presets
}

func setPositive(p *Presets, key string, idx int, v float64) {
	if v <= 0 {
		return
	}
	p.SetValue(key, idx, fmt.Sprintf("%g", v))
}
