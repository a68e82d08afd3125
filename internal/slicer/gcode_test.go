package slicer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleGCode = `; HEADER_BLOCK_START
; generated by OrcaSlicer 2.1.1
; model printing time: 1h 52m 19s; total estimated time: 1h 58m 2s
; total filament weight [g] : 42.50
; HEADER_BLOCK_END
G28
G1 X10 Y10 E1.5 ; inline comment
; filament used [mm] = 1500.25,0.00,320.5
; filament used [g] = 4.47,0.00,0.96
; estimated printing time (normal mode) = 1h 58m 2s
; CONFIG_BLOCK_START
; filament_colour = "#FF0000";"#00FF00";"#0000FF"
; filament_cost = 24.99,19.5,30
; filament_density = 1.24,1.27,1.04
; filament_diameter = 1.75,1.75,2.85
; filament_settings_id = "Bambu PLA Basic";"Generic PETG";"Generic ABS"
; CONFIG_BLOCK_END
`

func TestParseGCode(t *testing.T) {
	stats, presets, err := ParseGCode(strings.NewReader(sampleGCode))
	if err != nil {
		t.Fatalf("ParseGCode failed: %v", err)
	}

	if len(stats.FilamentUsage) != 2 {
		t.Fatalf("expected 2 extruders with usage, got %d", len(stats.FilamentUsage))
	}
	if stats.FilamentUsage[0] != 1500.25 {
		t.Errorf("expected extruder 0 usage 1500.25, got %f", stats.FilamentUsage[0])
	}
	if _, ok := stats.FilamentUsage[1]; ok {
		t.Error("expected zero-usage extruder to be skipped")
	}
	if stats.FilamentUsage[2] != 320.5 {
		t.Errorf("expected extruder 2 usage 320.5, got %f", stats.FilamentUsage[2])
	}
	if stats.TotalWeight != 42.5 {
		t.Errorf("expected total weight 42.5, got %f", stats.TotalWeight)
	}
	if stats.EstimatedPrintTime != "1h 58m 2s" {
		t.Errorf("unexpected print time %q", stats.EstimatedPrintTime)
	}

	if name, ok := presets.FilamentName(1); !ok || name != "Generic PETG" {
		t.Errorf("expected Generic PETG, got %q (%v)", name, ok)
	}
	if c, ok := presets.String(KeyFilamentColour, 2); !ok || c != "#0000FF" {
		t.Errorf("expected #0000FF, got %q (%v)", c, ok)
	}
	if d, ok := presets.Float(KeyFilamentDiameter, 2); !ok || d != 2.85 {
		t.Errorf("expected diameter 2.85, got %f (%v)", d, ok)
	}
	if c, ok := presets.Float(KeyFilamentCost, 0); !ok || c != 24.99 {
		t.Errorf("expected cost 24.99, got %f (%v)", c, ok)
	}
}

func TestParseGCode_SumsPerExtruderGramsWithoutTotal(t *testing.T) {
	code := "; filament used [mm] = 100,200\n; filament used [g] = 1.5,2.5\n"
	stats, _, err := ParseGCode(strings.NewReader(code))
	if err != nil {
		t.Fatalf("ParseGCode failed: %v", err)
	}
	if stats.TotalWeight != 4 {
		t.Errorf("expected summed weight 4, got %f", stats.TotalWeight)
	}
}

func TestParseGCode_NoStatistics(t *testing.T) {
	stats, presets, err := ParseGCode(strings.NewReader("G28\nG1 X0 Y0\n;\n; just a note\n"))
	if err != nil {
		t.Fatalf("ParseGCode failed: %v", err)
	}
	if len(stats.FilamentUsage) != 0 || stats.TotalWeight != 0 || stats.EstimatedPrintTime != "" {
		t.Errorf("expected empty statistics, got %+v", stats)
	}
	if presets.Len() != 0 {
		t.Errorf("expected no presets, got %d", presets.Len())
	}
}

func TestParseGCodeFile_Missing(t *testing.T) {
	_, _, err := ParseGCodeFile(filepath.Join(t.TempDir(), "nope.gcode"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadStatisticsFile_Formats(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"job.yaml": `print_time: 2h 30m
filaments:
  - extruder: 0
    usage_mm: 1500
    name: PLA Basic
    color: "#FF0000"
    cost: 24.99
  - extruder: 1
    usage_mm: 300
`,
		"job.json": `{"print_time":"2h 30m","filaments":[
  {"extruder":0,"usage_mm":1500,"name":"PLA Basic","color":"#FF0000","cost":24.99},
  {"extruder":1,"usage_mm":300}]}`,
		"job.toml": `print_time = "2h 30m"

[[filaments]]
extruder = 0
usage_mm = 1500.0
name = "PLA Basic"
color = "#FF0000"
cost = 24.99

[[filaments]]
extruder = 1
usage_mm = 300.0
`,
	}

	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}

		stats, presets, err := LoadStatisticsFile(path)
		if err != nil {
			t.Fatalf("%s: LoadStatisticsFile failed: %v", name, err)
		}
		if stats.FilamentUsage[0] != 1500 || stats.FilamentUsage[1] != 300 {
			t.Errorf("%s: unexpected usage %v", name, stats.FilamentUsage)
		}
		if stats.EstimatedPrintTime != "2h 30m" {
			t.Errorf("%s: unexpected print time %q", name, stats.EstimatedPrintTime)
		}
		if n, ok := presets.FilamentName(0); !ok || n != "PLA Basic" {
			t.Errorf("%s: expected PLA Basic, got %q", name, n)
		}
		if c, ok := presets.Float(KeyFilamentCost, 0); !ok || c != 24.99 {
			t.Errorf("%s: expected cost 24.99, got %f", name, c)
		}
		if _, ok := presets.Float(KeyFilamentCost, 1); ok {
			t.Errorf("%s: expected no cost preset for extruder 1", name)
		}
	}
}

func TestLoadStatisticsFile_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(bad, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadStatisticsFile(bad); err == nil {
		t.Error("expected error for unsupported extension")
	}

	broken := filepath.Join(dir, "job.json")
	if err := os.WriteFile(broken, []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadStatisticsFile(broken); err == nil {
		t.Error("expected error for malformed json")
	}

	if _, _, err := LoadStatisticsFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadStatisticsFile_GCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plate.gcode")
	if err := os.WriteFile(path, []byte(sampleGCode), 0644); err != nil {
		t.Fatal(err)
	}
	stats, _, err := LoadStatisticsFile(path)
	if err != nil {
		t.Fatalf("LoadStatisticsFile failed: %v", err)
	}
	if stats.TotalWeight != 42.5 {
		t.Errorf("expected 42.5, got %f", stats.TotalWeight)
	}
}
