package slicer

import (
	"math"
	"testing"
)

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestParsePrintTime(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"2h", 2},
		{"30m", 0.5},
		{"1d 2h 30m 15s", 24 + 2 + 0.5 + 15.0/3600.0},
		{"45s", 45.0 / 3600.0},
		{"1h 0m", 1},
		{"garbage", 0},
		{"3 h 15 m", 3.25},
		{"1.5h", 5},
	}
	for _, tt := range tests {
		if got := ParsePrintTime(tt.in); !nearlyEqual(got, tt.want) {
			t.Errorf("ParsePrintTime(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestFormatPrintTime(t *testing.T) {
	if got := FormatPrintTime(""); got != "N/A" {
		t.Errorf("expected N/A for empty estimate, got %q", got)
	}
	if got := FormatPrintTime("1h 2m"); got != "1h 2m" {
		t.Errorf("expected estimate passed through, got %q", got)
	}
}

func TestStatisticsExtruderIDsSorted(t *testing.T) {
	s := Statistics{FilamentUsage: map[int]float64{3: 1, 0: 2, 1: 3}}
	ids := s.ExtruderIDs()
	want := []int{0, 1, 3}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}

	var empty Statistics
	if len(empty.ExtruderIDs()) != 0 {
		t.Error("expected no ids for empty statistics")
	}
}

func TestStatisticsPrintTimeHours(t *testing.T) {
	s := Statistics{EstimatedPrintTime: "1h 30m"}
	if got := s.PrintTimeHours(); !nearlyEqual(got, 1.5) {
		t.Errorf("expected 1.5 hours, got %f", got)
	}
}
