package invoice

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/export"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/kvstore"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/project"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s := NewService(project.NewProfileStore(kvstore.NewMemory()), "Fallback Prints")
	s.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }
	return s
}

func sampleStats() slicer.Statistics {
	return slicer.Statistics{
		FilamentUsage:      map[int]float64{0: 5000},
		TotalWeight:        15,
		EstimatedPrintTime: "2h 30m",
	}
}

func TestQuoteWithDefaults(t *testing.T) {
	s := newTestService(t)

	q, err := s.Quote(context.Background(), Input{Stats: sampleStats()})
	require.NoError(t, err)

	require.Len(t, q.Filaments, 1)
	assert.Equal(t, 15.0, q.Filaments[0].WeightG)
	assert.InDelta(t, 0.3, q.Breakdown.MaterialCost, 1e-9)
	assert.InDelta(t, 2.5, q.Breakdown.PrintTimeHours, 1e-9)
	assert.Equal(t, "2h 30m", q.PrintTime)
	assert.Equal(t, "Fallback Prints", q.Params.BusinessName)
	assert.Equal(t, 1, q.TotalParts)
}

func TestQuoteUsesProfileAndOverrides(t *testing.T) {
	s := newTestService(t)
	p := model.DefaultJobParameters()
	p.PartsPerPlate = 4
	p.NumPlates = 2
	p.SetFilamentCost(0, 40)
	require.NoError(t, s.Profiles().Save("Acme", p))
	require.NoError(t, s.Profiles().SaveGlobalSettings(project.GlobalSettings{BusinessName: "Print Co"}))

	q, err := s.Quote(context.Background(), Input{Stats: sampleStats(), Profile: "Acme"})
	require.NoError(t, err)

	assert.Equal(t, 40.0, q.Filaments[0].CostPerKg)
	assert.InDelta(t, 0.6, q.Breakdown.MaterialCost, 1e-9)
	assert.Equal(t, 8, q.TotalParts)
	assert.Equal(t, "Print Co", q.Params.BusinessName)
	assert.InDelta(t, q.Breakdown.FinalPrice*8, q.Breakdown.TotalJobCost, 1e-9)
}

func TestQuoteUnknownProfile(t *testing.T) {
	s := newTestService(t)
	_, err := s.Quote(context.Background(), Input{Stats: sampleStats(), Profile: "nope"})
	assert.True(t, errors.Is(err, project.ErrProfileNotFound))
}

func TestQuoteExplicitParamsAreNotMutated(t *testing.T) {
	s := newTestService(t)
	p := model.DefaultJobParameters()
	p.SetFilamentCost(0, 10)

	q, err := s.Quote(context.Background(), Input{Stats: sampleStats(), Params: &p})
	require.NoError(t, err)
	assert.Equal(t, 10.0, q.Filaments[0].CostPerKg)
	assert.Equal(t, "", p.BusinessName, "caller's parameters should be left untouched")
	assert.False(t, math.IsNaN(q.Breakdown.FinalPrice))
}

func TestRender(t *testing.T) {
	s := newTestService(t)
	data, mime, report, err := s.Render(context.Background(), Input{Stats: sampleStats()}, "xls")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.ms-excel", mime)
	assert.Contains(t, string(data), "2026-01-02")
	assert.Contains(t, string(data), report.InvoiceID)

	_, _, _, err = s.Render(context.Background(), Input{Stats: sampleStats()}, "odt")
	assert.True(t, errors.Is(err, export.ErrUnsupportedFormat))
}

func TestExport(t *testing.T) {
	s := newTestService(t)
	path := filepath.Join(t.TempDir(), "invoice.pdf")

	report, err := s.Export(context.Background(), Input{Stats: sampleStats()}, path)
	require.NoError(t, err)
	assert.NotEmpty(t, report.InvoiceID)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestQuoteRejectsOverflowingPrice(t *testing.T) {
	s := newTestService(t)
	p := model.DefaultJobParameters()
	p.PrinterCost = 1e308
	p.PrinterLifespan = 1e-3
	in := Input{Stats: sampleStats(), Params: &p}

	_, err := s.Quote(context.Background(), in)
	assert.True(t, errors.Is(err, export.ErrNonFiniteAmount))

	path := filepath.Join(t.TempDir(), "invoice.xls")
	_, err = s.Export(context.Background(), in, path)
	assert.True(t, errors.Is(err, export.ErrNonFiniteAmount))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
