// Package invoice ties the pipeline together: slicer statistics are resolved
// into filament costs, priced with the job parameters and rendered.
package invoice

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/export"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/filament"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/observability"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/project"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/slicer"
)

// Input describes one job to price. Params, when set, replaces the stored
// profile; otherwise the named profile is loaded, falling back to defaults.
type Input struct {
	Stats   slicer.Statistics
	Presets filament.PresetProvider
	Profile string
	Params  *model.JobParameters
}

// Quote is a priced job.
type Quote struct {
	Params     model.JobParameters   `json:"params"`
	Filaments  []model.FilamentUsage `json:"filaments"`
	Breakdown  model.CostBreakdown   `json:"breakdown"`
	PrintTime  string                `json:"print_time"`
	TotalParts int                   `json:"total_parts"`
}

// Service prices jobs against the stored profiles.
type Service struct {
	profiles     *project.ProfileStore
	businessName string
	now          func() time.Time
}

// NewService creates a Service. businessName is used when neither the job
// nor the stored global settings name the business.
func NewService(profiles *project.ProfileStore, businessName string) *Service {
	return &Service{profiles: profiles, businessName: businessName, now: time.Now}
}

// Profiles exposes the profile store.
func (s *Service) Profiles() *project.ProfileStore {
	return s.profiles
}

func (s *Service) resolveParams(in Input) (model.JobParameters, error) {
	var params model.JobParameters
	switch {
	case in.Params != nil:
		params = in.Params.Clone()
	case in.Profile != "":
		p, err := s.profiles.Get(in.Profile)
		if err != nil {
			return model.JobParameters{}, err
		}
		params = p
	default:
		params = model.DefaultJobParameters()
	}

	if params.BusinessName == "" {
		params.BusinessName = s.profiles.LoadGlobalSettings().BusinessName
	}
	if params.BusinessName == "" {
		params.BusinessName = s.businessName
	}
	return params, nil
}

// Quote resolves filament usage, applies the job's cost overrides and
// computes the breakdown.
func (s *Service) Quote(ctx context.Context, in Input) (Quote, error) {
	if in.Profile != "" {
		ctx = observability.WithProfile(ctx, in.Profile)
	}

	params, err := s.resolveParams(in)
	if err != nil {
		return Quote{}, err
	}

	filaments := params.ApplyFilamentOverrides(filament.Resolve(in.Stats, in.Presets))
	breakdown := model.Compute(params, filaments, in.Stats.PrintTimeHours())
	if !breakdown.Finite() {
		observability.FromContext(ctx).Warn("job price overflowed",
			zap.Float64("subtotal", breakdown.Subtotal))
		return Quote{}, fmt.Errorf("price job: %w", export.ErrNonFiniteAmount)
	}

	observability.FromContext(ctx).Debug("job priced",
		zap.Int("filaments", len(filaments)),
		zap.Float64("print_hours", breakdown.PrintTimeHours),
		zap.Float64("total_job_cost", breakdown.TotalJobCost),
	)

	return Quote{
		Params:     params,
		Filaments:  filaments,
		Breakdown:  breakdown,
		PrintTime:  slicer.FormatPrintTime(in.Stats.EstimatedPrintTime),
		TotalParts: breakdown.TotalParts,
	}, nil
}

// Report turns a quote into an exportable report with a fresh invoice id.
func (s *Service) Report(q Quote) export.Report {
	return export.Report{
		Params:    q.Params,
		Breakdown: q.Breakdown,
		Filaments: q.Filaments,
		Date:      s.now(),
		InvoiceID: observability.GenerateInvoiceID(),
	}
}

// Render prices the job and renders it in format. It returns the document,
// its MIME type and the report it was rendered from.
func (s *Service) Render(ctx context.Context, in Input, format string) ([]byte, string, export.Report, error) {
	q, err := s.Quote(ctx, in)
	if err != nil {
		return nil, "", export.Report{}, err
	}
	report := s.Report(q)
	ctx = observability.WithInvoiceID(ctx, report.InvoiceID)

	data, mime, err := export.Render(format, report)
	if err != nil {
		observability.FromContext(ctx).Error("render failed", zap.String("format", format), zap.Error(err))
		return nil, "", export.Report{}, err
	}
	observability.FromContext(ctx).Info("invoice rendered",
		zap.String("format", format), zap.Int("bytes", len(data)))
	return data, mime, report, nil
}

// Export prices the job and writes it to path in the format implied by the
// extension.
func (s *Service) Export(ctx context.Context, in Input, path string) (export.Report, error) {
	q, err := s.Quote(ctx, in)
	if err != nil {
		return export.Report{}, err
	}
	report := s.Report(q)
	ctx = observability.WithInvoiceID(ctx, report.InvoiceID)

	if err := export.ExportByExtension(path, report); err != nil {
		observability.FromContext(ctx).Error("export failed", zap.String("path", path), zap.Error(err))
		return export.Report{}, err
	}
	observability.FromContext(ctx).Info("invoice exported", zap.String("path", path))
	return report, nil
}
