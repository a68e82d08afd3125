// Package export renders priced print jobs into customer invoices and
// internal cost sheets.
package export

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

var (
	// ErrUnsupportedFormat is returned for an unknown export format or extension.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNothingToExport is returned when a report carries no priced job.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrNonFiniteAmount is returned when a cost or weight is NaN or infinite.
	ErrNonFiniteAmount = errors.New("amount is not a finite number")
)

// Export formats.
const (
	FormatSpreadsheetML = "xls"
	FormatXLSX          = "xlsx"
	FormatPDF           = "pdf"
)

const dateLayout = "2006-01-02"

// Report is everything an exporter needs. Exporters only read it.
type Report struct {
	Params    model.JobParameters
	Breakdown model.CostBreakdown
	Filaments []model.FilamentUsage
	Date      time.Time
	InvoiceID string
}

func (r Report) validate() error {
	if r.Breakdown == (model.CostBreakdown{}) && len(r.Filaments) == 0 {
		return ErrNothingToExport
	}
	if !r.Breakdown.Finite() {
		return ErrNonFiniteAmount
	}
	for _, f := range r.Filaments {
		if !finite(f.WeightG) || !finite(f.CalculatedCost) {
			return fmt.Errorf("%w: filament %q", ErrNonFiniteAmount, f.Name)
		}
	}
	return nil
}

func (r Report) dateString() string {
	d := r.Date
	if d.IsZero() {
		d = time.Now()
	}
	return d.Format(dateLayout)
}

// Quantity is the number of parts invoiced.
func (r Report) Quantity() int {
	return r.Params.PartsPerPlate * r.Params.NumPlates
}

// costLine is one row of the internal breakdown sheet.
type costLine struct {
	label string
	value float64
	// gap inserts an empty row before this line.
	gap bool
}

func (r Report) costLines() []costLine {
	b := r.Breakdown
	return []costLine{
		{label: "Material Cost", value: b.MaterialCost},
		{label: "Labor Cost", value: b.LaborCost},
		{label: "Machine Cost", value: b.MachineCost},
		{label: "Tooling Cost", value: b.ToolingCost},
		{label: "Post-Processing Cost", value: b.PostProcessCost},
		{label: "Subtotal", value: b.Subtotal, gap: true},
		{label: "Failure Adjustment", value: b.FailureAdjustment},
		{label: "Markup Amount", value: b.MarkupAmount},
		{label: "Total Job Cost", value: b.TotalJobCost, gap: true},
	}
}

// Money rounds v half away from zero to cents. v must be finite; reports
// are checked before rendering.
func Money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FormatMoney renders v as "$1,234.56". Non-finite values render as "N/A".
func FormatMoney(v float64) string {
	if !finite(v) {
		return "N/A"
	}
	m := Money(v)
	sign := ""
	if m.IsNegative() {
		sign = "-"
		m = m.Neg()
	}
	whole, frac, _ := strings.Cut(m.StringFixed(2), ".")

	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + "." + frac
}

func filamentLabel(f model.FilamentUsage) string {
	return fmt.Sprintf("%s (%s)", f.Name, f.Color)
}

func filamentWeight(f model.FilamentUsage) string {
	return fmt.Sprintf("%.2f g", f.WeightG)
}

// FormatFromPath maps a file extension to an export format.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls", ".xml":
		return FormatSpreadsheetML, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Render produces the document bytes and MIME type for a format.
func Render(format string, r Report) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case FormatSpreadsheetML, "xml":
		data, err := RenderSpreadsheetML(r)
		return data, "application/vnd.ms-excel", err
	case FormatXLSX:
		data, err := RenderXLSX(r)
		return data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", err
	case FormatPDF:
		data, err := RenderPDF(r)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ExportByExtension writes the report in the format implied by path.
func ExportByExtension(path string, r Report) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	switch format {
	case FormatXLSX:
		return ExportXLSX(path, r)
	case FormatPDF:
		return ExportPDF(path, r)
	default:
		return ExportSpreadsheetML(path, r)
	}
}
