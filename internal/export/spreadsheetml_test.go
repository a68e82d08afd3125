package export

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/model"
)

func TestEscapeXML(t *testing.T) {
	got := EscapeXML(`Tom & Jerry's "Test" <b>`)
	want := "Tom &amp; Jerry&apos;s &quot;Test&quot; &lt;b&gt;"
	if got != want {
		t.Errorf("EscapeXML = %q, want %q", got, want)
	}
}

func TestRenderSpreadsheetML(t *testing.T) {
	r := buildTestReport()
	data, err := RenderSpreadsheetML(r)
	if err != nil {
		t.Fatalf("RenderSpreadsheetML returned error: %v", err)
	}
	doc := string(data)

	mustContain := []string{
		`<?mso-application progid="Excel.Sheet"?>`,
		`<Style ss:ID="sHeader">`,
		`<Style ss:ID="sBold">`,
		`<NumberFormat ss:Format="$#,##0.00"/>`,
		`<Style ss:ID="sCurrencyBold">`,
		`<Worksheet ss:Name="Invoice">`,
		`<Worksheet ss:Name="Internal Cost Breakdown">`,
		`<Data ss:Type="String">INVOICE</Data>`,
		`<Data ss:Type="String">Tom &amp; Jerry&apos;s &quot;Test&quot;</Data>`,
		`<Data ss:Type="String">PETG &lt;HF&gt; (#00FF00)</Data>`,
		`<Data ss:Type="String">120.50 g</Data>`,
		`<Data ss:Type="String">2026-03-14</Data>`,
		`<Data ss:Type="String">3D Printed Parts</Data>`,
		`<Cell><Data ss:Type="Number">8</Data></Cell>`,
		`<Data ss:Type="String">Failure Adjustment</Data>`,
		`<Data ss:Type="String">Total Job Cost</Data>`,
	}
	for _, s := range mustContain {
		if !strings.Contains(doc, s) {
			t.Errorf("document missing %s", s)
		}
	}

	if strings.Contains(doc, `Tom & Jerry`) {
		t.Error("unescaped description found in document")
	}
	if !strings.HasSuffix(doc, "</Workbook>\n") {
		t.Error("document is not terminated")
	}
}

func TestRenderSpreadsheetMLRoundsCurrency(t *testing.T) {
	r := buildTestReport()
	data, err := RenderSpreadsheetML(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `<Cell ss:StyleID="sCurrencyBold"><Data ss:Type="Number">` +
		Money(r.Breakdown.TotalJobCost).StringFixed(2) + `</Data></Cell>`
	if !strings.Contains(string(data), want) {
		t.Errorf("expected rounded total %s", want)
	}
}

func TestInvoiceSheetDisclosesNoCosts(t *testing.T) {
	data, err := RenderSpreadsheetML(buildTestReport())
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	start := strings.Index(doc, `<Worksheet ss:Name="Invoice">`)
	end := strings.Index(doc, `<Worksheet ss:Name="Internal Cost Breakdown">`)
	invoice := doc[start:end]

	for _, s := range []string{"Material Cost", "Labor Cost", "Markup Amount", "24.99"} {
		if strings.Contains(invoice, s) {
			t.Errorf("customer sheet discloses %q", s)
		}
	}
}

func TestRenderDoesNotMutateReport(t *testing.T) {
	r := buildTestReport()
	before := r.Filaments[0]
	if _, err := RenderSpreadsheetML(r); err != nil {
		t.Fatal(err)
	}
	if r.Filaments[0] != before {
		t.Error("renderer modified the filament list")
	}
}

func TestExportSpreadsheetML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xls")
	if err := ExportSpreadsheetML(path, buildTestReport()); err != nil {
		t.Fatalf("ExportSpreadsheetML returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
}

func TestExportSpreadsheetMLOpenFailureLeavesNoFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	path := filepath.Join(dir, "invoice.xls")

	if err := ExportSpreadsheetML(path, buildTestReport()); err == nil {
		t.Fatal("expected error when the output cannot be opened")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file to be left behind")
	}
}

func TestExportSpreadsheetMLNothingToExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.xls")
	err := ExportSpreadsheetML(path, Report{})
	if !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file for an empty report")
	}
}

func nonFiniteReport() Report {
	r := buildTestReport()
	r.Params.PrinterCost = 1e308
	r.Params.PrinterLifespan = 1e-3
	r.Breakdown = model.Compute(r.Params, r.Filaments, 2.5)
	return r
}

func TestRenderRejectsNonFiniteAmounts(t *testing.T) {
	for _, format := range []string{FormatSpreadsheetML, FormatXLSX, FormatPDF} {
		if _, _, err := Render(format, nonFiniteReport()); !errors.Is(err, ErrNonFiniteAmount) {
			t.Errorf("%s: expected ErrNonFiniteAmount, got %v", format, err)
		}
	}

	r := buildTestReport()
	r.Filaments[1].CalculatedCost = math.NaN()
	if _, err := RenderSpreadsheetML(r); !errors.Is(err, ErrNonFiniteAmount) {
		t.Errorf("expected ErrNonFiniteAmount for a NaN filament cost, got %v", err)
	}
}

func TestExportKeepsPreviousReportOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invoice.xls")
	if err := os.WriteFile(path, []byte("previous"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := ExportSpreadsheetML(path, nonFiniteReport()); err == nil {
		t.Fatal("expected export of a non-finite report to fail")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "previous" {
		t.Errorf("expected previous report untouched, got %q (%v)", data, err)
	}

	if err := ExportSpreadsheetML(path, buildTestReport()); err != nil {
		t.Fatalf("ExportSpreadsheetML failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if !strings.HasPrefix(string(data), "<?xml") {
		t.Error("expected the report to be replaced")
	}
}

func TestWriteFileFailedReplaceLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "invoice.xls")
	// A non-empty directory cannot be replaced by a rename.
	if err := os.MkdirAll(filepath.Join(target, "keep"), 0755); err != nil {
		t.Fatal(err)
	}

	if err := writeFile(target, []byte("data")); err == nil {
		t.Fatal("expected replacing a directory to fail")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the original entry, got %d", len(entries))
	}
}
