package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	marginLeft   = 18.0
	marginRight  = 18.0
	marginTop    = 18.0
	marginBottom = 18.0
	contentWidth = pageWidth - marginLeft - marginRight
	qrSize       = 32.0
	lineHeight   = 6.0
)

// invoiceQR is the payload encoded in the invoice QR code.
type invoiceQR struct {
	InvoiceID string `json:"invoice_id,omitempty"`
	Business  string `json:"business,omitempty"`
	Customer  string `json:"customer,omitempty"`
	Job       string `json:"job,omitempty"`
	Date      string `json:"date"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

// RenderPDF builds the customer invoice as a PDF. Like the invoice sheet it
// lists filament weights but none of the internal costs. A QR code in the
// header carries the invoice summary as JSON.
func RenderPDF(r Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if err := renderInvoiceHeader(pdf, r, tr); err != nil {
		return nil, err
	}
	renderParties(pdf, r, tr)
	renderLineItem(pdf, r)
	renderMaterials(pdf, r, tr)

	pdf.SetY(-marginBottom - 8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(contentWidth, 4, "Thank you for your business.", "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderInvoiceHeader(pdf *fpdf.Fpdf, r Report, tr func(string) string) error {
	qrData, err := json.Marshal(invoiceQR{
		InvoiceID: r.InvoiceID,
		Business:  r.Params.BusinessName,
		Customer:  r.Params.CustomerName,
		Job:       r.Params.JobName,
		Date:      r.dateString(),
		Quantity:  r.Quantity(),
		Total:     Money(r.Breakdown.TotalJobCost).StringFixed(2),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal invoice summary: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_invoice"
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false,
		fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetXY(marginLeft, marginTop)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentWidth-qrSize, 12, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	if r.InvoiceID != "" {
		pdf.CellFormat(contentWidth-qrSize, lineHeight, "Invoice #: "+tr(r.InvoiceID), "", 1, "L", false, 0, "")
	}
	pdf.CellFormat(contentWidth-qrSize, lineHeight, "Date: "+r.dateString(), "", 1, "L", false, 0, "")

	pdf.SetY(marginTop + qrSize + 4)
	return nil
}

func renderParties(pdf *fpdf.Fpdf, r Report, tr func(string) string) {
	p := r.Params
	items := []struct {
		label, value string
	}{
		{"From:", p.BusinessName},
		{"To:", p.CustomerName},
		{"Email:", p.CustomerEmail},
		{"Phone:", p.CustomerPhone},
		{"Job Name:", p.JobName},
	}
	for _, item := range items {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(32, lineHeight, item.label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentWidth-32, lineHeight, tr(item.value), "", 1, "L", false, 0, "")
	}

	if p.JobDescription != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(32, lineHeight, "Description:", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentWidth-32, lineHeight, tr(p.JobDescription), "", "L", false)
	}
	pdf.Ln(6)
}

func renderLineItem(pdf *fpdf.Fpdf, r Report) {
	colWidths := []float64{contentWidth - 105, 30, 37.5, 37.5}
	headers := []string{"Item", "Quantity", "Unit Price", "Total"}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(220, 220, 220)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	cells := []string{
		"3D Printed Parts",
		fmt.Sprintf("%d", r.Quantity()),
		FormatMoney(r.Breakdown.FinalPrice),
		FormatMoney(r.Breakdown.TotalJobCost),
	}
	aligns := []string{"L", "C", "R", "R"}
	for i, c := range cells {
		pdf.CellFormat(colWidths[i], 7, c, "1", 0, aligns[i], false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(colWidths[0]+colWidths[1]+colWidths[2], 8, "Total Due", "", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[3], 8, FormatMoney(r.Breakdown.TotalJobCost), "", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func renderMaterials(pdf *fpdf.Fpdf, r Report, tr func(string) string) {
	if len(r.Filaments) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentWidth, 7, "Material Breakdown", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, f := range r.Filaments {
		pdf.CellFormat(contentWidth-40, lineHeight, tr(filamentLabel(f)), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, lineHeight, filamentWeight(f), "", 1, "R", false, 0, "")
	}
}

// ExportPDF renders the invoice PDF and writes it to path.
func ExportPDF(path string, r Report) error {
	data, err := RenderPDF(r)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
