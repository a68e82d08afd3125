package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	invoiceSheet   = "Invoice"
	breakdownSheet = "Internal Cost Breakdown"
	currencyFormat = "$#,##0.00"
)

type xlsxStyles struct {
	header, bold, currency, currencyBold int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	var s xlsxStyles
	var err error
	numFmt := currencyFormat

	if s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Calibri", Size: 14, Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err != nil {
		return s, err
	}
	if s.bold, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Family: "Calibri", Size: 11, Bold: true},
	}); err != nil {
		return s, err
	}
	if s.currency, err = f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt}); err != nil {
		return s, err
	}
	if s.currencyBold, err = f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Family: "Calibri", Size: 11, Bold: true},
		CustomNumFmt: &numFmt,
	}); err != nil {
		return s, err
	}
	return s, nil
}

// xlsxSheet writes rows top to bottom on one worksheet.
type xlsxSheet struct {
	f     *excelize.File
	name  string
	row   int
	err   error
	style xlsxStyles
}

func (s *xlsxSheet) cell(col int) string {
	name, err := excelize.CoordinatesToCellName(col, s.row)
	if err != nil && s.err == nil {
		s.err = err
	}
	return name
}

func (s *xlsxSheet) set(col int, v interface{}, style int) {
	if s.err != nil {
		return
	}
	ref := s.cell(col)
	if err := s.f.SetCellValue(s.name, ref, v); err != nil {
		s.err = err
		return
	}
	if style != 0 {
		s.err = s.f.SetCellStyle(s.name, ref, ref, style)
	}
}

func (s *xlsxSheet) next() { s.row++ }

func (s *xlsxSheet) label(label, value string) {
	s.set(1, label, s.style.bold)
	s.set(2, value, 0)
	s.next()
}

func (s *xlsxSheet) money(col int, v float64, style int) {
	s.set(col, Money(v).InexactFloat64(), style)
}

// RenderXLSX builds the same two sheets as RenderSpreadsheetML as an Office
// Open XML workbook.
func RenderXLSX(r Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create styles: %w", err)
	}
	if err := f.SetSheetName("Sheet1", invoiceSheet); err != nil {
		return nil, fmt.Errorf("failed to name invoice sheet: %w", err)
	}
	if _, err := f.NewSheet(breakdownSheet); err != nil {
		return nil, fmt.Errorf("failed to add breakdown sheet: %w", err)
	}

	if err := writeInvoiceXLSX(f, styles, r); err != nil {
		return nil, fmt.Errorf("failed to write invoice sheet: %w", err)
	}
	if err := writeBreakdownXLSX(f, styles, r); err != nil {
		return nil, fmt.Errorf("failed to write breakdown sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeInvoiceXLSX(f *excelize.File, styles xlsxStyles, r Report) error {
	p := r.Params
	s := &xlsxSheet{f: f, name: invoiceSheet, row: 1, style: styles}

	if err := f.SetColWidth(invoiceSheet, "A", "A", 28); err != nil {
		return err
	}
	if err := f.SetColWidth(invoiceSheet, "B", "D", 16); err != nil {
		return err
	}

	s.set(1, "INVOICE", styles.header)
	if err := f.MergeCell(invoiceSheet, "A1", "E1"); err != nil {
		return err
	}
	s.row += 2

	s.label("From:", p.BusinessName)
	if r.InvoiceID != "" {
		s.label("Invoice #:", r.InvoiceID)
	}
	s.next()
	s.label("To:", p.CustomerName)
	s.label("Email:", p.CustomerEmail)
	s.label("Phone:", p.CustomerPhone)
	s.next()
	s.label("Job Name:", p.JobName)
	s.label("Description:", p.JobDescription)
	s.label("Date:", r.dateString())
	s.next()

	for i, h := range []string{"Item", "Quantity", "Unit Price", "Total"} {
		s.set(i+1, h, styles.bold)
	}
	s.next()
	s.set(1, "3D Printed Parts", 0)
	s.set(2, r.Quantity(), 0)
	s.money(3, r.Breakdown.FinalPrice, styles.currency)
	s.money(4, r.Breakdown.TotalJobCost, styles.currency)
	s.row += 3

	s.set(1, "Material Breakdown", styles.bold)
	s.next()
	for _, fil := range r.Filaments {
		s.set(1, filamentLabel(fil), 0)
		s.set(2, filamentWeight(fil), 0)
		s.next()
	}
	return s.err
}

func writeBreakdownXLSX(f *excelize.File, styles xlsxStyles, r Report) error {
	s := &xlsxSheet{f: f, name: breakdownSheet, row: 1, style: styles}

	if err := f.SetColWidth(breakdownSheet, "A", "A", 32); err != nil {
		return err
	}
	if err := f.SetColWidth(breakdownSheet, "B", "B", 16); err != nil {
		return err
	}

	s.set(1, "INTERNAL COST BREAKDOWN", styles.bold)
	s.row += 2

	lines := r.costLines()
	for i, l := range lines {
		if l.gap {
			s.next()
		}
		style := styles.currency
		if i == len(lines)-1 {
			style = styles.currencyBold
		}
		s.set(1, l.label, 0)
		s.money(2, l.value, style)
		s.next()
	}
	return s.err
}

// ExportXLSX renders the workbook and writes it to path.
func ExportXLSX(path string, r Report) error {
	data, err := RenderXLSX(r)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}
