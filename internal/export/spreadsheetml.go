package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five reserved markup characters.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

const spreadsheetMLHeader = `<?xml version="1.0"?>
<?mso-application progid="Excel.Sheet"?>
<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"
 xmlns:o="urn:schemas-microsoft-com:office:office"
 xmlns:x="urn:schemas-microsoft-com:office:excel"
 xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet"
 xmlns:html="http://www.w3.org/TR/REC-html40">
<Styles>
 <Style ss:ID="Default" ss:Name="Normal">
  <Alignment ss:Vertical="Bottom"/>
  <Borders/>
  <Font ss:FontName="Calibri" x:Family="Swiss" ss:Size="11" ss:Color="#000000"/>
  <Interior/>
  <NumberFormat/>
  <Protection/>
 </Style>
 <Style ss:ID="sHeader">
  <Font ss:FontName="Calibri" x:Family="Swiss" ss:Size="14" ss:Bold="1"/>
  <Alignment ss:Horizontal="Center"/>
 </Style>
 <Style ss:ID="sBold">
  <Font ss:FontName="Calibri" x:Family="Swiss" ss:Size="11" ss:Bold="1"/>
 </Style>
 <Style ss:ID="sCurrency">
  <NumberFormat ss:Format="$#,##0.00"/>
 </Style>
 <Style ss:ID="sCurrencyBold">
  <Font ss:FontName="Calibri" x:Family="Swiss" ss:Size="11" ss:Bold="1"/>
  <NumberFormat ss:Format="$#,##0.00"/>
 </Style>
</Styles>
`

// sheetWriter appends SpreadsheetML rows to a buffer.
type sheetWriter struct {
	buf bytes.Buffer
}

func (w *sheetWriter) printf(format string, args ...interface{}) {
	fmt.Fprintf(&w.buf, format, args...)
}

func (w *sheetWriter) emptyRow() {
	w.printf("<Row><Cell><Data ss:Type=\"String\"></Data></Cell></Row>\n")
}

func (w *sheetWriter) labelRow(label, value string) {
	w.printf("<Row><Cell ss:StyleID=\"sBold\"><Data ss:Type=\"String\">%s</Data></Cell>"+
		"<Cell><Data ss:Type=\"String\">%s</Data></Cell></Row>\n", EscapeXML(label), EscapeXML(value))
}

func (w *sheetWriter) stringCell(v string) {
	w.printf("<Cell><Data ss:Type=\"String\">%s</Data></Cell>\n", EscapeXML(v))
}

func (w *sheetWriter) numberCell(v int) {
	w.printf("<Cell><Data ss:Type=\"Number\">%d</Data></Cell>\n", v)
}

func (w *sheetWriter) currencyCell(style string, v float64) {
	w.printf("<Cell ss:StyleID=%q><Data ss:Type=\"Number\">%s</Data></Cell>\n", style, Money(v).StringFixed(2))
}

// RenderSpreadsheetML builds the two-sheet SpreadsheetML 2003 workbook: a
// customer invoice that discloses only filament weights, and the internal
// cost breakdown.
func RenderSpreadsheetML(r Report) ([]byte, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	w := &sheetWriter{}
	w.buf.WriteString(spreadsheetMLHeader)
	writeInvoiceSheet(w, r)
	writeBreakdownSheet(w, r)
	w.printf("</Workbook>\n")
	return w.buf.Bytes(), nil
}

func writeInvoiceSheet(w *sheetWriter, r Report) {
	p := r.Params

	w.printf("<Worksheet ss:Name=\"Invoice\">\n")
	w.printf("<Table ss:ExpandedColumnCount=\"5\" x:FullColumns=\"1\" x:FullRows=\"1\" ss:DefaultRowHeight=\"15\">\n")
	w.printf("<Column ss:Width=\"150\"/>\n<Column ss:Width=\"100\"/>\n<Column ss:Width=\"100\"/>\n<Column ss:Width=\"100\"/>\n")

	w.printf("<Row ss:Height=\"20\">\n")
	w.printf("<Cell ss:MergeAcross=\"4\" ss:StyleID=\"sHeader\"><Data ss:Type=\"String\">INVOICE</Data></Cell>\n")
	w.printf("</Row>\n")
	w.emptyRow()

	w.labelRow("From:", p.BusinessName)
	if r.InvoiceID != "" {
		w.labelRow("Invoice #:", r.InvoiceID)
	}
	w.emptyRow()

	w.labelRow("To:", p.CustomerName)
	w.labelRow("Email:", p.CustomerEmail)
	w.labelRow("Phone:", p.CustomerPhone)
	w.emptyRow()

	w.labelRow("Job Name:", p.JobName)
	w.labelRow("Description:", p.JobDescription)
	w.labelRow("Date:", r.dateString())
	w.emptyRow()

	w.printf("<Row ss:StyleID=\"sBold\">\n")
	for _, h := range []string{"Item", "Quantity", "Unit Price", "Total"} {
		w.stringCell(h)
	}
	w.printf("</Row>\n")

	w.printf("<Row>\n")
	w.stringCell("3D Printed Parts")
	w.numberCell(r.Quantity())
	w.currencyCell("sCurrency", r.Breakdown.FinalPrice)
	w.currencyCell("sCurrency", r.Breakdown.TotalJobCost)
	w.printf("</Row>\n")

	w.emptyRow()
	w.emptyRow()

	w.printf("<Row ss:StyleID=\"sBold\"><Cell><Data ss:Type=\"String\">Material Breakdown</Data></Cell></Row>\n")
	for _, f := range r.Filaments {
		w.printf("<Row>\n")
		w.stringCell(filamentLabel(f))
		w.stringCell(filamentWeight(f))
		w.printf("</Row>\n")
	}

	w.printf("</Table>\n</Worksheet>\n")
}

func writeBreakdownSheet(w *sheetWriter, r Report) {
	w.printf("<Worksheet ss:Name=\"Internal Cost Breakdown\">\n")
	w.printf("<Table ss:ExpandedColumnCount=\"2\" x:FullColumns=\"1\" x:FullRows=\"1\" ss:DefaultRowHeight=\"15\">\n")
	w.printf("<Column ss:Width=\"200\"/>\n<Column ss:Width=\"100\"/>\n")

	w.printf("<Row ss:StyleID=\"sBold\"><Cell><Data ss:Type=\"String\">INTERNAL COST BREAKDOWN</Data></Cell></Row>\n")
	w.emptyRow()

	lines := r.costLines()
	for i, l := range lines {
		if l.gap {
			w.emptyRow()
		}
		style := "sCurrency"
		if i == len(lines)-1 {
			style = "sCurrencyBold"
		}
		w.printf("<Row>\n")
		w.stringCell(l.label)
		w.currencyCell(style, l.value)
		w.printf("</Row>\n")
	}

	w.printf("</Table>\n</Worksheet>\n")
}

// ExportSpreadsheetML renders the workbook and writes it to path. The
// document is fully rendered before anything is written, and a failed write
// leaves no partial file.
func ExportSpreadsheetML(path string, r Report) error {
	data, err := RenderSpreadsheetML(r)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// writeFile writes data next to path and renames it into place, so a failed
// write leaves any previous file at path untouched.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
