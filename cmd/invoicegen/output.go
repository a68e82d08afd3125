package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/export"
	"github.com/D1odeKing/OrcaSlicer-InvoiceGenerator/internal/invoice"
)

var (
	stdoutRenderer = lipgloss.NewRenderer(os.Stdout)
	stderrRenderer = lipgloss.NewRenderer(os.Stderr)

	statusStyle  = stdoutRenderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	errorStyle   = stderrRenderer.NewStyle().Bold(true).Foreground(lipgloss.Color("208"))
	sectionStyle = stdoutRenderer.NewStyle().Bold(true).Underline(true)
	labelStyle   = stdoutRenderer.NewStyle().Width(28)
	valueStyle   = stdoutRenderer.NewStyle().Width(14).Align(lipgloss.Right)
	totalStyle   = valueStyle.Bold(true)
)

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func writeStatus(w io.Writer, verb string, style lipgloss.Style, format string, args ...any) {
	styled := style.Render(fmt.Sprintf("%12s", verb))
	fmt.Fprintf(w, "%s %s\n", styled, fmt.Sprintf(format, args...))
}

func printStatus(w io.Writer, verb, format string, args ...any) {
	writeStatus(w, verb, statusStyle, format, args...)
}

func printError(w io.Writer, err error) {
	writeStatus(w, "error", errorStyle, "%v", err)
}

func formatMoney(v float64) string {
	return export.FormatMoney(v)
}

func row(w io.Writer, label, value string, style lipgloss.Style) {
	fmt.Fprintf(w, "%s%s\n", labelStyle.Render(label), style.Render(value))
}

func printQuote(w io.Writer, q invoice.Quote) {
	b := q.Breakdown

	fmt.Fprintln(w, sectionStyle.Render("Job"))
	if q.Params.JobName != "" {
		row(w, "Name", q.Params.JobName, valueStyle)
	}
	row(w, "Print time", q.PrintTime, valueStyle)
	row(w, "Parts", fmt.Sprintf("%d", q.TotalParts), valueStyle)
	row(w, "Filament", fmt.Sprintf("%.2f g", b.TotalFilamentG), valueStyle)
	fmt.Fprintln(w)

	if len(q.Filaments) > 0 {
		fmt.Fprintln(w, sectionStyle.Render("Materials"))
		for _, f := range q.Filaments {
			label := fmt.Sprintf("T%d %s", f.ExtruderID, f.Name)
			fmt.Fprintf(w, "%s%s%s\n", labelStyle.Render(label),
				valueStyle.Render(fmt.Sprintf("%.2f g", f.WeightG)),
				valueStyle.Render(formatMoney(f.CalculatedCost)))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, sectionStyle.Render("Cost per plate"))
	row(w, "Material", formatMoney(b.MaterialCost), valueStyle)
	row(w, "Labor", formatMoney(b.LaborCost), valueStyle)
	row(w, "Machine", formatMoney(b.MachineCost), valueStyle)
	row(w, "Tooling", formatMoney(b.ToolingCost), valueStyle)
	row(w, "Post-processing", formatMoney(b.PostProcessCost), valueStyle)
	row(w, "Subtotal", formatMoney(b.Subtotal), valueStyle)
	row(w, "Failure adjustment", formatMoney(b.FailureAdjustment), valueStyle)
	row(w, "Total per plate", formatMoney(b.TotalPlateCost), totalStyle)
	fmt.Fprintln(w)

	fmt.Fprintln(w, sectionStyle.Render("Pricing"))
	row(w, "Cost per part", formatMoney(b.CostPerPart), valueStyle)
	row(w, fmt.Sprintf("Markup (%.0f%%)", q.Params.MarkupPercent), formatMoney(b.MarkupAmount), valueStyle)
	row(w, "Price per part", formatMoney(b.FinalPrice), valueStyle)
	row(w, "Total job", formatMoney(b.TotalJobCost), totalStyle)
}
