// Package report renders finished valuation runs for external consumers:
// a markdown/HTML report and an XLSX workbook. It only reads the result
// bundle and grid; it never reaches back into the engine.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/valuation"
)

// BuildMarkdown assembles the full valuation report: headline figures,
// terminal value breakdown, the projection table and (when present) the
// sensitivity grid. grid may be nil.
func BuildMarkdown(set assumption.Set, res *valuation.Result, grid *valuation.Grid) string {
	m := valuation.ImpliedMultiples(set, res)

	var b strings.Builder
	b.WriteString("# DCF Valuation Report\n\n")

	b.WriteString("## Valuation\n\n")
	fmt.Fprintf(&b, "| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Enterprise Value | CHF %s |\n", valuation.FormatAmount(res.EnterpriseValue))
	fmt.Fprintf(&b, "| Equity Value | CHF %s |\n", valuation.FormatAmount(res.EquityValue))
	fmt.Fprintf(&b, "| Terminal Value (Perpetuity Growth) | CHF %s |\n", valuation.FormatAmount(res.TerminalValueGrowth))
	fmt.Fprintf(&b, "| Terminal Value (Exit Multiple) | CHF %s |\n", valuation.FormatAmount(res.TerminalValueMultiple))
	fmt.Fprintf(&b, "| PV of Terminal Value | CHF %s |\n", valuation.FormatAmount(res.PVTerminalValue))
	fmt.Fprintf(&b, "| Terminal Value %% of EV | %.1f%% |\n", m.TVPercentEV)
	fmt.Fprintf(&b, "| Implied EV/EBITDA | %.2fx |\n", m.EVToEBITDA)
	fmt.Fprintf(&b, "| Implied EV/Revenue | %.2fx |\n\n", m.EVToRevenue)

	b.WriteString("## Projections\n\n")
	writeProjectionTable(&b, res.Projections)

	if grid != nil {
		b.WriteString("\n## Sensitivity (Equity Value)\n\n")
		writeSensitivityTable(&b, grid)
	}

	return b.String()
}

func writeProjectionTable(b *strings.Builder, rows []valuation.PeriodRow) {
	b.WriteString("| Period | Revenue | EBITDA | Depreciation | EBIT | Taxes | NOPAT | CAPEX | WC Change | FCF | Discount Factor | PV of FCF |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|---|---|---|---|\n")
	for _, row := range rows {
		pv := ""
		if row.PVOfFCF != nil {
			pv = valuation.FormatAmount(*row.PVOfFCF)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %.4f | %s |\n",
			row.Label,
			valuation.FormatAmount(row.Revenue),
			valuation.FormatAmount(row.EBITDA),
			valuation.FormatAmount(row.Depreciation),
			valuation.FormatAmount(row.EBIT),
			valuation.FormatAmount(row.Taxes),
			valuation.FormatAmount(row.NOPAT),
			valuation.FormatAmount(row.Capex),
			valuation.FormatAmount(row.WCChange),
			valuation.FormatAmount(row.FCF),
			row.DiscountFactor,
			pv,
		)
	}
}

func writeSensitivityTable(b *strings.Builder, grid *valuation.Grid) {
	b.WriteString("| WACC \\ Growth |")
	for _, g := range grid.GrowthRates {
		fmt.Fprintf(b, " %.2f%% |", g*100)
	}
	b.WriteString("\n|---|")
	for range grid.GrowthRates {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for i, rate := range grid.DiscountRates {
		fmt.Fprintf(b, "| %.2f%% |", rate*100)
		for j := range grid.GrowthRates {
			fmt.Fprintf(b, " %s |", valuation.FormatAmount(grid.Cell(i, j)))
		}
		b.WriteString("\n")
	}
}

// RenderHTML converts a markdown report to HTML. Tables need the GFM table
// extension; goldmark's default parser would flatten them to paragraphs.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("markdown conversion failed: %w", err)
	}
	return buf.String(), nil
}
