package valuation

import (
	"fmt"
	"math"
	"strings"

	"dcf_valuation/pkg/core/assumption"
)

// Multiples are the implied valuation multiples off the final explicit
// forecast year, plus the terminal value's share of enterprise value.
type Multiples struct {
	EVToEBITDA  float64 `json:"ev_to_ebitda"`
	EVToRevenue float64 `json:"ev_to_revenue"`
	TVPercentEV float64 `json:"tv_percent_of_ev"`
}

// ImpliedMultiples derives the multiples from a finished run.
func ImpliedMultiples(set assumption.Set, res *Result) Multiples {
	lastYear := res.Projections[set.ForecastYears]
	m := Multiples{}
	if lastYear.EBITDA != 0 {
		m.EVToEBITDA = res.EnterpriseValue / lastYear.EBITDA
	}
	if lastYear.Revenue != 0 {
		m.EVToRevenue = res.EnterpriseValue / lastYear.Revenue
	}
	if res.EnterpriseValue != 0 {
		m.TVPercentEV = res.PVTerminalValue / res.EnterpriseValue * 100
	}
	return m
}

// Summary renders the human-readable result block printed by the CLI and
// embedded in reports.
func Summary(set assumption.Set, res *Result) string {
	m := ImpliedMultiples(set, res)

	var b strings.Builder
	b.WriteString("=== DCF MODEL SUMMARY ===\n")
	fmt.Fprintf(&b, "Enterprise Value: CHF %s\n", FormatAmount(res.EnterpriseValue))
	fmt.Fprintf(&b, "Equity Value: CHF %s\n", FormatAmount(res.EquityValue))

	b.WriteString("\nTerminal Value:\n")
	fmt.Fprintf(&b, "  - Perpetuity Growth Method: CHF %s\n", FormatAmount(res.TerminalValueGrowth))
	fmt.Fprintf(&b, "  - Exit Multiple Method: CHF %s\n", FormatAmount(res.TerminalValueMultiple))
	fmt.Fprintf(&b, "  - PV of Terminal Value: CHF %s\n", FormatAmount(res.PVTerminalValue))
	fmt.Fprintf(&b, "  - %% of Enterprise Value: %.1f%%\n", m.TVPercentEV)

	b.WriteString("\nKey Inputs:\n")
	fmt.Fprintf(&b, "  - Base Revenue: CHF %s\n", FormatAmount(set.BaseRevenue))
	fmt.Fprintf(&b, "  - Revenue Growth Rate: %.1f%%\n", set.RevenueGrowthRate*100)
	fmt.Fprintf(&b, "  - Terminal Growth Rate: %.1f%%\n", set.TerminalGrowthRate*100)
	fmt.Fprintf(&b, "  - EBITDA Margin: %.1f%%\n", set.EBITDAMargin*100)
	fmt.Fprintf(&b, "  - Discount Rate (WACC): %.1f%%\n", set.DiscountRate*100)

	b.WriteString("\nImplied Valuation Multiples:\n")
	fmt.Fprintf(&b, "  - EV/EBITDA: %.2fx\n", m.EVToEBITDA)
	fmt.Fprintf(&b, "  - EV/Revenue: %.2fx\n", m.EVToRevenue)

	return b.String()
}

// FormatAmount renders a currency amount with thousands separators and two
// decimals, e.g. 1234567.8 -> "1,234,567.80".
func FormatAmount(v float64) string {
	neg := v < 0
	v = math.Abs(v)

	whole := int64(v)
	frac := int64(math.Round((v - float64(whole)) * 100))
	if frac == 100 { // rounding carried into the integer part
		whole++
		frac = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := fmt.Sprintf("%s.%02d", strings.Join(groups, ","), frac)
	if neg {
		return "-" + out
	}
	return out
}
