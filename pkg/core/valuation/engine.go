// Package valuation implements the DCF engine: a deterministic pipeline that
// turns an assumption.Set into a year-indexed projection table, a terminal
// value under two methods, an enterprise value and an equity value.
package valuation

import (
	"errors"
	"fmt"
	"math"

	"dcf_valuation/pkg/core/assumption"
)

// ErrTerminalValueUndefined signals the degenerate perpetuity condition
// (discount rate not strictly above terminal growth). Callers should treat it
// as recoverable: adjust the assumptions and retry.
var ErrTerminalValueUndefined = errors.New("terminal value undefined")

// PeriodRow is one row of the projection table with every derived column
// always present. PVOfFCF is nil on the Terminal row; the terminal cash flow
// is discounted through the terminal value instead.
type PeriodRow struct {
	Label          string   `json:"label"`
	Revenue        float64  `json:"revenue"`
	EBITDA         float64  `json:"ebitda"`
	Depreciation   float64  `json:"depreciation"`
	EBIT           float64  `json:"ebit"`
	Taxes          float64  `json:"taxes"`
	NOPAT          float64  `json:"nopat"`
	Capex          float64  `json:"capex"`
	WCChange       float64  `json:"wc_change"`
	FCF            float64  `json:"fcf"`
	DiscountFactor float64  `json:"discount_factor"`
	PVOfFCF        *float64 `json:"pv_of_fcf,omitempty"`
}

// Result is the complete output bundle of one engine run. All scalars are
// derived from the same projection table; the engine never returns one
// without the other.
type Result struct {
	Projections []PeriodRow `json:"projections"`

	TerminalValueGrowth   float64 `json:"terminal_value_growth"`
	TerminalValueMultiple float64 `json:"terminal_value_multiple"`
	// TerminalValue is the selected method, always the perpetuity growth one.
	// The exit multiple figure is reported alongside but never enters the
	// enterprise value.
	TerminalValue   float64 `json:"terminal_value"`
	PVTerminalValue float64 `json:"pv_terminal_value"`
	EnterpriseValue float64 `json:"enterprise_value"`
	EquityValue     float64 `json:"equity_value"`
}

// Run executes the full DCF calculation for the given assumption set and
// returns a freshly built result. The input is taken by value, so a run can
// never mutate caller state; rerunning with the same set gives bit-identical
// output.
func Run(set assumption.Set) (*Result, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if set.DiscountRate <= set.TerminalGrowthRate {
		return nil, fmt.Errorf("%w: discount rate %.4f must exceed terminal growth %.4f",
			ErrTerminalValueUndefined, set.DiscountRate, set.TerminalGrowthRate)
	}

	n := set.ForecastYears

	// rows[0] = Base, rows[1..n] = forecast years, rows[n+1] = Terminal.
	rows := make([]PeriodRow, n+2)
	rows[0].Label = "Base"
	for i := 1; i <= n; i++ {
		rows[i].Label = fmt.Sprintf("Year %d", i)
	}
	rows[n+1].Label = "Terminal"

	// Each stage reads only columns populated by the ones before it.
	projectRevenue(rows, set)
	applyRevenueRatios(rows, set)
	deriveEarnings(rows, set)
	projectWorkingCapital(rows, set)
	deriveFreeCashFlow(rows)
	applyDiscountFactors(rows, set)

	res := &Result{Projections: rows}
	res.computeTerminalValue(rows, set)
	res.computeEnterpriseValue(rows, set)
	res.EquityValue = res.EnterpriseValue - set.NetDebt

	return res, nil
}

// projectRevenue fills the Revenue column: base year as given, forecast years
// compounding at the growth rate, terminal year one step of terminal growth
// past Year N.
func projectRevenue(rows []PeriodRow, set assumption.Set) {
	n := set.ForecastYears
	rows[0].Revenue = set.BaseRevenue
	for i := 1; i <= n; i++ {
		rows[i].Revenue = rows[i-1].Revenue * (1 + set.RevenueGrowthRate)
	}
	rows[n+1].Revenue = rows[n].Revenue * (1 + set.TerminalGrowthRate)
}

// applyRevenueRatios fills the columns that are plain fractions of revenue:
// EBITDA, depreciation and capex.
func applyRevenueRatios(rows []PeriodRow, set assumption.Set) {
	for i := range rows {
		rows[i].EBITDA = rows[i].Revenue * set.EBITDAMargin
		rows[i].Depreciation = rows[i].Revenue * set.DepreciationRate
		rows[i].Capex = rows[i].Revenue * set.CapexRate
	}
}

// deriveEarnings fills EBIT, taxes and NOPAT. Taxes have no floor at zero: a
// negative EBIT produces a negative tax line.
func deriveEarnings(rows []PeriodRow, set assumption.Set) {
	for i := range rows {
		rows[i].EBIT = rows[i].EBITDA - rows[i].Depreciation
		rows[i].Taxes = rows[i].EBIT * set.TaxRate
		rows[i].NOPAT = rows[i].EBIT - rows[i].Taxes
	}
}

// projectWorkingCapital fills the WC Change column as a fraction of the
// period-over-period revenue delta. The base year has no prior period and is
// fixed at zero.
func projectWorkingCapital(rows []PeriodRow, set assumption.Set) {
	rows[0].WCChange = 0
	for i := 1; i < len(rows); i++ {
		rows[i].WCChange = (rows[i].Revenue - rows[i-1].Revenue) * set.WCChangeRate
	}
}

// deriveFreeCashFlow fills FCF = NOPAT + Depreciation - Capex - WC Change for
// every period including Terminal.
func deriveFreeCashFlow(rows []PeriodRow) {
	for i := range rows {
		rows[i].FCF = rows[i].NOPAT + rows[i].Depreciation - rows[i].Capex - rows[i].WCChange
	}
}

// applyDiscountFactors fills the Discount Factor and PV of FCF columns. The
// terminal row reuses the Year-N factor: the terminal value is discounted
// back with the last explicit-period factor, not an extra period. PV of FCF
// is left nil on the terminal row.
func applyDiscountFactors(rows []PeriodRow, set assumption.Set) {
	n := set.ForecastYears
	rows[0].DiscountFactor = 1.0
	for i := 1; i <= n; i++ {
		rows[i].DiscountFactor = 1 / math.Pow(1+set.DiscountRate, float64(i))
	}
	rows[n+1].DiscountFactor = rows[n].DiscountFactor

	for i := 0; i <= n; i++ {
		pv := rows[i].FCF * rows[i].DiscountFactor
		rows[i].PVOfFCF = &pv
	}
}

// computeTerminalValue fills both terminal value methods. Perpetuity growth
// is the reporting default; the exit multiple is informational only. The
// degenerate denominator is already ruled out at the top of Run.
func (r *Result) computeTerminalValue(rows []PeriodRow, set assumption.Set) {
	n := set.ForecastYears

	r.TerminalValueGrowth = rows[n+1].FCF / (set.DiscountRate - set.TerminalGrowthRate)
	r.TerminalValueMultiple = rows[n].EBITDA * set.TerminalEBITDAMultiple

	r.TerminalValue = r.TerminalValueGrowth
	r.PVTerminalValue = r.TerminalValue * rows[n].DiscountFactor
}

// computeEnterpriseValue sums the discounted explicit-period cash flows and
// the discounted terminal value. The base year is excluded: only Years 1..N
// contribute.
func (r *Result) computeEnterpriseValue(rows []PeriodRow, set assumption.Set) {
	var sumPV float64
	for i := 1; i <= set.ForecastYears; i++ {
		sumPV += *rows[i].PVOfFCF
	}
	r.EnterpriseValue = sumPV + r.PVTerminalValue
}
