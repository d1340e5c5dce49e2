package valuation

import (
	"fmt"
	"math"

	"dcf_valuation/pkg/core/assumption"
)

// Grid is the output of a sensitivity sweep: equity values (rounded to the
// nearest currency unit) for every combination of discount rate and terminal
// growth rate. Cells are indexed by position, not by value, so duplicate
// candidates in either axis cannot collide.
type Grid struct {
	DiscountRates []float64 `json:"discount_rates"`
	GrowthRates   []float64 `json:"growth_rates"`
	// EquityValues[i][j] belongs to DiscountRates[i] x GrowthRates[j].
	EquityValues [][]float64 `json:"equity_values"`
}

// Cell returns the equity value at (discount index, growth index).
func (g *Grid) Cell(i, j int) float64 {
	return g.EquityValues[i][j]
}

// RunSensitivity sweeps the engine over every (discount rate, terminal
// growth) pair, all other assumptions held fixed. Each cell is a full engine
// run on a modified copy of the set; the caller's set is never touched, so
// there is no state to restore afterwards.
//
// A pair with discountRate <= growthRate fails the whole sweep with the
// offending cell identified; no partial grid is returned.
func RunSensitivity(set assumption.Set, discountRates, growthRates []float64) (*Grid, error) {
	grid := &Grid{
		DiscountRates: discountRates,
		GrowthRates:   growthRates,
		EquityValues:  make([][]float64, len(discountRates)),
	}

	for i, rate := range discountRates {
		row := make([]float64, len(growthRates))
		for j, growth := range growthRates {
			cell := set
			cell.DiscountRate = rate
			cell.TerminalGrowthRate = growth

			res, err := Run(cell)
			if err != nil {
				return nil, fmt.Errorf("sensitivity cell (wacc=%.4f, growth=%.4f): %w", rate, growth, err)
			}
			row[j] = math.Round(res.EquityValue)
		}
		grid.EquityValues[i] = row
	}

	return grid, nil
}

// BracketRange returns size candidates centered on mid, stepping by step and
// rounded to 4 decimals. size should be odd so mid lands on the middle cell;
// this mirrors how the interactive surface builds its sweep axes.
func BracketRange(mid, step float64, size int) []float64 {
	out := make([]float64, 0, size)
	half := size / 2
	for i := -half; i <= size-half-1; i++ {
		v := mid + float64(i)*step
		out = append(out, math.Round(v*10000)/10000)
	}
	return out
}
