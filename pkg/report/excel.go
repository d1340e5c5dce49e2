package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/valuation"
)

const (
	sheetProjections = "Projections"
	sheetValuation   = "Valuation"
	sheetSensitivity = "Sensitivity"
)

// WriteExcel writes the valuation workbook to w: one sheet for the
// projection table, one for the scalar outputs and inputs, and one for the
// sensitivity grid when present. grid may be nil.
func WriteExcel(w io.Writer, set assumption.Set, res *valuation.Result, grid *valuation.Grid) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetProjections)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeProjectionSheet(f, headerStyle, res); err != nil {
		return err
	}
	if err := writeValuationSheet(f, headerStyle, set, res); err != nil {
		return err
	}
	if grid != nil {
		if err := writeSensitivitySheet(f, headerStyle, grid); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeProjectionSheet(f *excelize.File, headerStyle int, res *valuation.Result) error {
	headers := []string{"Period", "Revenue", "EBITDA", "Depreciation", "EBIT", "Taxes",
		"NOPAT", "CAPEX", "WC Change", "FCF", "Discount Factor", "PV of FCF"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetProjections, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetProjections, "A1", last, headerStyle)

	for i, row := range res.Projections {
		values := []interface{}{
			row.Label, row.Revenue, row.EBITDA, row.Depreciation, row.EBIT, row.Taxes,
			row.NOPAT, row.Capex, row.WCChange, row.FCF, row.DiscountFactor,
		}
		if row.PVOfFCF != nil {
			values = append(values, *row.PVOfFCF)
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetProjections, cell, v); err != nil {
				return fmt.Errorf("failed to write projection row: %w", err)
			}
		}
	}
	return nil
}

func writeValuationSheet(f *excelize.File, headerStyle int, set assumption.Set, res *valuation.Result) error {
	if _, err := f.NewSheet(sheetValuation); err != nil {
		return fmt.Errorf("failed to create valuation sheet: %w", err)
	}

	m := valuation.ImpliedMultiples(set, res)
	lines := [][2]interface{}{
		{"Metric", "Value"},
		{"Enterprise Value", res.EnterpriseValue},
		{"Equity Value", res.EquityValue},
		{"Terminal Value (Perpetuity Growth)", res.TerminalValueGrowth},
		{"Terminal Value (Exit Multiple)", res.TerminalValueMultiple},
		{"PV of Terminal Value", res.PVTerminalValue},
		{"Terminal Value % of EV", m.TVPercentEV},
		{"Implied EV/EBITDA", m.EVToEBITDA},
		{"Implied EV/Revenue", m.EVToRevenue},
		{"", ""},
		{"Input", "Value"},
		{"Base Revenue", set.BaseRevenue},
		{"Revenue Growth Rate", set.RevenueGrowthRate},
		{"Terminal Growth Rate", set.TerminalGrowthRate},
		{"EBITDA Margin", set.EBITDAMargin},
		{"Tax Rate", set.TaxRate},
		{"Depreciation Rate", set.DepreciationRate},
		{"CAPEX Rate", set.CapexRate},
		{"WC Change Rate", set.WCChangeRate},
		{"Discount Rate (WACC)", set.DiscountRate},
		{"Terminal EBITDA Multiple", set.TerminalEBITDAMultiple},
		{"Net Debt", set.NetDebt},
		{"Forecast Years", set.ForecastYears},
	}

	for i, line := range lines {
		for col, v := range line {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(sheetValuation, cell, v); err != nil {
				return fmt.Errorf("failed to write valuation row: %w", err)
			}
		}
	}
	f.SetCellStyle(sheetValuation, "A1", "B1", headerStyle)
	return nil
}

func writeSensitivitySheet(f *excelize.File, headerStyle int, grid *valuation.Grid) error {
	if _, err := f.NewSheet(sheetSensitivity); err != nil {
		return fmt.Errorf("failed to create sensitivity sheet: %w", err)
	}

	if err := f.SetCellValue(sheetSensitivity, "A1", "WACC \\ Growth"); err != nil {
		return fmt.Errorf("failed to write grid corner: %w", err)
	}
	for j, g := range grid.GrowthRates {
		cell, _ := excelize.CoordinatesToCellName(j+2, 1)
		if err := f.SetCellValue(sheetSensitivity, cell, g); err != nil {
			return fmt.Errorf("failed to write growth header: %w", err)
		}
	}
	for i, rate := range grid.DiscountRates {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(sheetSensitivity, cell, rate); err != nil {
			return fmt.Errorf("failed to write wacc header: %w", err)
		}
		for j := range grid.GrowthRates {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+2)
			if err := f.SetCellValue(sheetSensitivity, cell, grid.Cell(i, j)); err != nil {
				return fmt.Errorf("failed to write grid cell: %w", err)
			}
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(grid.GrowthRates)+1, 1)
	f.SetCellStyle(sheetSensitivity, "A1", last, headerStyle)
	return nil
}
