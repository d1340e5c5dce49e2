package valuation

import (
	"math"
	"testing"

	"dcf_valuation/pkg/core/assumption"
)

func TestCalculateWACC(t *testing.T) {
	c := assumption.WACCComponents{
		EquityWeight:        0.70,
		DebtWeight:          0.30,
		CostOfEquity:        0.10,
		PreTaxCostOfDebt:    0.035,
		TaxRate:             0.18,
		BusinessRiskPremium: 0.023,
	}

	// 0.70*0.10 + 0.30*0.035*(1-0.18) + 0.023 = 0.10161
	got := CalculateWACC(c)
	if math.Abs(got-0.10161) > 1e-9 {
		t.Errorf("WACC = %v, want 0.10161", got)
	}
}

func TestCalculateWACC_ZeroComponents(t *testing.T) {
	// No error conditions: any numeric inputs are accepted.
	if got := CalculateWACC(assumption.WACCComponents{}); got != 0 {
		t.Errorf("WACC of zero bundle = %v, want 0", got)
	}
}

func TestApplyWACC_OverwritesDiscountRate(t *testing.T) {
	set := assumption.NewDefault()
	if set.DiscountRate != 0.102 {
		t.Fatalf("unexpected default discount rate %v", set.DiscountRate)
	}

	wacc := ApplyWACC(&set)

	if set.DiscountRate != wacc {
		t.Errorf("discount rate %v not overwritten with computed WACC %v", set.DiscountRate, wacc)
	}
	if math.Abs(wacc-0.10161) > 1e-9 {
		t.Errorf("computed WACC = %v, want 0.10161", wacc)
	}
}

func TestApplyWACC_AfterComponentUpdate(t *testing.T) {
	set := assumption.NewDefault()
	warnings := set.SetWACCComponents(map[string]float64{
		"cost_of_equity": 0.12,
	})
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}

	wacc := ApplyWACC(&set)
	// 0.70*0.12 + 0.30*0.035*0.82 + 0.023 = 0.11561
	if math.Abs(wacc-0.11561) > 1e-9 {
		t.Errorf("WACC = %v, want 0.11561", wacc)
	}
}
