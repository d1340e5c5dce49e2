package valuation

import "dcf_valuation/pkg/core/assumption"

// CalculateWACC computes the weighted average cost of capital from its
// components:
//
//	WACC = We*Ke + Wd*Kd*(1-t) + business risk premium
//
// Pure function; any numeric inputs are accepted, sane ranges are the
// caller's responsibility.
func CalculateWACC(c assumption.WACCComponents) float64 {
	afterTaxCostOfDebt := c.PreTaxCostOfDebt * (1 - c.TaxRate)
	return c.EquityWeight*c.CostOfEquity +
		c.DebtWeight*afterTaxCostOfDebt +
		c.BusinessRiskPremium
}

// ApplyWACC recomputes the WACC from the set's components and overwrites the
// set's discount rate with it. Returns the computed value.
func ApplyWACC(set *assumption.Set) float64 {
	wacc := CalculateWACC(set.WACC)
	set.DiscountRate = wacc
	return wacc
}
