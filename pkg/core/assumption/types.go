// Package assumption implements the AssumptionSet consumed by the valuation
// engine: a bundle of scalar financial parameters plus the WACC sub-bundle.
// Sets are plain value types; copying one is always safe, which is what keeps
// the sensitivity sweep side-effect free.
package assumption

import (
	"encoding/json"
	"fmt"
)

// WACCComponents is the sub-bundle used to derive the discount rate.
// equity_weight + debt_weight should sum to 1; this is not enforced.
type WACCComponents struct {
	EquityWeight        float64 `json:"equity_weight"`
	DebtWeight          float64 `json:"debt_weight"`
	CostOfEquity        float64 `json:"cost_of_equity"`
	PreTaxCostOfDebt    float64 `json:"pre_tax_cost_of_debt"`
	TaxRate             float64 `json:"tax_rate"`
	BusinessRiskPremium float64 `json:"business_risk_premium"`
}

// Set holds every scalar input of a single valuation run.
type Set struct {
	BaseRevenue            float64 `json:"base_revenue"`
	RevenueGrowthRate      float64 `json:"revenue_growth_rate"`
	TerminalGrowthRate     float64 `json:"terminal_growth_rate"`
	EBITDAMargin           float64 `json:"ebitda_margin"`
	TaxRate                float64 `json:"tax_rate"`
	DepreciationRate       float64 `json:"depreciation_rate"`
	CapexRate              float64 `json:"capex_rate"`
	WCChangeRate           float64 `json:"wc_change_rate"`
	DiscountRate           float64 `json:"discount_rate"`
	TerminalEBITDAMultiple float64 `json:"terminal_ebitda_multiple"`
	NetDebt                float64 `json:"net_debt"`
	ForecastYears          int     `json:"forecast_years"`

	WACC WACCComponents `json:"wacc_components"`
}

// NewDefault returns the reference scenario the model ships with
// (a small Swiss training & consulting company).
func NewDefault() Set {
	return Set{
		BaseRevenue:            1_500_000,
		RevenueGrowthRate:      0.12,
		TerminalGrowthRate:     0.02,
		EBITDAMargin:           0.25,
		TaxRate:                0.1379,
		DepreciationRate:       0.03,
		CapexRate:              0.01,
		WCChangeRate:           0.15,
		DiscountRate:           0.102,
		TerminalEBITDAMultiple: 1.2,
		NetDebt:                20_000,
		ForecastYears:          5,
		WACC: WACCComponents{
			EquityWeight:        0.70,
			DebtWeight:          0.30,
			CostOfEquity:        0.10,
			PreTaxCostOfDebt:    0.035,
			TaxRate:             0.18,
			BusinessRiskPremium: 0.023,
		},
	}
}

// SetInputs applies named field updates to the set. Unknown field names are
// reported as warnings; the corresponding update is skipped and the remaining
// fields are still applied.
func (s *Set) SetInputs(inputs map[string]float64) []string {
	var warnings []string
	for key, value := range inputs {
		switch key {
		case "base_revenue":
			s.BaseRevenue = value
		case "revenue_growth_rate":
			s.RevenueGrowthRate = value
		case "terminal_growth_rate":
			s.TerminalGrowthRate = value
		case "ebitda_margin":
			s.EBITDAMargin = value
		case "tax_rate":
			s.TaxRate = value
		case "depreciation_rate":
			s.DepreciationRate = value
		case "capex_rate":
			s.CapexRate = value
		case "wc_change_rate":
			s.WCChangeRate = value
		case "discount_rate":
			s.DiscountRate = value
		case "terminal_ebitda_multiple":
			s.TerminalEBITDAMultiple = value
		case "net_debt":
			s.NetDebt = value
		case "forecast_years":
			s.ForecastYears = int(value)
		default:
			warnings = append(warnings, fmt.Sprintf("Warning: %s is not a valid input parameter", key))
		}
	}
	return warnings
}

// SetWACCComponents applies named updates to the WACC sub-bundle. Unknown
// component names are reported as warnings, mirroring SetInputs.
func (s *Set) SetWACCComponents(inputs map[string]float64) []string {
	var warnings []string
	for key, value := range inputs {
		switch key {
		case "equity_weight":
			s.WACC.EquityWeight = value
		case "debt_weight":
			s.WACC.DebtWeight = value
		case "cost_of_equity":
			s.WACC.CostOfEquity = value
		case "pre_tax_cost_of_debt":
			s.WACC.PreTaxCostOfDebt = value
		case "tax_rate":
			s.WACC.TaxRate = value
		case "business_risk_premium":
			s.WACC.BusinessRiskPremium = value
		default:
			warnings = append(warnings, fmt.Sprintf("Warning: %s is not a valid WACC component", key))
		}
	}
	return warnings
}

// Validate checks the hard constraints on a set. Soft range expectations
// (margins in [0,1] and the like) are the caller's responsibility.
func (s Set) Validate() error {
	if s.BaseRevenue <= 0 {
		return fmt.Errorf("base_revenue must be positive, got %v", s.BaseRevenue)
	}
	if s.ForecastYears < 1 {
		return fmt.Errorf("forecast_years must be at least 1, got %d", s.ForecastYears)
	}
	if s.TerminalEBITDAMultiple <= 0 {
		return fmt.Errorf("terminal_ebitda_multiple must be positive, got %v", s.TerminalEBITDAMultiple)
	}
	return nil
}

// ToJSON serializes the set for the frontend and the scenario store.
func (s Set) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// FromJSON deserializes a set, starting from defaults so that partial
// documents still yield a runnable scenario.
func FromJSON(data []byte) (Set, error) {
	s := NewDefault()
	if err := json.Unmarshal(data, &s); err != nil {
		return Set{}, err
	}
	return s, nil
}
