package valuation

import (
	"math"
	"strings"
	"testing"

	"dcf_valuation/pkg/core/assumption"
)

func TestImpliedMultiples(t *testing.T) {
	set := assumption.NewDefault()
	res := mustRun(t, set)

	m := ImpliedMultiples(set, res)
	lastYear := res.Projections[set.ForecastYears]

	if math.Abs(m.EVToEBITDA-res.EnterpriseValue/lastYear.EBITDA) > tol {
		t.Errorf("EV/EBITDA = %v", m.EVToEBITDA)
	}
	if math.Abs(m.EVToRevenue-res.EnterpriseValue/lastYear.Revenue) > tol {
		t.Errorf("EV/Revenue = %v", m.EVToRevenue)
	}
	if m.TVPercentEV <= 0 || m.TVPercentEV >= 100 {
		t.Errorf("TV %% of EV should be between 0 and 100 here, got %v", m.TVPercentEV)
	}
}

func TestSummary(t *testing.T) {
	set := assumption.NewDefault()
	res := mustRun(t, set)

	out := Summary(set, res)

	for _, want := range []string{
		"=== DCF MODEL SUMMARY ===",
		"Enterprise Value: CHF ",
		"Equity Value: CHF ",
		"Perpetuity Growth Method",
		"Exit Multiple Method",
		"Discount Rate (WACC): 10.2%",
		"EV/EBITDA",
		"EV/Revenue",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00"},
		{999, "999.00"},
		{1000, "1,000.00"},
		{1234567.8, "1,234,567.80"},
		{-20000, "-20,000.00"},
		{999.999, "1,000.00"}, // rounding carries into the next group
	}
	for _, tc := range cases {
		if got := FormatAmount(tc.in); got != tc.want {
			t.Errorf("FormatAmount(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
