package assumption

import (
	"math"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	s := NewDefault()

	if s.BaseRevenue != 1_500_000 {
		t.Errorf("expected base revenue 1500000, got %v", s.BaseRevenue)
	}
	if s.ForecastYears != 5 {
		t.Errorf("expected 5 forecast years, got %d", s.ForecastYears)
	}
	if s.WACC.EquityWeight != 0.70 {
		t.Errorf("expected equity weight 0.70, got %v", s.WACC.EquityWeight)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("default set should validate, got %v", err)
	}
}

func TestSetInputs(t *testing.T) {
	s := NewDefault()

	warnings := s.SetInputs(map[string]float64{
		"base_revenue":   2_000_000,
		"discount_rate":  0.11,
		"forecast_years": 7,
	})

	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if s.BaseRevenue != 2_000_000 {
		t.Errorf("base revenue not updated, got %v", s.BaseRevenue)
	}
	if s.DiscountRate != 0.11 {
		t.Errorf("discount rate not updated, got %v", s.DiscountRate)
	}
	if s.ForecastYears != 7 {
		t.Errorf("forecast years not updated, got %d", s.ForecastYears)
	}
}

func TestSetInputs_UnknownField(t *testing.T) {
	s := NewDefault()

	warnings := s.SetInputs(map[string]float64{
		"base_revenue": 2_000_000,
		"ebita_margin": 0.30, // typo, must warn but not abort
	})

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if !strings.Contains(warnings[0], "ebita_margin") {
		t.Errorf("warning should name the bad field: %s", warnings[0])
	}
	// The valid field must still be applied.
	if s.BaseRevenue != 2_000_000 {
		t.Errorf("valid update dropped, base revenue = %v", s.BaseRevenue)
	}
	// The typo must not have touched the real field.
	if s.EBITDAMargin != 0.25 {
		t.Errorf("ebitda margin changed by unknown key, got %v", s.EBITDAMargin)
	}
}

func TestSetWACCComponents(t *testing.T) {
	s := NewDefault()

	warnings := s.SetWACCComponents(map[string]float64{
		"cost_of_equity": 0.12,
		"beta":           1.1,
	})

	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if s.WACC.CostOfEquity != 0.12 {
		t.Errorf("cost of equity not updated, got %v", s.WACC.CostOfEquity)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Set)
		ok     bool
	}{
		{"default", func(s *Set) {}, true},
		{"zero revenue", func(s *Set) { s.BaseRevenue = 0 }, false},
		{"negative revenue", func(s *Set) { s.BaseRevenue = -1 }, false},
		{"zero years", func(s *Set) { s.ForecastYears = 0 }, false},
		{"zero multiple", func(s *Set) { s.TerminalEBITDAMultiple = 0 }, false},
		{"one year horizon", func(s *Set) { s.ForecastYears = 1 }, true},
	}

	for _, tc := range cases {
		s := NewDefault()
		tc.mutate(&s)
		err := s.Validate()
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("%s: expected error, got nil", tc.name)
		}
	}
}

func TestValueSemantics(t *testing.T) {
	original := NewDefault()
	copied := original

	copied.DiscountRate = 0.5
	copied.WACC.CostOfEquity = 0.99

	if original.DiscountRate != 0.102 {
		t.Errorf("copy mutated the original discount rate: %v", original.DiscountRate)
	}
	if original.WACC.CostOfEquity != 0.10 {
		t.Errorf("copy mutated the original WACC bundle: %v", original.WACC.CostOfEquity)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	s := NewDefault()
	s.NetDebt = -50_000 // net cash positions are legal

	data, err := s.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if math.Abs(back.NetDebt-s.NetDebt) > 1e-9 {
		t.Errorf("net debt mismatch: got %v, want %v", back.NetDebt, s.NetDebt)
	}
	if back != s {
		t.Errorf("round trip changed the set: got %+v", back)
	}
}

func TestFromJSON_PartialDocument(t *testing.T) {
	back, err := FromJSON([]byte(`{"base_revenue": 900000}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.BaseRevenue != 900_000 {
		t.Errorf("explicit field lost, got %v", back.BaseRevenue)
	}
	// Omitted fields fall back to the defaults.
	if back.ForecastYears != 5 {
		t.Errorf("default forecast years lost, got %d", back.ForecastYears)
	}
}
