package assumption

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_StrictJSON(t *testing.T) {
	s, err := Parse([]byte(`{"base_revenue": 2500000, "discount_rate": 0.095}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BaseRevenue != 2_500_000 {
		t.Errorf("base revenue = %v", s.BaseRevenue)
	}
	if s.DiscountRate != 0.095 {
		t.Errorf("discount rate = %v", s.DiscountRate)
	}
}

func TestParse_RepairableJSON(t *testing.T) {
	// Trailing comma and single quotes: standard JSON rejects these,
	// the repair pass should recover both.
	input := `{'base_revenue': 2500000, 'net_debt': 100000,}`

	s, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BaseRevenue != 2_500_000 {
		t.Errorf("base revenue = %v", s.BaseRevenue)
	}
	if s.NetDebt != 100_000 {
		t.Errorf("net debt = %v", s.NetDebt)
	}
}

func TestParse_Hjson(t *testing.T) {
	input := `
	{
	  # hand-written scenario
	  base_revenue: 1800000
	  revenue_growth_rate: 0.10
	  forecast_years: 6
	}`

	s, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BaseRevenue != 1_800_000 {
		t.Errorf("base revenue = %v", s.BaseRevenue)
	}
	if s.ForecastYears != 6 {
		t.Errorf("forecast years = %d", s.ForecastYears)
	}
	// Fields the file does not mention keep their defaults.
	if s.EBITDAMargin != 0.25 {
		t.Errorf("ebitda margin = %v", s.EBITDAMargin)
	}
}

func TestParse_Garbage(t *testing.T) {
	if _, err := Parse([]byte("<<not a scenario>>")); err == nil {
		t.Fatal("expected error for unparseable input")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.hjson")
	content := `{
	  // stress case
	  base_revenue: 1200000
	  terminal_growth_rate: 0.015
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BaseRevenue != 1_200_000 {
		t.Errorf("base revenue = %v", s.BaseRevenue)
	}
	if s.TerminalGrowthRate != 0.015 {
		t.Errorf("terminal growth = %v", s.TerminalGrowthRate)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.hjson")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
