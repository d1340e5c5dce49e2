// Command dcf runs the valuation once from the command line: load a scenario,
// print the summary and a sensitivity table, optionally write the XLSX report.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/valuation"
	"dcf_valuation/pkg/report"
)

// overrideFlags collects repeated -set name=value arguments.
type overrideFlags map[string]float64

func (o overrideFlags) String() string { return "" }

func (o overrideFlags) Set(arg string) error {
	name, raw, ok := strings.Cut(arg, "=")
	if !ok {
		return fmt.Errorf("expected name=value, got %q", arg)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("bad value for %s: %w", name, err)
	}
	o[name] = value
	return nil
}

func main() {
	scenarioPath := flag.String("scenario", "", "path to a scenario file (.json or .hjson); defaults to the built-in scenario")
	xlsxPath := flag.String("xlsx", "", "optional path to write the XLSX report")
	useWACC := flag.Bool("wacc", false, "derive the discount rate from the WACC components instead of using it directly")
	overrides := overrideFlags{}
	flag.Var(overrides, "set", "override an input parameter, e.g. -set discount_rate=0.095 (repeatable)")
	flag.Parse()

	godotenv.Load()

	set := assumption.NewDefault()
	if *scenarioPath != "" {
		loaded, err := assumption.LoadFile(*scenarioPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		set = loaded
	}

	// Unknown parameter names warn but never abort the run.
	for _, warning := range set.SetInputs(overrides) {
		fmt.Fprintln(os.Stderr, warning)
	}

	if *useWACC {
		wacc := valuation.ApplyWACC(&set)
		fmt.Printf("Calculated WACC: %.2f%%\n\n", wacc*100)
	}

	res, err := valuation.Run(set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(valuation.Summary(set, res))

	grid, err := valuation.RunSensitivity(set,
		valuation.BracketRange(set.DiscountRate, 0.01, 5),
		valuation.BracketRange(set.TerminalGrowthRate, 0.005, 5))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\n=== SENSITIVITY ANALYSIS (Equity Value in CHF) ===")
	printGrid(grid)

	if *xlsxPath != "" {
		file, err := os.Create(*xlsxPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		if err := report.WriteExcel(file, set, res, grid); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s\n", *xlsxPath)
	}
}

func printGrid(grid *valuation.Grid) {
	fmt.Printf("%12s", "WACC \\ g")
	for _, g := range grid.GrowthRates {
		fmt.Printf("%14.2f%%", g*100)
	}
	fmt.Println()

	for i, rate := range grid.DiscountRates {
		fmt.Printf("%11.2f%%", rate*100)
		for j := range grid.GrowthRates {
			fmt.Printf("%15s", valuation.FormatAmount(grid.Cell(i, j)))
		}
		fmt.Println()
	}
}
