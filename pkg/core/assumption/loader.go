package assumption

import (
	"encoding/json"
	"fmt"
	"os"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// Parse decodes a scenario document into a Set. It tries strategies from
// strictest to most lenient:
//  1. standard JSON
//  2. JSON repair (trailing commas, single quotes, unclosed braces)
//  3. Hjson (comments, unquoted keys, optional commas)
//
// Scenario files are written by hand, so lenient parsing is deliberate.
func Parse(input []byte) (Set, error) {
	s := NewDefault()

	if err := json.Unmarshal(input, &s); err == nil {
		return s, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(input)); err == nil {
		s = NewDefault()
		if err := json.Unmarshal([]byte(repaired), &s); err == nil {
			return s, nil
		}
	}

	s = NewDefault()
	if err := hjson.Unmarshal(input, &s); err == nil {
		return s, nil
	}

	return Set{}, fmt.Errorf("scenario parse failed: input is not valid JSON or Hjson")
}

// LoadFile reads and parses a scenario file (.json or .hjson).
func LoadFile(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return Set{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return s, nil
}
