package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dcf_valuation/pkg/core/assumption"
	"dcf_valuation/pkg/core/valuation"
)

// RunRepo stores completed valuation runs: the assumptions that produced
// them next to the full result bundle, keyed by a generated run ID.
type RunRepo struct{}

// NewRunRepo creates a new repository instance.
func NewRunRepo() *RunRepo {
	return &RunRepo{}
}

// RunRecord is a stored engine run.
type RunRecord struct {
	ID           string           `json:"id"`
	ScenarioName string           `json:"scenario_name,omitempty"`
	Assumptions  assumption.Set   `json:"assumptions"`
	Result       valuation.Result `json:"result"`
	CreatedAt    time.Time        `json:"created_at"`
}

// Save persists a run and returns its generated ID.
func (r *RunRepo) Save(ctx context.Context, scenarioName string, set assumption.Set, res *valuation.Result) (string, error) {
	pool := GetPool()
	if pool == nil {
		return "", fmt.Errorf("database pool not initialized")
	}

	id := uuid.New().String()

	setJSON, err := set.ToJSON()
	if err != nil {
		return "", fmt.Errorf("failed to marshal assumptions: %w", err)
	}
	resJSON, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT INTO dcf_runs (id, scenario_name, assumptions, result, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := pool.Exec(ctx, query, id, scenarioName, setJSON, resJSON, time.Now()); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	return id, nil
}

// Recent returns the latest runs, newest first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, scenario_name, assumptions, result, created_at
		FROM dcf_runs ORDER BY created_at DESC LIMIT $1;
	`
	rows, err := pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var setJSON, resJSON []byte
		if err := rows.Scan(&rec.ID, &rec.ScenarioName, &setJSON, &resJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		if rec.Assumptions, err = assumption.FromJSON(setJSON); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run assumptions: %w", err)
		}
		if err := json.Unmarshal(resJSON, &rec.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run result: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
