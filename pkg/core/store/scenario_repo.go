package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"dcf_valuation/pkg/core/assumption"
)

// ScenarioRepo handles storage of named assumption sets.
type ScenarioRepo struct{}

// NewScenarioRepo creates a new repository instance.
func NewScenarioRepo() *ScenarioRepo {
	return &ScenarioRepo{}
}

// Save upserts a scenario by name.
func (r *ScenarioRepo) Save(ctx context.Context, name string, set assumption.Set) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if name == "" {
		return fmt.Errorf("scenario name cannot be empty")
	}

	data, err := set.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	query := `
		INSERT INTO dcf_scenarios (name, assumptions, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name)
		DO UPDATE SET
			assumptions = EXCLUDED.assumptions,
			updated_at = EXCLUDED.updated_at;
	`
	if _, err := pool.Exec(ctx, query, name, data, time.Now()); err != nil {
		return fmt.Errorf("failed to save scenario %s: %w", name, err)
	}
	return nil
}

// Load retrieves a scenario by name.
func (r *ScenarioRepo) Load(ctx context.Context, name string) (assumption.Set, error) {
	pool := GetPool()
	if pool == nil {
		return assumption.Set{}, fmt.Errorf("database pool not initialized")
	}

	var data []byte
	err := pool.QueryRow(ctx, `SELECT assumptions FROM dcf_scenarios WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return assumption.Set{}, fmt.Errorf("no scenario named %s", name)
		}
		return assumption.Set{}, fmt.Errorf("failed to load scenario %s: %w", name, err)
	}

	set, err := assumption.FromJSON(data)
	if err != nil {
		return assumption.Set{}, fmt.Errorf("failed to unmarshal scenario %s: %w", name, err)
	}
	return set, nil
}

// ScenarioInfo is one row of a scenario listing.
type ScenarioInfo struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
}

// List returns all stored scenarios, most recently updated first.
func (r *ScenarioRepo) List(ctx context.Context) ([]ScenarioInfo, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx, `SELECT name, updated_at FROM dcf_scenarios ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	defer rows.Close()

	var out []ScenarioInfo
	for rows.Next() {
		var info ScenarioInfo
		if err := rows.Scan(&info.Name, &info.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan scenario row: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
