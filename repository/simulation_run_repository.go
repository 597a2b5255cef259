package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"montyhall/database"
	"montyhall/models"

	"github.com/jackc/pgx/v5"
)

// SimulationRunRepository implements the SimulationRunRepository interface
type SimulationRunRepository struct {
	q database.Queryable
}

// NewSimulationRunRepository creates a new simulation run repository
func NewSimulationRunRepository(db *database.DB) *SimulationRunRepository {
	return &SimulationRunRepository{q: db.Pool}
}

// newSimulationRunRepositoryWithTx creates a new simulation run repository bound to a transaction
func newSimulationRunRepositoryWithTx(tx database.Queryable) *SimulationRunRepository {
	return &SimulationRunRepository{q: tx}
}

const simulationRunColumns = `id, rounds, seed, workers, chunk_size, stay_win_rate, switch_win_rate,
		       summary, duration_ms, created_at`

// Create stores a new run
func (r *SimulationRunRepository) Create(ctx context.Context, run *models.SimulationRun) error {
	summaryJSON, err := json.Marshal(run.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	query := `
		INSERT INTO simulation_runs
		(rounds, seed, workers, chunk_size, stay_win_rate, switch_win_rate, summary, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		run.Rounds,
		run.Seed,
		run.Workers,
		run.ChunkSize,
		run.StayWinRate,
		run.SwitchWinRate,
		summaryJSON,
		run.Duration.Milliseconds(),
	).Scan(&run.ID, &run.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create simulation run with seed %d: %w", run.Seed, err)
	}

	return nil
}

// GetByID retrieves a run by ID, returning nil if it does not exist
func (r *SimulationRunRepository) GetByID(ctx context.Context, id int64) (*models.SimulationRun, error) {
	query := `
		SELECT ` + simulationRunColumns + `
		FROM simulation_runs
		WHERE id = $1
	`

	run, err := scanSimulationRun(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation run %d: %w", id, err)
	}

	return run, nil
}

// GetRecent returns the latest runs, newest first
func (r *SimulationRunRepository) GetRecent(ctx context.Context, limit int) ([]*models.SimulationRun, error) {
	query := `
		SELECT ` + simulationRunColumns + `
		FROM simulation_runs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent simulation runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.SimulationRun
	for rows.Next() {
		run, err := scanSimulationRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating simulation runs: %w", err)
	}

	return runs, nil
}

func scanSimulationRun(row pgx.Row) (*models.SimulationRun, error) {
	var run models.SimulationRun
	var summaryJSON []byte
	var durationMs int64

	err := row.Scan(
		&run.ID,
		&run.Rounds,
		&run.Seed,
		&run.Workers,
		&run.ChunkSize,
		&run.StayWinRate,
		&run.SwitchWinRate,
		&summaryJSON,
		&durationMs,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Duration = time.Duration(durationMs) * time.Millisecond

	if len(summaryJSON) > 0 {
		run.Summary = models.NewBatchSummary()
		if err := json.Unmarshal(summaryJSON, run.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run summary: %w", err)
		}
	}

	return &run, nil
}
