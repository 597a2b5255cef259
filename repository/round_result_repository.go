package repository

import (
	"context"
	"fmt"

	"montyhall/database"
	"montyhall/models"

	"github.com/jackc/pgx/v5"
)

// RoundResultRepository implements the RoundResultRepository interface
type RoundResultRepository struct {
	q database.Queryable
}

// NewRoundResultRepository creates a new round result repository
func NewRoundResultRepository(db *database.DB) *RoundResultRepository {
	return &RoundResultRepository{q: db.Pool}
}

// newRoundResultRepositoryWithTx creates a new round result repository bound to a transaction
func newRoundResultRepositoryWithTx(tx database.Queryable) *RoundResultRepository {
	return &RoundResultRepository{q: tx}
}

// CreateBatch bulk-loads the records of a run with COPY.
// Records are expected in round order, two per round.
func (r *RoundResultRepository) CreateBatch(ctx context.Context, runID int64, records []models.RoundResult) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		record := records[i]
		return []any{runID, i/2 + 1, string(record.Strategy), string(record.Outcome)}, nil
	})

	written, err := r.q.CopyFrom(ctx,
		pgx.Identifier{"round_results"},
		[]string{"run_id", "round_number", "strategy", "outcome"},
		rows,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy %d round results for run %d: %w", len(records), runID, err)
	}

	return written, nil
}

// GetByRun returns the records of a run ordered by round, stay before switch
func (r *RoundResultRepository) GetByRun(ctx context.Context, runID int64) ([]*models.StoredRoundResult, error) {
	query := `
		SELECT run_id, round_number, strategy, outcome
		FROM round_results
		WHERE run_id = $1
		ORDER BY round_number, CASE strategy WHEN 'stay' THEN 0 ELSE 1 END
	`

	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query round results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []*models.StoredRoundResult
	for rows.Next() {
		var result models.StoredRoundResult
		if err := rows.Scan(&result.RunID, &result.RoundNumber, &result.Strategy, &result.Outcome); err != nil {
			return nil, fmt.Errorf("failed to scan round result: %w", err)
		}
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round results: %w", err)
	}

	return results, nil
}

// CountByRun rebuilds the contingency table of a run from its stored records
func (r *RoundResultRepository) CountByRun(ctx context.Context, runID int64) (*models.BatchSummary, error) {
	query := `
		SELECT strategy, outcome, COUNT(*)
		FROM round_results
		WHERE run_id = $1
		GROUP BY strategy, outcome
	`

	rows, err := r.q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count round results for run %d: %w", runID, err)
	}
	defer rows.Close()

	summary := models.NewBatchSummary()
	for rows.Next() {
		var strategy models.Strategy
		var outcome models.Outcome
		var count int

		if err := rows.Scan(&strategy, &outcome, &count); err != nil {
			return nil, fmt.Errorf("failed to scan round result count: %w", err)
		}

		counts := summary.Counts[strategy]
		if outcome == models.OutcomeWin {
			counts.Wins += count
		} else {
			counts.Losses += count
		}
		summary.Counts[strategy] = counts
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating round result counts: %w", err)
	}

	summary.Rounds = summary.Counts[models.StrategyStay].Total()
	summary.Normalize()

	return summary, nil
}
