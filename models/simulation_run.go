package models

import (
	"time"
)

// SimulationRun represents a persisted batch run
type SimulationRun struct {
	ID            int64         `db:"id"`
	Rounds        int           `db:"rounds"`
	Seed          int64         `db:"seed"`
	Workers       int           `db:"workers"`
	ChunkSize     int           `db:"chunk_size"`
	StayWinRate   float64       `db:"stay_win_rate"`
	SwitchWinRate float64       `db:"switch_win_rate"`
	Summary       *BatchSummary `db:"summary"`
	Duration      time.Duration `db:"duration_ms"`
	CreatedAt     time.Time     `db:"created_at"`
}

// StoredRoundResult is a round record as persisted for a run
type StoredRoundResult struct {
	RunID       int64    `db:"run_id"`
	RoundNumber int      `db:"round_number"`
	Strategy    Strategy `db:"strategy"`
	Outcome     Outcome  `db:"outcome"`
}

// RunVerification reports whether a stored run is consistent and reproducible
type RunVerification struct {
	RunID         int64
	RecordsMatch  bool // stored records add up to the stored summary
	ReplayMatches bool // replaying the seed yields the stored summary
	Stored        *BatchSummary
	Recounted     *BatchSummary
	Replayed      *BatchSummary
}

// Consistent reports whether both checks passed
func (v *RunVerification) Consistent() bool {
	return v.RecordsMatch && v.ReplayMatches
}
