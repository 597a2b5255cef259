package service

import (
	"context"

	"montyhall/events"
	"montyhall/models"
)

// SimulationRunRepository defines the interface for stored batch runs
type SimulationRunRepository interface {
	// Create stores a run and fills in its ID and CreatedAt
	Create(ctx context.Context, run *models.SimulationRun) error

	// GetByID retrieves a run by its ID, returning nil if it does not exist
	GetByID(ctx context.Context, id int64) (*models.SimulationRun, error)

	// GetRecent returns the most recent runs, newest first
	GetRecent(ctx context.Context, limit int) ([]*models.SimulationRun, error)
}

// RoundResultRepository defines the interface for the per-round records of a run
type RoundResultRepository interface {
	// CreateBatch stores every record of a run in round order and returns the number written
	CreateBatch(ctx context.Context, runID int64, records []models.RoundResult) (int64, error)

	// GetByRun returns the stored records of a run ordered by round and strategy
	GetByRun(ctx context.Context, runID int64) ([]*models.StoredRoundResult, error)

	// CountByRun rebuilds the contingency table of a run from its stored records
	CountByRun(ctx context.Context, runID int64) (*models.BatchSummary, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// SimulationService defines the interface for running and reviewing simulations
type SimulationService interface {
	// PlayBatch runs a batch without storing it. Round counts below 1 are rejected.
	PlayBatch(ctx context.Context, rounds int) (*models.BatchResult, error)

	// RunSimulation runs a batch with the given seed and stores it. A zero seed picks one.
	RunSimulation(ctx context.Context, rounds int, seed int64) (*models.SimulationRun, error)

	// GetRun retrieves a stored run
	GetRun(ctx context.Context, runID int64) (*models.SimulationRun, error)

	// ListRecentRuns returns the latest stored runs
	ListRecentRuns(ctx context.Context, limit int) ([]*models.SimulationRun, error)

	// VerifyRun checks a stored run against its records and against a replay of its seed
	VerifyRun(ctx context.Context, runID int64) (*models.RunVerification, error)

	// AnalyzeBatch compares a batch summary with the theoretical win rates
	AnalyzeBatch(summary *models.BatchSummary) *models.FairnessReport

	// PersistenceEnabled reports whether runs can be stored
	PersistenceEnabled() bool

	// DefaultRounds is the batch size callers should use when the user gave none
	DefaultRounds() int
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	SimulationRunRepository() SimulationRunRepository
	RoundResultRepository() RoundResultRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
