package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	log "github.com/sirupsen/logrus"

	"montyhall/events"
	"montyhall/game"
	"montyhall/models"
)

var (
	// ErrPersistenceDisabled is returned by operations that need a database when none is configured
	ErrPersistenceDisabled = errors.New("persistence is disabled")

	// ErrRunNotFound is returned when a stored run does not exist
	ErrRunNotFound = errors.New("simulation run not found")
)

const (
	defaultListLimit = 10
	maxListLimit     = 50
)

// SimulationConfig holds the batch settings the service applies
type SimulationConfig struct {
	DefaultRounds int
	MaxRounds     int
	Seed          int64 // 0 seeds each run from the clock
	Workers       int
	ChunkSize     int
}

type simulationService struct {
	uowFactory UnitOfWorkFactory
	runner     *game.Runner
	config     SimulationConfig
	failures   EventPublisher
}

// NewSimulationService creates a new simulation service. uowFactory may be nil,
// in which case only unstored batches can be played. failures, if set, receives
// SimulationFailedEvents for runs that could not be stored.
func NewSimulationService(uowFactory UnitOfWorkFactory, config SimulationConfig, failures EventPublisher) SimulationService {
	if config.DefaultRounds <= 0 {
		config.DefaultRounds = game.DefaultRounds
	}
	if config.MaxRounds < config.DefaultRounds {
		config.MaxRounds = config.DefaultRounds
	}

	runner := game.NewRunner(config.Workers, config.ChunkSize)
	config.Workers = runner.Workers()
	config.ChunkSize = runner.ChunkSize()

	return &simulationService{
		uowFactory: uowFactory,
		runner:     runner,
		config:     config,
		failures:   failures,
	}
}

func (s *simulationService) PersistenceEnabled() bool {
	return s.uowFactory != nil
}

func (s *simulationService) DefaultRounds() int {
	return s.config.DefaultRounds
}

func (s *simulationService) PlayBatch(ctx context.Context, rounds int) (*models.BatchResult, error) {
	rounds, err := s.resolveRounds(rounds)
	if err != nil {
		return nil, err
	}

	return s.runner.Play(ctx, rounds, s.resolveSeed(0))
}

func (s *simulationService) RunSimulation(ctx context.Context, rounds int, seed int64) (*models.SimulationRun, error) {
	if !s.PersistenceEnabled() {
		return nil, ErrPersistenceDisabled
	}

	rounds, err := s.resolveRounds(rounds)
	if err != nil {
		return nil, err
	}
	seed = s.resolveSeed(seed)

	started := time.Now()
	batch, err := s.runner.Play(ctx, rounds, seed)
	if err != nil {
		return nil, fmt.Errorf("failed to play batch: %w", err)
	}
	elapsed := time.Since(started)

	run, err := s.storeRun(ctx, batch, rounds, elapsed)
	if err != nil {
		s.publishFailure(rounds, seed, err)
		return nil, err
	}

	log.WithFields(log.Fields{
		"runID":         run.ID,
		"rounds":        run.Rounds,
		"seed":          run.Seed,
		"stayWinRate":   run.StayWinRate,
		"switchWinRate": run.SwitchWinRate,
		"duration":      elapsed,
	}).Info("Simulation run stored")

	return run, nil
}

func (s *simulationService) storeRun(ctx context.Context, batch *models.BatchResult, rounds int, elapsed time.Duration) (*models.SimulationRun, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	run := &models.SimulationRun{
		Rounds:        rounds,
		Seed:          batch.Seed,
		Workers:       s.config.Workers,
		ChunkSize:     s.config.ChunkSize,
		StayWinRate:   models.RoundTo(batch.Summary.WinRate(models.StrategyStay), 4),
		SwitchWinRate: models.RoundTo(batch.Summary.WinRate(models.StrategySwitch), 4),
		Summary:       batch.Summary,
		Duration:      elapsed,
	}

	if err := uow.SimulationRunRepository().Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create simulation run: %w", err)
	}

	written, err := uow.RoundResultRepository().CreateBatch(ctx, run.ID, batch.Records)
	if err != nil {
		return nil, fmt.Errorf("failed to store round results for run %d: %w", run.ID, err)
	}
	if written != int64(len(batch.Records)) {
		return nil, fmt.Errorf("stored %d of %d round results for run %d", written, len(batch.Records), run.ID)
	}

	uow.EventBus().Publish(events.SimulationCompletedEvent{
		RunID:         run.ID,
		Rounds:        run.Rounds,
		Seed:          run.Seed,
		StayWinRate:   run.StayWinRate,
		SwitchWinRate: run.SwitchWinRate,
		Duration:      run.Duration,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return run, nil
}

func (s *simulationService) GetRun(ctx context.Context, runID int64) (*models.SimulationRun, error) {
	if !s.PersistenceEnabled() {
		return nil, ErrPersistenceDisabled
	}
	if runID <= 0 {
		return nil, fmt.Errorf("%w: run ID must be positive", game.ErrInvalidArgument)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	run, err := uow.SimulationRunRepository().GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation run %d: %w", runID, err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	return run, nil
}

func (s *simulationService) ListRecentRuns(ctx context.Context, limit int) ([]*models.SimulationRun, error) {
	if !s.PersistenceEnabled() {
		return nil, ErrPersistenceDisabled
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	runs, err := uow.SimulationRunRepository().GetRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulation runs: %w", err)
	}

	return runs, nil
}

func (s *simulationService) VerifyRun(ctx context.Context, runID int64) (*models.RunVerification, error) {
	if !s.PersistenceEnabled() {
		return nil, ErrPersistenceDisabled
	}
	if runID <= 0 {
		return nil, fmt.Errorf("%w: run ID must be positive", game.ErrInvalidArgument)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	run, err := uow.SimulationRunRepository().GetByID(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get simulation run %d: %w", runID, err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}

	recounted, err := uow.RoundResultRepository().CountByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to count round results for run %d: %w", runID, err)
	}

	// The chunk size, not the worker count, decides which stream each round draws from
	replay, err := game.NewRunner(s.config.Workers, run.ChunkSize).Play(ctx, run.Rounds, run.Seed)
	if err != nil {
		return nil, fmt.Errorf("failed to replay run %d: %w", runID, err)
	}

	return &models.RunVerification{
		RunID:         runID,
		RecordsMatch:  sameCounts(run.Summary, recounted),
		ReplayMatches: sameCounts(run.Summary, replay.Summary),
		Stored:        run.Summary,
		Recounted:     recounted,
		Replayed:      replay.Summary,
	}, nil
}

func (s *simulationService) AnalyzeBatch(summary *models.BatchSummary) *models.FairnessReport {
	return AnalyzeFairness(summary, DefaultTolerance, DefaultConfidence)
}

func (s *simulationService) resolveRounds(rounds int) (int, error) {
	if rounds < 1 {
		return 0, fmt.Errorf("%w: batch size must be at least 1, got %d", game.ErrInvalidArgument, rounds)
	}
	if rounds > s.config.MaxRounds {
		return 0, fmt.Errorf("%w: batch size %d exceeds the limit of %d", game.ErrInvalidArgument, rounds, s.config.MaxRounds)
	}
	return rounds, nil
}

func (s *simulationService) resolveSeed(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	if s.config.Seed != 0 {
		return s.config.Seed
	}
	return game.TimeSeed()
}

func (s *simulationService) publishFailure(rounds int, seed int64, err error) {
	if s.failures == nil {
		return
	}
	s.failures.Publish(events.SimulationFailedEvent{
		Rounds: rounds,
		Seed:   seed,
		Reason: err.Error(),
	})
}

func sameCounts(a, b *models.BatchSummary) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Rounds == b.Rounds && reflect.DeepEqual(a.Counts, b.Counts)
}
