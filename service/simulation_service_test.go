package service

import (
	"context"
	"errors"
	"testing"

	"montyhall/events"
	"montyhall/game"
	"montyhall/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testSimulationConfig() SimulationConfig {
	return SimulationConfig{
		DefaultRounds: 100,
		MaxRounds:     10000,
		Seed:          2024,
		Workers:       2,
		ChunkSize:     64,
	}
}

type mockStore struct {
	factory   *MockUnitOfWorkFactory
	uow       *MockUnitOfWork
	runRepo   *MockSimulationRunRepository
	rounds    *MockRoundResultRepository
	publisher *MockEventPublisher
}

func newMockStore() *mockStore {
	s := &mockStore{
		factory:   new(MockUnitOfWorkFactory),
		uow:       new(MockUnitOfWork),
		runRepo:   new(MockSimulationRunRepository),
		rounds:    new(MockRoundResultRepository),
		publisher: new(MockEventPublisher),
	}
	s.uow.SetRepositories(s.runRepo, s.rounds, s.publisher)
	return s
}

func (s *mockStore) assertExpectations(t *testing.T) {
	s.factory.AssertExpectations(t)
	s.uow.AssertExpectations(t)
	s.runRepo.AssertExpectations(t)
	s.rounds.AssertExpectations(t)
	s.publisher.AssertExpectations(t)
}

func TestSimulationService_PlayBatch_Default(t *testing.T) {
	service := NewSimulationService(nil, testSimulationConfig(), nil)

	result, err := service.PlayBatch(context.Background(), service.DefaultRounds())

	require.NoError(t, err)
	assert.Len(t, result.Records, 200)
	assert.Equal(t, int64(2024), result.Seed)
	assert.Equal(t, 100, result.Summary.Rounds)
	for _, strategy := range models.Strategies {
		row := result.Summary.Proportions[strategy]
		assert.InDelta(t, 1.0, row.Win+row.Lose, 0.011)
	}
}

func TestSimulationService_PlayBatch_Reproducible(t *testing.T) {
	service := NewSimulationService(nil, testSimulationConfig(), nil)
	ctx := context.Background()

	first, err := service.PlayBatch(ctx, 500)
	require.NoError(t, err)
	second, err := service.PlayBatch(ctx, 500)
	require.NoError(t, err)

	assert.Equal(t, first.Records, second.Records)
}

func TestSimulationService_PlayBatch_WinRates(t *testing.T) {
	service := NewSimulationService(nil, testSimulationConfig(), nil)

	result, err := service.PlayBatch(context.Background(), 3000)
	require.NoError(t, err)

	assert.InDelta(t, 1.0/3.0, result.Summary.WinRate(models.StrategyStay), 0.05)
	assert.InDelta(t, 2.0/3.0, result.Summary.WinRate(models.StrategySwitch), 0.05)
}

func TestSimulationService_PlayBatch_InvalidRounds(t *testing.T) {
	service := NewSimulationService(nil, testSimulationConfig(), nil)
	ctx := context.Background()

	_, err := service.PlayBatch(ctx, -1)
	assert.ErrorIs(t, err, game.ErrInvalidArgument)

	_, err = service.PlayBatch(ctx, 0)
	assert.ErrorIs(t, err, game.ErrInvalidArgument)

	_, err = service.PlayBatch(ctx, 10001)
	assert.ErrorIs(t, err, game.ErrInvalidArgument)
}

func TestSimulationService_PersistenceDisabled(t *testing.T) {
	service := NewSimulationService(nil, testSimulationConfig(), nil)
	ctx := context.Background()

	assert.False(t, service.PersistenceEnabled())

	_, err := service.RunSimulation(ctx, 100, 1)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, err = service.GetRun(ctx, 1)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, err = service.ListRecentRuns(ctx, 5)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)

	_, err = service.VerifyRun(ctx, 1)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
}

func TestSimulationService_RunSimulation_Success(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	service := NewSimulationService(store.factory, testSimulationConfig(), nil)

	store.factory.On("Create").Return(store.uow)
	store.uow.On("Begin", ctx).Return(nil)
	store.uow.On("Commit").Return(nil)
	store.uow.On("Rollback").Return(nil)

	store.runRepo.On("Create", ctx, mock.MatchedBy(func(run *models.SimulationRun) bool {
		return run.Rounds == 1000 &&
			run.Seed == 99 &&
			run.Workers == 2 &&
			run.ChunkSize == 64 &&
			run.Summary != nil &&
			run.Summary.Rounds == 1000
	})).Return(nil).Run(func(args mock.Arguments) {
		run := args.Get(1).(*models.SimulationRun)
		run.ID = 42
	})

	store.rounds.On("CreateBatch", ctx, int64(42), mock.MatchedBy(func(records []models.RoundResult) bool {
		return len(records) == 2000
	})).Return(int64(2000), nil)

	store.publisher.On("Publish", mock.MatchedBy(func(event events.Event) bool {
		completed, ok := event.(events.SimulationCompletedEvent)
		return ok && completed.RunID == 42 && completed.Rounds == 1000 && completed.Seed == 99
	})).Return()

	run, err := service.RunSimulation(ctx, 1000, 99)

	require.NoError(t, err)
	assert.Equal(t, int64(42), run.ID)
	assert.InDelta(t, 1.0/3.0, run.StayWinRate, 0.05)
	assert.InDelta(t, 2.0/3.0, run.SwitchWinRate, 0.05)
	assert.InDelta(t, 1.0, run.StayWinRate+run.SwitchWinRate, 0.0002)

	store.assertExpectations(t)
}

func TestSimulationService_RunSimulation_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	failures := new(MockEventPublisher)
	service := NewSimulationService(store.factory, testSimulationConfig(), failures)

	store.factory.On("Create").Return(store.uow)
	store.uow.On("Begin", ctx).Return(nil)
	store.uow.On("Rollback").Return(nil)

	store.runRepo.On("Create", ctx, mock.AnythingOfType("*models.SimulationRun")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*models.SimulationRun).ID = 7
	})
	store.rounds.On("CreateBatch", ctx, int64(7), mock.Anything).Return(int64(0), errors.New("copy failed"))

	failures.On("Publish", mock.MatchedBy(func(event events.Event) bool {
		failed, ok := event.(events.SimulationFailedEvent)
		return ok && failed.Rounds == 50 && failed.Seed == 5
	})).Return()

	run, err := service.RunSimulation(ctx, 50, 5)

	assert.Nil(t, run)
	assert.ErrorContains(t, err, "copy failed")
	store.uow.AssertNotCalled(t, "Commit")
	store.publisher.AssertNotCalled(t, "Publish", mock.Anything)
	failures.AssertExpectations(t)
}

func TestSimulationService_RunSimulation_BeginFailure(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	service := NewSimulationService(store.factory, testSimulationConfig(), nil)

	store.factory.On("Create").Return(store.uow)
	store.uow.On("Begin", ctx).Return(errors.New("connection refused"))

	_, err := service.RunSimulation(ctx, 10, 1)

	assert.ErrorContains(t, err, "failed to begin transaction")
	store.uow.AssertNotCalled(t, "Rollback")
}

func TestSimulationService_RunSimulation_InvalidRounds(t *testing.T) {
	store := newMockStore()
	service := NewSimulationService(store.factory, testSimulationConfig(), nil)

	for _, rounds := range []int{-5, 0} {
		_, err := service.RunSimulation(context.Background(), rounds, 1)
		assert.ErrorIs(t, err, game.ErrInvalidArgument)
	}
	store.factory.AssertNotCalled(t, "Create")
}

func TestSimulationService_DefaultRounds(t *testing.T) {
	assert.Equal(t, 100, NewSimulationService(nil, testSimulationConfig(), nil).DefaultRounds())
	assert.Equal(t, game.DefaultRounds, NewSimulationService(nil, SimulationConfig{}, nil).DefaultRounds())
}

func TestSimulationService_GetRun(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)
		stored := &models.SimulationRun{ID: 3, Rounds: 100}

		store.factory.On("Create").Return(store.uow)
		store.uow.On("Begin", ctx).Return(nil)
		store.uow.On("Rollback").Return(nil)
		store.runRepo.On("GetByID", ctx, int64(3)).Return(stored, nil)

		run, err := service.GetRun(ctx, 3)

		require.NoError(t, err)
		assert.Same(t, stored, run)
		store.assertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)

		store.factory.On("Create").Return(store.uow)
		store.uow.On("Begin", ctx).Return(nil)
		store.uow.On("Rollback").Return(nil)
		store.runRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

		_, err := service.GetRun(ctx, 404)

		assert.ErrorIs(t, err, ErrRunNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)

		_, err := service.GetRun(ctx, 0)

		assert.ErrorIs(t, err, game.ErrInvalidArgument)
		store.factory.AssertNotCalled(t, "Create")
	})
}

func TestSimulationService_ListRecentRuns_Limits(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		requested int
		expected  int
	}{
		{"default when zero", 0, 10},
		{"passes through", 25, 25},
		{"clamped", 500, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStore()
			service := NewSimulationService(store.factory, testSimulationConfig(), nil)

			store.factory.On("Create").Return(store.uow)
			store.uow.On("Begin", ctx).Return(nil)
			store.uow.On("Rollback").Return(nil)
			store.runRepo.On("GetRecent", ctx, tt.expected).Return([]*models.SimulationRun{}, nil)

			runs, err := service.ListRecentRuns(ctx, tt.requested)

			require.NoError(t, err)
			assert.Empty(t, runs)
			store.assertExpectations(t)
		})
	}
}

func TestSimulationService_VerifyRun(t *testing.T) {
	ctx := context.Background()

	played, err := game.NewRunner(1, 32).Play(ctx, 300, 11)
	require.NoError(t, err)

	t.Run("consistent run", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)
		run := &models.SimulationRun{ID: 5, Rounds: 300, Seed: 11, ChunkSize: 32, Summary: played.Summary}

		store.factory.On("Create").Return(store.uow)
		store.uow.On("Begin", ctx).Return(nil)
		store.uow.On("Rollback").Return(nil)
		store.runRepo.On("GetByID", ctx, int64(5)).Return(run, nil)
		store.rounds.On("CountByRun", ctx, int64(5)).Return(played.Summary, nil)

		verification, err := service.VerifyRun(ctx, 5)

		require.NoError(t, err)
		assert.True(t, verification.RecordsMatch)
		assert.True(t, verification.ReplayMatches)
		assert.True(t, verification.Consistent())
		store.assertExpectations(t)
	})

	t.Run("tampered records", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)
		run := &models.SimulationRun{ID: 6, Rounds: 300, Seed: 11, ChunkSize: 32, Summary: played.Summary}

		tampered := models.NewBatchSummary()
		tampered.Merge(played.Summary)
		stay := tampered.Counts[models.StrategyStay]
		stay.Wins++
		stay.Losses--
		tampered.Counts[models.StrategyStay] = stay

		store.factory.On("Create").Return(store.uow)
		store.uow.On("Begin", ctx).Return(nil)
		store.uow.On("Rollback").Return(nil)
		store.runRepo.On("GetByID", ctx, int64(6)).Return(run, nil)
		store.rounds.On("CountByRun", ctx, int64(6)).Return(tampered, nil)

		verification, err := service.VerifyRun(ctx, 6)

		require.NoError(t, err)
		assert.False(t, verification.RecordsMatch)
		assert.True(t, verification.ReplayMatches)
		assert.False(t, verification.Consistent())
	})

	t.Run("missing run", func(t *testing.T) {
		store := newMockStore()
		service := NewSimulationService(store.factory, testSimulationConfig(), nil)

		store.factory.On("Create").Return(store.uow)
		store.uow.On("Begin", ctx).Return(nil)
		store.uow.On("Rollback").Return(nil)
		store.runRepo.On("GetByID", ctx, int64(8)).Return(nil, nil)

		_, err := service.VerifyRun(ctx, 8)

		assert.ErrorIs(t, err, ErrRunNotFound)
	})
}
