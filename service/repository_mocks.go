package service

import (
	"context"

	"montyhall/events"
	"montyhall/models"

	"github.com/stretchr/testify/mock"
)

// MockSimulationRunRepository is a mock implementation of SimulationRunRepository
type MockSimulationRunRepository struct {
	mock.Mock
}

func (m *MockSimulationRunRepository) Create(ctx context.Context, run *models.SimulationRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockSimulationRunRepository) GetByID(ctx context.Context, id int64) (*models.SimulationRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SimulationRun), args.Error(1)
}

func (m *MockSimulationRunRepository) GetRecent(ctx context.Context, limit int) ([]*models.SimulationRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.SimulationRun), args.Error(1)
}

// MockRoundResultRepository is a mock implementation of RoundResultRepository
type MockRoundResultRepository struct {
	mock.Mock
}

func (m *MockRoundResultRepository) CreateBatch(ctx context.Context, runID int64, records []models.RoundResult) (int64, error) {
	args := m.Called(ctx, runID, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoundResultRepository) GetByRun(ctx context.Context, runID int64) ([]*models.StoredRoundResult, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.StoredRoundResult), args.Error(1)
}

func (m *MockRoundResultRepository) CountByRun(ctx context.Context, runID int64) (*models.BatchSummary, error) {
	args := m.Called(ctx, runID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BatchSummary), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	runRepo    SimulationRunRepository
	resultRepo RoundResultRepository
	eventBus   EventPublisher
}

// SetRepositories wires the repositories the unit of work hands out
func (m *MockUnitOfWork) SetRepositories(runRepo SimulationRunRepository, resultRepo RoundResultRepository, eventBus EventPublisher) {
	m.runRepo = runRepo
	m.resultRepo = resultRepo
	m.eventBus = eventBus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) SimulationRunRepository() SimulationRunRepository {
	return m.runRepo
}

func (m *MockUnitOfWork) RoundResultRepository() RoundResultRepository {
	return m.resultRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
