package service

import (
	"context"

	"diceroyale/events"
	"diceroyale/models"

	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	args := m.Called(ctx, category, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockBagRepository is a mock implementation of BagRepository
type MockBagRepository struct {
	mock.Mock
}

func (m *MockBagRepository) List(ctx context.Context, sessionID string) ([]*models.BagItem, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BagItem), args.Error(1)
}

func (m *MockBagRepository) Add(ctx context.Context, sessionID, productID string) (bool, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBagRepository) Remove(ctx context.Context, sessionID, productID string) (bool, error) {
	args := m.Called(ctx, sessionID, productID)
	return args.Bool(0), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	productRepo ProductRepository
	bagRepo     BagRepository
	publisher   EventPublisher
}

// SetRepositories wires the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(productRepo ProductRepository, bagRepo BagRepository, publisher EventPublisher) {
	m.productRepo = productRepo
	m.bagRepo = bagRepo
	m.publisher = publisher
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

func (m *MockUnitOfWork) ProductRepository() ProductRepository {
	return m.productRepo
}

func (m *MockUnitOfWork) BagRepository() BagRepository {
	return m.bagRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.publisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockTableService is a mock implementation of TableService
type MockTableService struct {
	mock.Mock
}

func (m *MockTableService) PlaceBet(betType models.BetType, choice models.Choice, amount int64) (models.Bet, error) {
	args := m.Called(betType, choice, amount)
	return args.Get(0).(models.Bet), args.Error(1)
}

func (m *MockTableService) ForceStartNow() bool {
	return m.Called().Bool(0)
}

func (m *MockTableService) ForceResolveNow() bool {
	return m.Called().Bool(0)
}

func (m *MockTableService) Reset() {
	m.Called()
}

func (m *MockTableService) BoostOpponents(amount int64) error {
	args := m.Called(amount)
	return args.Error(0)
}

func (m *MockTableService) State() models.RoundState {
	return m.Called().Get(0).(models.RoundState)
}

func (m *MockTableService) Players() []models.Actor {
	return m.Called().Get(0).([]models.Actor)
}

func (m *MockTableService) History() []models.HistoryEntry {
	return m.Called().Get(0).([]models.HistoryEntry)
}

func (m *MockTableService) Notifications() []models.Notification {
	return m.Called().Get(0).([]models.Notification)
}

func (m *MockTableService) Snapshot() models.TableSnapshot {
	return m.Called().Get(0).(models.TableSnapshot)
}
