package service

import (
	"context"
	"errors"

	"diceroyale/events"
	"diceroyale/models"
)

var (
	// ErrNotFound is returned when a product does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidProduct is returned when a product fails validation
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidSession is returned when a bag request carries no session
	ErrInvalidSession = errors.New("session id is required")
)

// TableService is the dice table as seen by the HTTP and Discord front ends
type TableService interface {
	// PlaceBet stakes the local user's bet for the open round
	PlaceBet(betType models.BetType, choice models.Choice, amount int64) (models.Bet, error)

	// ForceStartNow skips the startup delay
	ForceStartNow() bool

	// ForceResolveNow closes the betting window immediately
	ForceResolveNow() bool

	// Reset restores the table to its starting balances
	Reset()

	// BoostOpponents credits every simulated player
	BoostOpponents(amount int64) error

	State() models.RoundState
	Players() []models.Actor
	History() []models.HistoryEntry
	Notifications() []models.Notification
	Snapshot() models.TableSnapshot
}

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	// List returns products ordered by title, optionally filtered by category
	List(ctx context.Context, category string, limit int) ([]*models.Product, error)

	// GetByID retrieves a product, returning nil when it does not exist
	GetByID(ctx context.Context, id string) (*models.Product, error)

	// Create inserts a product and fills its timestamps
	Create(ctx context.Context, product *models.Product) error
}

// BagRepository defines the interface for shopping bag data access
type BagRepository interface {
	// List returns the session's items, oldest first, with their products
	List(ctx context.Context, sessionID string) ([]*models.BagItem, error)

	// Add puts a product in the bag. It reports false when the product was already there.
	Add(ctx context.Context, sessionID, productID string) (bool, error)

	// Remove takes a product out of the bag. It reports false when it was not there.
	Remove(ctx context.Context, sessionID, productID string) (bool, error)
}

// CatalogService defines the interface for product catalog operations
type CatalogService interface {
	ListProducts(ctx context.Context, category string, limit int) ([]*models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
}

// BagService defines the interface for shopping bag operations
type BagService interface {
	// Get returns the session's bag with its subtotal
	Get(ctx context.Context, sessionID string) (*models.Bag, error)

	// Add puts a product in the bag; adding a product twice leaves the bag unchanged
	Add(ctx context.Context, sessionID, productID string) (*models.Bag, error)

	// Remove takes a product out of the bag; removing an absent product is a no-op
	Remove(ctx context.Context, sessionID, productID string) (*models.Bag, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and releases pending events
	Commit() error

	// Rollback rolls back the transaction and drops pending events
	Rollback() error

	// Repository getters
	ProductRepository() ProductRepository
	BagRepository() BagRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
