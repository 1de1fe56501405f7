package service

import (
	"context"
	"fmt"
	"strings"

	"diceroyale/events"
	"diceroyale/models"

	log "github.com/sirupsen/logrus"
)

type bagService struct {
	uowFactory UnitOfWorkFactory
}

// NewBagService creates a new bag service
func NewBagService(uowFactory UnitOfWorkFactory) BagService {
	return &bagService{uowFactory: uowFactory}
}

func (s *bagService) Get(ctx context.Context, sessionID string) (*models.Bag, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	bag, err := loadBag(ctx, uow, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bag, nil
}

func (s *bagService) Add(ctx context.Context, sessionID, productID string) (*models.Bag, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}

	if !isProductID(productID) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	product, err := uow.ProductRepository().GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	added, err := uow.BagRepository().Add(ctx, sessionID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to add to bag: %w", err)
	}
	if added {
		uow.EventBus().Publish(events.BagChangedEvent{SessionID: sessionID, ProductID: productID, Added: true})
	}

	bag, err := loadBag(ctx, uow, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"sessionID": sessionID,
		"productID": productID,
		"added":     added,
	}).Debug("Bag add")

	return bag, nil
}

func (s *bagService) Remove(ctx context.Context, sessionID, productID string) (*models.Bag, error) {
	sessionID, err := normalizeSession(sessionID)
	if err != nil {
		return nil, err
	}

	if !isProductID(productID) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, productID)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	removed, err := uow.BagRepository().Remove(ctx, sessionID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to remove from bag: %w", err)
	}
	if removed {
		uow.EventBus().Publish(events.BagChangedEvent{SessionID: sessionID, ProductID: productID, Added: false})
	}

	bag, err := loadBag(ctx, uow, sessionID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bag, nil
}

func normalizeSession(sessionID string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", ErrInvalidSession
	}
	return sessionID, nil
}

func loadBag(ctx context.Context, uow UnitOfWork, sessionID string) (*models.Bag, error) {
	items, err := uow.BagRepository().List(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bag: %w", err)
	}

	bag := &models.Bag{SessionID: sessionID, Items: make([]models.BagItem, 0, len(items))}
	for _, item := range items {
		bag.Items = append(bag.Items, *item)
		bag.Subtotal += item.Product.Price * int64(item.Quantity)
	}
	return bag, nil
}
