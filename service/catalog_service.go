package service

import (
	"context"
	"fmt"
	"strings"

	"diceroyale/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

type catalogService struct {
	uowFactory UnitOfWorkFactory
}

// NewCatalogService creates a new catalog service
func NewCatalogService(uowFactory UnitOfWorkFactory) CatalogService {
	return &catalogService{uowFactory: uowFactory}
}

func (s *catalogService) ListProducts(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = defaultProductLimit
	}
	limit = min(limit, maxProductLimit)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	products, err := uow.ProductRepository().List(ctx, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if !isProductID(id) {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	product, err := uow.ProductRepository().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: product %s", ErrNotFound, id)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.Title = strings.TrimSpace(product.Title)
	if product.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidProduct)
	}
	if product.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	}
	if product.Stock < 0 {
		return nil, fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	if product.DiscountPercentage < 0 || product.DiscountPercentage > 100 {
		return nil, fmt.Errorf("%w: discount must be within 0-100", ErrInvalidProduct)
	}
	product.ID = uuid.NewString()

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"productID": product.ID,
		"title":     product.Title,
		"price":     product.Price,
	}).Info("Product created")

	return product, nil
}

// isProductID reports whether id can name a product; product IDs are UUIDs
func isProductID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
