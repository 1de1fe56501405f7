package repository

import (
	"context"
	"errors"
	"fmt"

	"diceroyale/database"
	"diceroyale/models"

	"github.com/jackc/pgx/v5"
)

const productColumns = `id, title, description, price, thumbnail, brand, category, stock, rating, discount_percentage, created_at, updated_at`

// ProductRepository implements the ProductRepository interface
type ProductRepository struct {
	q queryable
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{q: db.Pool}
}

// newProductRepositoryWithTx creates a new product repository with a transaction
func newProductRepositoryWithTx(tx queryable) *ProductRepository {
	return &ProductRepository{q: tx}
}

// List returns products ordered by title, optionally filtered by category
func (r *ProductRepository) List(ctx context.Context, category string, limit int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE $1 = '' OR category = $1
		ORDER BY title, id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, category, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		var product models.Product
		if err := scanProduct(rows, &product); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a product, returning nil when it does not exist
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var product models.Product
	err := scanProduct(r.q.QueryRow(ctx, query, id), &product)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}

	return &product, nil
}

// Create inserts a product and fills its timestamps
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, title, description, price, thumbnail, brand, category, stock, rating, discount_percentage)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.q.QueryRow(ctx, query,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.Thumbnail,
		product.Brand,
		product.Category,
		product.Stock,
		product.Rating,
		product.DiscountPercentage,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

func scanProduct(row pgx.Row, product *models.Product) error {
	return row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.Thumbnail,
		&product.Brand,
		&product.Category,
		&product.Stock,
		&product.Rating,
		&product.DiscountPercentage,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
}
