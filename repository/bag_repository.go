package repository

import (
	"context"
	"fmt"

	"diceroyale/database"
	"diceroyale/models"
)

// BagRepository implements the BagRepository interface
type BagRepository struct {
	q queryable
}

// NewBagRepository creates a new bag repository
func NewBagRepository(db *database.DB) *BagRepository {
	return &BagRepository{q: db.Pool}
}

// newBagRepositoryWithTx creates a new bag repository with a transaction
func newBagRepositoryWithTx(tx queryable) *BagRepository {
	return &BagRepository{q: tx}
}

// List returns the session's items, oldest first, with their products
func (r *BagRepository) List(ctx context.Context, sessionID string) ([]*models.BagItem, error) {
	query := `
		SELECT
			b.session_id, b.quantity, b.added_at,
			p.id, p.title, p.description, p.price, p.thumbnail, p.brand, p.category,
			p.stock, p.rating, p.discount_percentage, p.created_at, p.updated_at
		FROM bag_items b
		JOIN products p ON p.id = b.product_id
		WHERE b.session_id = $1
		ORDER BY b.added_at, p.id
	`

	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bag items: %w", err)
	}
	defer rows.Close()

	items := make([]*models.BagItem, 0)
	for rows.Next() {
		var item models.BagItem
		p := &item.Product
		err := rows.Scan(
			&item.SessionID, &item.Quantity, &item.AddedAt,
			&p.ID, &p.Title, &p.Description, &p.Price, &p.Thumbnail, &p.Brand, &p.Category,
			&p.Stock, &p.Rating, &p.DiscountPercentage, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bag item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bag items: %w", err)
	}

	return items, nil
}

// Add puts a product in the bag. An existing item is left as it is.
func (r *BagRepository) Add(ctx context.Context, sessionID, productID string) (bool, error) {
	query := `
		INSERT INTO bag_items (session_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT (session_id, product_id) DO NOTHING
	`

	tag, err := r.q.Exec(ctx, query, sessionID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to add bag item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Remove takes a product out of the bag
func (r *BagRepository) Remove(ctx context.Context, sessionID, productID string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM bag_items WHERE session_id = $1 AND product_id = $2`, sessionID, productID)
	if err != nil {
		return false, fmt.Errorf("failed to remove bag item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
