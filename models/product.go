package models

import "time"

// Product is a catalog item. Price is in minor currency units.
type Product struct {
	ID                 string    `json:"id" db:"id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	Price              int64     `json:"price" db:"price"`
	Thumbnail          string    `json:"thumbnail" db:"thumbnail"`
	Brand              string    `json:"brand,omitempty" db:"brand"`
	Category           string    `json:"category,omitempty" db:"category"`
	Stock              int       `json:"stock" db:"stock"`
	Rating             float64   `json:"rating" db:"rating"`
	DiscountPercentage float64   `json:"discount_percentage" db:"discount_percentage"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// BagItem is a product held in a shopping bag
type BagItem struct {
	SessionID string    `json:"-" db:"session_id"`
	Product   Product   `json:"product"`
	Quantity  int       `json:"quantity" db:"quantity"`
	AddedAt   time.Time `json:"added_at" db:"added_at"`
}

// Bag is the content of one session's bag
type Bag struct {
	SessionID string    `json:"session_id"`
	Items     []BagItem `json:"items"`
	Subtotal  int64     `json:"subtotal"`
}
