package testutil

import (
	"diceroyale/models"

	"github.com/google/uuid"
)

// SeededProductIDs are the products inserted by the seed migration
var SeededProductIDs = []string{
	"6f1c2a8e-1b7d-4c1e-9a51-0d6a2f3b4c01",
	"6f1c2a8e-1b7d-4c1e-9a51-0d6a2f3b4c02",
	"6f1c2a8e-1b7d-4c1e-9a51-0d6a2f3b4c03",
	"6f1c2a8e-1b7d-4c1e-9a51-0d6a2f3b4c04",
}

// CreateTestProduct creates a test product with default values and a fresh ID
func CreateTestProduct(title string) *models.Product {
	return &models.Product{
		ID:                 uuid.NewString(),
		Title:              title,
		Description:        "test product",
		Price:              10000,
		Thumbnail:          "/img/test.jpg",
		Brand:              "Test",
		Category:           "test",
		Stock:              5,
		Rating:             4.5,
		DiscountPercentage: 0,
	}
}

// CreateTestProductWithPrice creates a test product with a specific price and category
func CreateTestProductWithPrice(title, category string, price int64) *models.Product {
	product := CreateTestProduct(title)
	product.Category = category
	product.Price = price
	return product
}
