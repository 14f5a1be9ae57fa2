package repositories

import (
	"tienda/internal/models"
)

// ProductRepository defines the interface for product data access. All
// read methods return products with their image collection loaded.
type ProductRepository interface {
	List(limit, offset int) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	GetBySlug(slug string) (*models.Product, error)
	GetByTitle(title string) (*models.Product, error)
	Create(product *models.Product) error
	// Update persists the product and its image collection atomically.
	// When replaceImages is true the stored collection is deleted and the
	// attached one written in its place; otherwise the stored collection
	// is kept as is.
	Update(product *models.Product, replaceImages bool) error
	Delete(id string) error
	DeleteAll() error
}
