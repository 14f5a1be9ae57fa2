package repositories

import (
	"fmt"
	"strings"
	"sync"

	"tienda/internal/models"

	"github.com/google/uuid"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. Products are stored by value and deep-copied on the
// way in and out so callers never share image slices with the store.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

func copyProduct(p models.Product) models.Product {
	images := make([]models.ProductImage, len(p.Images))
	copy(images, p.Images)
	p.Images = images
	return p
}

// List returns a page of products.
func (r *MockProductRepository) List(limit, offset int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, copyProduct(p))
	}
	if offset >= len(all) {
		return []models.Product{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	product = copyProduct(product)
	return &product, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slug = strings.ToLower(slug)
	for _, p := range r.products {
		if p.Slug == slug {
			p = copyProduct(p)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s: %w", slug, ErrNotFound)
}

// GetByTitle returns a product by a case-insensitive title match.
func (r *MockProductRepository) GetByTitle(title string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if strings.EqualFold(p.Title, title) {
			p = copyProduct(p)
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with title %q: %w", title, ErrNotFound)
}

// Create adds a new product, enforcing slug uniqueness like the database
// would.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.Slug == "" {
		product.Slug = product.Title
	}
	product.Slug = models.Slugify(product.Slug)
	for _, p := range r.products {
		if p.Slug == product.Slug {
			return fmt.Errorf("product slug %q: %w", product.Slug, ErrConflict)
		}
	}
	for i := range product.Images {
		if product.Images[i].ID == "" {
			product.Images[i].ID = uuid.New().String()
		}
		product.Images[i].ProductID = product.ID
	}
	r.products[product.ID] = copyProduct(*product)
	return nil
}

// Update modifies an existing product, honoring the replace-or-preserve
// image policy of the real repository.
func (r *MockProductRepository) Update(product *models.Product, replaceImages bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
	}
	if product.Slug == "" {
		product.Slug = product.Title
	}
	product.Slug = models.Slugify(product.Slug)
	for id, p := range r.products {
		if id != product.ID && p.Slug == product.Slug {
			return fmt.Errorf("product slug %q: %w", product.Slug, ErrConflict)
		}
	}
	if replaceImages {
		for i := range product.Images {
			if product.Images[i].ID == "" {
				product.Images[i].ID = uuid.New().String()
			}
			product.Images[i].ProductID = product.ID
		}
	} else {
		product.Images = stored.Images
	}
	r.products[product.ID] = copyProduct(*product)
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// DeleteAll clears the store.
func (r *MockProductRepository) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.products = make(map[string]models.Product)
	return nil
}
