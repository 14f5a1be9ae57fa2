package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/pkg/rabbitmq"

	"github.com/google/uuid"
)

// CreateProductInput carries the fields for a new product. An empty image
// list is allowed.
type CreateProductInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=255"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	Slug        string   `json:"slug" validate:"omitempty,max=255"`
	Images      []string `json:"images" validate:"omitempty,dive,required"`
}

// UpdateProductInput is a partial patch. Images distinguishes three cases:
// nil keeps the stored collection, an empty slice clears it, a non-empty
// slice replaces it.
type UpdateProductInput struct {
	Title       *string   `json:"title" validate:"omitempty,min=1,max=255"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Slug        *string   `json:"slug" validate:"omitempty,max=255"`
	Images      *[]string `json:"images"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client // optional, nil disables event publishing
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// buildImages turns a URL list into a fresh owned collection.
func buildImages(urls []string) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(urls))
	for _, url := range urls {
		images = append(images, models.ProductImage{URL: url})
	}
	return images
}

// CreateProduct builds a product with a fresh image collection and
// persists it as one unit, owned by the given user.
func (s *ProductService) CreateProduct(input CreateProductInput, user *models.User) (*models.Product, error) {
	product := &models.Product{
		Title:       input.Title,
		Slug:        input.Slug,
		Price:       input.Price,
		Stock:       input.Stock,
		Description: input.Description,
		Images:      buildImages(input.Images),
		UserID:      user.ID,
		User:        user,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.publishProductEvent("product.created", product)
	return product, nil
}

// ListProducts retrieves a page of products.
func (s *ProductService) ListProducts(limit, offset int) ([]models.Product, error) {
	return s.repo.List(limit, offset)
}

// ResolveProduct locates a product by a caller-supplied term. A term that
// parses as a UUID always takes the ID path, even when a title happens to
// look like one. Otherwise the slug match is tried first and the
// case-insensitive title match second, so a term matching one product's
// slug and another's title deterministically returns the slug owner.
func (s *ProductService) ResolveProduct(term string) (*models.Product, error) {
	if _, err := uuid.Parse(term); err == nil {
		return s.repo.GetByID(term)
	}

	product, err := s.repo.GetBySlug(term)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	product, err = s.repo.GetByTitle(term)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("no product matching term %q: %w", term, repositories.ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

// UpdateProduct merges the patch onto the stored record and hands the
// result to the repository's transactional write. The image policy is
// decided here: a patch with an image list (even empty) replaces the
// collection, a patch without one preserves it. The calling user becomes
// the record's owner.
func (s *ProductService) UpdateProduct(id string, patch UpdateProductInput, user *models.User) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		product.Title = *patch.Title
		// A renamed product gets a re-derived slug unless the patch
		// pins one explicitly.
		if patch.Slug == nil {
			product.Slug = ""
		}
	}
	if patch.Slug != nil {
		product.Slug = *patch.Slug
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}

	replaceImages := patch.Images != nil
	if replaceImages {
		product.Images = buildImages(*patch.Images)
	}
	product.UserID = user.ID
	product.User = user

	if err := s.repo.Update(product, replaceImages); err != nil {
		return nil, err
	}
	s.publishProductEvent("product.updated", product)
	return product, nil
}

// DeleteProduct resolves the term and removes the product; the owned
// images go with it.
func (s *ProductService) DeleteProduct(term string) error {
	product, err := s.ResolveProduct(term)
	if err != nil {
		return err
	}
	return s.repo.Delete(product.ID)
}

// DeleteAllProducts wipes the catalog. Used by the seeder.
func (s *ProductService) DeleteAllProducts() error {
	return s.repo.DeleteAll()
}

// publishProductEvent emits a catalog event after a successful write.
// Publishing is best-effort: a broker failure is logged, never surfaced.
func (s *ProductService) publishProductEvent(event string, product *models.Product) {
	if s.mqClient == nil {
		return
	}
	body, err := json.Marshal(map[string]interface{}{
		"event":     event,
		"productID": product.ID,
		"slug":      product.Slug,
		"title":     product.Title,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for product %s: %v", event, product.ID, err)
		return
	}
	if err := s.mqClient.Publish("catalog", event, body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", event, product.ID, err)
	}
}
