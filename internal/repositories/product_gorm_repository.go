package repositories

import (
	"errors"
	"fmt"
	"strings"

	"tienda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// List retrieves a page of products with their images loaded.
func (r *GORMProductRepository) List(limit, offset int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Limit(limit).Offset(offset).Preload("Images").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID, images included.
func (r *GORMProductRepository) GetByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Preload("Images").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetBySlug retrieves a product by its slug, compared in lowercase.
func (r *GORMProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var product models.Product
	slug = strings.ToLower(slug)
	if err := r.db.Preload("Images").First(&product, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with slug %s: %w", slug, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by slug %s: %w", slug, err)
	}
	return &product, nil
}

// GetByTitle retrieves a product by a case-insensitive title match.
func (r *GORMProductRepository) GetByTitle(title string) (*models.Product, error) {
	var product models.Product
	err := r.db.Preload("Images").
		Where("UPPER(title) = ?", strings.ToUpper(title)).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with title %q: %w", title, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by title %q: %w", title, err)
	}
	return &product, nil
}

// Create inserts a new product together with its image collection.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.Create(product).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product slug %q: %w", product.Slug, ErrConflict)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update persists the merged product record and resolves its image
// collection inside a single transaction. With replaceImages the stored
// collection is deleted and the attached one inserted in its place;
// without it the stored collection is loaded and re-attached untouched.
// Any failure rolls the whole unit back.
//
// The image writes are explicit rather than left to association saving:
// GORM's Save would fall back to an insert when the parent row is gone
// instead of reporting it missing.
func (r *GORMProductRepository) Update(product *models.Product, replaceImages bool) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if replaceImages {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return fmt.Errorf("failed to clear images of product %s: %w", product.ID, err)
			}
			for i := range product.Images {
				product.Images[i].ProductID = product.ID
			}
			if len(product.Images) > 0 {
				if err := tx.Create(&product.Images).Error; err != nil {
					return fmt.Errorf("failed to insert images of product %s: %w", product.ID, err)
				}
			}
		} else {
			var existing []models.ProductImage
			if err := tx.Where("product_id = ?", product.ID).Find(&existing).Error; err != nil {
				return fmt.Errorf("failed to load images of product %s: %w", product.ID, err)
			}
			product.Images = existing
		}

		res := tx.Model(product).Omit(clause.Associations).Select("*").Updates(product)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Updates doesn't return ErrRecordNotFound when the row is
			// gone, so we check RowsAffected.
			return fmt.Errorf("product with ID %s: %w", product.ID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("product slug %q: %w", product.Slug, ErrConflict)
		}
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			return err
		}
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	return nil
}

// Delete removes a product and its owned images. Rows are removed for
// real rather than soft-deleted so the unique slug is freed and the
// images actually disappear with their parent.
func (r *GORMProductRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of product %s: %w", id, err)
		}
		res := tx.Unscoped().Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// DeleteAll wipes every product and image. Used by the seeder.
func (r *GORMProductRepository) DeleteAll() error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete all product images: %w", err)
		}
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(&models.Product{}).Error; err != nil {
			return fmt.Errorf("failed to delete all products: %w", err)
		}
		return nil
	})
}
