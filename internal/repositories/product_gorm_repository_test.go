package repositories_test

import (
	"fmt"
	"testing"

	"tienda/internal/models"
	"tienda/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupRepo opens a fresh in-memory database per test. A single pooled
// connection keeps sqlite's shared-cache locking out of the way.
func setupRepo(t *testing.T) (*repositories.GORMProductRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductImage{}))
	return repositories.NewGORMProductRepository(db), db
}

func imageURLs(p *models.Product) []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.URL)
	}
	return urls
}

func storedImages(t *testing.T, db *gorm.DB, productID string) []models.ProductImage {
	t.Helper()
	var images []models.ProductImage
	require.NoError(t, db.Where("product_id = ?", productID).Find(&images).Error)
	return images
}

func TestGORMProductRepository_CreateAndGet(t *testing.T) {
	repo, _ := setupRepo(t)

	product := &models.Product{
		Title: "Men's Shirt",
		Price: 25,
		Stock: 3,
		Images: []models.ProductImage{
			{URL: "a.png"},
			{URL: "b.png"},
		},
	}
	require.NoError(t, repo.Create(product))
	assert.NotEmpty(t, product.ID)
	// The slug is derived from the title: lowercased, underscored,
	// apostrophes stripped.
	assert.Equal(t, "mens_shirt", product.Slug)

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Men's Shirt", got.Title)
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, imageURLs(got))

	_, err = repo.GetByID(uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_CreateDuplicateSlug(t *testing.T) {
	repo, _ := setupRepo(t)

	require.NoError(t, repo.Create(&models.Product{Title: "Shirt"}))
	err := repo.Create(&models.Product{Title: "Shirt"})
	assert.ErrorIs(t, err, repositories.ErrConflict)
}

func TestGORMProductRepository_GetBySlugAndTitle(t *testing.T) {
	repo, _ := setupRepo(t)

	product := &models.Product{Title: "Winter Coat"}
	require.NoError(t, repo.Create(product))

	// Slug lookup is lowercase-compared.
	got, err := repo.GetBySlug("WINTER_COAT")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	// Title lookup is case-insensitive.
	got, err = repo.GetByTitle("winter coat")
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)

	_, err = repo.GetBySlug("no_such_slug")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = repo.GetByTitle("No Such Title")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_List(t *testing.T) {
	repo, _ := setupRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(&models.Product{
			Title:  fmt.Sprintf("Product %d", i),
			Images: []models.ProductImage{{URL: fmt.Sprintf("%d.png", i)}},
		}))
	}

	page, err := repo.List(2, 0)
	require.NoError(t, err)
	assert.Len(t, page, 2)
	// Images come back eagerly with the page.
	assert.Len(t, page[0].Images, 1)

	rest, err := repo.List(10, 4)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestGORMProductRepository_UpdateReplacesImages(t *testing.T) {
	repo, db := setupRepo(t)

	product := &models.Product{
		Title:  "Shirt",
		Images: []models.ProductImage{{URL: "a.png"}, {URL: "b.png"}},
	}
	require.NoError(t, repo.Create(product))

	product.Images = []models.ProductImage{{URL: "c.png"}}
	require.NoError(t, repo.Update(product, true))

	images := storedImages(t, db, product.ID)
	require.Len(t, images, 1)
	assert.Equal(t, "c.png", images[0].URL)
}

func TestGORMProductRepository_UpdateClearsImagesOnEmptyList(t *testing.T) {
	repo, db := setupRepo(t)

	product := &models.Product{
		Title:  "Shirt",
		Images: []models.ProductImage{{URL: "a.png"}, {URL: "b.png"}},
	}
	require.NoError(t, repo.Create(product))

	product.Images = nil
	require.NoError(t, repo.Update(product, true))

	assert.Empty(t, storedImages(t, db, product.ID))
}

func TestGORMProductRepository_UpdatePreservesImages(t *testing.T) {
	repo, db := setupRepo(t)

	product := &models.Product{
		Title:  "Shirt",
		Images: []models.ProductImage{{URL: "a.png"}, {URL: "b.png"}},
	}
	require.NoError(t, repo.Create(product))
	originalImages := storedImages(t, db, product.ID)

	product.Title = "Shirt2"
	product.Slug = ""
	// Whatever is attached must be ignored on the preserve path.
	product.Images = []models.ProductImage{{URL: "should-not-appear.png"}}
	require.NoError(t, repo.Update(product, false))

	got, err := repo.GetByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt2", got.Title)
	assert.Equal(t, "shirt2", got.Slug)
	assert.ElementsMatch(t, originalImages, got.Images)
}

func TestGORMProductRepository_UpdateMissingProduct(t *testing.T) {
	repo, db := setupRepo(t)

	ghost := &models.Product{
		ID:     uuid.New().String(),
		Title:  "Ghost",
		Images: []models.ProductImage{{URL: "x.png"}},
	}
	err := repo.Update(ghost, false)
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	// Nothing may be written for a nonexistent id.
	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGORMProductRepository_UpdateConflictRollsBack(t *testing.T) {
	repo, db := setupRepo(t)

	first := &models.Product{
		Title:  "Shirt",
		Images: []models.ProductImage{{URL: "a.png"}, {URL: "b.png"}},
	}
	require.NoError(t, repo.Create(first))
	other := &models.Product{Title: "Jacket"}
	require.NoError(t, repo.Create(other))

	// Steer the first product onto the other's slug while also replacing
	// its images. The parent write fails on the unique index, so the
	// image deletion and insertion inside the same transaction must not
	// survive.
	update := &models.Product{
		ID:     first.ID,
		Title:  "Jacket",
		Price:  first.Price,
		Stock:  first.Stock,
		Images: []models.ProductImage{{URL: "new.png"}},
	}
	err := repo.Update(update, true)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	got, err := repo.GetByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", got.Title)
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, imageURLs(got))

	var count int64
	require.NoError(t, db.Model(&models.ProductImage{}).Where("url = ?", "new.png").Count(&count).Error)
	assert.Zero(t, count)
}

func TestGORMProductRepository_DeleteCascadesImages(t *testing.T) {
	repo, db := setupRepo(t)

	product := &models.Product{
		Title:  "Shirt",
		Images: []models.ProductImage{{URL: "a.png"}},
	}
	require.NoError(t, repo.Create(product))

	require.NoError(t, repo.Delete(product.ID))

	_, err := repo.GetByID(product.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Empty(t, storedImages(t, db, product.ID))

	// The freed slug can be taken again.
	require.NoError(t, repo.Create(&models.Product{Title: "Shirt"}))

	err = repo.Delete(uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestGORMProductRepository_DeleteAll(t *testing.T) {
	repo, db := setupRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(&models.Product{
			Title:  fmt.Sprintf("Product %d", i),
			Images: []models.ProductImage{{URL: fmt.Sprintf("%d.png", i)}},
		}))
	}
	require.NoError(t, repo.DeleteAll())

	var products, images int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	require.NoError(t, db.Model(&models.ProductImage{}).Count(&images).Error)
	assert.Zero(t, products)
	assert.Zero(t, images)
}
