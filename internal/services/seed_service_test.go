package services_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"tienda/internal/models"
	"tienda/internal/repositories"
	"tienda/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// fakeUserRepo is a minimal in-memory UserRepository for seeding tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users []*models.User
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	u := *user
	r.users = append(r.users, &u)
	return nil
}

func (r *fakeUserRepo) GetByUsername(username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with username %s: %w", username, repositories.ErrNotFound)
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, repositories.ErrNotFound)
}

func (r *fakeUserRepo) GetByID(id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user with ID %s: %w", id, repositories.ErrNotFound)
}

func (r *fakeUserRepo) DeleteAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = nil
	return nil
}

// failingProductRepo wraps a ProductRepository and fails every Create.
type failingProductRepo struct {
	repositories.ProductRepository
}

func (r *failingProductRepo) Create(product *models.Product) error {
	return errors.New("storage unavailable")
}

func TestSeedService_RunSeed(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	userRepo := &fakeUserRepo{}
	productService := services.NewProductService(productRepo, nil)
	seedService := services.NewSeedService(productService, userRepo)

	summary, err := seedService.RunSeed()
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.UsersInserted)
	assert.Equal(t, 6, summary.ProductsInserted)

	products, err := productRepo.List(100, 0)
	assert.NoError(t, err)
	assert.Len(t, products, 6)

	// Every seeded product is owned by the first inserted user.
	owner, err := userRepo.GetByUsername("admin")
	assert.NoError(t, err)
	for _, p := range products {
		assert.Equal(t, owner.ID, p.UserID)
		assert.NotEmpty(t, p.Slug)
	}
	assert.True(t, owner.HasRole(models.RoleAdmin))
}

func TestSeedService_RunSeedIsRepeatable(t *testing.T) {
	productRepo := repositories.NewMockProductRepository()
	userRepo := &fakeUserRepo{}
	productService := services.NewProductService(productRepo, nil)
	seedService := services.NewSeedService(productService, userRepo)

	_, err := seedService.RunSeed()
	assert.NoError(t, err)

	// A second run resets everything first, so the fixed slugs don't
	// collide with the previous run's rows.
	summary, err := seedService.RunSeed()
	assert.NoError(t, err)
	assert.Equal(t, 6, summary.ProductsInserted)

	products, err := productRepo.List(100, 0)
	assert.NoError(t, err)
	assert.Len(t, products, 6)
}

func TestSeedService_RunSeedAbortsOnCreateFailure(t *testing.T) {
	productRepo := &failingProductRepo{repositories.NewMockProductRepository()}
	userRepo := &fakeUserRepo{}
	productService := services.NewProductService(productRepo, nil)
	seedService := services.NewSeedService(productService, userRepo)

	_, err := seedService.RunSeed()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "seed aborted")
}
