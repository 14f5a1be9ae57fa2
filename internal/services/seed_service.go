package services

import (
	"fmt"
	"log"
	"sync"

	"tienda/internal/models"
	"tienda/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// SeedSummary reports what a seed run inserted.
type SeedSummary struct {
	UsersInserted    int `json:"users_inserted"`
	ProductsInserted int `json:"products_inserted"`
}

// SeedService resets the store and repopulates it from the fixed dataset.
type SeedService struct {
	productService *ProductService
	userRepo       repositories.UserRepository
}

// NewSeedService creates a new SeedService.
func NewSeedService(productService *ProductService, userRepo repositories.UserRepository) *SeedService {
	return &SeedService{
		productService: productService,
		userRepo:       userRepo,
	}
}

type seedUser struct {
	username string
	email    string
	password string
	roles    []models.Role
}

var seedUsers = []seedUser{
	{"admin", "admin@tienda.dev", "Admin123", []models.Role{models.RoleAdmin, models.RoleSuperUser}},
	{"clara", "clara@tienda.dev", "Clara123", []models.Role{models.RoleUser}},
	{"diego", "diego@tienda.dev", "Diego123", []models.Role{models.RoleUser, models.RoleAdmin}},
}

var seedProducts = []CreateProductInput{
	{Title: "Men's Chill Crew Neck Sweatshirt", Price: 75, Stock: 7,
		Description: "Premium heavyweight fleece crew neck.",
		Images:      []string{"1740176-00-A_0_2000.jpg", "1740176-00-A_1.jpg"}},
	{Title: "Men's Quilted Shirt Jacket", Price: 200, Stock: 5,
		Description: "Lightweight quilted bomber with a silicone chest badge.",
		Images:      []string{"1740507-00-A_0_2000.jpg", "1740507-00-A_1.jpg"}},
	{Title: "Women's Cropped Puffer Jacket", Price: 225, Stock: 85,
		Description: "Cropped silhouette with a water-repellent shell.",
		Images:      []string{"1740535-00-A_0_2000.jpg", "1740535-00-A_1.jpg"}},
	{Title: "Kids Cyberquad Bomber Jacket", Price: 65, Stock: 10,
		Description: "Graphic bomber sized down for kids.",
		Images:      []string{"1742702-00-A_0_2000.jpg", "1742702-00-A_1.jpg"}},
	{Title: "Chill Pullover Hoodie", Price: 130, Stock: 10,
		Description: "Relaxed fit hoodie in heavyweight cotton.",
		Images:      []string{"1740051-00-A_0_2000.jpg", "1740051-00-A_1.jpg"}},
	{Title: "3D Large Wordmark Pullover Hoodie", Price: 70, Stock: 15,
		Description: "Soft fleece with a 3D silicone wordmark across the chest.",
		Images:      []string{"8529198-00-A_0_2000.jpg", "8529198-00-A_1.jpg"}},
}

// RunSeed wipes products and users, inserts the fixed users and then
// creates the seed products concurrently, all owned by the first seed
// user. The first creation error aborts the run; rows already inserted
// by sibling goroutines stay (a re-run resets everything anyway).
func (s *SeedService) RunSeed() (*SeedSummary, error) {
	if err := s.productService.DeleteAllProducts(); err != nil {
		return nil, fmt.Errorf("seed: failed to reset products: %w", err)
	}
	if err := s.userRepo.DeleteAll(); err != nil {
		return nil, fmt.Errorf("seed: failed to reset users: %w", err)
	}

	owner, usersInserted, err := s.insertUsers()
	if err != nil {
		return nil, err
	}

	if err := s.insertProducts(owner); err != nil {
		return nil, err
	}

	log.Printf("Seed complete: %d users, %d products", usersInserted, len(seedProducts))
	return &SeedSummary{
		UsersInserted:    usersInserted,
		ProductsInserted: len(seedProducts),
	}, nil
}

// insertUsers writes the fixed user batch and returns the first one as
// the seed owner.
func (s *SeedService) insertUsers() (*models.User, int, error) {
	var owner *models.User
	for i, su := range seedUsers {
		hashed, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, 0, fmt.Errorf("seed: failed to hash password for %s: %w", su.email, err)
		}
		user := &models.User{
			Username: su.username,
			Email:    su.email,
			Password: string(hashed),
		}
		user.SetRoles(su.roles...)
		if err := s.userRepo.Create(user); err != nil {
			return nil, 0, fmt.Errorf("seed: failed to insert user %s: %w", su.email, err)
		}
		if i == 0 {
			owner = user
		}
	}
	return owner, len(seedUsers), nil
}

// insertProducts creates the seed products concurrently. Creations share
// no per-item state, so they run in parallel; the first error wins.
func (s *SeedService) insertProducts(owner *models.User) error {
	var wg sync.WaitGroup
	errCh := make(chan error, len(seedProducts))

	for _, def := range seedProducts {
		wg.Add(1)
		go func(def CreateProductInput) {
			defer wg.Done()
			if _, err := s.productService.CreateProduct(def, owner); err != nil {
				errCh <- err
			}
		}(def)
	}

	wg.Wait()
	close(errCh)

	if err, ok := <-errCh; ok {
		return fmt.Errorf("seed aborted: %w", err)
	}
	return nil
}
