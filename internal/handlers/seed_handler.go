package handlers

import (
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SeedHandler exposes the database seeding endpoint.
type SeedHandler struct {
	seedService *services.SeedService
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(seedService *services.SeedService) *SeedHandler {
	return &SeedHandler{
		seedService: seedService,
	}
}

// RegisterRoutes registers the seed route with the Fiber app.
func (h *SeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/seed", h.HandleRunSeed)
}

// HandleRunSeed resets the store and repopulates it from the fixed
// dataset.
func (h *SeedHandler) HandleRunSeed(c *fiber.Ctx) error {
	summary, err := h.seedService.RunSeed()
	if err != nil {
		return handleServiceError(c, err, "running seed")
	}
	return c.JSON(fiber.Map{
		"message": "Seed executed",
		"summary": summary,
	})
}
