package handlers

import (
	"fmt"
	"log"

	"tienda/internal/middleware"
	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app. Reads
// are public; create needs the admin role; update and delete need an
// authenticated user.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/:term", h.HandleGetProduct)
	productRoutes.Post("/", authRequired, middleware.RoleRequired(models.RoleAdmin), h.HandleCreateProduct)
	productRoutes.Patch("/:id", authRequired, middleware.RoleRequired(), h.HandleUpdateProduct)
	productRoutes.Delete("/:id", authRequired, middleware.RoleRequired(), h.HandleDeleteProduct)
}

// ProductResponse is the wire shape of a product: image records flattened
// to their URLs.
type ProductResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

func toProductResponse(p *models.Product) ProductResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	return ProductResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Price:       p.Price,
		Stock:       p.Stock,
		Description: p.Description,
		Images:      images,
	}
}

// HandleListProducts retrieves a page of products.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	products, err := h.service.ListProducts(limit, offset)
	if err != nil {
		return handleServiceError(c, err, "listing products")
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	return c.JSON(responses)
}

// HandleGetProduct retrieves a single product by ID, slug or title.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	term := c.Params("term")
	product, err := h.service.ResolveProduct(term)
	if err != nil {
		return handleServiceError(c, err, fmt.Sprintf("resolving product %q", term))
	}
	return c.JSON(toProductResponse(product))
}

// HandleCreateProduct creates a new product owned by the calling user.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input services.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.CreateProduct(input, middleware.CurrentUser(c))
	if err != nil {
		return handleServiceError(c, err, "creating product")
	}
	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

// HandleUpdateProduct applies a partial patch to a product. The image
// collection is replaced when the body carries an images field and kept
// untouched when it doesn't.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("%q is not a valid product ID", id),
		})
	}

	var patch services.UpdateProductInput
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update product body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(patch); err != nil {
		return validationErrorResponse(c, err)
	}

	product, err := h.service.UpdateProduct(id, patch, middleware.CurrentUser(c))
	if err != nil {
		return handleServiceError(c, err, fmt.Sprintf("updating product %s", id))
	}
	return c.JSON(toProductResponse(product))
}

// HandleDeleteProduct removes a product and its images.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": fmt.Sprintf("%q is not a valid product ID", id),
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return handleServiceError(c, err, fmt.Sprintf("deleting product %s", id))
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted", id),
	})
}

// validationErrorResponse renders validator failures field by field.
func validationErrorResponse(c *fiber.Ctx, err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}
