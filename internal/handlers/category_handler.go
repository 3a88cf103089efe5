package handlers

import (
	"log"

	"mtbshop/internal/models"
	"mtbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service  *services.CategoryService
	validate *validator.Validate
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers category reads on the public router and writes on
// the admin router.
func (h *CategoryHandler) RegisterRoutes(public fiber.Router, admin fiber.Router) {
	publicRoutes := public.Group("/categories")
	publicRoutes.Get("/", h.HandleGetCategories)
	publicRoutes.Get("/:id", h.HandleGetCategoryByID)

	adminRoutes := admin.Group("/categories")
	adminRoutes.Post("/", h.HandleCreateCategory)
	adminRoutes.Put("/:id", h.HandleUpdateCategory)
	adminRoutes.Delete("/:id", h.HandleDeleteCategory)
}

// HandleGetCategories retrieves all categories.
func (h *CategoryHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.GetAllCategories()
	if err != nil {
		log.Printf("Error getting all categories: %v", err)
		return respondError(c, err)
	}
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *newCategoryResponse(&categories[i]))
	}
	return c.JSON(out)
}

// HandleGetCategoryByID retrieves a single category by its ID.
func (h *CategoryHandler) HandleGetCategoryByID(c *fiber.Ctx) error {
	category, err := h.service.GetCategoryByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting category by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(newCategoryResponse(category))
}

// HandleCreateCategory creates a new category.
func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		log.Printf("Error parsing category request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(category); err != nil {
		return respondValidationErrors(c, err)
	}

	if err := h.service.CreateCategory(&category); err != nil {
		log.Printf("Error creating category: %v", err)
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newCategoryResponse(&category))
}

// HandleUpdateCategory updates an existing category.
func (h *CategoryHandler) HandleUpdateCategory(c *fiber.Ctx) error {
	var update models.Category
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing category update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	category, err := h.service.UpdateCategory(c.Params("id"), &update)
	if err != nil {
		log.Printf("Error updating category %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.JSON(newCategoryResponse(category))
}

// HandleDeleteCategory deletes a category by its ID.
func (h *CategoryHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.Params("id")); err != nil {
		log.Printf("Error deleting category %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
