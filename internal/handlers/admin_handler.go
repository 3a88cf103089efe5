package handlers

import (
	"log"

	"mtbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles administrative user management.
type AdminHandler struct {
	userService *services.UserService
	validate    *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers user management routes on the admin router.
func (h *AdminHandler) RegisterRoutes(admin fiber.Router) {
	userRoutes := admin.Group("/admin/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", h.HandleUpdateUser)
	userRoutes.Delete("/:id", h.HandleDeleteUser)
}

// HandleGetUsers retrieves all users.
func (h *AdminHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return respondError(c, err)
	}
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *newUserResponse(&users[i]))
	}
	return c.JSON(out)
}

// HandleGetUserByID retrieves a single user by their ID.
func (h *AdminHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting user by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(newUserResponse(user))
}

// HandleUpdateUser applies a partial profile update to an existing user.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	user, err := h.userService.UpdateUser(c.Params("id"), req)
	if err != nil {
		log.Printf("Error updating user %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.JSON(newUserResponse(user))
}

// HandleDeleteUser deletes a user by their ID.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		log.Printf("Error deleting user %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
