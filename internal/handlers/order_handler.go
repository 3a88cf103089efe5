package handlers

import (
	"errors"
	"log"

	"mtbshop/internal/middleware"
	"mtbshop/internal/models"
	"mtbshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers caller routes on the authenticated router and
// privileged routes on the admin router. /my-orders must be registered
// before /:id so it is not captured as an order id.
func (h *OrderHandler) RegisterRoutes(authed fiber.Router, admin fiber.Router) {
	orderRoutes := authed.Group("/orders")
	orderRoutes.Get("/my-orders", h.HandleGetMyOrders)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)

	adminRoutes := admin.Group("/orders")
	adminRoutes.Get("/", h.HandleGetOrders)
	adminRoutes.Get("/user/:userId", h.HandleGetUserOrders)
	adminRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleCreateOrder places a new order for the authenticated caller. The
// caller identity is resolved from the token here and passed to the service
// as an explicit argument.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return respondValidationErrors(c, err)
	}

	order, err := h.service.PlaceOrder(middleware.CallerID(c), req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		// A vanished caller account is an identity failure, not a plain 404.
		var notFound *models.NotFoundError
		if errors.As(err, &notFound) && notFound.Resource == "user" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Caller identity could not be resolved",
				"error":   notFound.Error(),
			})
		}
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newOrderResponse(order))
}

// HandleUpdateOrderStatus moves an order to the status named in the query
// parameter, e.g. PATCH /orders/:id/status?status=CONFIRMED.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	statusParam := c.Query("status")
	if statusParam == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'status' is required",
		})
	}

	status, err := models.ParseOrderStatus(statusParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	order, err := h.service.UpdateOrderStatus(c.Params("id"), status)
	if err != nil {
		log.Printf("Error updating status for order %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}

	return c.JSON(newOrderResponse(order))
}

// HandleGetOrders retrieves all orders (admin).
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(newOrderResponses(orders))
}

// HandleGetMyOrders retrieves the authenticated caller's orders, newest first.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetMyOrders(middleware.CallerID(c))
	if err != nil {
		log.Printf("Error getting caller's orders: %v", err)
		return respondError(c, err)
	}
	return c.JSON(newOrderResponses(orders))
}

// HandleGetUserOrders retrieves a user's orders (admin), newest first.
func (h *OrderHandler) HandleGetUserOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(c.Params("userId"))
	if err != nil {
		log.Printf("Error getting orders for user %s: %v", c.Params("userId"), err)
		return respondError(c, err)
	}
	return c.JSON(newOrderResponses(orders))
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", c.Params("id"), err)
		return respondError(c, err)
	}
	return c.JSON(newOrderResponse(order))
}
