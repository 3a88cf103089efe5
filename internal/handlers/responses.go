package handlers

import (
	"errors"
	"time"

	"mtbshop/internal/models"
	"mtbshop/internal/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// UserResponse is the public view of a user (no password hash).
type UserResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Role      string `json:"role"`
}

// CategoryResponse is the public view of a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// ProductResponse is the public view of a product with its category embedded.
type ProductResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Stock       int               `json:"stock"`
	ImageURL    string            `json:"image_url,omitempty"`
	Brand       string            `json:"brand,omitempty"`
	ModelName   string            `json:"model,omitempty"`
	Category    *CategoryResponse `json:"category,omitempty"`
}

// OrderItemResponse is one order line with its product snapshot embedded.
type OrderItemResponse struct {
	ID       string           `json:"id"`
	Product  *ProductResponse `json:"product,omitempty"`
	Quantity int              `json:"quantity"`
	Price    decimal.Decimal  `json:"price"`
	Subtotal decimal.Decimal  `json:"subtotal"`
}

// OrderResponse is the full order representation returned by the API.
type OrderResponse struct {
	ID              string              `json:"id"`
	User            *UserResponse       `json:"user,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	ShippingAddress string              `json:"shipping_address"`
	PaymentMethod   string              `json:"payment_method,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

func newUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Phone:     user.Phone,
		Address:   user.Address,
		Role:      user.Role,
	}
}

func newCategoryResponse(category *models.Category) *CategoryResponse {
	if category == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		ImageURL:    category.ImageURL,
	}
}

func newProductResponse(product *models.Product) *ProductResponse {
	if product == nil {
		return nil
	}
	return &ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURL:    product.ImageURL,
		Brand:       product.Brand,
		ModelName:   product.ModelName,
		Category:    newCategoryResponse(product.Category),
	}
}

func newProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *newProductResponse(&products[i]))
	}
	return out
}

func newOrderResponse(order *models.Order) *OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ID:       item.ID,
			Product:  newProductResponse(item.Product),
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal,
		})
	}
	return &OrderResponse{
		ID:              order.ID,
		User:            newUserResponse(order.User),
		Items:           items,
		Total:           order.Total,
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		CreatedAt:       order.CreatedAt,
	}
}

func newOrderResponses(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, *newOrderResponse(&orders[i]))
	}
	return out
}

// respondError maps the domain error taxonomy onto HTTP status codes. Typed
// errors make this a matter of errors.As, never string inspection.
func respondError(c *fiber.Ctx, err error) error {
	var notFound *models.NotFoundError
	var insufficient *models.InsufficientStockError
	var validation *models.ValidationError
	var transition *models.InvalidTransitionError
	var exists *models.AlreadyExistsError

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validation.Error(),
		})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": notFound.Error(),
		})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":    insufficient.Error(),
			"product_id": insufficient.ProductID,
			"requested":  insufficient.Requested,
			"available":  insufficient.Available,
		})
	case errors.As(err, &exists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": exists.Error(),
		})
	case errors.As(err, &transition):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": transition.Error(),
			"from":    string(transition.From),
			"to":      string(transition.To),
		})
	case repositories.IsRetryable(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"message": "The request conflicted with concurrent activity, please retry",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
			"error":   err.Error(),
		})
	}
}
