package services

import (
	"fmt"
	"log"
	"time"

	"mtbshop/internal/models"
	"mtbshop/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// maxPlaceAttempts bounds retries of the placement transaction when the
// database reports a concurrency conflict.
const maxPlaceAttempts = 3

// EventPublisher publishes order lifecycle events. The order service
// tolerates a nil publisher.
type EventPublisher interface {
	PublishJSON(event string, payload map[string]interface{}) error
}

// PlaceOrderItem is one requested line of a new order.
type PlaceOrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// PlaceOrderRequest is the caller's cart plus delivery details.
type PlaceOrderRequest struct {
	Items           []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
	ShippingAddress string           `json:"shipping_address" validate:"required"`
	PaymentMethod   string           `json:"payment_method"`
}

// OrderService handles order placement, status transitions, and order reads.
type OrderService struct {
	tx        repositories.TxManager
	orderRepo repositories.OrderRepository
	userRepo  repositories.UserRepository
	publisher EventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(tx repositories.TxManager, orderRepo repositories.OrderRepository, userRepo repositories.UserRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		tx:        tx,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		publisher: publisher,
	}
}

// PlaceOrder converts the caller's cart into a persisted order. Per item, in
// request order: the product is looked up, availability checked, the unit
// price frozen, and stock decremented. The order, its items, and every stock
// decrement commit atomically; any failure rolls the whole call back, so no
// partial order and no stray decrement is ever observable.
//
// The caller identity is an explicit argument resolved by the HTTP layer,
// never ambient state.
func (s *OrderService) PlaceOrder(userID string, req PlaceOrderRequest) (*models.Order, error) {
	if err := validatePlacement(userID, req); err != nil {
		return nil, err
	}

	var placed *models.Order
	var err error
	for attempt := 1; attempt <= maxPlaceAttempts; attempt++ {
		placed, err = s.placeOnce(userID, req)
		if err == nil {
			break
		}
		if !repositories.IsRetryable(err) {
			return nil, err
		}
		log.Printf("Retrying order placement for user %s after conflict (attempt %d/%d): %v",
			userID, attempt, maxPlaceAttempts, err)
	}
	if err != nil {
		return nil, fmt.Errorf("order placement failed after %d attempts: %w", maxPlaceAttempts, err)
	}

	s.publish("order.created", map[string]interface{}{
		"order_id": placed.ID,
		"user_id":  placed.UserID,
		"status":   string(placed.Status),
		"total":    placed.Total.String(),
	})
	return placed, nil
}

// placeOnce runs one attempt of the placement transaction.
func (s *OrderService) placeOnce(userID string, req PlaceOrderRequest) (*models.Order, error) {
	var placed *models.Order
	err := s.tx.InTransaction(func(r repositories.Repos) error {
		user, err := r.Users.GetByID(userID)
		if err != nil {
			return err
		}

		order := &models.Order{
			ID:              uuid.New().String(),
			UserID:          user.ID,
			Status:          models.StatusPending,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		}

		total := decimal.Zero
		for i, item := range req.Items {
			product, err := r.Products.GetByID(item.ProductID)
			if err != nil {
				return err
			}
			if item.Quantity > product.Stock {
				return &models.InsufficientStockError{
					ProductID:   product.ID,
					ProductName: product.Name,
					Requested:   item.Quantity,
					Available:   product.Stock,
				}
			}
			// The conditional decrement re-checks availability under the row
			// lock; the check above only short-circuits the common case.
			if err := r.Products.DecrementStock(product.ID, item.Quantity); err != nil {
				return err
			}

			unitPrice := product.Price
			subtotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

			snapshot := *product
			snapshot.Stock = product.Stock - item.Quantity

			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Product:   &snapshot,
				Position:  i,
				Quantity:  item.Quantity,
				Price:     unitPrice,
				Subtotal:  subtotal,
			})
			total = total.Add(subtotal)
		}

		order.Total = total
		order.CreatedAt = time.Now()
		order.UpdatedAt = order.CreatedAt
		if err := r.Orders.Create(order); err != nil {
			return err
		}

		order.User = user
		placed = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// UpdateOrderStatus moves an order to a new status, enforcing the state
// machine: PENDING -> CONFIRMED | CANCELLED, CONFIRMED -> SHIPPED |
// CANCELLED, SHIPPED -> DELIVERED. Illegal moves fail with
// models.InvalidTransitionError.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) (*models.Order, error) {
	var updated *models.Order
	err := s.tx.InTransaction(func(r repositories.Repos) error {
		order, err := r.Orders.GetByID(id)
		if err != nil {
			return err
		}
		if !order.Status.CanTransitionTo(status) {
			return &models.InvalidTransitionError{From: order.Status, To: status}
		}
		if err := r.Orders.UpdateStatus(id, status); err != nil {
			return err
		}
		order.Status = status
		order.UpdatedAt = time.Now()
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish("order.status_updated", map[string]interface{}{
		"order_id": updated.ID,
		"status":   string(updated.Status),
	})
	return updated, nil
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrders retrieves a user's orders, newest first.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetMyOrders resolves the caller and retrieves their orders, newest first.
func (s *OrderService) GetMyOrders(userID string) ([]models.Order, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByUserID(userID)
}

func validatePlacement(userID string, req PlaceOrderRequest) error {
	if userID == "" {
		return &models.ValidationError{Message: "caller identity is required"}
	}
	if len(req.Items) == 0 {
		return &models.ValidationError{Message: "order must contain at least one item"}
	}
	if req.ShippingAddress == "" {
		return &models.ValidationError{Message: "shipping address is required"}
	}
	for _, item := range req.Items {
		if item.ProductID == "" {
			return &models.ValidationError{Message: "product ID is required for every item"}
		}
		if item.Quantity < 1 {
			return &models.ValidationError{Message: fmt.Sprintf("quantity for product %s must be at least 1", item.ProductID)}
		}
	}
	return nil
}

func (s *OrderService) publish(event string, payload map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishJSON(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
