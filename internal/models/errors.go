package models

import "fmt"

// NotFoundError indicates that a referenced entity does not exist.
// Resource identifies the entity kind ("user", "product", "order", "category").
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// NewUserNotFound reports an unresolvable caller or user id.
func NewUserNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "user", ID: id}
}

func NewProductNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "product", ID: id}
}

func NewOrderNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "order", ID: id}
}

func NewCategoryNotFound(id string) *NotFoundError {
	return &NotFoundError{Resource: "category", ID: id}
}

// InsufficientStockError is returned when a requested quantity exceeds the
// available stock of a product. It carries enough context for the caller to
// report requested vs. available without re-reading the catalog.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s (requested: %d, available: %d)",
		e.ProductName, e.Requested, e.Available)
}

// AlreadyExistsError indicates a uniqueness conflict on Resource keyed by Key
// (a registered email, a taken category name).
type AlreadyExistsError struct {
	Resource string
	Key      string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Resource, e.Key)
}

// ValidationError reports a malformed request (empty items, missing address,
// non-positive quantity).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidTransitionError is returned when an order status change violates
// the order state machine.
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition from %s to %s", e.From, e.To)
}
