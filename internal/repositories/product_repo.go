package repositories

import (
	"mtbshop/internal/models"
)

// ProductRepository defines the interface for catalog data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetAvailable() ([]models.Product, error)
	GetByCategory(categoryID string) ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock atomically subtracts quantity from the product's stock,
	// failing with models.InsufficientStockError when not enough remains.
	// Stock never goes negative through this path.
	DecrementStock(id string, quantity int) error
}
