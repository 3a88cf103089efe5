package services

import (
	"mtbshop/internal/models"
	"mtbshop/internal/repositories"

	"github.com/shopspring/decimal"
)

// UpdateProductRequest carries a partial product update; nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	Brand       *string          `json:"brand" validate:"omitempty,max=100"`
	ModelName   *string          `json:"model" validate:"omitempty,max=100"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
}

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo         repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categoryRepo repositories.CategoryRepository) *ProductService {
	return &ProductService{
		repo:         repo,
		categoryRepo: categoryRepo,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetAvailableProducts retrieves products with stock remaining.
func (s *ProductService) GetAvailableProducts() ([]models.Product, error) {
	return s.repo.GetAvailable()
}

// GetProductsByCategory retrieves all products in a category.
func (s *ProductService) GetProductsByCategory(categoryID string) ([]models.Product, error) {
	return s.repo.GetByCategory(categoryID)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product, verifying the price sign and the
// category reference. The price check lives here because validator tags
// cannot express constraints on a decimal struct field.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Price.IsNegative() {
		return &models.ValidationError{Message: "product price must not be negative"}
	}
	if product.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*product.CategoryID); err != nil {
			return err
		}
	}
	return s.repo.Create(product)
}

// UpdateProduct applies the non-nil fields of req to an existing product.
func (s *ProductService) UpdateProduct(id string, req UpdateProductRequest) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, &models.ValidationError{Message: "product price must not be negative"}
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.ModelName != nil {
		product.ModelName = *req.ModelName
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*req.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = req.CategoryID
		product.Category = nil
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
