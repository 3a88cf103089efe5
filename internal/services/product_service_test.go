package services_test

import (
	"testing"

	"mtbshop/internal/models"
	"mtbshop/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepo is a testify mock of repositories.ProductRepository
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepo) GetAvailable() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByCategory(categoryID string) ([]models.Product, error) {
	args := m.Called(categoryID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepo) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepo) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepo) DecrementStock(id string, quantity int) error {
	args := m.Called(id, quantity)
	return args.Error(0)
}

// MockCategoryRepo is a testify mock of repositories.CategoryRepository
type MockCategoryRepo struct {
	mock.Mock
}

func (m *MockCategoryRepo) GetAll() ([]models.Category, error) {
	args := m.Called()
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetByID(id string) (*models.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) GetByName(name string) (*models.Category, error) {
	args := m.Called(name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepo) Create(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepo) Update(category *models.Category) error {
	args := m.Called(category)
	return args.Error(0)
}

func (m *MockCategoryRepo) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Stock: 100},
		{ID: "2", Name: "Product B", Price: decimal.NewFromInt(20), Stock: 50},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAvailableProducts(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	available := []models.Product{
		{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Stock: 3},
	}

	mockRepo.On("GetAvailable").Return(available, nil).Once()

	products, err := service.GetAvailableProducts()
	assert.NoError(t, err)
	assert.Equal(t, available, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	expectedProduct := &models.Product{ID: "1", Name: "Product A", Price: decimal.NewFromInt(10), Stock: 100}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", "99").Return(nil, models.NewProductNotFound("99")).Once()
	product, err = service.GetProductByID("99")
	assert.Error(t, err)
	assert.Nil(t, product)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	newProduct := &models.Product{Name: "New Product", Price: decimal.NewFromInt(50), Stock: 20}

	// Test successful creation without category
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err := service.CreateProduct(newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test creation with a valid category reference
	categoryID := "cat-1"
	withCategory := &models.Product{Name: "Brake Pads", Price: decimal.NewFromInt(30), Stock: 10, CategoryID: &categoryID}
	mockCategories.On("GetByID", "cat-1").Return(&models.Category{ID: "cat-1", Name: "Brakes"}, nil).Once()
	mockRepo.On("Create", withCategory).Return(nil).Once()
	err = service.CreateProduct(withCategory)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockCategories.AssertExpectations(t)

	// Test creation with a dangling category reference
	ghostID := "cat-ghost"
	dangling := &models.Product{Name: "Fork", Price: decimal.NewFromInt(99), Stock: 1, CategoryID: &ghostID}
	mockCategories.On("GetByID", "cat-ghost").Return(nil, models.NewCategoryNotFound("cat-ghost")).Once()
	err = service.CreateProduct(dangling)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockCategories.AssertExpectations(t)
}

func TestProductService_CreateProduct_NegativePrice(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	// A negative price never reaches the repository
	negative := &models.Product{Name: "Bad Deal", Price: decimal.RequireFromString("-50.00"), Stock: 5}
	err := service.CreateProduct(negative)

	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, err.Error(), "must not be negative")
	mockRepo.AssertExpectations(t)

	// Zero is a legal price (free item, promotion)
	free := &models.Product{Name: "Sticker Pack", Price: decimal.Zero, Stock: 100}
	mockRepo.On("Create", free).Return(nil).Once()
	assert.NoError(t, service.CreateProduct(free))
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	existing := &models.Product{ID: "1", Name: "Product A", Price: decimal.NewFromInt(12), Stock: 95}

	// Partial update: only the name changes
	newName := "Product A Updated"
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	updated, err := service.UpdateProduct("1", services.UpdateProductRequest{Name: &newName})
	assert.NoError(t, err)
	assert.Equal(t, "Product A Updated", updated.Name)
	assert.Equal(t, 95, updated.Stock)
	mockRepo.AssertExpectations(t)

	// Update of a missing product
	mockRepo.On("GetByID", "99").Return(nil, models.NewProductNotFound("99")).Once()
	_, err = service.UpdateProduct("99", services.UpdateProductRequest{Name: &newName})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)

	// A negative price is rejected and nothing is saved
	negativePrice := decimal.RequireFromString("-1.00")
	mockRepo.On("GetByID", "1").Return(existing, nil).Once()
	_, err = service.UpdateProduct("1", services.UpdateProductRequest{Price: &negativePrice})
	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.True(t, existing.Price.Equal(decimal.NewFromInt(12)))
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepo)
	mockCategories := new(MockCategoryRepo)
	service := services.NewProductService(mockRepo, mockCategories)

	// Test successful deletion
	mockRepo.On("Delete", "1").Return(nil).Once()
	err := service.DeleteProduct("1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test deletion failure (product not found)
	mockRepo.On("Delete", "99").Return(models.NewProductNotFound("99")).Once()
	err = service.DeleteProduct("99")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	mockRepo.AssertExpectations(t)
}
