package services

import (
	"mtbshop/internal/models"
	"mtbshop/internal/repositories"
)

// CategoryService handles business logic related to categories.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{
		repo: repo,
	}
}

// GetAllCategories retrieves all categories.
func (s *CategoryService) GetAllCategories() ([]models.Category, error) {
	return s.repo.GetAll()
}

// GetCategoryByID retrieves a single category by its ID.
func (s *CategoryService) GetCategoryByID(id string) (*models.Category, error) {
	return s.repo.GetByID(id)
}

// CreateCategory creates a new category, enforcing name uniqueness.
func (s *CategoryService) CreateCategory(category *models.Category) error {
	if existing, err := s.repo.GetByName(category.Name); err == nil && existing != nil {
		return &models.AlreadyExistsError{Resource: "category", Key: category.Name}
	}
	return s.repo.Create(category)
}

// UpdateCategory updates an existing category, re-checking name uniqueness
// when the name changes.
func (s *CategoryService) UpdateCategory(id string, update *models.Category) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if update.Name != "" && update.Name != category.Name {
		if existing, err := s.repo.GetByName(update.Name); err == nil && existing != nil {
			return nil, &models.AlreadyExistsError{Resource: "category", Key: update.Name}
		}
		category.Name = update.Name
	}
	if update.Description != "" {
		category.Description = update.Description
	}
	if update.ImageURL != "" {
		category.ImageURL = update.ImageURL
	}

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory deletes a category by its ID.
func (s *CategoryService) DeleteCategory(id string) error {
	return s.repo.Delete(id)
}
