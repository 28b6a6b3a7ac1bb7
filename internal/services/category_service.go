package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/clearday/clearday-api/internal/constants"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/repository"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CategoryService handles category business logic
type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	Name   string
	Color  string
	UserID uint64
}

// UpdateCategoryInput represents input for updating a category
type UpdateCategoryInput struct {
	Name  *string
	Color *string
}

// ListCategories returns the user's categories
func (s *CategoryService) ListCategories(userID uint64) ([]models.Category, error) {
	categories, err := s.categoryRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a new category for the user
func (s *CategoryService) CreateCategory(input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	color := input.Color
	if color == "" {
		color = constants.DefaultCategoryColor
	}
	if !hexColorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}

	category := &models.Category{
		Name:   name,
		Color:  color,
		UserID: input.UserID,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// UpdateCategory updates the provided fields of a user's category
func (s *CategoryService) UpdateCategory(userID, categoryID uint64, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.categoryRepo.FindByID(userID, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		category.Name = name
	}
	if input.Color != nil {
		if !hexColorPattern.MatchString(*input.Color) {
			return nil, ErrInvalidColor
		}
		category.Color = *input.Color
	}

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// DeleteCategory deletes a user's category, detaching tasks that used it
func (s *CategoryService) DeleteCategory(userID, categoryID uint64) error {
	if err := s.categoryRepo.DeleteAndDetachTasks(userID, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
