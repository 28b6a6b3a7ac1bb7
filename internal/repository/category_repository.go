package repository

import (
	"github.com/clearday/clearday-api/internal/database"
	"github.com/clearday/clearday-api/internal/models"
	"gorm.io/gorm"
)

// GormCategoryRepository is a GORM implementation of CategoryRepository
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

// Create creates a new category
func (r *GormCategoryRepository) Create(category *models.Category) error {
	return r.db.Create(category).Error
}

// FindByID finds a user's category by ID
func (r *GormCategoryRepository) FindByID(userID, id uint64) (*models.Category, error) {
	var category models.Category
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListByUser lists a user's categories, newest first
func (r *GormCategoryRepository) ListByUser(userID uint64) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.Scopes(database.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&categories).Error
	return categories, err
}

// Update saves a category
func (r *GormCategoryRepository) Update(category *models.Category) error {
	return r.db.Save(category).Error
}

// DeleteAndDetachTasks deletes a category and clears the category reference
// from tasks that pointed at it, in one transaction.
func (r *GormCategoryRepository) DeleteAndDetachTasks(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("user_id = ? AND category_id = ?", userID, id).
			Update("category_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("user_id = ?", userID).Delete(&models.Category{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
