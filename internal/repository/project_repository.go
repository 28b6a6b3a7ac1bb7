package repository

import (
	"github.com/clearday/clearday-api/internal/database"
	"github.com/clearday/clearday-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a user's project by ID
func (r *GormProjectRepository) FindByID(userID, id uint64) (*models.Project, error) {
	var project models.Project
	if err := r.db.Scopes(database.OwnedBy(userID)).First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByUser lists a user's projects, newest first
func (r *GormProjectRepository) ListByUser(userID uint64) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.Scopes(database.OwnedBy(userID)).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

// Update saves a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// DeleteAndDetachTasks deletes a project and clears the project reference
// from every task that pointed at it. Detach and delete share a transaction
// so no task is ever left pointing at a project that no longer exists.
func (r *GormProjectRepository) DeleteAndDetachTasks(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Task{}).
			Where("user_id = ? AND project_id = ?", userID, id).
			Update("project_id", nil).Error; err != nil {
			return err
		}

		result := tx.Where("user_id = ?", userID).Delete(&models.Project{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Stats counts a project's total and completed tasks
func (r *GormProjectRepository) Stats(userID, projectID uint64) (total, completed int64, err error) {
	if err = r.db.Model(&models.Task{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}

	if err = r.db.Model(&models.Task{}).
		Where("user_id = ? AND project_id = ? AND completed = ?", userID, projectID, true).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}

	return total, completed, nil
}
