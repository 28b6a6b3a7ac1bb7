package repository

import (
	"strings"
	"time"

	"github.com/clearday/clearday-api/internal/database"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/utils"
	"gorm.io/gorm"
)

// likeEscaper neutralizes LIKE metacharacters in user-supplied search text
// so "100%" matches literally instead of acting as a wildcard.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a user's task by ID with optional preloading
func (r *GormTaskRepository) FindByID(userID, id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db.Scopes(database.OwnedBy(userID))

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves a user's tasks with filtering and pagination. The ownership
// predicate goes on first; everything else is ANDed behind it.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.user_id = ?", filter.UserID)

	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}
	if filter.CategoryID != nil {
		query = query.Where("tasks.category_id = ?", *filter.CategoryID)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.DueBefore != nil {
		query = query.Where("tasks.due_date <= ?", *filter.DueBefore)
	}
	if filter.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		query = query.Where("LOWER(tasks.title) LIKE ? ESCAPE '!' OR LOWER(tasks.description) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Due date ascending with NULLs last, then priority (1 = most urgent,
	// so ascending) and recency as stable tie-breakers.
	listQuery := query.Order("CASE WHEN tasks.due_date IS NULL THEN 1 ELSE 0 END, tasks.due_date ASC").
		Order("tasks.priority ASC").
		Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Preload("Project").Preload("Category").Preload("Subtasks").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update saves a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// SaveWithSubtaskMirror saves the task and forces every subtask's completion
// state to match the parent's. All-or-nothing: a failed subtask update rolls
// the parent back too.
func (r *GormTaskRepository) SaveWithSubtaskMirror(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(task).Error; err != nil {
			return err
		}

		return tx.Model(&models.Subtask{}).
			Where("task_id = ?", task.ID).
			Updates(map[string]interface{}{
				"completed":    task.Completed,
				"completed_at": task.CompletedAt,
			}).Error
	})
}

// Delete removes a task together with its subtasks and attachments
func (r *GormTaskRepository) Delete(userID, id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ?", userID).Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		return tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error
	})
}

// AddSubtask appends a subtask to a task
func (r *GormTaskRepository) AddSubtask(subtask *models.Subtask) error {
	return r.db.Create(subtask).Error
}

// FindSubtask finds a subtask belonging to a task
func (r *GormTaskRepository) FindSubtask(taskID, subtaskID uint64) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.Where("task_id = ?", taskID).First(&subtask, subtaskID).Error; err != nil {
		return nil, err
	}
	return &subtask, nil
}

// UpdateSubtask saves a subtask
func (r *GormTaskRepository) UpdateSubtask(subtask *models.Subtask) error {
	return r.db.Save(subtask).Error
}

// DeleteSubtask removes a single subtask from a task
func (r *GormTaskRepository) DeleteSubtask(taskID, subtaskID uint64) error {
	result := r.db.Where("task_id = ?", taskID).Delete(&models.Subtask{}, subtaskID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddAttachment records attachment metadata on a task
func (r *GormTaskRepository) AddAttachment(attachment *models.Attachment) error {
	return r.db.Create(attachment).Error
}

// DeleteAttachment removes attachment metadata from a task
func (r *GormTaskRepository) DeleteAttachment(taskID, attachmentID uint64) error {
	result := r.db.Where("task_id = ?", taskID).Delete(&models.Attachment{}, attachmentID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountIncompleteWithDueDate counts a user's open tasks that carry a due date
func (r *GormTaskRepository) CountIncompleteWithDueDate(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("user_id = ?", userID).
		Where("completed = ?", false).
		Where("due_date IS NOT NULL").
		Count(&count).Error
	return count, err
}

// ListRemindersBetween returns open tasks across all users whose reminder
// falls in (from, to]
func (r *GormTaskRepository) ListRemindersBetween(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Where("reminder > ? AND reminder <= ?", from, to).
		Where("completed = ?", false).
		Find(&tasks).Error
	return tasks, err
}
