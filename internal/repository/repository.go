package repository

import (
	"time"

	"github.com/clearday/clearday-api/internal/models"
)

// TaskRepository defines the interface for task data access. Every finder
// takes the owning user's ID and scopes on it first; a task owned by another
// user is indistinguishable from a missing one.
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a user's task by ID with optional preloading
	FindByID(userID, id uint64, preload ...string) (*models.Task, error)

	// List retrieves a user's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves a task
	Update(task *models.Task) error

	// SaveWithSubtaskMirror saves the task and overwrites every subtask's
	// completion state with the task's own, atomically.
	SaveWithSubtaskMirror(task *models.Task) error

	// Delete removes a task together with its subtasks and attachments
	Delete(userID, id uint64) error

	// AddSubtask appends a subtask to a task
	AddSubtask(subtask *models.Subtask) error

	// FindSubtask finds a subtask belonging to a task
	FindSubtask(taskID, subtaskID uint64) (*models.Subtask, error)

	// UpdateSubtask saves a subtask
	UpdateSubtask(subtask *models.Subtask) error

	// DeleteSubtask removes a single subtask from a task
	DeleteSubtask(taskID, subtaskID uint64) error

	// AddAttachment records attachment metadata on a task
	AddAttachment(attachment *models.Attachment) error

	// DeleteAttachment removes attachment metadata from a task
	DeleteAttachment(taskID, attachmentID uint64) error

	// CountIncompleteWithDueDate counts a user's open tasks that carry a due date
	CountIncompleteWithDueDate(userID uint64) (int64, error)

	// ListRemindersBetween returns open tasks across all users whose reminder
	// falls in (from, to]
	ListRemindersBetween(from, to time.Time) ([]models.Task, error)
}

// TaskFilter holds filtering options for listing tasks. UserID is mandatory;
// every other predicate is optional and ANDed in.
type TaskFilter struct {
	UserID     uint64
	Completed  *bool
	ProjectID  *uint64
	CategoryID *uint64
	Priority   *int
	DueBefore  *time.Time
	Search     string
	Page       int
	PageSize   int
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a user's project by ID
	FindByID(userID, id uint64) (*models.Project, error)

	// ListByUser lists a user's projects, newest first
	ListByUser(userID uint64) ([]models.Project, error)

	// Update saves a project
	Update(project *models.Project) error

	// DeleteAndDetachTasks deletes a project and clears the project reference
	// from every task that pointed at it, in one transaction. Tasks survive.
	DeleteAndDetachTasks(userID, id uint64) error

	// Stats counts a project's total and completed tasks
	Stats(userID, projectID uint64) (total, completed int64, err error)
}

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	// Create creates a new category
	Create(category *models.Category) error

	// FindByID finds a user's category by ID
	FindByID(userID, id uint64) (*models.Category, error)

	// ListByUser lists a user's categories, newest first
	ListByUser(userID uint64) ([]models.Category, error)

	// Update saves a category
	Update(category *models.Category) error

	// DeleteAndDetachTasks deletes a category and clears the category
	// reference from tasks that pointed at it, in one transaction.
	DeleteAndDetachTasks(userID, id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}
