package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/clearday/clearday-api/internal/constants"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrSubtaskNotFound     = errors.New("subtask not found")
	ErrAttachmentNotFound  = errors.New("attachment not found")
	ErrTitleRequired       = errors.New("title is required")
	ErrTitleEmpty          = errors.New("title cannot be empty")
	ErrInvalidPriority     = fmt.Errorf("priority must be between %d and %d", constants.PriorityMin, constants.PriorityMax)
	ErrInvalidRecurrence   = errors.New("invalid recurrence type")
	ErrProjectNotLinkable  = errors.New("project not found")
	ErrCategoryNotLinkable = errors.New("category not found")
)

// taskPreloads are the relations returned with a single task.
var taskPreloads = []string{"Project", "Category", "Subtasks", "Attachments"}

// TaskService handles task business logic
type TaskService struct {
	taskRepo     repository.TaskRepository
	projectRepo  repository.ProjectRepository
	categoryRepo repository.CategoryRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, categoryRepo repository.CategoryRepository) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
	}
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
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

// CreateTaskInput represents input for creating a task. Priority is a
// pointer so an absent field (defaulted) and an explicit out-of-range
// value (rejected) are distinguishable.
type CreateTaskInput struct {
	Title             string
	Description       string
	Priority          *int
	DueDate           *time.Time
	Reminder          *time.Time
	Recurring         *models.RecurringType
	RecurringInterval int
	RecurringEndDate  *time.Time
	ProjectID         *uint64
	CategoryID        *uint64
	UserID            uint64
}

// UpdateTaskInput represents input for updating a task. Pointer fields were
// present in the request; the Clear flags mean an explicit null was sent.
type UpdateTaskInput struct {
	Title             *string
	Description       *string
	Priority          *int
	DueDate           *time.Time
	ClearDueDate      bool
	Reminder          *time.Time
	ClearReminder     bool
	Recurring         *models.RecurringType
	ClearRecurring    bool
	RecurringInterval *int
	RecurringEndDate  *time.Time
	ProjectID         *uint64
	ClearProject      bool
	CategoryID        *uint64
	ClearCategory     bool
}

// ListTasks returns the user's tasks matching the filter combination
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Priority != nil {
		if *input.Priority < constants.PriorityMin || *input.Priority > constants.PriorityMax {
			return nil, 0, ErrInvalidPriority
		}
	}

	filter := repository.TaskFilter{
		UserID:     input.UserID,
		Completed:  input.Completed,
		ProjectID:  input.ProjectID,
		CategoryID: input.CategoryID,
		Priority:   input.Priority,
		DueBefore:  input.DueBefore,
		Search:     strings.TrimSpace(input.Search),
		Page:       input.Page,
		PageSize:   input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a user's task with related data
func (s *TaskService) GetTask(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID, taskPreloads...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// CreateTask creates a new task after validating its fields and the
// ownership of any linked project or category
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	priority := constants.PriorityDefault
	if input.Priority != nil {
		priority = *input.Priority
	}
	if priority < constants.PriorityMin || priority > constants.PriorityMax {
		return nil, ErrInvalidPriority
	}

	if input.Recurring != nil && !models.ValidRecurringType(*input.Recurring) {
		return nil, ErrInvalidRecurrence
	}
	if input.RecurringInterval <= 0 {
		input.RecurringInterval = 1
	}

	if err := s.ensureLinksOwned(input.UserID, input.ProjectID, input.CategoryID); err != nil {
		return nil, err
	}

	task := &models.Task{
		Title:             title,
		Description:       strings.TrimSpace(input.Description),
		Priority:          priority,
		DueDate:           input.DueDate,
		Reminder:          input.Reminder,
		Recurring:         input.Recurring,
		RecurringInterval: input.RecurringInterval,
		RecurringEndDate:  input.RecurringEndDate,
		ProjectID:         input.ProjectID,
		CategoryID:        input.CategoryID,
		UserID:            input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return s.reload(task.UserID, task.ID)
}

// UpdateTask updates the provided fields of an existing task
func (s *TaskService) UpdateTask(userID, taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = strings.TrimSpace(*input.Description)
	}
	if input.Priority != nil {
		if *input.Priority < constants.PriorityMin || *input.Priority > constants.PriorityMax {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.ClearReminder {
		task.Reminder = nil
	} else if input.Reminder != nil {
		task.Reminder = input.Reminder
	}
	if input.ClearRecurring {
		task.Recurring = nil
	} else if input.Recurring != nil {
		if !models.ValidRecurringType(*input.Recurring) {
			return nil, ErrInvalidRecurrence
		}
		task.Recurring = input.Recurring
	}
	if input.RecurringInterval != nil && *input.RecurringInterval > 0 {
		task.RecurringInterval = *input.RecurringInterval
	}
	if input.RecurringEndDate != nil {
		task.RecurringEndDate = input.RecurringEndDate
	}

	var projectID, categoryID *uint64
	if input.ClearProject {
		task.ProjectID = nil
	} else if input.ProjectID != nil {
		projectID = input.ProjectID
	}
	if input.ClearCategory {
		task.CategoryID = nil
	} else if input.CategoryID != nil {
		categoryID = input.CategoryID
	}
	if err := s.ensureLinksOwned(userID, projectID, categoryID); err != nil {
		return nil, err
	}
	if projectID != nil {
		task.ProjectID = projectID
	}
	if categoryID != nil {
		task.CategoryID = categoryID
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.reload(userID, task.ID)
}

// ToggleCompletion flips the task's completed flag, stamping or clearing
// completed_at, and mirrors the new state onto every subtask. The whole
// cascade is one transaction: either the task and all its subtasks move
// together or nothing changes.
func (s *TaskService) ToggleCompletion(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Completed = !task.Completed
	if task.Completed {
		now := time.Now()
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}

	if err := s.taskRepo.SaveWithSubtaskMirror(task); err != nil {
		return nil, fmt.Errorf("failed to toggle completion: %w", err)
	}

	return s.reload(userID, task.ID)
}

// DeleteTask removes a user's task and everything it owns
func (s *TaskService) DeleteTask(userID, taskID uint64) error {
	if err := s.taskRepo.Delete(userID, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// AddSubtask appends a subtask to a user's task and returns the refreshed task
func (s *TaskService) AddSubtask(userID, taskID uint64, title string) (*models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	subtask := &models.Subtask{
		Title:  title,
		TaskID: task.ID,
	}
	if err := s.taskRepo.AddSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to add subtask: %w", err)
	}

	return s.reload(userID, task.ID)
}

// ToggleSubtask flips one subtask's completion. The parent task's own
// completed flag is left alone; the cascade runs parent to children only.
func (s *TaskService) ToggleSubtask(userID, taskID, subtaskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	subtask, err := s.taskRepo.FindSubtask(task.ID, subtaskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to find subtask: %w", err)
	}

	subtask.Completed = !subtask.Completed
	if subtask.Completed {
		now := time.Now()
		subtask.CompletedAt = &now
	} else {
		subtask.CompletedAt = nil
	}

	if err := s.taskRepo.UpdateSubtask(subtask); err != nil {
		return nil, fmt.Errorf("failed to toggle subtask: %w", err)
	}

	return s.reload(userID, task.ID)
}

// DeleteSubtask removes one subtask from a user's task
func (s *TaskService) DeleteSubtask(userID, taskID, subtaskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.DeleteSubtask(task.ID, subtaskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubtaskNotFound
		}
		return nil, fmt.Errorf("failed to delete subtask: %w", err)
	}

	return s.reload(userID, task.ID)
}

// AddAttachmentInput represents attachment metadata to record on a task
type AddAttachmentInput struct {
	Filename string
	URL      string
	Size     int64
	MimeType string
}

// AddAttachment records attachment metadata on a user's task
func (s *TaskService) AddAttachment(userID, taskID uint64, input AddAttachmentInput) (*models.Task, error) {
	if strings.TrimSpace(input.Filename) == "" || strings.TrimSpace(input.URL) == "" {
		return nil, ErrTitleRequired
	}

	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	attachment := &models.Attachment{
		Filename: strings.TrimSpace(input.Filename),
		URL:      strings.TrimSpace(input.URL),
		Size:     input.Size,
		MimeType: input.MimeType,
		TaskID:   task.ID,
	}
	if err := s.taskRepo.AddAttachment(attachment); err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}

	return s.reload(userID, task.ID)
}

// DeleteAttachment removes attachment metadata from a user's task
func (s *TaskService) DeleteAttachment(userID, taskID, attachmentID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.DeleteAttachment(task.ID, attachmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachmentNotFound
		}
		return nil, fmt.Errorf("failed to delete attachment: %w", err)
	}

	return s.reload(userID, task.ID)
}

// ensureLinksOwned verifies that a linked project / category belongs to the
// user. A foreign link is rejected the same way a nonexistent one is.
func (s *TaskService) ensureLinksOwned(userID uint64, projectID, categoryID *uint64) error {
	if projectID != nil {
		if _, err := s.projectRepo.FindByID(userID, *projectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotLinkable
			}
			return fmt.Errorf("failed to verify project: %w", err)
		}
	}
	if categoryID != nil {
		if _, err := s.categoryRepo.FindByID(userID, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotLinkable
			}
			return fmt.Errorf("failed to verify category: %w", err)
		}
	}
	return nil
}

func (s *TaskService) reload(userID, taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(userID, taskID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return task, nil
}
