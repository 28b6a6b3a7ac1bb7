package dto

import (
	"time"

	"github.com/clearday/clearday-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}

// ProjectDTO represents a project in API responses
type ProjectDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// CategoryDTO represents a category in API responses
type CategoryDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// SubtaskDTO represents a subtask in API responses
type SubtaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// AttachmentDTO represents attachment metadata in API responses
type AttachmentDTO struct {
	ID       uint64 `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type,omitempty"`
}

// TaskDTO represents a task in API responses. DueStatus is derived from the
// due date at conversion time and is never stored.
type TaskDTO struct {
	ID                uint64                `json:"id"`
	Title             string                `json:"title"`
	Description       string                `json:"description,omitempty"`
	Priority          int                   `json:"priority"`
	Completed         bool                  `json:"completed"`
	CompletedAt       *time.Time            `json:"completed_at"`
	DueDate           *time.Time            `json:"due_date"`
	DueStatus         models.DueStatus      `json:"due_status,omitempty"`
	Reminder          *time.Time            `json:"reminder,omitempty"`
	Recurring         *models.RecurringType `json:"recurring,omitempty"`
	RecurringInterval int                   `json:"recurring_interval,omitempty"`
	RecurringEndDate  *time.Time            `json:"recurring_end_date,omitempty"`
	ProjectID         *uint64               `json:"project_id"`
	CategoryID        *uint64               `json:"category_id"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Project           *ProjectDTO           `json:"project,omitempty"`
	Category          *CategoryDTO          `json:"category,omitempty"`
	Subtasks          []SubtaskDTO          `json:"subtasks"`
	Attachments       []AttachmentDTO       `json:"attachments,omitempty"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO `json:"tasks"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalCount int64     `json:"total_count"`
	TotalPages int       `json:"total_pages"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}
}

// ToProjectDTO converts a Project model to ProjectDTO
func ToProjectDTO(project models.Project) ProjectDTO {
	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Color:       project.Color,
	}
}

// ToCategoryDTO converts a Category model to CategoryDTO
func ToCategoryDTO(category models.Category) CategoryDTO {
	return CategoryDTO{
		ID:    category.ID,
		Name:  category.Name,
		Color: category.Color,
	}
}

// ToSubtaskDTO converts a Subtask model to SubtaskDTO
func ToSubtaskDTO(subtask models.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:          subtask.ID,
		Title:       subtask.Title,
		Completed:   subtask.Completed,
		CompletedAt: subtask.CompletedAt,
	}
}

// ToAttachmentDTO converts an Attachment model to AttachmentDTO
func ToAttachmentDTO(attachment models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:       attachment.ID,
		Filename: attachment.Filename,
		URL:      attachment.URL,
		Size:     attachment.Size,
		MimeType: attachment.MimeType,
	}
}

// ToTaskDTO converts a Task model to TaskDTO, computing the due-status
// bucket against the supplied reference time.
func ToTaskDTO(task models.Task, now time.Time) TaskDTO {
	dto := TaskDTO{
		ID:                task.ID,
		Title:             task.Title,
		Description:       task.Description,
		Priority:          task.Priority,
		Completed:         task.Completed,
		CompletedAt:       task.CompletedAt,
		DueDate:           task.DueDate,
		Reminder:          task.Reminder,
		Recurring:         task.Recurring,
		RecurringInterval: task.RecurringInterval,
		RecurringEndDate:  task.RecurringEndDate,
		ProjectID:         task.ProjectID,
		CategoryID:        task.CategoryID,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
		Subtasks:          make([]SubtaskDTO, 0, len(task.Subtasks)),
	}

	if status, ok := task.DueStatusAt(now); ok {
		dto.DueStatus = status
	}

	if task.Project != nil {
		project := ToProjectDTO(*task.Project)
		dto.Project = &project
	}
	if task.Category != nil {
		category := ToCategoryDTO(*task.Category)
		dto.Category = &category
	}

	for _, subtask := range task.Subtasks {
		dto.Subtasks = append(dto.Subtasks, ToSubtaskDTO(subtask))
	}
	for _, attachment := range task.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(attachment))
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, now time.Time, page, pageSize int, totalCount int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task, now)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = int(totalCount) / pageSize
		if int(totalCount)%pageSize > 0 {
			totalPages++
		}
	}

	return TaskListResponse{
		Tasks:      items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
