package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/clearday/clearday-api/internal/dto"
	apierrors "github.com/clearday/clearday-api/internal/errors"
	"github.com/clearday/clearday-api/internal/middleware"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/services"
	"github.com/clearday/clearday-api/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks filtered by the query parameters.
// Each filter is optional; all of them AND together.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	input := services.ListTasksInput{UserID: userID}

	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid completed value")
			return
		}
		input.Completed = &completed
	}
	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project_id")
			return
		}
		input.ProjectID = &id
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid category_id")
			return
		}
		input.CategoryID = &id
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		input.Priority = &priority
	}
	if raw := c.Query("due_date"); raw != "" {
		dueBefore, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid due_date, expected RFC3339")
			return
		}
		input.DueBefore = &dueBefore
	}
	input.Search = c.Query("search")

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, time.Now(), params.Page, params.Limit, total))
}

// GetTask returns a single task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// CreateTask creates a new task
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateTaskRequest struct {
		Title             string                `json:"title" binding:"required"`
		Description       string                `json:"description"`
		Priority          *int                  `json:"priority"`
		DueDate           *time.Time            `json:"due_date"`
		Reminder          *time.Time            `json:"reminder"`
		Recurring         *models.RecurringType `json:"recurring"`
		RecurringInterval int                   `json:"recurring_interval"`
		RecurringEndDate  *time.Time            `json:"recurring_end_date"`
		ProjectID         *uint64               `json:"project_id"`
		CategoryID        *uint64               `json:"category_id"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequestWithDetails(c, "Invalid request body", err.Error())
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:             req.Title,
		Description:       req.Description,
		Priority:          req.Priority,
		DueDate:           req.DueDate,
		Reminder:          req.Reminder,
		Recurring:         req.Recurring,
		RecurringInterval: req.RecurringInterval,
		RecurringEndDate:  req.RecurringEndDate,
		ProjectID:         req.ProjectID,
		CategoryID:        req.CategoryID,
		UserID:            userID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, time.Now()))
}

// UpdateTask updates the provided fields of a task. The raw body is parsed
// so an explicit null can be told apart from an absent field.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var input services.UpdateTaskInput

	if title, ok := stringField(rawReq, "title"); ok {
		input.Title = title
	}
	if description, ok := stringField(rawReq, "description"); ok {
		input.Description = description
	}
	if raw, ok := rawReq["priority"]; ok {
		num, isNum := raw.(float64)
		if !isNum {
			apierrors.BadRequest(c, "Invalid priority")
			return
		}
		priority := int(num)
		input.Priority = &priority
	}

	var parseErr bool
	input.DueDate, input.ClearDueDate, parseErr = timeField(rawReq, "due_date")
	if parseErr {
		apierrors.BadRequest(c, "Invalid due_date, expected RFC3339")
		return
	}
	input.Reminder, input.ClearReminder, parseErr = timeField(rawReq, "reminder")
	if parseErr {
		apierrors.BadRequest(c, "Invalid reminder, expected RFC3339")
		return
	}
	if end, _, bad := timeField(rawReq, "recurring_end_date"); bad {
		apierrors.BadRequest(c, "Invalid recurring_end_date, expected RFC3339")
		return
	} else if end != nil {
		input.RecurringEndDate = end
	}

	if raw, ok := rawReq["recurring"]; ok {
		if raw == nil {
			input.ClearRecurring = true
		} else if s, isStr := raw.(string); isStr {
			recurring := models.RecurringType(s)
			input.Recurring = &recurring
		} else {
			apierrors.BadRequest(c, "Invalid recurring value")
			return
		}
	}
	if raw, ok := rawReq["recurring_interval"]; ok {
		if num, isNum := raw.(float64); isNum {
			interval := int(num)
			input.RecurringInterval = &interval
		}
	}

	input.ProjectID, input.ClearProject, parseErr = idField(rawReq, "project_id")
	if parseErr {
		apierrors.BadRequest(c, "Invalid project_id")
		return
	}
	input.CategoryID, input.ClearCategory, parseErr = idField(rawReq, "category_id")
	if parseErr {
		apierrors.BadRequest(c, "Invalid category_id")
		return
	}

	task, err := h.taskService.UpdateTask(userID, taskID, input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// ToggleTask flips the task's completion, cascading the new state to every
// subtask, and returns the refreshed task.
func (h *TaskHandler) ToggleTask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskService.ToggleCompletion(userID, taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// DeleteTask deletes a task along with its subtasks and attachments
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// AddSubtask appends a subtask to a task
func (h *TaskHandler) AddSubtask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	type AddSubtaskRequest struct {
		Title string `json:"title" binding:"required"`
	}

	var req AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AddSubtask(userID, taskID, req.Title)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, time.Now()))
}

// ToggleSubtask flips one subtask's completion without touching the parent
func (h *TaskHandler) ToggleSubtask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	subtaskID, err := strconv.ParseUint(c.Param("subtaskId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid subtask ID")
		return
	}

	task, err := h.taskService.ToggleSubtask(userID, taskID, subtaskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// DeleteSubtask removes one subtask from a task
func (h *TaskHandler) DeleteSubtask(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	subtaskID, err := strconv.ParseUint(c.Param("subtaskId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid subtask ID")
		return
	}

	task, err := h.taskService.DeleteSubtask(userID, taskID, subtaskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// AddAttachment records attachment metadata on a task
func (h *TaskHandler) AddAttachment(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	type AddAttachmentRequest struct {
		Filename string `json:"filename" binding:"required"`
		URL      string `json:"url" binding:"required"`
		Size     int64  `json:"size"`
		MimeType string `json:"mime_type"`
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AddAttachment(userID, taskID, services.AddAttachmentInput{
		Filename: req.Filename,
		URL:      req.URL,
		Size:     req.Size,
		MimeType: req.MimeType,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task, time.Now()))
}

// DeleteAttachment removes attachment metadata from a task
func (h *TaskHandler) DeleteAttachment(c *gin.Context) {
	userID, taskID, ok := callerAndTaskID(c)
	if !ok {
		return
	}

	attachmentID, err := strconv.ParseUint(c.Param("attachmentId"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid attachment ID")
		return
	}

	task, err := h.taskService.DeleteAttachment(userID, taskID, attachmentID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task, time.Now()))
}

// callerAndTaskID pulls the authenticated user and the :id path parameter,
// answering 401/400 itself when either is missing.
func callerAndTaskID(c *gin.Context) (userID, taskID uint64, ok bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return 0, 0, false
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task ID")
		return 0, 0, false
	}

	return userID, taskID, true
}

// stringField reports a string field if present; absent fields return ok=false.
func stringField(raw map[string]any, key string) (*string, bool) {
	value, present := raw[key]
	if !present {
		return nil, false
	}
	if s, isStr := value.(string); isStr {
		return &s, true
	}
	return nil, false
}

// timeField parses an optional RFC3339 field. An explicit null sets clear;
// a malformed value sets bad.
func timeField(raw map[string]any, key string) (t *time.Time, clear bool, bad bool) {
	value, present := raw[key]
	if !present {
		return nil, false, false
	}
	if value == nil {
		return nil, true, false
	}
	s, isStr := value.(string)
	if !isStr {
		return nil, false, true
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false, true
	}
	return &parsed, false, false
}

// idField parses an optional numeric ID field with the same null semantics
// as timeField.
func idField(raw map[string]any, key string) (id *uint64, clear bool, bad bool) {
	value, present := raw[key]
	if !present {
		return nil, false, false
	}
	if value == nil {
		return nil, true, false
	}
	num, isNum := value.(float64)
	if !isNum || num < 0 {
		return nil, false, true
	}
	parsed := uint64(num)
	return &parsed, false, false
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubtaskNotFound),
		errors.Is(err, services.ErrAttachmentNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTitleEmpty),
		errors.Is(err, services.ErrInvalidPriority),
		errors.Is(err, services.ErrInvalidRecurrence),
		errors.Is(err, services.ErrProjectNotLinkable),
		errors.Is(err, services.ErrCategoryNotLinkable):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
