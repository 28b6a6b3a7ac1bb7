package services

import (
	"fmt"

	"github.com/clearday/clearday-api/internal/repository"
)

// CalendarService is a synchronous stand-in for an external calendar
// integration. It reports how many tasks would be pushed; it performs no
// network calls and stores nothing.
type CalendarService struct {
	taskRepo repository.TaskRepository
}

// NewCalendarService creates a new CalendarService
func NewCalendarService(taskRepo repository.TaskRepository) *CalendarService {
	return &CalendarService{taskRepo: taskRepo}
}

// SyncResult reports the outcome of a sync request.
type SyncResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	SyncedTasks int64  `json:"synced_tasks"`
}

// Sync counts the user's open tasks that carry a due date and reports them
// as synced.
func (s *CalendarService) Sync(userID uint64) (*SyncResult, error) {
	count, err := s.taskRepo.CountIncompleteWithDueDate(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to collect tasks for sync: %w", err)
	}

	return &SyncResult{
		Success:     true,
		Message:     fmt.Sprintf("Synced %d tasks with calendar", count),
		SyncedTasks: count,
	}, nil
}
