package services

import (
	"log"
	"sync"
	"time"

	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/repository"
)

// Notifier receives tasks whose reminder came due.
type Notifier interface {
	Notify(task models.Task)
}

// LogNotifier writes reminder notifications to the server log.
type LogNotifier struct{}

func (LogNotifier) Notify(task models.Task) {
	log.Printf("reminder due: task %d %q (user %d)", task.ID, task.Title, task.UserID)
}

// ReminderService scans for reminders that came due since the previous scan
// and hands them to the notifier. The window is half-open (lastRun, now], so
// each reminder fires at most once per process; completed tasks are skipped
// at the query level.
type ReminderService struct {
	taskRepo repository.TaskRepository
	notifier Notifier

	mu      sync.Mutex
	lastRun time.Time
}

// NewReminderService creates a new ReminderService. The first scan window
// starts at construction time.
func NewReminderService(taskRepo repository.TaskRepository, notifier Notifier) *ReminderService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &ReminderService{
		taskRepo: taskRepo,
		notifier: notifier,
		lastRun:  time.Now(),
	}
}

// Scan fires notifications for reminders due in (lastRun, now].
func (s *ReminderService) Scan(now time.Time) error {
	s.mu.Lock()
	from := s.lastRun
	s.mu.Unlock()

	if !now.After(from) {
		return nil
	}

	tasks, err := s.taskRepo.ListRemindersBetween(from, now)
	if err != nil {
		return err
	}

	for _, task := range tasks {
		s.notifier.Notify(task)
	}

	s.mu.Lock()
	s.lastRun = now
	s.mu.Unlock()

	return nil
}
