package models

import (
	"math"
	"time"

	"github.com/clearday/clearday-api/internal/constants"
	"gorm.io/gorm"
)

type RecurringType string

const (
	RecurringDaily   RecurringType = "DAILY"
	RecurringWeekly  RecurringType = "WEEKLY"
	RecurringMonthly RecurringType = "MONTHLY"
	RecurringYearly  RecurringType = "YEARLY"
)

// ValidRecurringType reports whether t is a known recurrence type.
func ValidRecurringType(t RecurringType) bool {
	switch t {
	case RecurringDaily, RecurringWeekly, RecurringMonthly, RecurringYearly:
		return true
	}
	return false
}

// DueStatus is a derived, never-persisted classification of a task's due
// date relative to the current time.
type DueStatus string

const (
	DueStatusOverdue DueStatus = "overdue"
	DueStatusSoon    DueStatus = "soon"
	DueStatusFuture  DueStatus = "future"
)

type Task struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    int        `gorm:"not null;default:3" json:"priority"`
	Completed   bool       `gorm:"not null;default:false;index:idx_tasks_user_completed,priority:2" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	DueDate     *time.Time `gorm:"index:idx_tasks_user_due,priority:2" json:"due_date"`
	Reminder    *time.Time `json:"reminder"`

	Recurring         *RecurringType `gorm:"type:varchar(20)" json:"recurring"`
	RecurringInterval int            `gorm:"not null;default:1" json:"recurring_interval"`
	RecurringEndDate  *time.Time     `json:"recurring_end_date"`

	UserID     uint64         `gorm:"not null;index;index:idx_tasks_user_completed,priority:1;index:idx_tasks_user_project,priority:1;index:idx_tasks_user_due,priority:1" json:"user_id"`
	ProjectID  *uint64        `gorm:"index:idx_tasks_user_project,priority:2" json:"project_id"`
	CategoryID *uint64        `json:"category_id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User        User         `gorm:"foreignKey:UserID" json:"-"`
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Category    *Category    `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subtasks    []Subtask    `gorm:"foreignKey:TaskID" json:"subtasks,omitempty"`
	Attachments []Attachment `gorm:"foreignKey:TaskID" json:"attachments,omitempty"`
}

// DueStatusAt buckets the task's due date relative to now: overdue when the
// date has passed, soon within DueSoonWindowDays (inclusive), future beyond.
// Tasks without a due date have no status. Pure; recompute per request, since
// "now" keeps moving.
func (t *Task) DueStatusAt(now time.Time) (DueStatus, bool) {
	if t.DueDate == nil {
		return "", false
	}
	daysDiff := int(math.Ceil(t.DueDate.Sub(now).Hours() / 24))
	switch {
	case daysDiff < 0:
		return DueStatusOverdue, true
	case daysDiff <= constants.DueSoonWindowDays:
		return DueStatusSoon, true
	default:
		return DueStatusFuture, true
	}
}
