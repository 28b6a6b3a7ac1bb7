package models

import "time"

// Subtask is a checklist item owned by exactly one task. It has no soft
// delete of its own; it lives and dies with its parent.
type Subtask struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
	TaskID      uint64     `gorm:"not null;index" json:"task_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
