package models

import "time"

// Attachment holds file metadata only; the file bytes live elsewhere.
type Attachment struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Filename  string    `gorm:"type:varchar(255);not null" json:"filename"`
	URL       string    `gorm:"type:varchar(2048);not null" json:"url"`
	Size      int64     `gorm:"not null" json:"size"`
	MimeType  string    `gorm:"type:varchar(255)" json:"mime_type"`
	TaskID    uint64    `gorm:"not null;index" json:"task_id"`
	CreatedAt time.Time `json:"created_at"`
}
