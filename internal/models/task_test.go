package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskDueStatusAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		dueIn    time.Duration
		expected DueStatus
	}{
		{"a day overdue", -25 * time.Hour, DueStatusOverdue},
		{"moments past due rounds to day zero", -time.Minute, DueStatusSoon},
		{"a full day overdue", -24 * time.Hour, DueStatusOverdue},
		{"due within the hour", time.Hour, DueStatusSoon},
		{"exactly two days out", 48 * time.Hour, DueStatusSoon},
		{"just over two days out", 49 * time.Hour, DueStatusFuture},
		{"ten days out", 10 * 24 * time.Hour, DueStatusFuture},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := now.Add(tt.dueIn)
			task := Task{DueDate: &due}

			status, ok := task.DueStatusAt(now)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestTaskDueStatusAt_NoDueDate(t *testing.T) {
	task := Task{}

	_, ok := task.DueStatusAt(time.Now())
	assert.False(t, ok)
}

func TestValidRecurringType(t *testing.T) {
	assert.True(t, ValidRecurringType(RecurringDaily))
	assert.True(t, ValidRecurringType(RecurringYearly))
	assert.False(t, ValidRecurringType(RecurringType("HOURLY")))
	assert.False(t, ValidRecurringType(RecurringType("")))
}
