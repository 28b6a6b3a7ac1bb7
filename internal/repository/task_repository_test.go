package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clearday/clearday-api/internal/models"
)

func setupTaskRepoTest(t *testing.T) (*gorm.DB, TaskRepository) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.Task{},
		&models.Subtask{},
		&models.Attachment{},
	)
	require.NoError(t, err)

	return db, NewTaskRepository(db)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	user := &models.User{Email: email, PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedTask(t *testing.T, db *gorm.DB, userID uint64, title string, priority int) *models.Task {
	task := &models.Task{Title: title, Priority: priority, UserID: userID}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepositoryList_PriorityFilterAndPagination(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	user := seedUser(t, db, "test@example.com")

	for i := 0; i < 3; i++ {
		seedTask(t, db, user.ID, "urgent", 1)
	}
	seedTask(t, db, user.ID, "background", 4)

	priority := 1
	tasks, total, err := repo.List(TaskFilter{
		UserID:   user.ID,
		Priority: &priority,
		Page:     1,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, 1, task.Priority)
	}
}

func TestTaskRepositoryList_PriorityBreaksDueDateTies(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	user := seedUser(t, db, "test@example.com")

	// Priority 1 is the most urgent, so it wins the tie.
	due := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	leastUrgent := seedTask(t, db, user.ID, "least urgent", 4)
	mostUrgent := seedTask(t, db, user.ID, "most urgent", 1)
	require.NoError(t, db.Model(leastUrgent).Update("due_date", due).Error)
	require.NoError(t, db.Model(mostUrgent).Update("due_date", due).Error)

	tasks, _, err := repo.List(TaskFilter{UserID: user.ID})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "most urgent", tasks[0].Title)
	assert.Equal(t, "least urgent", tasks[1].Title)
}

func TestTaskRepositoryList_SearchTreatsWildcardsLiterally(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	user := seedUser(t, db, "test@example.com")

	seedTask(t, db, user.ID, "Progress at 100%", 3)
	seedTask(t, db, user.ID, "Unrelated", 3)
	seedTask(t, db, user.ID, "a_b migration", 3)
	seedTask(t, db, user.ID, "axb migration", 3)

	tasks, total, err := repo.List(TaskFilter{UserID: user.ID, Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Progress at 100%", tasks[0].Title)

	// "_" must not act as a single-character wildcard.
	tasks, total, err = repo.List(TaskFilter{UserID: user.ID, Search: "a_b"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a_b migration", tasks[0].Title)
}

func TestTaskRepositoryFindByID_ScopedToOwner(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	task := seedTask(t, db, owner.ID, "private", 3)

	found, err := repo.FindByID(owner.ID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, found.ID)

	_, err = repo.FindByID(other.ID, task.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestTaskRepositorySaveWithSubtaskMirror(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	user := seedUser(t, db, "test@example.com")
	task := seedTask(t, db, user.ID, "parent", 3)

	subtasks := []models.Subtask{
		{Title: "a", TaskID: task.ID},
		{Title: "b", TaskID: task.ID, Completed: true},
	}
	for i := range subtasks {
		require.NoError(t, db.Create(&subtasks[i]).Error)
	}

	now := time.Now().Truncate(time.Second)
	task.Completed = true
	task.CompletedAt = &now
	require.NoError(t, repo.SaveWithSubtaskMirror(task))

	var mirrored []models.Subtask
	require.NoError(t, db.Where("task_id = ?", task.ID).Find(&mirrored).Error)
	require.Len(t, mirrored, 2)
	for _, subtask := range mirrored {
		assert.True(t, subtask.Completed)
		require.NotNil(t, subtask.CompletedAt)
	}

	// And back again: clearing the parent clears every subtask.
	task.Completed = false
	task.CompletedAt = nil
	require.NoError(t, repo.SaveWithSubtaskMirror(task))

	require.NoError(t, db.Where("task_id = ?", task.ID).Find(&mirrored).Error)
	for _, subtask := range mirrored {
		assert.False(t, subtask.Completed)
		assert.Nil(t, subtask.CompletedAt)
	}
}

func TestTaskRepositoryDelete_RemovesChildren(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	user := seedUser(t, db, "test@example.com")
	task := seedTask(t, db, user.ID, "doomed", 3)

	require.NoError(t, db.Create(&models.Subtask{Title: "child", TaskID: task.ID}).Error)
	require.NoError(t, db.Create(&models.Attachment{Filename: "f.pdf", URL: "https://example.com/f.pdf", TaskID: task.ID}).Error)

	require.NoError(t, repo.Delete(user.ID, task.ID))

	var subtaskCount, attachmentCount int64
	db.Model(&models.Subtask{}).Where("task_id = ?", task.ID).Count(&subtaskCount)
	db.Model(&models.Attachment{}).Where("task_id = ?", task.ID).Count(&attachmentCount)
	assert.Equal(t, int64(0), subtaskCount)
	assert.Equal(t, int64(0), attachmentCount)
}

func TestTaskRepositoryDelete_NotOwnedLeavesChildren(t *testing.T) {
	db, repo := setupTaskRepoTest(t)
	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")
	task := seedTask(t, db, owner.ID, "private", 3)
	require.NoError(t, db.Create(&models.Subtask{Title: "child", TaskID: task.ID}).Error)

	err := repo.Delete(other.ID, task.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	var subtaskCount int64
	db.Model(&models.Subtask{}).Where("task_id = ?", task.ID).Count(&subtaskCount)
	assert.Equal(t, int64(1), subtaskCount)
}
