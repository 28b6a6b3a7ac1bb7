package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/clearday/clearday-api/internal/constants"
	"github.com/clearday/clearday-api/internal/database"
	"github.com/clearday/clearday-api/internal/dto"
	"github.com/clearday/clearday-api/internal/models"
	"github.com/clearday/clearday-api/internal/repository"
	"github.com/clearday/clearday-api/internal/services"
)

// CategoryHandlerTestSuite defines the test suite for CategoryHandler
type CategoryHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *CategoryHandler
}

// SetupTest runs before each test
func (suite *CategoryHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Category{},
		&models.Task{},
		&models.Subtask{},
		&models.Attachment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	suite.handler = NewCategoryHandler(services.NewCategoryService(repository.NewCategoryRepository(suite.db)))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *CategoryHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *CategoryHandlerTestSuite) createTestUser(email string) *models.User {
	user := &models.User{
		Email:        email,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *CategoryHandlerTestSuite) createTestCategory(name string, userID uint64) *models.Category {
	category := &models.Category{
		Name:   name,
		Color:  "#6B7280",
		UserID: userID,
	}
	suite.db.Create(category)
	return category
}

func (suite *CategoryHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func setCategoryParamID(c *gin.Context, id uint64) {
	c.Params = append(c.Params, gin.Param{Key: "id", Value: fmt.Sprintf("%d", id)})
}

// TestListCategories_OwnershipScoped tests listing only the caller's categories
func (suite *CategoryHandlerTestSuite) TestListCategories_OwnershipScoped() {
	user := suite.createTestUser("test@example.com")
	other := suite.createTestUser("other@example.com")
	suite.createTestCategory("Work", user.ID)
	suite.createTestCategory("Personal", other.ID)

	c, w := suite.createAuthContext("GET", "/api/categories", nil, user.ID)

	suite.handler.ListCategories(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response struct {
		Categories []dto.CategoryDTO `json:"categories"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Categories, 1)
	assert.Equal(suite.T(), "Work", response.Categories[0].Name)
}

// TestCreateCategory_Success tests category creation
func (suite *CategoryHandlerTestSuite) TestCreateCategory_Success() {
	user := suite.createTestUser("test@example.com")

	requestBody := map[string]interface{}{
		"name":  "Errands",
		"color": "#10B981",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Errands", response.Name)
	assert.Equal(suite.T(), "#10B981", response.Color)
}

// TestCreateCategory_DefaultColor tests that color defaults when omitted
func (suite *CategoryHandlerTestSuite) TestCreateCategory_DefaultColor() {
	user := suite.createTestUser("test@example.com")

	requestBody := map[string]interface{}{"name": "Plain"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/categories", body, user.ID)

	suite.handler.CreateCategory(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.DefaultCategoryColor, response.Color)
}

// TestUpdateCategory_Success tests a partial update
func (suite *CategoryHandlerTestSuite) TestUpdateCategory_Success() {
	user := suite.createTestUser("test@example.com")
	category := suite.createTestCategory("Old", user.ID)

	requestBody := map[string]interface{}{"name": "Renamed"}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PATCH", "/api/categories/1", body, user.ID)
	setCategoryParamID(c, category.ID)

	suite.handler.UpdateCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.CategoryDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Renamed", response.Name)
	assert.Equal(suite.T(), category.Color, response.Color)
}

// TestDeleteCategory_DetachesTasks tests that deletion leaves tasks alive but unlinked
func (suite *CategoryHandlerTestSuite) TestDeleteCategory_DetachesTasks() {
	user := suite.createTestUser("test@example.com")
	category := suite.createTestCategory("Doomed", user.ID)

	task := &models.Task{
		Title:      "Survivor",
		Priority:   3,
		UserID:     user.ID,
		CategoryID: &category.ID,
	}
	suite.db.Create(task)

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, user.ID)
	setCategoryParamID(c, category.ID)

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var categoryCount int64
	suite.db.Model(&models.Category{}).Where("id = ?", category.ID).Count(&categoryCount)
	assert.Equal(suite.T(), int64(0), categoryCount)

	var reloaded models.Task
	err := suite.db.First(&reloaded, task.ID).Error
	assert.NoError(suite.T(), err, "task must survive category deletion")
	assert.Nil(suite.T(), reloaded.CategoryID)
}

// TestDeleteCategory_NotOwned tests that a foreign category cannot be deleted
func (suite *CategoryHandlerTestSuite) TestDeleteCategory_NotOwned() {
	owner := suite.createTestUser("owner@example.com")
	other := suite.createTestUser("other@example.com")
	category := suite.createTestCategory("Private", owner.ID)

	c, w := suite.createAuthContext("DELETE", "/api/categories/1", nil, other.ID)
	setCategoryParamID(c, category.ID)

	suite.handler.DeleteCategory(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestCategoryHandlerTestSuite runs the test suite
func TestCategoryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryHandlerTestSuite))
}
