package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clearday/clearday-api/internal/dto"
	apierrors "github.com/clearday/clearday-api/internal/errors"
	"github.com/clearday/clearday-api/internal/middleware"
	"github.com/clearday/clearday-api/internal/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
	}
}

// ListCategories returns the caller's categories
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	categories, err := h.categoryService.ListCategories(userID)
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	items := make([]dto.CategoryDTO, len(categories))
	for i, category := range categories {
		items[i] = dto.ToCategoryDTO(category)
	}

	c.JSON(http.StatusOK, gin.H{"categories": items})
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCategoryRequest struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(services.CreateCategoryInput{
		Name:   req.Name,
		Color:  req.Color,
		UserID: userID,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCategoryDTO(*category))
}

// UpdateCategory updates the provided fields of a category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	userID, categoryID, ok := callerAndParamID(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	type UpdateCategoryRequest struct {
		Name  *string `json:"name"`
		Color *string `json:"color"`
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(userID, categoryID, services.UpdateCategoryInput{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCategoryDTO(*category))
}

// DeleteCategory deletes a category, detaching tasks that used it
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	userID, categoryID, ok := callerAndParamID(c, "id", "Invalid category ID")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(userID, categoryID); err != nil {
		respondCategoryError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Category deleted successfully",
	})
}

func respondCategoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrCategoryNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrNameRequired),
		errors.Is(err, services.ErrInvalidColor):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
