package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tasknest-app/tasknest/internal/models"
)

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryResponse(category *models.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func newCategoryListResponse(categories []models.Category) []categoryResponse {
	list := make([]categoryResponse, 0, len(categories))
	for i := range categories {
		list = append(list, newCategoryResponse(&categories[i]))
	}
	return list
}

func (h *handlerImpl) HandleGetCategories(c *gin.Context) {
	if c.Query("sort") == "name" {
		c.JSON(http.StatusOK, newCategoryListResponse(h.categories.SortedByName()))
		return
	}
	c.JSON(http.StatusOK, newCategoryListResponse(h.categories.All()))
}

type createCategoryRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Color string `json:"color" binding:"required,max=32"`
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	var req createCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.Create(c, models.CreateCategoryData{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

func (h *handlerImpl) HandleEnsureDefaultCategory(c *gin.Context) {
	id, err := h.categories.EnsureDefaultCategory(c)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

type updateCategoryRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Color *string `json:"color,omitempty" binding:"omitempty,max=32"`
}

func (h *handlerImpl) HandleUpdateCategory(c *gin.Context) {
	var req updateCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.categories.Update(c, c.Param("id"), models.UpdateCategoryData{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}

	category := h.categories.ByID(c.Param("id"))
	if category == nil {
		abort(c, newNotFoundError("category not found"))
		return
	}
	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	err := h.categories.Delete(c, c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
