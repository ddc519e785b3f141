package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tasknest-app/tasknest/internal/models"
)

type taskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	CategoryID  *string    `json:"categoryId"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CategoryID:  task.CategoryID,
		Priority:    string(task.Priority),
		DueDate:     task.DueDate,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

func newTaskListResponse(tasks []models.Task) []taskResponse {
	list := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		list = append(list, newTaskResponse(&tasks[i]))
	}
	return list
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	if categoryID := c.Query("category"); categoryID != "" {
		c.JSON(http.StatusOK, newTaskListResponse(h.tasks.ByCategory(categoryID)))
		return
	}
	if priority := c.Query("priority"); priority != "" {
		p := models.Priority(priority)
		if !p.Valid() {
			abort(c, newBadRequestError("invalid priority"))
			return
		}
		c.JSON(http.StatusOK, newTaskListResponse(h.tasks.ByPriority(p)))
		return
	}
	c.JSON(http.StatusOK, newTaskListResponse(h.tasks.ChronologicalDesc()))
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	Priority    string     `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.Create(c, models.CreateTaskData{
		Title:       req.Title,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Priority:    models.Priority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,max=255"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
	CategoryID  *string    `json:"categoryId,omitempty"`
	Priority    *string    `json:"priority,omitempty" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	data := models.UpdateTaskData{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		CategoryID:  req.CategoryID,
		DueDate:     req.DueDate,
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		data.Priority = &priority
	}

	err = h.tasks.Update(c, c.Param("id"), data)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	task := h.tasks.ByID(c.Param("id"))
	if task == nil {
		abort(c, newNotFoundError("task not found"))
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleToggleTask(c *gin.Context) {
	err := h.tasks.ToggleCompletion(c, c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return
	}

	task := h.tasks.ByID(c.Param("id"))
	if task == nil {
		abort(c, newNotFoundError("task not found"))
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	err := h.tasks.Delete(c, c.Param("id"))
	if err != nil {
		abortStoreError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleOverdueTasks(c *gin.Context) {
	c.JSON(http.StatusOK, newTaskListResponse(h.tasks.Overdue(time.Now())))
}

func (h *handlerImpl) HandlePendingTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count": h.tasks.PendingCount(),
		"tasks": newTaskListResponse(h.tasks.Pending()),
	})
}

func (h *handlerImpl) HandleCompletedTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"count": h.tasks.CompletedCount(),
		"tasks": newTaskListResponse(h.tasks.Completed()),
	})
}
