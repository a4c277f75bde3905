package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/taskhive/taskhive/internal/application"
	"github.com/taskhive/taskhive/internal/domain/entity"
	"github.com/taskhive/taskhive/internal/interface/middleware"
	"github.com/taskhive/taskhive/pkg/response"
	"github.com/taskhive/taskhive/pkg/validation"
)

type TaskHandler struct {
	Svc    *application.TaskService
	Logger *logrus.Logger
}

func NewTaskHandler(svc *application.TaskService, logger *logrus.Logger) *TaskHandler {
	return &TaskHandler{Svc: svc, Logger: logger}
}

type createTaskRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Status      string `json:"status" binding:"omitempty,oneof='To do' 'Doing' 'Done' 'Cancelled'"`
}

type updateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Status      *string `json:"status" binding:"omitempty,oneof='To do' 'Doing' 'Done' 'Cancelled'"`
}

func taskJSON(t *entity.Task) gin.H {
	return gin.H{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"status":      t.Status,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}

// taskID parses the :id path parameter. An unparsable id behaves like a
// missing task rather than a validation error.
func taskID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusNotFound, "Task not found")
		return 0, false
	}
	return id, true
}

// List GET /tasks/
func (h *TaskHandler) List(c *gin.Context) {
	tasks, err := h.Svc.List(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey))
	if err != nil {
		h.Logger.WithError(err).Error("list tasks failed")
		response.Error(c, http.StatusInternalServerError, "could not list tasks")
		return
	}
	out := make([]gin.H, 0, len(tasks))
	for i := range tasks {
		out = append(out, taskJSON(&tasks[i]))
	}
	response.JSON(c, http.StatusOK, out)
}

// Get GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, taskJSON(t))
}

// Create POST /tasks/
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), req.Title, req.Description, entity.TaskStatus(req.Status))
	if err != nil {
		h.writeTaskError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, taskJSON(t))
}

// Update PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, validation.ToDetails(err))
		return
	}
	patch := entity.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Status:      (*entity.TaskStatus)(req.Status),
	}
	t, err := h.Svc.Update(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id, patch)
	if err != nil {
		h.writeTaskError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, taskJSON(t))
}

// Delete DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), id); err != nil {
		h.writeTaskError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"detail": "Task deleted successfully"})
}

// Search GET /tasks/search?q=...&size=...
func (h *TaskHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.Search(c.Request.Context(), c.GetInt64(middleware.CtxUserIDKey), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("task search failed")
		response.Error(c, http.StatusInternalServerError, "search failed")
		return
	}
	response.JSON(c, http.StatusOK, hits)
}

func (h *TaskHandler) writeTaskError(c *gin.Context, err error) {
	if errors.Is(err, application.ErrTaskNotFound) {
		response.Error(c, http.StatusNotFound, "Task not found")
		return
	}
	if errors.Is(err, application.ErrInvalidStatus) {
		response.Error(c, http.StatusBadRequest, "Invalid task status")
		return
	}
	h.Logger.WithError(err).Error("task operation failed")
	response.Error(c, http.StatusInternalServerError, "task operation failed")
}
