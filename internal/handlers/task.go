package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codewithhoney24/bettertasks/internal/auth"
	dom "github.com/codewithhoney24/bettertasks/internal/domain"
	"github.com/codewithhoney24/bettertasks/internal/dto"
	"github.com/codewithhoney24/bettertasks/internal/service"
	"github.com/codewithhoney24/bettertasks/internal/viewmodel"
)

type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create godoc
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        body  body      dto.CreateTaskRequest  true  "Task body"
// @Success      201   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t, err := h.svc.Create(c.Request.Context(), auth.UserIDFromContext(c),
		req.Title, req.Description, req.Category, dom.Priority(req.Priority), req.DueDate.Ptr())
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) || errors.Is(err, service.ErrInvalidPriority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromTask(t))
}

// List godoc
// @Summary      List the user's tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Success      200  {object}  dto.ListTasksResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListTasksResponse{Items: dto.FromTasks(list)})
}

// GetByID godoc
// @Summary      Get a task by ID, subtasks included
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  dto.TaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := h.svc.GetByID(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// Update godoc
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.UpdateTaskRequest  true  "Partial update"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var duePtr *time.Time
	var clearDue bool
	if req.DueDate != nil {
		duePtr = req.DueDate.Ptr()
		clearDue = duePtr == nil // "due_date": "" снимает срок
	}
	var priority *dom.Priority
	if req.Priority != nil {
		p := dom.Priority(*req.Priority)
		priority = &p
	}
	t, err := h.svc.Update(c.Request.Context(), auth.UserIDFromContext(c), id,
		req.Title, req.Description, req.Category, priority, duePtr, clearDue, req.Completed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if errors.Is(err, service.ErrEmptyTitle) || errors.Is(err, service.ErrInvalidPriority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// Complete godoc
// @Summary      Set the completed flag
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id    path      int  true  "Task ID"
// @Param        body  body      dto.ToggleCompleteRequest  true  "Target state"
// @Success      200   {object}  dto.TaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id}/complete [patch]
func (h *TaskHandler) Complete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ToggleCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.svc.SetCompleted(c.Request.Context(), auth.UserIDFromContext(c), id, *req.Completed)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromTask(t))
}

// Delete godoc
// @Summary      Delete a task permanently
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id   path  int  true  "Task ID"
// @Success      200  {object}  dto.DeleteTaskResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	count, err := h.svc.Delete(c.Request.Context(), auth.UserIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DeleteTaskResponse{Message: "task deleted", DeletedCount: count})
}

// Dashboard godoc
// @Summary      Filtered, searched and sorted task view with stats
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path   string  true   "User ID"
// @Param        status   query  string  false  "all|pending|completed|overdue|updated|deleted|high|medium|low"
// @Param        q        query  string  false  "Search query"
// @Param        sort     query  string  false  "created|title|due_date|priority"
// @Success      200  {object}  dto.DashboardResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/dashboard [get]
func (h *TaskHandler) Dashboard(c *gin.Context) {
	opts := viewmodel.Options{
		Status: viewmodel.Status(c.Query("status")),
		Search: c.Query("q"),
		Sort:   viewmodel.SortKey(c.Query("sort")),
	}
	view, err := h.svc.Dashboard(c.Request.Context(), auth.UserIDFromContext(c), opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.DashboardResponse{Items: dto.FromTasks(view.Items), Stats: view.Stats})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
