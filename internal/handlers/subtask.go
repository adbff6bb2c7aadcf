package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithhoney24/bettertasks/internal/auth"
	"github.com/codewithhoney24/bettertasks/internal/dto"
	"github.com/codewithhoney24/bettertasks/internal/service"
)

type SubtaskHandler struct {
	svc *service.TaskService
}

func NewSubtaskHandler(svc *service.TaskService) *SubtaskHandler {
	return &SubtaskHandler{svc: svc}
}

// Create godoc
// @Summary      Add a subtask to a task
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id       path  int     true  "Task ID"
// @Param        body  body      dto.CreateSubtaskRequest  true  "Subtask body"
// @Success      201   {object}  dto.SubtaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id}/subtasks [post]
func (h *SubtaskHandler) Create(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.svc.CreateSubtask(c.Request.Context(), auth.UserIDFromContext(c), taskID, req.Title)
	if err != nil {
		writeSubtaskErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromSubtask(st))
}

// List godoc
// @Summary      List subtasks of a task
// @Tags         subtasks
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id       path  int     true  "Task ID"
// @Success      200  {object}  dto.ListSubtasksResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id}/subtasks [get]
func (h *SubtaskHandler) List(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.svc.ListSubtasks(c.Request.Context(), auth.UserIDFromContext(c), taskID)
	if err != nil {
		writeSubtaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListSubtasksResponse{Items: dto.FromSubtasks(list)})
}

// Update godoc
// @Summary      Update a subtask
// @Tags         subtasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id       path  int     true  "Task ID"
// @Param        subtask_id  path  int  true  "Subtask ID"
// @Param        body  body      dto.UpdateSubtaskRequest  true  "Partial update"
// @Success      200   {object}  dto.SubtaskResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id}/subtasks/{subtask_id} [patch]
func (h *SubtaskHandler) Update(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	id, ok := parseID(c, "subtask_id")
	if !ok {
		return
	}
	var req dto.UpdateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.svc.UpdateSubtask(c.Request.Context(), auth.UserIDFromContext(c), taskID, id, req.Title, req.Completed)
	if err != nil {
		writeSubtaskErr(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromSubtask(st))
}

// Delete godoc
// @Summary      Delete a subtask
// @Tags         subtasks
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        id       path  int     true  "Task ID"
// @Param        subtask_id  path  int  true  "Subtask ID"
// @Success      204
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/tasks/{id}/subtasks/{subtask_id} [delete]
func (h *SubtaskHandler) Delete(c *gin.Context) {
	taskID, ok := parseID(c, "id")
	if !ok {
		return
	}
	id, ok := parseID(c, "subtask_id")
	if !ok {
		return
	}
	if err := h.svc.DeleteSubtask(c.Request.Context(), auth.UserIDFromContext(c), taskID, id); err != nil {
		writeSubtaskErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeSubtaskErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrEmptyTitle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
