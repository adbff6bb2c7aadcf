package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codewithhoney24/bettertasks/internal/auth"
	"github.com/codewithhoney24/bettertasks/internal/dto"
	"github.com/codewithhoney24/bettertasks/internal/service"
)

type AssistantHandler struct {
	svc *service.AssistantService
}

func NewAssistantHandler(svc *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{svc: svc}
}

// Send godoc
// @Summary      Send a message to the assistant
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Param        body  body      dto.SendMessageRequest  true  "Message"
// @Success      201   {object}  dto.MessageResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users/{user_id}/assistant/messages [post]
func (h *AssistantHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := h.svc.Send(c.Request.Context(), auth.UserIDFromContext(c), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.FromMessage(msg))
}

// History godoc
// @Summary      Get the conversation transcript
// @Tags         assistant
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Success      200  {object}  dto.TranscriptResponse
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/assistant/messages [get]
func (h *AssistantHandler) History(c *gin.Context) {
	msgs, err := h.svc.History(c.Request.Context(), auth.UserIDFromContext(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TranscriptResponse{Items: dto.FromMessages(msgs)})
}

// Clear godoc
// @Summary      Clear the conversation transcript
// @Tags         assistant
// @Security     BearerAuth
// @Param        user_id  path  string  true  "User ID"
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /users/{user_id}/assistant/messages [delete]
func (h *AssistantHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context(), auth.UserIDFromContext(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
