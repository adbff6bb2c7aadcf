package dto

import (
	"time"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

// SendMessageRequest is the JSON body for POST .../assistant/messages.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type MessageResponse struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type TranscriptResponse struct {
	Items []MessageResponse `json:"items"`
}

func FromMessage(m dom.Message) MessageResponse {
	return MessageResponse{ID: m.ID, Role: m.Role, Content: m.Content, Timestamp: m.Timestamp}
}

func FromMessages(list []dom.Message) []MessageResponse {
	out := make([]MessageResponse, len(list))
	for i := range list {
		out[i] = FromMessage(list[i])
	}
	return out
}
