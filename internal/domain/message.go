package domain

import "time"

// Message roles in an assistant conversation.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry in a user's assistant transcript.
// Messages are append-only; they are never mutated after creation.
type Message struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
