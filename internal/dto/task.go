package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"
	"github.com/codewithhoney24/bettertasks/internal/viewmodel"
)

// DueDate parses due_date from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",     // date only
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // with nanoseconds
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// If it was date-only (no time component), use start of day UTC
			if layout == "2006-01-02" {
				parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
			}
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=255"`
	Description string  `json:"description" binding:"max=1000"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    string  `json:"category" binding:"max=50"`
	DueDate     DueDate `json:"due_date"` // optional: "2026-02-19" or RFC3339
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Priority    *string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Category    *string  `json:"category" binding:"omitempty,max=50"`
	DueDate     *DueDate `json:"due_date"` // nil = не менять, значение = поставить
	Completed   *bool    `json:"completed"`
}

type ToggleCompleteRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

type TaskResponse struct {
	ID          int64             `json:"id"`
	UserID      string            `json:"user_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Completed   bool              `json:"completed"`
	Priority    string            `json:"priority"`
	Category    string            `json:"category,omitempty"`
	DueDate     *time.Time        `json:"due_date"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Subtasks    []SubtaskResponse `json:"subtasks,omitempty"`
}

type ListTasksResponse struct {
	Items []TaskResponse `json:"items"`
}

type CreateSubtaskRequest struct {
	Title     string `json:"title" binding:"required,min=1,max=255"`
	Completed bool   `json:"completed"`
}

type UpdateSubtaskRequest struct {
	Title     *string `json:"title" binding:"omitempty,min=1,max=255"`
	Completed *bool   `json:"completed"`
}

type SubtaskResponse struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListSubtasksResponse struct {
	Items []SubtaskResponse `json:"items"`
}

// DashboardResponse carries the derived view plus the aggregate counters.
type DashboardResponse struct {
	Items []TaskResponse  `json:"items"`
	Stats viewmodel.Stats `json:"stats"`
}

type DeleteTaskResponse struct {
	Message      string `json:"message"`
	DeletedCount int    `json:"deleted_count"`
}

// FromTask maps a domain task to its response shape.
func FromTask(t dom.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    t.Category,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Subtasks:    FromSubtasks(t.Subtasks),
	}
}

func FromTasks(list []dom.Task) []TaskResponse {
	out := make([]TaskResponse, len(list))
	for i := range list {
		out[i] = FromTask(list[i])
	}
	return out
}

func FromSubtask(s dom.Subtask) SubtaskResponse {
	return SubtaskResponse{
		ID:        s.ID,
		TaskID:    s.TaskID,
		Title:     s.Title,
		Completed: s.Completed,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromSubtasks(list []dom.Subtask) []SubtaskResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]SubtaskResponse, len(list))
	for i := range list {
		out[i] = FromSubtask(list[i])
	}
	return out
}
