package domain

import "time"

// Priority is the task priority level.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank returns the sort rank: high=3, medium=2, low=1, anything else 0.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	Category    string
	DueDate     *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Subtasks are fetched lazily and merged in when requested.
	Subtasks []Subtask
}

// Overdue reports whether the task is past due relative to cutoff.
// A task without a due date is never overdue.
func (t Task) Overdue(cutoff time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(cutoff)
}

// DueOn reports whether the task is due on the same calendar day as day (UTC).
func (t Task) DueOn(day time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	y1, m1, d1 := t.DueDate.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// RecentlyModified reports whether the task has been edited since creation.
// Completion toggles do not advance UpdatedAt, so they never count.
func (t Task) RecentlyModified() bool {
	return t.UpdatedAt.After(t.CreatedAt)
}

// Subtask is an item in a task's attached checklist.
type Subtask struct {
	ID        int64
	TaskID    int64
	Title     string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
