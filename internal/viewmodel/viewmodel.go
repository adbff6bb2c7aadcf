// Package viewmodel derives the dashboard projection from a task snapshot:
// status filter, free-text search, sort, and the aggregate counters. It is a
// pure function of its inputs and cheap enough to run on every keystroke.
package viewmodel

import (
	"sort"
	"strings"
	"time"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

// Status selects which tasks the dashboard shows.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusUpdated   Status = "updated"
	// StatusDeleted is a sentinel: deleted tasks are never materialized,
	// so the filtered list is always empty and only the counter is shown.
	StatusDeleted Status = "deleted"
	StatusHigh    Status = "high"
	StatusMedium  Status = "medium"
	StatusLow     Status = "low"
)

// SortKey selects the dashboard ordering.
type SortKey string

const (
	SortCreated  SortKey = "created" // descending, default
	SortTitle    SortKey = "title"
	SortDueDate  SortKey = "due_date"
	SortPriority SortKey = "priority"
)

// Options are the user's view selections.
type Options struct {
	Status Status
	Search string
	Sort   SortKey
}

// Stats is the fixed-shape aggregate record shown on the dashboard.
// Priority buckets count pending tasks only; Deleted is passed through
// from the caller-supplied counter.
type Stats struct {
	Total                 int `json:"total"`
	Pending               int `json:"pending"`
	Completed             int `json:"completed"`
	HighPriorityPending   int `json:"high_priority_pending"`
	MediumPriorityPending int `json:"medium_priority_pending"`
	LowPriorityPending    int `json:"low_priority_pending"`
	Overdue               int `json:"overdue"`
	Updated               int `json:"updated"`
	Deleted               int `json:"deleted"`
}

// View is the derived, ordered, filtered list plus the aggregates.
type View struct {
	Items []dom.Task
	Stats Stats
}

// Build computes the view for the given snapshot. Stats are computed over
// the whole snapshot regardless of the active filter. The input slice is
// never modified.
func Build(tasks []dom.Task, opts Options, deletedCount int, now time.Time) View {
	if opts.Status == "" {
		opts.Status = StatusAll
	}
	if opts.Sort == "" {
		opts.Sort = SortCreated
	}

	items := make([]dom.Task, 0, len(tasks))
	for _, t := range tasks {
		if matchesStatus(t, opts.Status, now) && matchesSearch(t, opts.Search) {
			items = append(items, t)
		}
	}
	sortTasks(items, opts.Sort)

	return View{Items: items, Stats: buildStats(tasks, deletedCount, now)}
}

func buildStats(tasks []dom.Task, deletedCount int, now time.Time) Stats {
	s := Stats{Total: len(tasks), Deleted: deletedCount}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
			continue
		}
		s.Pending++
		switch t.Priority {
		case dom.PriorityHigh:
			s.HighPriorityPending++
		case dom.PriorityMedium:
			s.MediumPriorityPending++
		case dom.PriorityLow:
			s.LowPriorityPending++
		}
	}
	for _, t := range tasks {
		if t.Overdue(now) {
			s.Overdue++
		}
		if t.RecentlyModified() {
			s.Updated++
		}
	}
	return s
}

func matchesStatus(t dom.Task, status Status, now time.Time) bool {
	switch status {
	case StatusAll:
		return true
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	case StatusOverdue:
		return t.Overdue(now)
	case StatusUpdated:
		return t.RecentlyModified()
	case StatusDeleted:
		return false
	case StatusHigh:
		return t.Priority == dom.PriorityHigh
	case StatusMedium:
		return t.Priority == dom.PriorityMedium
	case StatusLow:
		return t.Priority == dom.PriorityLow
	}
	return true
}

// matchesSearch is a case-insensitive substring match over title,
// description, category, priority label and the due-date string.
// An empty query matches everything.
func matchesSearch(t dom.Task, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Description), q) ||
		strings.Contains(strings.ToLower(t.Category), q) ||
		strings.Contains(strings.ToLower(string(t.Priority)), q) {
		return true
	}
	if t.DueDate != nil {
		return strings.Contains(strings.ToLower(t.DueDate.UTC().Format(time.RFC3339)), q)
	}
	return false
}

// sortTasks orders items in place. Ties keep the original snapshot order.
func sortTasks(items []dom.Task, key SortKey) {
	switch key {
	case SortTitle:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Title < items[j].Title
		})
	case SortDueDate:
		sort.SliceStable(items, func(i, j int) bool {
			return dueOrEpoch(items[i]).Before(dueOrEpoch(items[j]))
		})
	case SortPriority:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].Priority.Rank() > items[j].Priority.Rank()
		})
	default: // SortCreated
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		})
	}
}

// Tasks without a due date sort as epoch zero, i.e. first.
func dueOrEpoch(t dom.Task) time.Time {
	if t.DueDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t.DueDate
}
