package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"

	"github.com/codewithhoney24/bettertasks/internal/chat"
	dom "github.com/codewithhoney24/bettertasks/internal/domain"
	"github.com/codewithhoney24/bettertasks/internal/repo"
	"github.com/codewithhoney24/bettertasks/internal/viewmodel"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrEmptyTitle      = errors.New("title is required")
	ErrInvalidPriority = errors.New("priority must be low, medium or high")
)

// ListCache keeps the per-user task list in a fast store. *cache.TaskCache
// implements it over Redis.
type ListCache interface {
	GetList(ctx context.Context, userID string) ([]dom.Task, error)
	SetList(ctx context.Context, userID string, list []dom.Task) error
	Invalidate(ctx context.Context, userID string) error
}

type TaskService struct {
	repo     repo.TaskRepo
	subtasks repo.SubtaskRepo
	cache    ListCache
	counter  *chat.DeletedCounter
	sf       singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, sr repo.SubtaskRepo, c ListCache, counter *chat.DeletedCounter) *TaskService {
	return &TaskService{repo: r, subtasks: sr, cache: c, counter: counter}
}

func (s *TaskService) Create(ctx context.Context, userID, title, desc, category string, priority dom.Priority, dueDate *time.Time) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrEmptyTitle
	}
	if priority == "" {
		priority = dom.PriorityMedium
	}
	if !priority.Valid() {
		return dom.Task{}, ErrInvalidPriority
	}

	t, err := s.repo.Create(ctx, dom.Task{
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(desc),
		Priority:    priority,
		Category:    strings.TrimSpace(category),
		DueDate:     dueDate,
	})
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) List(ctx context.Context, userID string) ([]dom.Task, error) {
	if s.cache != nil {
		key := "list:" + userID
		v, err, _ := s.sf.Do(key, func() (interface{}, error) {
			if list, err := s.cache.GetList(ctx, userID); err == nil && list != nil {
				return list, nil
			}
			list, err := s.repo.List(ctx, userID)
			if err != nil {
				return nil, err
			}
			_ = s.cache.SetList(ctx, userID, list)
			return list, nil
		})
		if err != nil {
			return nil, err
		}
		return v.([]dom.Task), nil
	}
	return s.repo.List(ctx, userID)
}

func (s *TaskService) GetByID(ctx context.Context, userID string, id int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	subs, err := s.subtasks.ListByTask(ctx, t.ID)
	if err != nil {
		return dom.Task{}, err
	}
	t.Subtasks = subs
	return t, nil
}

func (s *TaskService) Update(ctx context.Context, userID string, id int64, title, desc, category *string, priority *dom.Priority, dueDate *time.Time, clearDue bool, completed *bool) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	patch := existing
	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" {
			return dom.Task{}, ErrEmptyTitle
		}
		patch.Title = v
	}
	if desc != nil {
		patch.Description = strings.TrimSpace(*desc)
	}
	if category != nil {
		patch.Category = strings.TrimSpace(*category)
	}
	if priority != nil {
		if !priority.Valid() {
			return dom.Task{}, ErrInvalidPriority
		}
		patch.Priority = *priority
	}
	if dueDate != nil {
		patch.DueDate = dueDate
	} else if clearDue {
		patch.DueDate = nil
	}
	if completed != nil {
		patch.Completed = *completed
	}
	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// SetCompleted flips only the completed flag. It does not touch updated_at,
// so toggling a task does not surface it in "recently updated".
func (s *TaskService) SetCompleted(ctx context.Context, userID string, id int64, completed bool) (dom.Task, error) {
	t, err := s.repo.SetCompleted(ctx, userID, id, completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

// Delete removes the task permanently and returns the user's updated
// deleted-task count.
func (s *TaskService) Delete(ctx context.Context, userID string, id int64) (int, error) {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	s.invalidateCache(ctx, userID)
	return s.counter.Increment(ctx, userID)
}

// Dashboard assembles the task view for one user: filtered, searched and
// sorted items plus aggregate stats over the full snapshot.
func (s *TaskService) Dashboard(ctx context.Context, userID string, opts viewmodel.Options) (viewmodel.View, error) {
	tasks, err := s.List(ctx, userID)
	if err != nil {
		return viewmodel.View{}, err
	}
	deleted, err := s.counter.Get(ctx, userID)
	if err != nil {
		return viewmodel.View{}, err
	}
	return viewmodel.Build(tasks, opts, deleted, time.Now().UTC()), nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, userID string, taskID int64, title string) (dom.Subtask, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Subtask{}, ErrEmptyTitle
	}
	if _, err := s.GetParent(ctx, userID, taskID); err != nil {
		return dom.Subtask{}, err
	}
	st, err := s.subtasks.Create(ctx, dom.Subtask{TaskID: taskID, Title: title})
	if err != nil {
		return dom.Subtask{}, err
	}
	s.invalidateCache(ctx, userID)
	return st, nil
}

func (s *TaskService) ListSubtasks(ctx context.Context, userID string, taskID int64) ([]dom.Subtask, error) {
	if _, err := s.GetParent(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.subtasks.ListByTask(ctx, taskID)
}

func (s *TaskService) UpdateSubtask(ctx context.Context, userID string, taskID, id int64, title *string, completed *bool) (dom.Subtask, error) {
	if _, err := s.GetParent(ctx, userID, taskID); err != nil {
		return dom.Subtask{}, err
	}
	list, err := s.subtasks.ListByTask(ctx, taskID)
	if err != nil {
		return dom.Subtask{}, err
	}
	var existing *dom.Subtask
	for i := range list {
		if list[i].ID == id {
			existing = &list[i]
			break
		}
	}
	if existing == nil {
		return dom.Subtask{}, ErrNotFound
	}
	patch := *existing
	if title != nil {
		v := strings.TrimSpace(*title)
		if v == "" {
			return dom.Subtask{}, ErrEmptyTitle
		}
		patch.Title = v
	}
	if completed != nil {
		patch.Completed = *completed
	}
	st, err := s.subtasks.Update(ctx, taskID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Subtask{}, ErrNotFound
		}
		return dom.Subtask{}, err
	}
	s.invalidateCache(ctx, userID)
	return st, nil
}

func (s *TaskService) DeleteSubtask(ctx context.Context, userID string, taskID, id int64) error {
	if _, err := s.GetParent(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.subtasks.Delete(ctx, taskID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// GetParent checks that the task exists and belongs to the user before any
// subtask operation; a foreign task reads as not found, never as forbidden.
func (s *TaskService) GetParent(ctx context.Context, userID string, taskID int64) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID string) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, userID)
	}
}
