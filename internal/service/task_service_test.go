package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithhoney24/bettertasks/internal/blobstore"
	"github.com/codewithhoney24/bettertasks/internal/chat"
	dom "github.com/codewithhoney24/bettertasks/internal/domain"
	"github.com/codewithhoney24/bettertasks/internal/viewmodel"
)

// fakeTaskRepo is an in-memory TaskRepo sufficient for service-level tests.
type fakeTaskRepo struct {
	tasks  map[int64]dom.Task
	nextID int64
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]dom.Task{}, nextID: 1}
}

func (r *fakeTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	t.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, userID string, id int64) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTaskRepo) List(_ context.Context, userID string) ([]dom.Task, error) {
	var out []dom.Task
	for id := int64(1); id < r.nextID; id++ {
		if t, ok := r.tasks[id]; ok && t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, userID string, id int64, patch dom.Task) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	patch.ID = t.ID
	patch.UserID = t.UserID
	patch.CreatedAt = t.CreatedAt
	patch.UpdatedAt = time.Now().UTC().Add(time.Second) // NOW() in SQL
	r.tasks[id] = patch
	return patch, nil
}

func (r *fakeTaskRepo) SetCompleted(_ context.Context, userID string, id int64, completed bool) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.Completed = completed // updated_at intentionally untouched
	r.tasks[id] = t
	return t, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID string, id int64) error {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(r.tasks, id)
	return nil
}

type fakeSubtaskRepo struct {
	subtasks map[int64]dom.Subtask
	nextID   int64
}

func newFakeSubtaskRepo() *fakeSubtaskRepo {
	return &fakeSubtaskRepo{subtasks: map[int64]dom.Subtask{}, nextID: 1}
}

func (r *fakeSubtaskRepo) Create(_ context.Context, s dom.Subtask) (dom.Subtask, error) {
	s.ID = r.nextID
	r.nextID++
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	r.subtasks[s.ID] = s
	return s, nil
}

func (r *fakeSubtaskRepo) ListByTask(_ context.Context, taskID int64) ([]dom.Subtask, error) {
	var out []dom.Subtask
	for id := int64(1); id < r.nextID; id++ {
		if s, ok := r.subtasks[id]; ok && s.TaskID == taskID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubtaskRepo) Update(_ context.Context, taskID, id int64, patch dom.Subtask) (dom.Subtask, error) {
	s, ok := r.subtasks[id]
	if !ok || s.TaskID != taskID {
		return dom.Subtask{}, pgx.ErrNoRows
	}
	patch.ID = s.ID
	patch.TaskID = s.TaskID
	patch.CreatedAt = s.CreatedAt
	patch.UpdatedAt = time.Now().UTC()
	r.subtasks[id] = patch
	return patch, nil
}

func (r *fakeSubtaskRepo) Delete(_ context.Context, taskID, id int64) error {
	s, ok := r.subtasks[id]
	if !ok || s.TaskID != taskID {
		return pgx.ErrNoRows
	}
	delete(r.subtasks, id)
	return nil
}

// fakeListCache is an in-memory ListCache that records hits and invalidations.
type fakeListCache struct {
	lists       map[string][]dom.Task
	gets        int
	hits        int
	sets        int
	invalidated int
}

func newFakeListCache() *fakeListCache {
	return &fakeListCache{lists: map[string][]dom.Task{}}
}

func (c *fakeListCache) GetList(_ context.Context, userID string) ([]dom.Task, error) {
	c.gets++
	list, ok := c.lists[userID]
	if !ok {
		return nil, nil
	}
	c.hits++
	return list, nil
}

func (c *fakeListCache) SetList(_ context.Context, userID string, list []dom.Task) error {
	c.sets++
	c.lists[userID] = list
	return nil
}

func (c *fakeListCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated++
	delete(c.lists, userID)
	return nil
}

func newTestTaskService() *TaskService {
	counter := chat.NewDeletedCounter(blobstore.NewMemory())
	return NewTaskService(newFakeTaskRepo(), newFakeSubtaskRepo(), nil, counter)
}

func TestTaskService_CreateDefaultsAndTrims(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()

	created, err := svc.Create(ctx, "u1", "  Buy milk  ", " from the corner shop ", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "from the corner shop", created.Description)
	assert.Equal(t, dom.PriorityMedium, created.Priority)
	assert.False(t, created.Completed)
}

func TestTaskService_CreateRejectsEmptyTitle(t *testing.T) {
	svc := newTestTaskService()

	_, err := svc.Create(context.Background(), "u1", "   ", "", "", "", nil)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestTaskService_CreateRejectsUnknownPriority(t *testing.T) {
	svc := newTestTaskService()

	_, err := svc.Create(context.Background(), "u1", "x", "", "", dom.Priority("sideways"), nil)
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestTaskService_CreateAllowsPastDueDate(t *testing.T) {
	svc := newTestTaskService()
	past := time.Now().UTC().Add(-48 * time.Hour)

	created, err := svc.Create(context.Background(), "u1", "Was due yesterday", "", "", dom.PriorityHigh, &past)
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Before(time.Now().UTC()))
}

func TestTaskService_GetByIDIsUserScoped(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	created, err := svc.Create(ctx, "u1", "Mine", "", "", "", nil)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, "u2", created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_UpdatePatchesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	created, err := svc.Create(ctx, "u1", "Original", "desc", "Home", dom.PriorityLow, nil)
	require.NoError(t, err)

	newTitle := "Renamed"
	updated, err := svc.Update(ctx, "u1", created.ID, &newTitle, nil, nil, nil, nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "desc", updated.Description)
	assert.Equal(t, "Home", updated.Category)
	assert.Equal(t, dom.PriorityLow, updated.Priority)
}

func TestTaskService_UpdateCanClearDueDate(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	dueDate := time.Now().UTC().Add(24 * time.Hour)
	created, err := svc.Create(ctx, "u1", "Dated", "", "", "", &dueDate)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, "u1", created.ID, nil, nil, nil, nil, nil, true, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTaskService_SetCompletedDoesNotAdvanceUpdatedAt(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	created, err := svc.Create(ctx, "u1", "Toggle me", "", "", "", nil)
	require.NoError(t, err)

	toggled, err := svc.SetCompleted(ctx, "u1", created.ID, true)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.True(t, toggled.UpdatedAt.Equal(created.UpdatedAt),
		"toggling completion must not mark the task recently updated")
}

func TestTaskService_DeleteIncrementsCounter(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	a, err := svc.Create(ctx, "u1", "A", "", "", "", nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "u1", "B", "", "", "", nil)
	require.NoError(t, err)

	count, err := svc.Delete(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Delete(ctx, "u1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = svc.GetByID(ctx, "u1", a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_DeleteMissingIsNotFoundAndDoesNotCount(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()

	_, err := svc.Delete(ctx, "u1", 42)
	assert.ErrorIs(t, err, ErrNotFound)

	view, err := svc.Dashboard(ctx, "u1", viewmodel.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Stats.Deleted)
}

func TestTaskService_DashboardWiresCounterAndFilter(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	a, err := svc.Create(ctx, "u1", "Pending one", "", "", dom.PriorityHigh, nil)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "u1", "Done one", "", "", "", nil)
	require.NoError(t, err)
	_, err = svc.SetCompleted(ctx, "u1", b.ID, true)
	require.NoError(t, err)
	c, err := svc.Create(ctx, "u1", "To delete", "", "", "", nil)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, "u1", c.ID)
	require.NoError(t, err)

	view, err := svc.Dashboard(ctx, "u1", viewmodel.Options{Status: viewmodel.StatusPending})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, a.ID, view.Items[0].ID)
	assert.Equal(t, 2, view.Stats.Total)
	assert.Equal(t, 1, view.Stats.Pending)
	assert.Equal(t, 1, view.Stats.Completed)
	assert.Equal(t, 1, view.Stats.HighPriorityPending)
	assert.Equal(t, 1, view.Stats.Deleted)
}

func TestTaskService_SubtasksRequireOwnedParent(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	created, err := svc.Create(ctx, "u1", "Parent", "", "", "", nil)
	require.NoError(t, err)

	_, err = svc.CreateSubtask(ctx, "u2", created.ID, "step")
	assert.ErrorIs(t, err, ErrNotFound, "foreign parent must read as not found")

	st, err := svc.CreateSubtask(ctx, "u1", created.ID, "step")
	require.NoError(t, err)
	assert.Equal(t, created.ID, st.TaskID)

	list, err := svc.ListSubtasks(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestTaskService_UpdateSubtaskToggle(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	parent, err := svc.Create(ctx, "u1", "Parent", "", "", "", nil)
	require.NoError(t, err)
	st, err := svc.CreateSubtask(ctx, "u1", parent.ID, "step")
	require.NoError(t, err)

	done := true
	updated, err := svc.UpdateSubtask(ctx, "u1", parent.ID, st.ID, nil, &done)
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, "step", updated.Title)

	require.NoError(t, svc.DeleteSubtask(ctx, "u1", parent.ID, st.ID))
	list, err := svc.ListSubtasks(ctx, "u1", parent.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_GetByIDMergesSubtasks(t *testing.T) {
	ctx := context.Background()
	svc := newTestTaskService()
	parent, err := svc.Create(ctx, "u1", "Parent", "", "", "", nil)
	require.NoError(t, err)
	_, err = svc.CreateSubtask(ctx, "u1", parent.ID, "one")
	require.NoError(t, err)
	_, err = svc.CreateSubtask(ctx, "u1", parent.ID, "two")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, "u1", parent.ID)
	require.NoError(t, err)
	assert.Len(t, got.Subtasks, 2)
}

func newCachedTaskService() (*TaskService, *fakeTaskRepo, *fakeListCache) {
	taskRepo := newFakeTaskRepo()
	listCache := newFakeListCache()
	counter := chat.NewDeletedCounter(blobstore.NewMemory())
	return NewTaskService(taskRepo, newFakeSubtaskRepo(), listCache, counter), taskRepo, listCache
}

func TestTaskService_ListFillsCacheOnMiss(t *testing.T) {
	ctx := context.Background()
	svc, taskRepo, listCache := newCachedTaskService()
	_, err := svc.Create(ctx, "u1", "Only one", "", "", "", nil)
	require.NoError(t, err)

	first, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, listCache.sets, "miss must populate the cache")
	assert.Equal(t, 0, listCache.hits)

	// Порция данных мимо сервиса: кеш ещё ничего не знает об этой задаче.
	taskRepo.tasks[99] = dom.Task{ID: 99, UserID: "u1", Title: "Snuck in"}

	second, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, second, 1, "second List must be served from the cache, not the repo")
	assert.Equal(t, 1, listCache.hits)
	assert.Equal(t, 1, listCache.sets)
}

func TestTaskService_MutationsInvalidateListCache(t *testing.T) {
	ctx := context.Background()
	svc, _, listCache := newCachedTaskService()

	created, err := svc.Create(ctx, "u1", "First", "", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, listCache.invalidated, "Create must invalidate")

	warm := func() {
		t.Helper()
		_, err := svc.List(ctx, "u1")
		require.NoError(t, err)
		_, ok := listCache.lists["u1"]
		require.True(t, ok, "List must leave the cache warm")
	}

	warm()
	newTitle := "Renamed"
	_, err = svc.Update(ctx, "u1", created.ID, &newTitle, nil, nil, nil, nil, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, listCache.invalidated, "Update must invalidate")
	_, ok := listCache.lists["u1"]
	assert.False(t, ok)

	warm()
	_, err = svc.SetCompleted(ctx, "u1", created.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 3, listCache.invalidated, "SetCompleted must invalidate")

	warm()
	_, err = svc.Delete(ctx, "u1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, listCache.invalidated, "Delete must invalidate")

	// После инвалидации следующий List видит свежие данные.
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTaskService_SubtaskMutationsInvalidateListCache(t *testing.T) {
	ctx := context.Background()
	svc, _, listCache := newCachedTaskService()
	parent, err := svc.Create(ctx, "u1", "Parent", "", "", "", nil)
	require.NoError(t, err)
	before := listCache.invalidated

	st, err := svc.CreateSubtask(ctx, "u1", parent.ID, "step")
	require.NoError(t, err)
	done := true
	_, err = svc.UpdateSubtask(ctx, "u1", parent.ID, st.ID, nil, &done)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSubtask(ctx, "u1", parent.ID, st.ID))

	assert.Equal(t, before+3, listCache.invalidated)
}
