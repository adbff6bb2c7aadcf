package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func ts(daysFromNow int) *time.Time {
	t := testNow.AddDate(0, 0, daysFromNow)
	return &t
}

func sampleTasks() []dom.Task {
	created := testNow.Add(-72 * time.Hour)
	return []dom.Task{
		{ID: 1, Title: "Buy milk", Category: "Shopping", Priority: dom.PriorityLow,
			DueDate: ts(-2), CreatedAt: created, UpdatedAt: created},
		{ID: 2, Title: "Ship release", Description: "work deadline", Priority: dom.PriorityHigh,
			DueDate: ts(1), CreatedAt: created.Add(time.Hour), UpdatedAt: created.Add(2 * time.Hour)},
		{ID: 3, Title: "Call dentist", Priority: dom.PriorityMedium, Completed: true,
			CreatedAt: created.Add(2 * time.Hour), UpdatedAt: created.Add(2 * time.Hour)},
		{ID: 4, Title: "Archive photos", Priority: dom.PriorityHigh, Completed: true,
			DueDate: ts(-5), CreatedAt: created.Add(3 * time.Hour), UpdatedAt: created.Add(3 * time.Hour)},
		{ID: 5, Title: "Water plants", Priority: dom.PriorityMedium,
			CreatedAt: created.Add(4 * time.Hour), UpdatedAt: created.Add(4 * time.Hour)},
	}
}

func TestBuild_DefaultsToAllCreatedDesc(t *testing.T) {
	v := Build(sampleTasks(), Options{}, 0, testNow)

	require.Len(t, v.Items, 5)
	for i := 1; i < len(v.Items); i++ {
		assert.False(t, v.Items[i].CreatedAt.After(v.Items[i-1].CreatedAt),
			"items must be ordered newest first")
	}
}

func TestBuild_FilterIsSubsetOfSnapshot(t *testing.T) {
	tasks := sampleTasks()
	for _, status := range []Status{StatusPending, StatusCompleted, StatusOverdue, StatusUpdated, StatusHigh, StatusMedium, StatusLow} {
		v := Build(tasks, Options{Status: status}, 0, testNow)
		byID := map[int64]bool{}
		for _, src := range tasks {
			byID[src.ID] = true
		}
		for _, it := range v.Items {
			assert.True(t, byID[it.ID], "status %q produced a task not in the snapshot", status)
		}
	}
}

func TestBuild_PendingAndCompletedPartition(t *testing.T) {
	tasks := sampleTasks()
	pending := Build(tasks, Options{Status: StatusPending}, 0, testNow)
	completed := Build(tasks, Options{Status: StatusCompleted}, 0, testNow)

	assert.Len(t, pending.Items, 3)
	assert.Len(t, completed.Items, 2)
	assert.Equal(t, len(tasks), len(pending.Items)+len(completed.Items))
}

func TestBuild_OverdueRequiresDueDateAndPending(t *testing.T) {
	v := Build(sampleTasks(), Options{Status: StatusOverdue}, 0, testNow)

	// Task 4 is past due but completed; task 5 has no due date. Only task 1 counts.
	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(1), v.Items[0].ID)
}

func TestBuild_UpdatedMeansUpdatedAfterCreated(t *testing.T) {
	v := Build(sampleTasks(), Options{Status: StatusUpdated}, 0, testNow)

	require.Len(t, v.Items, 1)
	assert.Equal(t, int64(2), v.Items[0].ID)
}

func TestBuild_DeletedIsEmptyListWithCounter(t *testing.T) {
	v := Build(sampleTasks(), Options{Status: StatusDeleted}, 7, testNow)

	assert.Empty(t, v.Items)
	assert.Equal(t, 7, v.Stats.Deleted)
	// Остальная статистика считается по живому снапшоту как обычно.
	assert.Equal(t, 5, v.Stats.Total)
}

func TestBuild_PriorityFilterIgnoresCompletion(t *testing.T) {
	v := Build(sampleTasks(), Options{Status: StatusHigh}, 0, testNow)

	// Both high-priority tasks, including the completed one.
	require.Len(t, v.Items, 2)
}

func TestBuild_StatsPriorityBucketsCountPendingOnly(t *testing.T) {
	v := Build(sampleTasks(), Options{}, 0, testNow)

	assert.Equal(t, 1, v.Stats.HighPriorityPending, "completed high task must not count")
	assert.Equal(t, 1, v.Stats.MediumPriorityPending)
	assert.Equal(t, 1, v.Stats.LowPriorityPending)
	assert.Equal(t, 3, v.Stats.Pending)
	assert.Equal(t, 2, v.Stats.Completed)
	assert.Equal(t, 1, v.Stats.Overdue)
	assert.Equal(t, 1, v.Stats.Updated)
}

func TestBuild_StatsIgnoreActiveFilter(t *testing.T) {
	tasks := sampleTasks()
	all := Build(tasks, Options{}, 2, testNow)
	filtered := Build(tasks, Options{Status: StatusCompleted, Search: "dentist"}, 2, testNow)

	assert.Equal(t, all.Stats, filtered.Stats)
}

func TestBuild_SearchMatchesSeveralFields(t *testing.T) {
	tasks := sampleTasks()

	cases := []struct {
		query string
		want  []int64
	}{
		{"MILK", []int64{1}},          // title, case-insensitive
		{"deadline", []int64{2}},      // description
		{"shopping", []int64{1}},      // category
		{"high", []int64{2, 4}},       // priority label
		{"2026-03-11", []int64{2}},    // due date as RFC3339 text
		{"yak shaving", []int64(nil)}, // no match
	}
	for _, tc := range cases {
		v := Build(tasks, Options{Search: tc.query}, 0, testNow)
		got := make([]int64, 0, len(v.Items))
		for _, it := range v.Items {
			got = append(got, it.ID)
		}
		assert.ElementsMatch(t, tc.want, got, "query %q", tc.query)
	}
}

func TestBuild_SortTitleAscending(t *testing.T) {
	v := Build(sampleTasks(), Options{Sort: SortTitle}, 0, testNow)

	for i := 1; i < len(v.Items); i++ {
		assert.LessOrEqual(t, v.Items[i-1].Title, v.Items[i].Title)
	}
}

func TestBuild_SortDueDateNilFirst(t *testing.T) {
	v := Build(sampleTasks(), Options{Sort: SortDueDate}, 0, testNow)

	// Tasks without a due date sort as epoch zero, so they come first.
	seenDated := false
	for _, it := range v.Items {
		if it.DueDate != nil {
			seenDated = true
		} else {
			assert.False(t, seenDated, "nil due dates must precede dated tasks")
		}
	}
}

func TestBuild_SortPriorityHighFirstStable(t *testing.T) {
	v := Build(sampleTasks(), Options{Sort: SortPriority}, 0, testNow)

	require.Len(t, v.Items, 5)
	for i := 1; i < len(v.Items); i++ {
		assert.GreaterOrEqual(t, v.Items[i-1].Priority.Rank(), v.Items[i].Priority.Rank())
	}
	// Ties keep snapshot order: task 2 was created before task 4.
	assert.Equal(t, int64(2), v.Items[0].ID)
	assert.Equal(t, int64(4), v.Items[1].ID)
}

func TestBuild_SortIsPermutation(t *testing.T) {
	tasks := sampleTasks()
	for _, key := range []SortKey{SortCreated, SortTitle, SortDueDate, SortPriority} {
		v := Build(tasks, Options{Sort: key}, 0, testNow)
		assert.Len(t, v.Items, len(tasks), "sort %q must not add or drop tasks", key)
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	tasks := sampleTasks()
	before := make([]int64, len(tasks))
	for i, t2 := range tasks {
		before[i] = t2.ID
	}

	Build(tasks, Options{Sort: SortTitle, Status: StatusPending}, 0, testNow)

	for i, t2 := range tasks {
		assert.Equal(t, before[i], t2.ID, "input slice order changed")
	}
}

func TestBuild_EmptySnapshot(t *testing.T) {
	v := Build(nil, Options{Status: StatusOverdue, Search: "x"}, 4, testNow)

	assert.Empty(t, v.Items)
	assert.Equal(t, Stats{Deleted: 4}, v.Stats)
}
