package inmemory_test

import (
	"context"
	"fmt"
	"math"
	"sync"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	"taskBoard/internal/repository"
	"taskBoard/internal/repository/task/inmemory"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(name string, due task.Date, status task.Status, priority task.Priority) *task.Task {
	return &task.Task{
		Name:     name,
		DueDate:  due,
		Status:   status,
		Priority: priority,
		IsActive: true,
	}
}

// TestTaskStorage_HealthCheck тестирует проверку здоровья
func TestTaskStorage_HealthCheck(t *testing.T) {
	storage := inmemory.NewTaskStorage()
	assert.NoError(t, storage.HealthCheck(context.Background()))
}

// TestTaskStorage_Create тестирует создание задачи
func TestTaskStorage_Create(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	first := newTask("first", task.NewDate(2025, time.May, 1), "", "")
	require.NoError(t, storage.Create(ctx, first))

	second := newTask("second", task.NewDate(2025, time.May, 2), task.StatusCompleted, task.PriorityRed)
	require.NoError(t, storage.Create(ctx, second))

	// id выдаются последовательно, пустые enum-поля получают значения по умолчанию
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, task.StatusPending, first.Status)
	assert.Equal(t, task.PriorityBlue, first.Priority)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)

	got, err := storage.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "second", got.Name)
	assert.Equal(t, task.PriorityRed, got.Priority)
}

// TestTaskStorage_GetByID тестирует получение задачи по ID
func TestTaskStorage_GetByID(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("task", task.NewDate(2025, time.May, 1), task.StatusPending, task.PriorityBlue)
	require.NoError(t, storage.Create(ctx, created))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)

	// изменения возвращённой копии не попадают в хранилище
	got.Name = "changed"
	again, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "task", again.Name)

	_, err = storage.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Update тестирует частичное обновление
func TestTaskStorage_Update(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("task", task.NewDate(2025, time.May, 1), task.StatusPending, task.PriorityBlue)
	require.NoError(t, storage.Create(ctx, created))

	status := task.StatusInProgress
	inactive := false
	patch := task.BuildPatch(task.WithStatus(&status), task.WithIsActive(&inactive))
	require.NoError(t, storage.Update(ctx, created.ID, patch))

	got, err := storage.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, task.StatusInProgress, got.Status)
	assert.False(t, got.IsActive)
	assert.Equal(t, "task", got.Name)
	assert.Equal(t, task.PriorityBlue, got.Priority)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))

	err = storage.Update(ctx, 42, patch)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

// TestTaskStorage_Delete тестирует удаление
func TestTaskStorage_Delete(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	created := newTask("task", task.NewDate(2025, time.May, 1), task.StatusPending, task.PriorityBlue)
	require.NoError(t, storage.Create(ctx, created))

	require.NoError(t, storage.Delete(ctx, created.ID))
	_, err := storage.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// повторное удаление не ошибка
	assert.NoError(t, storage.Delete(ctx, created.ID))
}

func seed(t *testing.T, storage *inmemory.TaskStorage) {
	t.Helper()
	ctx := context.Background()
	tasks := []*task.Task{
		newTask("Write report", task.NewDate(2025, time.January, 10), task.StatusPending, task.PriorityRed),
		newTask("Deploy service", task.NewDate(2025, time.February, 1), task.StatusInProgress, task.PriorityGreen),
		newTask("Review report", task.NewDate(2025, time.March, 5), task.StatusCompleted, task.PriorityBlue),
		newTask("report_v2", task.NewDate(2025, time.March, 10), task.StatusPending, task.PriorityYellow),
	}
	for _, tk := range tasks {
		require.NoError(t, storage.Create(ctx, tk))
	}
}

// TestTaskStorage_FindAndCount тестирует фильтрацию и пагинацию
func TestTaskStorage_FindAndCount(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	seed(t, storage)

	tests := []struct {
		name      string
		where     query.Predicate
		page      query.Page
		wantIDs   []int64
		wantTotal int
	}{
		{
			name:      "no predicate newest first",
			where:     query.Predicate{},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{4, 3, 2, 1},
			wantTotal: 4,
		},
		{
			name:      "second page",
			where:     query.Predicate{},
			page:      query.NewPage(2, 3),
			wantIDs:   []int64{1},
			wantTotal: 4,
		},
		{
			name:      "page past the end",
			where:     query.Predicate{},
			page:      query.NewPage(3, 3),
			wantIDs:   []int64{},
			wantTotal: 4,
		},
		{
			name:      "status equal",
			where:     query.Predicate{query.FieldStatus: query.Equal{Value: "PENDING"}},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{4, 1},
			wantTotal: 2,
		},
		{
			name:      "priority in",
			where:     query.Predicate{query.FieldPriority: query.In{Values: []string{"RED", "GREEN", "RED"}}},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{2, 1},
			wantTotal: 2,
		},
		{
			name: "due date between is inclusive",
			where: query.Predicate{query.FieldDueDate: query.Between{
				From: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC),
			}},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{3, 2},
			wantTotal: 2,
		},
		{
			name: "from with time of day excludes that day",
			where: query.Predicate{query.FieldDueDate: query.Between{
				From: time.Date(2025, time.February, 1, 15, 0, 0, 0, time.UTC),
				To:   time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC),
			}},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{3},
			wantTotal: 1,
		},
		{
			name:      "name like is case-sensitive",
			where:     query.Predicate{query.FieldName: query.Contains("report")},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{4, 3, 1},
			wantTotal: 3,
		},
		{
			name:      "underscore in text acts as wildcard",
			where:     query.Predicate{query.FieldName: query.Contains("t_v")},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{4},
			wantTotal: 1,
		},
		{
			name: "conditions combine with AND",
			where: query.Predicate{
				query.FieldStatus: query.Equal{Value: "PENDING"},
				query.FieldName:   query.Contains("Write"),
			},
			page:      query.NewPage(1, 10),
			wantIDs:   []int64{1},
			wantTotal: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := storage.FindAndCount(ctx, tt.where, tt.page)
			require.NoError(t, err)
			require.NotNil(t, got)

			ids := make([]int64, 0, len(got))
			for _, tk := range got {
				ids = append(ids, tk.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantTotal, total)
		})
	}
}

// TestTaskStorage_ConcurrentAccess тестирует конкурентный доступ
func TestTaskStorage_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()

	var wg sync.WaitGroup
	const workers = 20

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			tk := newTask(fmt.Sprintf("task-%d", n), task.NewDate(2025, time.May, 1), task.StatusPending, task.PriorityBlue)
			assert.NoError(t, storage.Create(ctx, tk))

			_, _, err := storage.FindAndCount(ctx, query.Predicate{}, query.NewPage(1, 5))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	_, total, err := storage.FindAndCount(ctx, query.Predicate{}, query.NewPage(1, 1))
	require.NoError(t, err)
	assert.Equal(t, workers, total)
}

// TestTaskStorage_FindAndCountHugePage тестирует страницу, смещение которой не помещается в int
func TestTaskStorage_FindAndCountHugePage(t *testing.T) {
	ctx := context.Background()
	storage := inmemory.NewTaskStorage()
	for i := 0; i < 2; i++ {
		require.NoError(t, storage.Create(ctx, newTask(fmt.Sprintf("task-%d", i), task.NewDate(2025, time.May, 1), task.StatusPending, task.PriorityBlue)))
	}

	var (
		got   []*task.Task
		total int
		err   error
	)
	require.NotPanics(t, func() {
		got, total, err = storage.FindAndCount(ctx, query.Predicate{}, query.NewPage(math.MaxInt, 2))
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, 2, total)
}
