package inmemory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	repo "taskBoard/internal/repository"
	"time"
)

type TaskStorage struct {
	storage map[int64]*task.Task
	mtx     *sync.RWMutex
	lastID  int64
	now     func() time.Time
}

func NewTaskStorage() *TaskStorage {
	return &TaskStorage{
		storage: make(map[int64]*task.Task),
		mtx:     &sync.RWMutex{},
		now:     time.Now,
	}
}

func (s *TaskStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *TaskStorage) Create(ctx context.Context, taskToCreate *task.Task) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if taskToCreate.Status == "" {
		taskToCreate.Status = task.StatusPending
	}
	if taskToCreate.Priority == "" {
		taskToCreate.Priority = task.PriorityBlue
	}

	s.lastID++
	now := s.now()
	taskToCreate.ID = s.lastID
	taskToCreate.CreatedAt = now
	taskToCreate.UpdatedAt = now

	stored := *taskToCreate
	s.storage[stored.ID] = &stored
	return nil
}

func (s *TaskStorage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *stored
	return &found, nil
}

func (s *TaskStorage) Update(ctx context.Context, id int64, patch task.Patch) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	stored, ok := s.storage[id]
	if !ok {
		return repo.ErrNotFound
	}

	patch.Apply(stored)
	stored.UpdatedAt = s.now()
	return nil
}

// Delete удаляет задачу; отсутствующий id не ошибка
func (s *TaskStorage) Delete(ctx context.Context, id int64) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.storage, id)
	return nil
}

func (s *TaskStorage) FindAndCount(ctx context.Context, where query.Predicate, page query.Page) ([]*task.Task, int, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	matched := make([]*task.Task, 0, len(s.storage))
	for _, stored := range s.storage {
		ok, err := matches(stored, where)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			matched = append(matched, stored)
		}
	}

	// created_at DESC, при равенстве более новый id первым
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	res := []*task.Task{}
	for i := page.Offset(); i < total && len(res) < page.Limit; i++ {
		found := *matched[i]
		res = append(res, &found)
	}

	return res, total, nil
}

func matches(t *task.Task, where query.Predicate) (bool, error) {
	for _, field := range where.Fields() {
		value, err := fieldValue(t, field)
		if err != nil {
			return false, err
		}

		switch cond := where[field].(type) {
		case query.Between:
			from, to := task.DateRange(cond.From, cond.To)
			if t.DueDate.Before(from.Time) || t.DueDate.After(to.Time) {
				return false, nil
			}
		case query.Equal:
			if value != cond.Value {
				return false, nil
			}
		case query.In:
			if !slices.Contains(cond.Values, value) {
				return false, nil
			}
		case query.Like:
			if !query.MatchLike(cond.Pattern, value) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("неподдерживаемое условие %T для поля %s", cond, field)
		}
	}
	return true, nil
}

func fieldValue(t *task.Task, field query.Field) (string, error) {
	switch field {
	case query.FieldDueDate:
		return t.DueDate.String(), nil
	case query.FieldStatus:
		return string(t.Status), nil
	case query.FieldPriority:
		return string(t.Priority), nil
	case query.FieldName:
		return t.Name, nil
	default:
		return "", fmt.Errorf("неизвестное поле %q", field)
	}
}
