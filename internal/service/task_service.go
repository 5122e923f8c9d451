package service

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	rep "taskBoard/internal/repository"
	"taskBoard/internal/query"
	"time"

	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики.
// Входные данные уже провалидированы на уровне HTTP.

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock подменяет источник текущего времени для фильтра по датам
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.repo.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, input task.CreateInput) (*task.Task, error) {
	newTask := &task.Task{
		Name:     input.Name,
		DueDate:  input.DueDate,
		Status:   input.Status,
		Priority: input.Priority,
		IsActive: input.IsActive,
	}

	if err := s.repo.Create(ctx, newTask); err != nil {
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	logger.Debug("Service: Задача создана", zap.Int64("task_id", newTask.ID))
	return newTask, nil
}

// UpdateTask проверяет существование задачи и применяет только переданные поля.
// Проверка и запись не атомарны: параллельное удаление между ними даст NOT_FOUND
// при повторном чтении.
func (s *TaskService) UpdateTask(ctx context.Context, id int64, options ...task.PatchOption) (*task.Task, error) {
	current, err := s.findTaskByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := task.BuildPatch(options...)
	if patch.IsEmpty() {
		return current, nil
	}

	if err := s.repo.Update(ctx, id, patch); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача удалена во время обновления", zap.Int64("target_id", id))
			return nil, NewTaskNotFound(id, err)
		}
		return nil, fmt.Errorf("обновление задачи: %w", err)
	}

	return s.findTaskByID(ctx, id)
}

// DeleteTask сначала проверяет существование задачи; повторное удаление уже
// удалённой строки между проверкой и удалением ничего не делает.
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	if _, err := s.findTaskByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

// ListAllTasks возвращает страницу без фильтров; пустая страница не ошибка
func (s *TaskService) ListAllTasks(ctx context.Context, page, limit int) (*task.Page, error) {
	tasks, total, err := s.repo.FindAndCount(ctx, query.Predicate{}, query.NewPage(page, limit))
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	return &task.Page{Data: tasks, Total: total}, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	return s.findTaskByID(ctx, id)
}

// FilterTasks, в отличие от ListAllTasks, считает пустую страницу ошибкой NOT_FOUND
func (s *TaskService) FilterTasks(ctx context.Context, page, limit int, filters task.Filters) (*task.Page, error) {
	where := BuildTaskFilters(filters, s.now())

	tasks, total, err := s.repo.FindAndCount(ctx, where, query.NewPage(page, limit))
	if err != nil {
		return nil, fmt.Errorf("фильтрация задач: %w", err)
	}

	if len(tasks) == 0 {
		logger.Info("Service: Задачи по фильтрам не найдены",
			zap.Int("page", page),
			zap.Int("limit", limit),
			zap.Int("conditions", len(where)))
		return nil, NewNoTasksFound()
	}

	return &task.Page{Data: tasks, Total: total}, nil
}

func (s *TaskService) findTaskByID(ctx context.Context, id int64) (*task.Task, error) {
	found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.Int64("target_id", id))
			return nil, NewTaskNotFound(id, err)
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return found, nil
}
