package service

import (
	"context"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
)

type TaskRepository interface {
	HealthCheck(context.Context) error
	// Create заполняет ID, CreatedAt и UpdatedAt переданной задачи
	Create(context.Context, *task.Task) error
	GetByID(context.Context, int64) (*task.Task, error)
	// Update меняет только поля патча и обновляет UpdatedAt
	Update(context.Context, int64, task.Patch) error
	// Delete удаляет задачу; отсутствие строки не ошибка
	Delete(context.Context, int64) error
	// FindAndCount возвращает страницу задач (created_at DESC) и общее число совпадений
	FindAndCount(context.Context, query.Predicate, query.Page) ([]*task.Task, int, error)
}
