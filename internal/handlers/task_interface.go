package handlers

import (
	"context"
	"taskBoard/internal/models/task"
)

type Service interface {
	HealthCheck(context.Context) error
	CreateTask(context.Context, task.CreateInput) (*task.Task, error)
	UpdateTask(context.Context, int64, ...task.PatchOption) (*task.Task, error)
	DeleteTask(context.Context, int64) error
	ListAllTasks(ctx context.Context, page, limit int) (*task.Page, error)
	GetTaskByID(context.Context, int64) (*task.Task, error)
	FilterTasks(ctx context.Context, page, limit int, filters task.Filters) (*task.Page, error)
}
