// Package gormstore - хранилище задач на gorm. Схема и семантика запросов
// совпадают с хранилищем на pgx.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	repo "taskBoard/internal/repository"
	"time"

	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Options struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	SlowQuery       time.Duration
	Development     bool
}

type Storage struct {
	db *gorm.DB
}

func New(ctx context.Context, opts Options) (*Storage, error) {
	db, err := gorm.Open(gormpg.Open(opts.URL), &gorm.Config{
		Logger:                 newGormLogger(opts.SlowQuery, opts.Development),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		logger.Error("Repository: Ошибка открытия gorm", err)
		return nil, fmt.Errorf("открытие gorm postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("получение sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(2)
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения gorm к PostgreSQL")
	return &Storage{db: db}, nil
}

func (s *Storage) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("Repository: Закрытие соединений gorm")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("получение sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

// Create опускает пустые status и priority, их заполняют значения по умолчанию схемы
func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	if err := s.db.WithContext(ctx).Create(taskToCreate).Error; err != nil {
		return fmt.Errorf("добавление задачи: %w", err)
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	var found task.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return &found, nil
}

func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) error {
	updates := map[string]any{"updated_at": gorm.Expr("NOW()")}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.DueDate != nil {
		updates["due_date"] = *patch.DueDate
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		updates["priority"] = string(*patch.Priority)
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}

	res := s.db.WithContext(ctx).Model(&task.Task{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("обновление задачи: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&task.Task{}, id).Error; err != nil {
		return fmt.Errorf("удаление задачи: %w", err)
	}
	return nil
}

func (s *Storage) FindAndCount(ctx context.Context, where query.Predicate, page query.Page) ([]*task.Task, int, error) {
	scoped, err := applyPredicate(s.db.WithContext(ctx).Model(&task.Task{}), where)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := scoped.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	tasks := []*task.Task{}
	err = scoped.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&tasks).Error
	if err != nil {
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}

	return tasks, int(total), nil
}

func applyPredicate(db *gorm.DB, where query.Predicate) (*gorm.DB, error) {
	for _, field := range where.Fields() {
		switch field {
		case query.FieldDueDate, query.FieldStatus, query.FieldPriority, query.FieldName:
		default:
			return nil, fmt.Errorf("неизвестное поле %q", field)
		}

		switch cond := where[field].(type) {
		case query.Between:
			if field != query.FieldDueDate {
				return nil, fmt.Errorf("диапазон поддерживается только для %s", query.FieldDueDate)
			}
			lower, upper := task.DateRange(cond.From, cond.To)
			db = db.Where("due_date BETWEEN ? AND ?", lower, upper)
		case query.Equal:
			db = db.Where(fmt.Sprintf("%s::text = ?", field), cond.Value)
		case query.In:
			db = db.Where(fmt.Sprintf("%s::text IN ?", field), cond.Values)
		case query.Like:
			db = db.Where(fmt.Sprintf("%s LIKE ?", field), cond.Pattern)
		default:
			return nil, fmt.Errorf("неподдерживаемое условие %T для поля %s", cond, field)
		}
	}
	return db, nil
}
