package postgres

import (
	"context"
	"errors"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	repo "taskBoard/internal/repository"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type Options struct {
	URL             string
	MaxConns        int32
	MinConns        int32
	MaxConnIdleTime time.Duration
	SlowQuery       time.Duration
}

type Storage struct {
	pool      *pgxpool.Pool
	slowQuery time.Duration
}

const selectColumns = `id, name, due_date, status::text, priority::text, is_active, created_at, updated_at`

func New(ctx context.Context, opts Options) (*Storage, error) {
	config, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}
	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	slow := opts.SlowQuery
	if slow <= 0 {
		slow = time.Millisecond * 100
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL")
	return &Storage{pool: pool, slowQuery: slow}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	logger.Debug("Repository: Соединение стабильно")
	return nil
}

func (s *Storage) warnIfSlow(operation string, start time.Time) {
	if elapsed := time.Since(start); elapsed > s.slowQuery {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", operation),
			zap.Duration("ms", elapsed))
	}
}

func (s *Storage) Create(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	// enum-параметры передаются как text и приводятся в запросе
	query := `INSERT INTO tasks
				(name, due_date, status, priority, is_active)
				VALUES ($1, $2::date,
					COALESCE(NULLIF($3::text, ''), 'PENDING')::task_status,
					COALESCE(NULLIF($4::text, ''), 'BLUE')::task_priority,
					$5)
				RETURNING id, status::text, priority::text, created_at, updated_at`

	var status, priority string
	err := s.pool.QueryRow(ctx, query,
		taskToCreate.Name,
		taskToCreate.DueDate.Time,
		string(taskToCreate.Status),
		string(taskToCreate.Priority),
		taskToCreate.IsActive,
	).Scan(&taskToCreate.ID, &status, &priority, &taskToCreate.CreatedAt, &taskToCreate.UpdatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	taskToCreate.Status = task.Status(status)
	taskToCreate.Priority = task.Priority(priority)

	s.warnIfSlow("create", start)
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id int64) (*task.Task, error) {
	start := time.Now()

	query := `SELECT ` + selectColumns + `
				FROM tasks
				WHERE id = $1`

	found, err := scanTask(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	s.warnIfSlow("get_by_id", start)
	return found, nil
}

// Update применяет патч одним UPDATE; ноль затронутых строк означает, что задачи нет
func (s *Storage) Update(ctx context.Context, id int64, patch task.Patch) error {
	start := time.Now()

	set, args := buildSet(patch, 1)
	query := `UPDATE tasks SET ` + set + ` WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Int64("task_id", id))
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		logger.Warn("Repository: Задача для обновления не найдена", zap.Int64("task_id", id))
		return repo.ErrNotFound
	}

	s.warnIfSlow("update", start)
	return nil
}

func (s *Storage) Delete(ctx context.Context, id int64) error {
	start := time.Now()

	query := `DELETE FROM tasks
				WHERE id = $1`

	_, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	s.warnIfSlow("delete", start)
	return nil
}

func (s *Storage) FindAndCount(ctx context.Context, where query.Predicate, page query.Page) ([]*task.Task, int, error) {
	start := time.Now()

	clause, args, err := buildWhere(where)
	if err != nil {
		return nil, 0, fmt.Errorf("построение условия: %w", err)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks` + clause
	if err := s.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error("Repository: Не удалось посчитать задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("подсчёт задач: %w", err)
	}

	listQuery := fmt.Sprintf(`SELECT %s FROM tasks%s
				ORDER BY created_at DESC, id DESC
				LIMIT $%d OFFSET $%d`, selectColumns, clause, len(args)+1, len(args)+2)

	rows, err := s.pool.Query(ctx, listQuery, append(args, page.Limit, page.Offset())...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, 0, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		found, err := scanTask(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, 0, fmt.Errorf("сканирование задачи: %w", err)
		}
		tasks = append(tasks, found)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, 0, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > s.slowQuery+time.Millisecond*10*time.Duration(page.Limit) {
		logger.Warn("Repository: Медленный запрос",
			zap.String("operation", "find_and_count"),
			zap.Int("conditions", len(where)),
			zap.Duration("ms", time.Since(start)))
	}

	return tasks, total, nil
}

func scanTask(row pgx.Row) (*task.Task, error) {
	var (
		found            task.Task
		dueDate          time.Time
		status, priority string
	)

	err := row.Scan(
		&found.ID,
		&found.Name,
		&dueDate,
		&status,
		&priority,
		&found.IsActive,
		&found.CreatedAt,
		&found.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	found.DueDate = task.DateOf(dueDate)
	found.Status = task.Status(status)
	found.Priority = task.Priority(priority)
	return &found, nil
}
