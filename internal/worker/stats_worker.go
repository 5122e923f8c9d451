package worker

import (
	"context"
	"fmt"
	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	"taskBoard/internal/service"
	"time"

	"go.uber.org/zap"
)

type StatsSink interface {
	SetTasks(status string, count int)
}

// StatsWorker периодически пересчитывает число задач по статусам
type StatsWorker struct {
	repo     service.TaskRepository
	sink     StatsSink
	interval time.Duration
}

func NewStatsWorker(repo service.TaskRepository, sink StatsSink, interval *time.Duration) *StatsWorker {
	var intervalToSet time.Duration
	if interval == nil || *interval <= 0 {
		intervalToSet = 30 * time.Second
	} else {
		intervalToSet = *interval
	}

	return &StatsWorker{
		repo:     repo,
		sink:     sink,
		interval: intervalToSet,
	}
}

func (w *StatsWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Collect(ctx)
	for {
		select {
		case <-ticker.C:
			w.Collect(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Сбор статистики останавливается")
			return
		}
	}
}

func (w *StatsWorker) Collect(ctx context.Context) {
	start := time.Now()

	total := 0
	for _, status := range task.Statuses() {
		count, err := w.countByStatus(ctx, status)
		if err != nil {
			logger.Warn("Worker: Ошибка подсчёта задач", zap.String("status", string(status)), zap.Error(err))
			continue
		}
		w.sink.SetTasks(string(status), count)
		total += count
	}

	logger.Debug(
		"Worker: Завершение сбора статистики",
		zap.Duration("ms", time.Since(start)),
		zap.Int("total", total),
	)
}

func (w *StatsWorker) countByStatus(ctx context.Context, status task.Status) (int, error) {
	where := query.Predicate{query.FieldStatus: query.Equal{Value: string(status)}}

	// нулевой лимит: нужен только общий счётчик
	_, count, err := w.repo.FindAndCount(ctx, where, query.NewPage(1, 0))
	if err != nil {
		return 0, fmt.Errorf("подсчёт задач со статусом %s: %w", status, err)
	}
	return count, nil
}
