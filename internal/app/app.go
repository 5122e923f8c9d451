package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/metrics"
	mw "taskBoard/internal/middleware"
	"taskBoard/internal/migrations"
	"taskBoard/internal/repository/task/gormstore"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/repository/task/postgres"
	"taskBoard/internal/service"
	"taskBoard/internal/worker"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TaskRepository
	service    handlers.Service
	metrics    *metrics.Metrics
	worker     *worker.StatsWorker
	shutdowns  []func() // функции для graceful shutdown, выполняются в обратном порядке
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) (*App, error) {
	if err := a.initLogger(); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	logger.Info("App: Итоговая конфигурация", zap.String("config", a.config.Redacted()))

	if err := a.initRepository(ctx); err != nil {
		a.Shutdown()
		return nil, fmt.Errorf("инициализация репозитория: %w", err)
	}

	a.service = service.NewTaskService(a.repository)
	a.metrics = metrics.New()
	a.worker = worker.NewStatsWorker(a.repository, a.metrics, &a.config.Metrics.StatsInterval)
	a.initRouter()

	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      otelhttp.NewHandler(a.router, "taskboard"),
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	return a, nil
}

func (a *App) initLogger() error {
	var file *logger.FileOptions
	if a.config.Logging.File != "" {
		file = &logger.FileOptions{
			Path:       a.config.Logging.File,
			MaxSizeMB:  a.config.Logging.MaxSizeMB,
			MaxAgeDays: a.config.Logging.MaxAgeDays,
			MaxBackups: a.config.Logging.MaxBackups,
		}
	}

	if err := logger.Init(a.config.Logging.Development, file); err != nil {
		return err
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})
	return nil
}

func (a *App) initRepository(ctx context.Context) error {
	db := a.config.Database

	if a.config.Repository.Type != config.RepositoryInMemory && db.Migrate {
		if err := migrations.Up(db.URL); err != nil {
			return fmt.Errorf("миграции: %w", err)
		}
	}

	switch a.config.Repository.Type {
	case config.RepositoryPostgres:
		storage, err := postgres.New(ctx, postgres.Options{
			URL:             db.URL,
			MaxConns:        int32(db.MaxConnections),
			MinConns:        int32(db.MinConnections),
			MaxConnIdleTime: db.IdleTimeout,
			SlowQuery:       db.SlowQuery,
		})
		if err != nil {
			return err
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, storage.Close)

	case config.RepositoryGorm:
		storage, err := gormstore.New(ctx, gormstore.Options{
			URL:             db.URL,
			MaxOpenConns:    db.MaxConnections,
			MaxIdleConns:    db.MinConnections,
			ConnMaxIdleTime: db.IdleTimeout,
			SlowQuery:       db.SlowQuery,
			Development:     a.config.Logging.Development,
		})
		if err != nil {
			return err
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, storage.Close)

	default:
		logger.Warn("App: Используется хранилище в памяти, данные не переживут перезапуск")
		a.repository = inmemory.NewTaskStorage()
	}

	logger.Info("App: Репозиторий готов", zap.String("type", a.config.Repository.Type))
	return nil
}

func (a *App) initRouter() {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", mw.RequestIdHeader},
		ExposedHeaders:   []string{mw.RequestIdHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(mw.Logging)
	if a.config.Metrics.Enabled {
		r.Use(mw.Metrics(a.metrics))
	}
	r.Use(chimw.Timeout(a.config.Server.RequestTimeout))
	r.Use(mw.RateLimit(a.config.Server.RateLimitRPM))

	h := handlers.NewTaskHandler(a.service)
	if a.config.Server.APIPrefix == "" {
		h.Routes(r)
	} else {
		r.Route(a.config.Server.APIPrefix, h.Routes)
	}

	if a.config.Metrics.Enabled {
		r.Handle(a.config.Metrics.Path, a.metrics.Handler())
	}

	a.router = r
}

// Handler отдаёт корневой обработчик; пригодится для тестов без сетевого порта
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run блокируется до SIGINT/SIGTERM или отмены ctx, затем выполняет graceful shutdown
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	if a.config.Metrics.Enabled {
		g.Go(func() error {
			a.worker.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("App: Получен сигнал остановки, завершаем работу")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка http сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Shutdown()
	return err
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
