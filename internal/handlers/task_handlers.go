package handlers

import (
	"io"
	"net/http"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/logger"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type TaskHandler struct {
	TaskService Service
}

func NewTaskHandler(taskService Service) *TaskHandler {
	return &TaskHandler{
		TaskService: taskService,
	}
}

func (s *TaskHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	logger.HttpRequestInfo(r, "HTTP: Health check")

	if err := s.TaskService.HealthCheck(r.Context()); err != nil {
		logger.Error("HTTP: Сервис недоступен", err)
		responseWithData(w, http.StatusServiceUnavailable, dto.HealthResponse{
			Status:  "unavailable",
			Service: "task-board",
			Error:   err.Error(),
		})
		return
	}

	responseWithData(w, http.StatusOK, dto.HealthResponse{Status: "ok", Service: "task-board"})
}

func (s *TaskHandler) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !checkContentType(r, "application/json") {
		logger.Warn("HTTP: Неверный тип контента",
			zap.String("expected", "application/json"),
			zap.String("received", r.Header.Get("Content-Type")),
			zap.String("client_ip", r.RemoteAddr))

		responseWithError(w, http.StatusUnsupportedMediaType, codeUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("HTTP: Ошибка чтения тела запроса", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, decodeError(err), "read_body")
		return false
	}

	if err := dto.Decode(body, dst); err != nil {
		logger.Warn("HTTP: Ошибка чтения JSON", zap.Error(err), zap.String("client_ip", r.RemoteAddr))
		handleError(w, r, decodeError(err), "decode_body")
		return false
	}
	return true
}

func (s *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var request dto.CreateTaskRequest
	if !s.readJSON(w, r, &request) {
		return
	}

	input, err := ValidateCreate(request)
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	created, err := s.TaskService.CreateTask(r.Context(), input)
	if err != nil {
		handleError(w, r, err, "create_task")
		return
	}

	logger.Info("HTTP_OUT: Задача создана",
		zap.Int64("task_id", created.ID),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusCreated))

	responseWithData(w, http.StatusCreated, created)
}

func (s *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	var request dto.UpdateTaskRequest
	if !s.readJSON(w, r, &request) {
		return
	}

	options, err := ValidateUpdate(request)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	updated, err := s.TaskService.UpdateTask(r.Context(), id, options...)
	if err != nil {
		handleError(w, r, err, "update_task")
		return
	}

	logger.Info("HTTP_OUT: Задача обновлена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, updated)
}

func (s *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	if err := s.TaskService.DeleteTask(r.Context(), id); err != nil {
		handleError(w, r, err, "delete_task")
		return
	}

	logger.Info("HTTP_OUT: Задача удалена",
		zap.Int64("task_id", id),
		zap.Duration("ms", time.Since(start)),
		zap.Int("http_status", http.StatusOK))

	responseWithData(w, http.StatusOK, dto.DeleteResponse{Deleted: true})
}

func (s *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err, "get_task")
		return
	}

	found, err := s.TaskService.GetTaskByID(r.Context(), id)
	if err != nil {
		handleError(w, r, err, "get_task")
		return
	}

	responseWithData(w, http.StatusOK, found)
}

func (s *TaskHandler) ListAllTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, limit, err := parsePagination(r)
	if err != nil {
		handleError(w, r, err, "list_tasks")
		return
	}

	result, err := s.TaskService.ListAllTasks(r.Context(), page, limit)
	if err != nil {
		handleError(w, r, err, "list_tasks")
		return
	}

	logger.Debug("HTTP_OUT: Задачи получены",
		zap.Int("count", len(result.Data)),
		zap.Int("total", result.Total),
		zap.Duration("ms", time.Since(start)))

	responseWithData(w, http.StatusOK, dto.FromPage(result))
}

func (s *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	page, limit, err := parsePagination(r)
	if err != nil {
		handleError(w, r, err, "filter_tasks")
		return
	}

	result, err := s.TaskService.FilterTasks(r.Context(), page, limit, parseFilters(r))
	if err != nil {
		handleError(w, r, err, "filter_tasks")
		return
	}

	logger.Debug("HTTP_OUT: Задачи по фильтрам получены",
		zap.Int("count", len(result.Data)),
		zap.Int("total", result.Total),
		zap.Duration("ms", time.Since(start)))

	responseWithData(w, http.StatusOK, dto.FromPage(result))
}

// Routes регистрирует маршруты задач на переданном роутере
func (s *TaskHandler) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)

	r.Route("/tasks", func(r chi.Router) {
		r.Post("/", s.CreateTask)
		r.Get("/", s.FilterTasks)
		r.Get("/list", s.ListAllTasks)
		r.Get("/{id}", s.GetTaskByID)
		r.Put("/{id}", s.UpdateTask)
		r.Delete("/{id}", s.DeleteTask)
	})
}
