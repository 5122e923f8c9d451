package handlers

import (
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"taskBoard/internal/handlers/dto"
	"taskBoard/internal/models/task"
	"taskBoard/internal/service"
	"time"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, service.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

// parsePagination читает page и limit; отсутствующие значения заменяются на 1 и 10
func parsePagination(r *http.Request) (int, int, error) {
	page, err := positiveQueryInt(r, "page", defaultPage)
	if err != nil {
		return 0, 0, err
	}
	limit, err := positiveQueryInt(r, "limit", defaultLimit)
	if err != nil {
		return 0, 0, err
	}
	// смещение (page-1)*limit должно помещаться в int
	if page-1 > math.MaxInt/limit {
		return 0, 0, service.NewValidationError("page", "page and limit are too large")
	}
	return page, limit, nil
}

func positiveQueryInt(r *http.Request, key string, fallback int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, service.NewValidationError(key, "must be an integer not less than 1")
	}
	return n, nil
}

// parseFilters собирает сырые значения фильтров без проверки: невалидные отбрасывает сервис
func parseFilters(r *http.Request) task.Filters {
	q := r.URL.Query()

	var priorities []string
	for _, value := range q["priority"] {
		priorities = append(priorities, strings.Split(value, ",")...)
	}

	return task.Filters{
		From:     q.Get("from"),
		To:       q.Get("to"),
		Status:   q.Get("status"),
		Priority: priorities,
		Text:     q.Get("text"),
	}
}

func parseDueDate(value string) (task.Date, bool) {
	if d, err := task.ParseDate(value); err == nil {
		return d, true
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return task.DateOf(t), true
	}
	return task.Date{}, false
}

func oneOf[T ~string](values []T) string {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return "must be one of " + strings.Join(names, ", ")
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return service.NewValidationError("name", "must not be empty")
	}
	return nil
}

func validateStatus(value string) (task.Status, error) {
	status := task.Status(value)
	if !status.IsValid() {
		return "", service.NewValidationError("status", oneOf(task.Statuses()))
	}
	return status, nil
}

func validatePriority(value string) (task.Priority, error) {
	priority := task.Priority(value)
	if !priority.IsValid() {
		return "", service.NewValidationError("priority", oneOf(task.Priorities()))
	}
	return priority, nil
}

// ValidateCreate требует все пять полей
func ValidateCreate(req dto.CreateTaskRequest) (task.CreateInput, error) {
	if req.Name == nil {
		return task.CreateInput{}, service.NewValidationError("name", "is required")
	}
	if err := validateName(*req.Name); err != nil {
		return task.CreateInput{}, err
	}

	if req.DueDate == nil {
		return task.CreateInput{}, service.NewValidationError("dueDate", "is required")
	}
	dueDate, ok := parseDueDate(*req.DueDate)
	if !ok {
		return task.CreateInput{}, service.NewValidationError("dueDate", "must be a date in YYYY-MM-DD format")
	}

	if req.Status == nil {
		return task.CreateInput{}, service.NewValidationError("status", "is required")
	}
	status, err := validateStatus(*req.Status)
	if err != nil {
		return task.CreateInput{}, err
	}

	if req.Priority == nil {
		return task.CreateInput{}, service.NewValidationError("priority", "is required")
	}
	priority, err := validatePriority(*req.Priority)
	if err != nil {
		return task.CreateInput{}, err
	}

	if req.IsActive == nil {
		return task.CreateInput{}, service.NewValidationError("isActive", "is required")
	}

	return task.CreateInput{
		Name:     *req.Name,
		DueDate:  dueDate,
		Status:   status,
		Priority: priority,
		IsActive: *req.IsActive,
	}, nil
}

// ValidateUpdate превращает переданные поля в опции патча. null считается непереданным полем.
func ValidateUpdate(req dto.UpdateTaskRequest) ([]task.PatchOption, error) {
	options := make([]task.PatchOption, 0, 5)

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			return nil, err
		}
		options = append(options, task.WithName(req.Name))
	}

	if req.DueDate != nil {
		dueDate, ok := parseDueDate(*req.DueDate)
		if !ok {
			return nil, service.NewValidationError("dueDate", "must be a date in YYYY-MM-DD format")
		}
		options = append(options, task.WithDueDate(&dueDate))
	}

	if req.Status != nil {
		status, err := validateStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		options = append(options, task.WithStatus(&status))
	}

	if req.Priority != nil {
		priority, err := validatePriority(*req.Priority)
		if err != nil {
			return nil, err
		}
		options = append(options, task.WithPriority(&priority))
	}

	options = append(options, task.WithIsActive(req.IsActive))

	return options, nil
}

