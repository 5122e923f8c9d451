package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"taskBoard/internal/models/task"
)

// Поля-указатели отличают "не передано" от нулевого значения.
type CreateTaskRequest struct {
	Name     *string `json:"name"`
	DueDate  *string `json:"dueDate"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	IsActive *bool   `json:"isActive"`
}

type UpdateTaskRequest struct {
	Name     *string `json:"name"`
	DueDate  *string `json:"dueDate"`
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	IsActive *bool   `json:"isActive"`
}

// FieldTypeError сообщает, что поле пришло не того JSON-типа
type FieldTypeError struct {
	Field    string
	Expected string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field '%s' must be %s", e.Field, e.Expected)
}

var ErrNotObject = errors.New("request body must be a JSON object")

// Decode разбирает JSON-объект в dst. Неизвестные поля игнорируются, null равен непереданному полю.
func Decode(body []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ErrNotObject
	}

	if err := json.Unmarshal(body, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &FieldTypeError{Field: typeErr.Field, Expected: typeErr.Type.String()}
		}
		return err
	}
	return nil
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type PageResponse struct {
	Data  []*task.Task `json:"data"`
	Total int          `json:"total"`
}

func FromPage(p *task.Page) PageResponse {
	data := p.Data
	if data == nil {
		data = []*task.Task{}
	}
	return PageResponse{Data: data, Total: p.Total}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Error   string `json:"error,omitempty"`
}
