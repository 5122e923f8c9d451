package service

import (
	"strings"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	"time"
)

var filterDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	task.DateLayout,
}

func parseFilterDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range filterDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// BuildTaskFilters переводит сырые параметры запроса в предикат.
// Невалидные значения молча отбрасываются; now используется как верхняя граница
// диапазона дат, когда to не передан или не разбирается.
//
// text подставляется в шаблон LIKE без экранирования: % и _ из запроса работают как
// подстановочные символы.
// TODO: экранировать % и _ в text, когда клиенты будут готовы к смене поведения поиска.
func BuildTaskFilters(filters task.Filters, now time.Time) query.Predicate {
	where := query.Predicate{}

	if fromDate, ok := parseFilterDate(filters.From); ok {
		toDate, ok := parseFilterDate(filters.To)
		if !ok {
			toDate = now
		}
		where[query.FieldDueDate] = query.Between{From: fromDate, To: toDate}
	}

	if filters.Status != "" && task.Status(filters.Status).IsValid() {
		where[query.FieldStatus] = query.Equal{Value: filters.Status}
	}

	if len(filters.Priority) > 0 {
		validPriorities := make([]string, 0, len(filters.Priority))
		for _, p := range filters.Priority {
			p = strings.TrimSpace(p)
			if task.Priority(p).IsValid() {
				validPriorities = append(validPriorities, p)
			}
		}
		if len(validPriorities) > 0 {
			where[query.FieldPriority] = query.In{Values: validPriorities}
		}
	}

	if filters.Text != "" {
		where[query.FieldName] = query.Contains(filters.Text)
	}

	return where
}
