package postgres

import (
	"fmt"
	"strings"
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
)

var columns = map[query.Field]string{
	query.FieldDueDate:  "due_date",
	query.FieldStatus:   "status::text",
	query.FieldPriority: "priority::text",
	query.FieldName:     "name",
}

// buildWhere переводит предикат в WHERE с позиционными параметрами начиная с $1.
// Пустой предикат даёт пустую строку.
func buildWhere(where query.Predicate) (string, []any, error) {
	if len(where) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(where))
	args := make([]any, 0, len(where)+1)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, field := range where.Fields() {
		column, ok := columns[field]
		if !ok {
			return "", nil, fmt.Errorf("неизвестное поле %q", field)
		}

		switch cond := where[field].(type) {
		case query.Between:
			lower, upper := task.DateRange(cond.From, cond.To)
			from := next(lower.Time)
			to := next(upper.Time)
			clauses = append(clauses, fmt.Sprintf("%s BETWEEN %s::date AND %s::date", column, from, to))
		case query.Equal:
			clauses = append(clauses, fmt.Sprintf("%s = %s", column, next(cond.Value)))
		case query.In:
			clauses = append(clauses, fmt.Sprintf("%s = ANY(%s::text[])", column, next(cond.Values)))
		case query.Like:
			clauses = append(clauses, fmt.Sprintf("%s LIKE %s", column, next(cond.Pattern)))
		default:
			return "", nil, fmt.Errorf("неподдерживаемое условие %T для поля %s", cond, field)
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

// buildSet собирает SET только из переданных полей патча.
// Параметры нумеруются после offset уже занятых.
func buildSet(patch task.Patch, offset int) (string, []any) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 5)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", offset+len(args))
	}

	if patch.Name != nil {
		sets = append(sets, "name = "+next(*patch.Name))
	}
	if patch.DueDate != nil {
		sets = append(sets, "due_date = "+next(patch.DueDate.Time)+"::date")
	}
	if patch.Status != nil {
		sets = append(sets, "status = "+next(string(*patch.Status))+"::text::task_status")
	}
	if patch.Priority != nil {
		sets = append(sets, "priority = "+next(string(*patch.Priority))+"::text::task_priority")
	}
	if patch.IsActive != nil {
		sets = append(sets, "is_active = "+next(*patch.IsActive))
	}
	sets = append(sets, "updated_at = NOW()")

	return strings.Join(sets, ", "), args
}
