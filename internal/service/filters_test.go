package service_test

import (
	"taskBoard/internal/models/task"
	"taskBoard/internal/query"
	"taskBoard/internal/service"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildTaskFilters(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 30, 0, 0, time.UTC)
	jan1 := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb1 := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		filters task.Filters
		want    query.Predicate
	}{
		{
			name:    "no filters",
			filters: task.Filters{},
			want:    query.Predicate{},
		},
		{
			name:    "from and to",
			filters: task.Filters{From: "2025-01-01", To: "2025-02-01"},
			want:    query.Predicate{query.FieldDueDate: query.Between{From: jan1, To: feb1}},
		},
		{
			name:    "from without to is bounded by now",
			filters: task.Filters{From: "2025-01-01"},
			want:    query.Predicate{query.FieldDueDate: query.Between{From: jan1, To: now}},
		},
		{
			name:    "unparsable to falls back to now",
			filters: task.Filters{From: "2025-01-01", To: "soon"},
			want:    query.Predicate{query.FieldDueDate: query.Between{From: jan1, To: now}},
		},
		{
			name:    "to without from is ignored",
			filters: task.Filters{To: "2025-02-01"},
			want:    query.Predicate{},
		},
		{
			name:    "invalid from ignores to",
			filters: task.Filters{From: "01/01/2025", To: "2025-02-01"},
			want:    query.Predicate{},
		},
		{
			name:    "timestamp from",
			filters: task.Filters{From: "2025-01-01T00:00:00Z", To: "2025-02-01T00:00"},
			want:    query.Predicate{query.FieldDueDate: query.Between{From: jan1, To: feb1}},
		},
		{
			name:    "valid status",
			filters: task.Filters{Status: "PENDING"},
			want:    query.Predicate{query.FieldStatus: query.Equal{Value: "PENDING"}},
		},
		{
			name:    "unknown status dropped",
			filters: task.Filters{Status: "pending"},
			want:    query.Predicate{},
		},
		{
			name:    "priorities trimmed and invalid dropped",
			filters: task.Filters{Priority: []string{" RED", "PURPLE", "BLUE "}},
			want:    query.Predicate{query.FieldPriority: query.In{Values: []string{"RED", "BLUE"}}},
		},
		{
			name:    "only invalid priorities",
			filters: task.Filters{Priority: []string{"PURPLE", ""}},
			want:    query.Predicate{},
		},
		{
			name:    "duplicate priorities kept",
			filters: task.Filters{Priority: []string{"RED", "RED"}},
			want:    query.Predicate{query.FieldPriority: query.In{Values: []string{"RED", "RED"}}},
		},
		{
			name:    "text becomes substring pattern",
			filters: task.Filters{Text: "report"},
			want:    query.Predicate{query.FieldName: query.Like{Pattern: "%report%"}},
		},
		{
			name: "all filters combined",
			filters: task.Filters{
				From:     "2025-01-01",
				To:       "2025-02-01",
				Status:   "COMPLETED",
				Priority: []string{"GREEN"},
				Text:     "deploy",
			},
			want: query.Predicate{
				query.FieldDueDate:  query.Between{From: jan1, To: feb1},
				query.FieldStatus:   query.Equal{Value: "COMPLETED"},
				query.FieldPriority: query.In{Values: []string{"GREEN"}},
				query.FieldName:     query.Like{Pattern: "%deploy%"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.BuildTaskFilters(tt.filters, now)
			assert.Equal(t, tt.want, got)
		})
	}
}
