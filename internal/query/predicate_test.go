package query_test

import (
	"math"
	"taskBoard/internal/query"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchLike(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		value   string
		want    bool
	}{
		{name: "substring in the middle", pattern: "%port%", value: "Write report", want: true},
		{name: "prefix", pattern: "Write%", value: "Write report", want: true},
		{name: "exact", pattern: "abc", value: "abc", want: true},
		{name: "exact mismatch", pattern: "abc", value: "abd", want: false},
		{name: "case sensitive", pattern: "%Report%", value: "Write report", want: false},
		{name: "underscore matches one rune", pattern: "a_c", value: "abc", want: true},
		{name: "underscore needs a rune", pattern: "a_c", value: "ac", want: false},
		{name: "percent matches empty", pattern: "%%", value: "", want: true},
		{name: "unescaped user wildcard", pattern: "%50%%", value: "up 50 percent", want: true},
		{name: "unicode", pattern: "%задач%", value: "Новая задача", want: true},
		{name: "no match", pattern: "%deploy%", value: "Write report", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, query.MatchLike(tt.pattern, tt.value))
		})
	}
}

func TestContains(t *testing.T) {
	assert.Equal(t, query.Like{Pattern: "%report%"}, query.Contains("report"))
	assert.Equal(t, query.Like{Pattern: "%50%%"}, query.Contains("50%"))
}

func TestPage_Offset(t *testing.T) {
	assert.Equal(t, 0, query.NewPage(1, 10).Offset())
	assert.Equal(t, 20, query.NewPage(3, 10).Offset())
	assert.Equal(t, 0, query.NewPage(0, 10).Offset())
	assert.Equal(t, 0, query.NewPage(5, 0).Offset())
}

func TestPage_OffsetSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, query.NewPage(math.MaxInt, 2).Offset())
	assert.Equal(t, math.MaxInt, query.NewPage(2, math.MaxInt).Offset())
	assert.Equal(t, math.MaxInt, query.NewPage(3, math.MaxInt).Offset())
}

func TestPredicate_FieldsSorted(t *testing.T) {
	p := query.Predicate{
		query.FieldStatus:   query.Equal{Value: "PENDING"},
		query.FieldName:     query.Contains("a"),
		query.FieldDueDate:  query.Between{},
		query.FieldPriority: query.In{Values: []string{"RED"}},
	}

	assert.Equal(t, []query.Field{
		query.FieldDueDate,
		query.FieldName,
		query.FieldPriority,
		query.FieldStatus,
	}, p.Fields())
}
