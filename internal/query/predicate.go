// Package query описывает условия фильтрации и пагинацию, не зависящие от хранилища.
// Каждый адаптер хранилища переводит Predicate в свой язык запросов;
// поле, отсутствующее в Predicate, не ограничивает выборку.
package query

import (
	"math"
	"sort"
	"time"
)

type Field string

const (
	FieldDueDate  Field = "due_date"
	FieldStatus   Field = "status"
	FieldPriority Field = "priority"
	FieldName     Field = "name"
)

// Condition - одно из Between, Equal, In или Like
type Condition interface {
	condition()
}

// Between: From <= значение <= To
type Between struct {
	From time.Time
	To   time.Time
}

type Equal struct {
	Value string
}

// In совпадает с любым из Values, дубликаты допустимы
type In struct {
	Values []string
}

// Like - шаблон, где % означает любую последовательность символов, а _ один символ.
// Шаблон передаётся в хранилище как есть.
type Like struct {
	Pattern string
}

func (Between) condition() {}
func (Equal) condition()   {}
func (In) condition()      {}
func (Like) condition()    {}

type Predicate map[Field]Condition

// Fields возвращает поля в стабильном порядке, чтобы SQL был детерминированным
func (p Predicate) Fields() []Field {
	fields := make([]Field, 0, len(p))
	for f := range p {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i] < fields[j] })
	return fields
}

// Page - запрос страницы, нумерация с 1. Результаты всегда упорядочены по created_at, новые первыми.
type Page struct {
	Number int
	Limit  int
}

func NewPage(number, limit int) Page {
	return Page{Number: number, Limit: limit}
}

// Offset насыщается до math.MaxInt вместо переполнения
func (p Page) Offset() int {
	if p.Number < 1 || p.Limit < 1 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}
