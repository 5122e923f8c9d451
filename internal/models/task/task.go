package task

import (
	"time"
)

type Task struct {
	ID        int64     `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"column:name;not null"`
	DueDate   Date      `json:"dueDate" db:"due_date" gorm:"column:due_date;type:date;not null"`
	Status    Status    `json:"status" db:"status" gorm:"column:status;type:task_status;default:PENDING"`
	Priority  Priority  `json:"priority" db:"priority" gorm:"column:priority;type:task_priority;default:BLUE"`
	IsActive  bool      `json:"isActive" db:"is_active" gorm:"column:is_active;not null"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Task) TableName() string { return "tasks" }

type Status string
type Priority string

const StatusPending Status = "PENDING"
const StatusInProgress Status = "IN_PROGRESS"
const StatusCompleted Status = "COMPLETED"

const PriorityBlue Priority = "BLUE"
const PriorityGreen Priority = "GREEN"
const PriorityYellow Priority = "YELLOW"
const PriorityRed Priority = "RED"

var statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}
var priorities = []Priority{PriorityBlue, PriorityGreen, PriorityYellow, PriorityRed}

func Statuses() []Status {
	return append([]Status(nil), statuses...)
}

func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

func (s Status) IsValid() bool {
	for _, v := range statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (p Priority) IsValid() bool {
	for _, v := range priorities {
		if p == v {
			return true
		}
	}
	return false
}

// CreateInput - уже провалидированный запрос на создание
type CreateInput struct {
	Name     string
	DueDate  Date
	Status   Status
	Priority Priority
	IsActive bool
}

// Filters хранит сырые непроверенные значения параметров одного запроса фильтрации
type Filters struct {
	From     string
	To       string
	Status   string
	Priority []string
	Text     string
}

type Page struct {
	Data  []*Task `json:"data"`
	Total int     `json:"total"`
}
