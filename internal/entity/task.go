package entity

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// ParsePriority - разбор приоритета из пути/тела запроса (регистр не важен)
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToUpper(s)); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", ErrInvalidPriority
}

// ParseStatus - разбор статуса из пути/тела запроса (регистр не важен)
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToUpper(s)); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	}
	return "", ErrInvalidStatus
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Priority    Priority  `json:"priority"`
	Status      Status    `json:"status"`
	Assignee    *string   `json:"assignee"`
	DueDate     *Date     `json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// валидация
type TaskRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Priority    string  `json:"priority"`
	Status      string  `json:"status"`
	Assignee    *string `json:"assignee" validate:"omitempty,max=100"`
	DueDate     *Date   `json:"dueDate"`
}

// TaskFilter - опциональные фильтры + пагинация для /filter
type TaskFilter struct {
	Status   *Status
	Priority *Priority
	Assignee *string
	Page     int
	Size     int
	SortBy   string
	SortDir  string
}

type TaskPage struct {
	Items []Task `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Size  int    `json:"size"`
}
