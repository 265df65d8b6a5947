package entity

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidPriority  = errors.New("invalid priority value")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrInvalidSortField = errors.New("invalid sort field")
	ErrInvalidDueDate   = errors.New("invalid due date format")
	ErrInvalidTaskData  = errors.New("invalid task data")
)
