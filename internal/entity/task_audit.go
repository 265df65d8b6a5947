package entity

import (
	"time"
)

type ActionType string

const (
	ActionCreate ActionType = "Create"
	ActionUpdate ActionType = "Update"
	ActionDelete ActionType = "Delete"
)

type TaskAudit struct {
	ID        int64      `json:"id"`
	TaskID    int64      `json:"task_id"`
	Action    ActionType `json:"action"`
	OldValues *string    `json:"old_values"`
	NewValues *string    `json:"new_values"`
	Changes   *string    `json:"changes"`
	ChangedAt time.Time  `json:"changed_at"`
}

// TaskEvent - сообщение в очередь при create/update/delete задачи
type TaskEvent struct {
	Action    ActionType     `json:"action"`
	TaskID    int64          `json:"task_id"`
	OldValues map[string]any `json:"old_values"`
	NewValues map[string]any `json:"new_values"`
	Changes   map[string]any `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
}
