package repository

import (
	"context"

	"github.com/St1cky1/task-management/internal/entity"
)

// ITaskRepository - интерфейс для TaskRepository
type ITaskRepository interface {
	Create(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetById(ctx context.Context, id int64) (*entity.Task, error)
	ListAll(ctx context.Context) ([]entity.Task, error)
	Update(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error)
	Delete(ctx context.Context, id int64) error
	FindByStatus(ctx context.Context, status entity.Status) ([]entity.Task, error)
	FindByPriority(ctx context.Context, priority entity.Priority) ([]entity.Task, error)
	FindByAssigneeContains(ctx context.Context, assignee string) ([]entity.Task, error)
	FindByDueDateBefore(ctx context.Context, date entity.Date) ([]entity.Task, error)
	FindByDueDateBetween(ctx context.Context, start, end entity.Date) ([]entity.Task, error)
	FindByKeyword(ctx context.Context, keyword string) ([]entity.Task, error)
	FindFiltered(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entity.Status) (int64, error)
}

// ITaskAuditRepository - интерфейс для TaskAuditRepository
type ITaskAuditRepository interface {
	Create(ctx context.Context, audit *entity.TaskAudit) error
	ListByTaskId(ctx context.Context, taskID int64) ([]entity.TaskAudit, error)
}
