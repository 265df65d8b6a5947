package usecase

import (
	"context"
	"time"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/St1cky1/task-management/internal/repository"
	"github.com/sirupsen/logrus"
)

// EventPublisher интерфейс для публикации событий задач в RabbitMQ
type EventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *entity.TaskEvent) error
}

type TaskService struct {
	taskRepo  repository.ITaskRepository
	auditRepo repository.ITaskAuditRepository
	events    EventPublisher
}

func NewTaskService(
	taskRepo repository.ITaskRepository,
	auditRepo repository.ITaskAuditRepository,
	events EventPublisher,
) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
		events:    events,
	}
}

// taskFromRequest - заготовка задачи из тела запроса, enum-поля с дефолтами
func taskFromRequest(req *entity.TaskRequest) (*entity.Task, error) {
	priority := entity.PriorityMedium
	if req.Priority != "" {
		p, err := entity.ParsePriority(req.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	status := entity.StatusPending
	if req.Status != "" {
		s, err := entity.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = s
	}

	return &entity.Task{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Status:      status,
		Assignee:    req.Assignee,
		DueDate:     req.DueDate,
	}, nil
}

func (s *TaskService) CreateTask(ctx context.Context, req *entity.TaskRequest) (*entity.Task, error) {
	task, err := taskFromRequest(req)
	if err != nil {
		return nil, err
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.sendTaskEvent(entity.ActionCreate, created.ID, nil, created)

	return created, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := s.taskRepo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.ListAll(ctx)
}

// UpdateTask - полная замена всех изменяемых полей, created_at сохраняется
func (s *TaskService) UpdateTask(ctx context.Context, id int64, req *entity.TaskRequest) (*entity.Task, error) {
	oldTask, err := s.taskRepo.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if oldTask == nil {
		return nil, entity.ErrTaskNotFound
	}

	task, err := taskFromRequest(req)
	if err != nil {
		return nil, err
	}

	updated, err := s.taskRepo.Update(ctx, id, task)
	if err != nil {
		return nil, err
	}

	s.sendTaskEvent(entity.ActionUpdate, id, oldTask, updated)

	return updated, nil
}

// DeleteTask - безусловное удаление, отсутствие записи ошибкой не считается
func (s *TaskService) DeleteTask(ctx context.Context, id int64) error {
	task, err := s.taskRepo.GetById(ctx, id)
	if err != nil {
		return err
	}
	if task == nil {
		return nil
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.sendTaskEvent(entity.ActionDelete, id, task, nil)

	return nil
}

func (s *TaskService) GetTasksByStatus(ctx context.Context, status entity.Status) ([]entity.Task, error) {
	return s.taskRepo.FindByStatus(ctx, status)
}

func (s *TaskService) GetTasksByPriority(ctx context.Context, priority entity.Priority) ([]entity.Task, error) {
	return s.taskRepo.FindByPriority(ctx, priority)
}

func (s *TaskService) GetTasksByAssignee(ctx context.Context, assignee string) ([]entity.Task, error) {
	return s.taskRepo.FindByAssigneeContains(ctx, assignee)
}

// GetOverdueTasks - due_date строго раньше текущей даты на момент вызова
func (s *TaskService) GetOverdueTasks(ctx context.Context) ([]entity.Task, error) {
	return s.taskRepo.FindByDueDateBefore(ctx, entity.Today())
}

func (s *TaskService) GetTasksDueBetween(ctx context.Context, start, end entity.Date) ([]entity.Task, error) {
	return s.taskRepo.FindByDueDateBetween(ctx, start, end)
}

func (s *TaskService) SearchTasks(ctx context.Context, keyword string) ([]entity.Task, error) {
	return s.taskRepo.FindByKeyword(ctx, keyword)
}

func (s *TaskService) GetTasksFiltered(ctx context.Context, filter entity.TaskFilter) (*entity.TaskPage, error) {
	items, total, err := s.taskRepo.FindFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entity.Task{}
	}
	return &entity.TaskPage{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.Size,
	}, nil
}

func (s *TaskService) GetTaskStatistics(ctx context.Context) (map[string]int64, error) {
	total, err := s.taskRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	pending, err := s.taskRepo.CountByStatus(ctx, entity.StatusPending)
	if err != nil {
		return nil, err
	}
	inProgress, err := s.taskRepo.CountByStatus(ctx, entity.StatusInProgress)
	if err != nil {
		return nil, err
	}
	completed, err := s.taskRepo.CountByStatus(ctx, entity.StatusCompleted)
	if err != nil {
		return nil, err
	}

	return map[string]int64{
		"total":      total,
		"pending":    pending,
		"inProgress": inProgress,
		"completed":  completed,
	}, nil
}

func (s *TaskService) GetTaskAudit(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	return s.auditRepo.ListByTaskId(ctx, taskID)
}

func taskValues(task *entity.Task) map[string]any {
	values := map[string]any{
		"title":       task.Title,
		"description": task.Description,
		"priority":    task.Priority,
		"status":      task.Status,
		"assignee":    task.Assignee,
	}
	if task.DueDate != nil {
		values["dueDate"] = task.DueDate.String()
	} else {
		values["dueDate"] = nil
	}
	return values
}

// Вспомогательный метод для отправки события задачи
func (s *TaskService) sendTaskEvent(action entity.ActionType, taskID int64, oldTask, newTask *entity.Task) {
	event := &entity.TaskEvent{
		Action:    action,
		TaskID:    taskID,
		Timestamp: time.Now(),
	}

	if oldTask != nil {
		event.OldValues = taskValues(oldTask)
	}
	if newTask != nil {
		event.NewValues = taskValues(newTask)
	}

	// Для обновления вычисляем изменившиеся поля
	if action == entity.ActionUpdate && oldTask != nil && newTask != nil {
		changes := make(map[string]any)
		oldValues := taskValues(oldTask)
		for field, newValue := range taskValues(newTask) {
			oldValue := oldValues[field]
			if !equalValue(oldValue, newValue) {
				changes[field] = map[string]any{"old": oldValue, "new": newValue}
			}
		}
		event.Changes = changes
	}

	// Асинхронная отправка в RabbitMQ, запрос на ошибке публикации не падает
	go func() {
		if err := s.events.PublishTaskEvent(context.Background(), event); err != nil {
			logrus.WithError(err).WithField("task_id", taskID).Error("failed to publish task event")
		}
	}()
}

func equalValue(a, b any) bool {
	ap, aok := a.(*string)
	bp, bok := b.(*string)
	if aok && bok {
		if ap == nil || bp == nil {
			return ap == bp
		}
		return *ap == *bp
	}
	return a == b
}
