package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/St1cky1/task-management/internal/repository"
)

// MockTaskRepository - мок для ITaskRepository
type MockTaskRepository struct {
	CreateFunc                 func(ctx context.Context, task *entity.Task) (*entity.Task, error)
	GetByIdFunc                func(ctx context.Context, id int64) (*entity.Task, error)
	ListAllFunc                func(ctx context.Context) ([]entity.Task, error)
	UpdateFunc                 func(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error)
	DeleteFunc                 func(ctx context.Context, id int64) error
	FindByStatusFunc           func(ctx context.Context, status entity.Status) ([]entity.Task, error)
	FindByPriorityFunc         func(ctx context.Context, priority entity.Priority) ([]entity.Task, error)
	FindByAssigneeContainsFunc func(ctx context.Context, assignee string) ([]entity.Task, error)
	FindByDueDateBeforeFunc    func(ctx context.Context, date entity.Date) ([]entity.Task, error)
	FindByDueDateBetweenFunc   func(ctx context.Context, start, end entity.Date) ([]entity.Task, error)
	FindByKeywordFunc          func(ctx context.Context, keyword string) ([]entity.Task, error)
	FindFilteredFunc           func(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error)
	CountFunc                  func(ctx context.Context) (int64, error)
	CountByStatusFunc          func(ctx context.Context, status entity.Status) (int64, error)
}

var _ repository.ITaskRepository = (*MockTaskRepository)(nil)

func (m *MockTaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, task)
	}
	return nil, nil
}

func (m *MockTaskRepository) GetById(ctx context.Context, id int64) (*entity.Task, error) {
	if m.GetByIdFunc != nil {
		return m.GetByIdFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockTaskRepository) ListAll(ctx context.Context) ([]entity.Task, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockTaskRepository) Update(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, task)
	}
	return nil, nil
}

func (m *MockTaskRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockTaskRepository) FindByStatus(ctx context.Context, status entity.Status) ([]entity.Task, error) {
	if m.FindByStatusFunc != nil {
		return m.FindByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByPriority(ctx context.Context, priority entity.Priority) ([]entity.Task, error) {
	if m.FindByPriorityFunc != nil {
		return m.FindByPriorityFunc(ctx, priority)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByAssigneeContains(ctx context.Context, assignee string) ([]entity.Task, error) {
	if m.FindByAssigneeContainsFunc != nil {
		return m.FindByAssigneeContainsFunc(ctx, assignee)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByDueDateBefore(ctx context.Context, date entity.Date) ([]entity.Task, error) {
	if m.FindByDueDateBeforeFunc != nil {
		return m.FindByDueDateBeforeFunc(ctx, date)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByDueDateBetween(ctx context.Context, start, end entity.Date) ([]entity.Task, error) {
	if m.FindByDueDateBetweenFunc != nil {
		return m.FindByDueDateBetweenFunc(ctx, start, end)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindByKeyword(ctx context.Context, keyword string) ([]entity.Task, error) {
	if m.FindByKeywordFunc != nil {
		return m.FindByKeywordFunc(ctx, keyword)
	}
	return nil, nil
}

func (m *MockTaskRepository) FindFiltered(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
	if m.FindFilteredFunc != nil {
		return m.FindFilteredFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockTaskRepository) Count(ctx context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *MockTaskRepository) CountByStatus(ctx context.Context, status entity.Status) (int64, error) {
	if m.CountByStatusFunc != nil {
		return m.CountByStatusFunc(ctx, status)
	}
	return 0, nil
}

// MockTaskAuditRepository - мок для ITaskAuditRepository
type MockTaskAuditRepository struct {
	CreateFunc       func(ctx context.Context, audit *entity.TaskAudit) error
	ListByTaskIdFunc func(ctx context.Context, taskID int64) ([]entity.TaskAudit, error)
}

var _ repository.ITaskAuditRepository = (*MockTaskAuditRepository)(nil)

func (m *MockTaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, audit)
	}
	return nil
}

func (m *MockTaskAuditRepository) ListByTaskId(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {
	if m.ListByTaskIdFunc != nil {
		return m.ListByTaskIdFunc(ctx, taskID)
	}
	return nil, nil
}

// MockEventPublisher - мок для EventPublisher
type MockEventPublisher struct {
	PublishTaskEventFunc func(ctx context.Context, event *entity.TaskEvent) error
}

func (m *MockEventPublisher) PublishTaskEvent(ctx context.Context, event *entity.TaskEvent) error {
	if m.PublishTaskEventFunc != nil {
		return m.PublishTaskEventFunc(ctx, event)
	}
	return nil
}

func newService(taskRepo *MockTaskRepository) *TaskService {
	return NewTaskService(taskRepo, &MockTaskAuditRepository{}, &MockEventPublisher{})
}

// Tests

func TestCreateTaskDefaults(t *testing.T) {
	ctx := context.Background()

	var stored *entity.Task
	mockTaskRepo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *entity.Task) (*entity.Task, error) {
			stored = task
			created := *task
			created.ID = 1
			created.CreatedAt = time.Now()
			created.UpdatedAt = created.CreatedAt
			return &created, nil
		},
	}

	service := newService(mockTaskRepo)

	result, err := service.CreateTask(ctx, &entity.TaskRequest{Title: "Test Task"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if stored.Priority != entity.PriorityMedium {
		t.Errorf("Expected default priority MEDIUM, got %s", stored.Priority)
	}
	if stored.Status != entity.StatusPending {
		t.Errorf("Expected default status PENDING, got %s", stored.Status)
	}
	if !result.CreatedAt.Equal(result.UpdatedAt) {
		t.Errorf("Expected createdAt == updatedAt after create")
	}
}

func TestCreateTaskInvalidPriority(t *testing.T) {
	ctx := context.Background()

	created := false
	mockTaskRepo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *entity.Task) (*entity.Task, error) {
			created = true
			return task, nil
		},
	}

	service := newService(mockTaskRepo)

	_, err := service.CreateTask(ctx, &entity.TaskRequest{Title: "Test Task", Priority: "URGENT"})
	if !errors.Is(err, entity.ErrInvalidPriority) {
		t.Errorf("Expected ErrInvalidPriority, got %v", err)
	}
	if created {
		t.Error("Expected no repository call for invalid priority")
	}
}

func TestCreateTaskPublishesEvent(t *testing.T) {
	ctx := context.Background()

	mockTaskRepo := &MockTaskRepository{
		CreateFunc: func(ctx context.Context, task *entity.Task) (*entity.Task, error) {
			created := *task
			created.ID = 42
			return &created, nil
		},
	}

	events := make(chan *entity.TaskEvent, 1)
	publisher := &MockEventPublisher{
		PublishTaskEventFunc: func(ctx context.Context, event *entity.TaskEvent) error {
			events <- event
			return nil
		},
	}

	service := NewTaskService(mockTaskRepo, &MockTaskAuditRepository{}, publisher)

	if _, err := service.CreateTask(ctx, &entity.TaskRequest{Title: "Test Task"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	select {
	case event := <-events:
		if event.Action != entity.ActionCreate {
			t.Errorf("Expected action Create, got %s", event.Action)
		}
		if event.TaskID != 42 {
			t.Errorf("Expected task ID 42, got %d", event.TaskID)
		}
	case <-time.After(time.Second):
		t.Error("Expected task event to be published")
	}
}

func TestUpdateTaskFullReplace(t *testing.T) {
	ctx := context.Background()

	description := "Old Description"
	assignee := "Alice"
	oldTask := &entity.Task{
		ID:          1,
		Title:       "Old Title",
		Description: &description,
		Priority:    entity.PriorityHigh,
		Status:      entity.StatusInProgress,
		Assignee:    &assignee,
	}

	var replacement *entity.Task
	mockTaskRepo := &MockTaskRepository{
		GetByIdFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return oldTask, nil
		},
		UpdateFunc: func(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error) {
			replacement = task
			updated := *task
			updated.ID = id
			return &updated, nil
		},
	}

	service := newService(mockTaskRepo)

	// поля, отсутствующие в запросе, становятся null/дефолтами
	result, err := service.UpdateTask(ctx, 1, &entity.TaskRequest{
		Title:    "New Title",
		Status:   "COMPLETED",
		Priority: "LOW",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if replacement.Description != nil {
		t.Errorf("Expected description replaced with nil, got %v", *replacement.Description)
	}
	if replacement.Assignee != nil {
		t.Errorf("Expected assignee replaced with nil, got %v", *replacement.Assignee)
	}
	if result.Title != "New Title" || result.Status != entity.StatusCompleted || result.Priority != entity.PriorityLow {
		t.Errorf("Unexpected updated task: %+v", result)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	ctx := context.Background()

	updated := false
	mockTaskRepo := &MockTaskRepository{
		GetByIdFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return nil, nil // Task not found
		},
		UpdateFunc: func(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error) {
			updated = true
			return task, nil
		},
	}

	service := newService(mockTaskRepo)

	result, err := service.UpdateTask(ctx, 999, &entity.TaskRequest{Title: "New Title"})
	if !errors.Is(err, entity.ErrTaskNotFound) {
		t.Errorf("Expected ErrTaskNotFound, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected nil task, got %v", result)
	}
	if updated {
		t.Error("Expected no update call for missing task")
	}
}

func TestDeleteTaskMissingIdSucceeds(t *testing.T) {
	ctx := context.Background()

	deleted := false
	mockTaskRepo := &MockTaskRepository{
		GetByIdFunc: func(ctx context.Context, id int64) (*entity.Task, error) {
			return nil, nil
		},
		DeleteFunc: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}

	service := newService(mockTaskRepo)

	if err := service.DeleteTask(ctx, 999); err != nil {
		t.Errorf("Expected no error deleting missing task, got %v", err)
	}
	if deleted {
		t.Error("Expected no delete call for missing task")
	}
}

func TestGetOverdueTasksUsesCurrentDate(t *testing.T) {
	ctx := context.Background()

	var requested entity.Date
	mockTaskRepo := &MockTaskRepository{
		FindByDueDateBeforeFunc: func(ctx context.Context, date entity.Date) ([]entity.Task, error) {
			requested = date
			return nil, nil
		},
	}

	service := newService(mockTaskRepo)

	if _, err := service.GetOverdueTasks(ctx); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !requested.Equal(entity.Today().Time) {
		t.Errorf("Expected overdue cutoff %s, got %s", entity.Today(), requested)
	}
}

func TestGetTaskStatistics(t *testing.T) {
	ctx := context.Background()

	counts := map[entity.Status]int64{
		entity.StatusPending:    3,
		entity.StatusInProgress: 2,
		entity.StatusCompleted:  1,
	}

	mockTaskRepo := &MockTaskRepository{
		CountFunc: func(ctx context.Context) (int64, error) {
			return 6, nil
		},
		CountByStatusFunc: func(ctx context.Context, status entity.Status) (int64, error) {
			return counts[status], nil
		},
	}

	service := newService(mockTaskRepo)

	stats, err := service.GetTaskStatistics(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(stats) != 4 {
		t.Errorf("Expected exactly 4 keys, got %v", stats)
	}
	if stats["total"] != 6 || stats["pending"] != 3 || stats["inProgress"] != 2 || stats["completed"] != 1 {
		t.Errorf("Unexpected statistics: %v", stats)
	}
	if stats["total"] != stats["pending"]+stats["inProgress"]+stats["completed"] {
		t.Errorf("Expected total to equal sum of status counts: %v", stats)
	}
}

func TestGetTasksFilteredPage(t *testing.T) {
	ctx := context.Background()

	mockTaskRepo := &MockTaskRepository{
		FindFilteredFunc: func(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
			return []entity.Task{{ID: 1}, {ID: 2}}, 25, nil
		},
	}

	service := newService(mockTaskRepo)

	page, err := service.GetTasksFiltered(ctx, entity.TaskFilter{Page: 1, Size: 2, SortBy: "createdAt", SortDir: "desc"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(page.Items) != 2 {
		t.Errorf("Expected 2 items, got %d", len(page.Items))
	}
	if page.Total != 25 {
		t.Errorf("Expected total 25, got %d", page.Total)
	}
	if page.Page != 1 || page.Size != 2 {
		t.Errorf("Unexpected page metadata: %+v", page)
	}
}

func TestGetTasksFilteredEmptyResult(t *testing.T) {
	ctx := context.Background()

	service := newService(&MockTaskRepository{})

	page, err := service.GetTasksFiltered(ctx, entity.TaskFilter{Size: 10, SortBy: "createdAt", SortDir: "desc"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if page.Items == nil {
		t.Error("Expected empty items slice, got nil")
	}
}
