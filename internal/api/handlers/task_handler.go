package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/St1cky1/task-management/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type TaskHandler struct {
	taskService *usecase.TaskService
	validate    *validator.Validate
}

func NewTaskHandler(taskService *usecase.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeTaskRequest - парсим и валидируем тело запроса
func (h *TaskHandler) decodeTaskRequest(r *http.Request) (*entity.TaskRequest, error) {
	var req entity.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	if err := h.validate.Struct(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// создаем новую задачу
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeTaskRequest(r)
	if err != nil {
		http.Error(w, "invalid task data", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidPriority), errors.Is(err, entity.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTaskNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetAllTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetAllTasks(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	req, err := h.decodeTaskRequest(r)
	if err != nil {
		http.Error(w, "invalid task data", http.StatusBadRequest)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrTaskNotFound):
			http.Error(w, "task not found", http.StatusNotFound)
		case errors.Is(err, entity.ErrInvalidPriority), errors.Is(err, entity.ErrInvalidStatus):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), id); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) GetTasksByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := entity.ParseStatus(chi.URLParam(r, "status"))
	if err != nil {
		http.Error(w, "invalid status value", http.StatusBadRequest)
		return
	}

	tasks, err := h.taskService.GetTasksByStatus(r.Context(), status)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByPriority(w http.ResponseWriter, r *http.Request) {
	priority, err := entity.ParsePriority(chi.URLParam(r, "priority"))
	if err != nil {
		http.Error(w, "invalid priority value", http.StatusBadRequest)
		return
	}

	tasks, err := h.taskService.GetTasksByPriority(r.Context(), priority)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetTasksByAssignee(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetTasksByAssignee(r.Context(), chi.URLParam(r, "assignee"))
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) GetOverdueTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.GetOverdueTasks(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		http.Error(w, "keyword is required", http.StatusBadRequest)
		return
	}

	tasks, err := h.taskService.SearchTasks(r.Context(), keyword)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// FilterTasks - комбинированные опциональные фильтры + пагинация
func (h *TaskHandler) FilterTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := entity.TaskFilter{
		Page:    0,
		Size:    10,
		SortBy:  "createdAt",
		SortDir: "desc",
	}

	if s := query.Get("status"); s != "" {
		status, err := entity.ParseStatus(s)
		if err != nil {
			http.Error(w, "invalid status value", http.StatusBadRequest)
			return
		}
		filter.Status = &status
	}
	if p := query.Get("priority"); p != "" {
		priority, err := entity.ParsePriority(p)
		if err != nil {
			http.Error(w, "invalid priority value", http.StatusBadRequest)
			return
		}
		filter.Priority = &priority
	}
	if a := query.Get("assignee"); a != "" {
		filter.Assignee = &a
	}
	if p := query.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil || page < 0 {
			http.Error(w, "invalid page value", http.StatusBadRequest)
			return
		}
		filter.Page = page
	}
	if s := query.Get("size"); s != "" {
		size, err := strconv.Atoi(s)
		if err != nil || size < 1 {
			http.Error(w, "invalid size value", http.StatusBadRequest)
			return
		}
		filter.Size = size
	}
	if s := query.Get("sortBy"); s != "" {
		filter.SortBy = s
	}
	if d := query.Get("sortDir"); d != "" {
		filter.SortDir = d
	}

	page, err := h.taskService.GetTasksFiltered(r.Context(), filter)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidSortField):
			http.Error(w, "invalid sort field", http.StatusBadRequest)
		default:
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *TaskHandler) GetTaskStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.GetTaskStatistics(r.Context())
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetTaskAudit - история изменений задачи
func (h *TaskHandler) GetTaskAudit(w http.ResponseWriter, r *http.Request) {
	id, err := taskID(r)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return
	}

	audits, err := h.taskService.GetTaskAudit(r.Context(), id)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if audits == nil {
		audits = []entity.TaskAudit{}
	}
	writeJSON(w, http.StatusOK, audits)
}
