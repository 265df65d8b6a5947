package repository

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = "id, title, description, priority, status, assignee, due_date, created_at, updated_at"

// допустимые поля сортировки для /filter (json-имя -> колонка)
var sortColumns = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"priority":    "priority",
	"status":      "status",
	"assignee":    "assignee",
	"dueDate":     "due_date",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{
		db: db,
	}
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	var due *time.Time
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Priority,
		&t.Status,
		&t.Assignee,
		&due,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.DueDate = entity.DateFromTime(due)
	return &t, nil
}

func collectTasks(rows pgx.Rows) ([]entity.Task, error) {
	defer rows.Close()

	var tasks []entity.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) Create(ctx context.Context, task *entity.Task) (*entity.Task, error) {

	query := `
	INSERT INTO tasks (title, description, priority, status, assignee, due_date)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + taskColumns

	row := r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Assignee,
		task.DueDate.TimePtr(),
	)
	return scanTask(row)
}

func (r *TaskRepository) GetById(ctx context.Context, id int64) (*entity.Task, error) {

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// Update - полная замена всех изменяемых полей задачи
func (r *TaskRepository) Update(ctx context.Context, id int64, task *entity.Task) (*entity.Task, error) {

	query := `
	UPDATE tasks
	SET title = $1, description = $2, priority = $3, status = $4, assignee = $5, due_date = $6,
	    updated_at = CURRENT_TIMESTAMP
	WHERE id = $7
	RETURNING ` + taskColumns

	row := r.db.QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Priority,
		task.Status,
		task.Assignee,
		task.DueDate.TimePtr(),
		id,
	)

	updated, err := scanTask(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, entity.ErrTaskNotFound
		}
		return nil, err
	}
	return updated, nil
}

// Delete - удаление задачи, отсутствие записи ошибкой не считается
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	return err
}

func (r *TaskRepository) FindByStatus(ctx context.Context, status entity.Status) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE status = $1 ORDER BY id`, status)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *TaskRepository) FindByPriority(ctx context.Context, priority entity.Priority) ([]entity.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE priority = $1 ORDER BY id`, priority)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// FindByAssigneeContains - подстрока без учета регистра, NULL assignee не совпадает
func (r *TaskRepository) FindByAssigneeContains(ctx context.Context, assignee string) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE assignee ILIKE '%' || $1 || '%' ORDER BY id`
	rows, err := r.db.Query(ctx, query, assignee)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// FindByDueDateBefore - строго меньше, NULL due_date исключается
func (r *TaskRepository) FindByDueDateBefore(ctx context.Context, date entity.Date) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE due_date < $1 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, date.Time)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *TaskRepository) FindByDueDateBetween(ctx context.Context, start, end entity.Date) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE due_date BETWEEN $1 AND $2 ORDER BY due_date`
	rows, err := r.db.Query(ctx, query, start.Time, end.Time)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

func (r *TaskRepository) FindByKeyword(ctx context.Context, keyword string) ([]entity.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE title ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
	ORDER BY id`
	rows, err := r.db.Query(ctx, query, keyword)
	if err != nil {
		return nil, err
	}
	return collectTasks(rows)
}

// buildFilterWhere - WHERE часть для /filter; отсутствующий фильтр не ограничивает выборку
func buildFilterWhere(filter entity.TaskFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, "priority = $"+strconv.Itoa(len(args)))
	}
	if filter.Assignee != nil {
		args = append(args, *filter.Assignee)
		clauses = append(clauses, "assignee ILIKE '%' || $"+strconv.Itoa(len(args))+" || '%'")
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// orderClause - сортировка только по известным полям, имя поля в SQL не подставляется
func orderClause(sortBy, sortDir string) (string, error) {
	column, ok := sortColumns[sortBy]
	if !ok {
		return "", entity.ErrInvalidSortField
	}
	direction := "ASC"
	if strings.EqualFold(sortDir, "desc") {
		direction = "DESC"
	}
	return " ORDER BY " + column + " " + direction, nil
}

// FindFiltered - комбинированные фильтры + пагинация, возвращает страницу и общее число совпадений
func (r *TaskRepository) FindFiltered(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, int64, error) {
	whereSQL, args := buildFilterWhere(filter)

	orderSQL, err := orderClause(filter.SortBy, filter.SortDir)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArgs := append(args, filter.Size, filter.Page*filter.Size)
	query := `SELECT ` + taskColumns + ` FROM tasks` + whereSQL + orderSQL +
		` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)

	rows, err := r.db.Query(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, err
	}

	tasks, err := collectTasks(rows)
	if err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *TaskRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
	return count, err
}

func (r *TaskRepository) CountByStatus(ctx context.Context, status entity.Status) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE status = $1`, status).Scan(&count)
	return count, err
}
