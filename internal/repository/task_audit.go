package repository

import (
	"context"

	"github.com/St1cky1/task-management/internal/entity"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskAuditRepository struct {
	db *pgxpool.Pool
}

func NewTaskAuditRepository(db *pgxpool.Pool) *TaskAuditRepository {
	return &TaskAuditRepository{
		db: db,
	}
}

func (r *TaskAuditRepository) Create(ctx context.Context, audit *entity.TaskAudit) error {

	query := `
	INSERT INTO task_audit (task_id, action, old_values, new_values, changes, changed_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		audit.TaskID,
		audit.Action,
		audit.OldValues,
		audit.NewValues,
		audit.Changes,
		audit.ChangedAt,
	)
	return err
}

func (r *TaskAuditRepository) ListByTaskId(ctx context.Context, taskID int64) ([]entity.TaskAudit, error) {

	query := `
	SELECT id, task_id, action, old_values, new_values, changes, changed_at
	FROM task_audit
	WHERE task_id = $1
	ORDER BY changed_at
	`

	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var audits []entity.TaskAudit
	for rows.Next() {
		var a entity.TaskAudit
		err := rows.Scan(
			&a.ID,
			&a.TaskID,
			&a.Action,
			&a.OldValues,
			&a.NewValues,
			&a.Changes,
			&a.ChangedAt,
		)
		if err != nil {
			return nil, err
		}
		audits = append(audits, a)
	}

	return audits, rows.Err()
}
