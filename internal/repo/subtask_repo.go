package repo

import (
	"context"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SubtaskRepo persists the checklist attached to a task. Ownership of the
// parent task is the service's concern; queries here are scoped by task ID.
type SubtaskRepo interface {
	Create(ctx context.Context, s dom.Subtask) (dom.Subtask, error)
	ListByTask(ctx context.Context, taskID int64) ([]dom.Subtask, error)
	Update(ctx context.Context, taskID, id int64, patch dom.Subtask) (dom.Subtask, error)
	Delete(ctx context.Context, taskID, id int64) error
}

type PGSubtaskRepo struct {
	db *pgxpool.Pool
}

func NewPGSubtaskRepo(db *pgxpool.Pool) *PGSubtaskRepo {
	return &PGSubtaskRepo{db: db}
}

const subtaskColumns = `id, task_id, title, completed, created_at, updated_at`

func (r *PGSubtaskRepo) Create(ctx context.Context, s dom.Subtask) (dom.Subtask, error) {
	query := `
		INSERT INTO subtasks (task_id, title, completed)
		VALUES ($1, $2, $3)
		RETURNING ` + subtaskColumns
	return scanSubtask(r.db.QueryRow(ctx, query, s.TaskID, s.Title, s.Completed))
}

func (r *PGSubtaskRepo) ListByTask(ctx context.Context, taskID int64) ([]dom.Subtask, error) {
	query := `SELECT ` + subtaskColumns + ` FROM subtasks WHERE task_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.db.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Subtask
	for rows.Next() {
		s, err := scanSubtask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// Update advances the subtask's own updated_at; parent timestamps are untouched.
func (r *PGSubtaskRepo) Update(ctx context.Context, taskID, id int64, patch dom.Subtask) (dom.Subtask, error) {
	query := `
		UPDATE subtasks SET title = $3, completed = $4, updated_at = NOW()
		WHERE id = $1 AND task_id = $2
		RETURNING ` + subtaskColumns
	return scanSubtask(r.db.QueryRow(ctx, query, id, taskID, patch.Title, patch.Completed))
}

func (r *PGSubtaskRepo) Delete(ctx context.Context, taskID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subtasks WHERE id = $1 AND task_id = $2`, id, taskID)
	if err != nil {
		return err
	}
	return notFoundIfZero(tag.RowsAffected())
}

func scanSubtask(row rowScanner) (dom.Subtask, error) {
	var s dom.Subtask
	err := row.Scan(&s.ID, &s.TaskID, &s.Title, &s.Completed, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// notFoundIfZero maps a zero-row write to pgx.ErrNoRows so services can
// treat lookups and writes uniformly.
func notFoundIfZero(affected int64) error {
	if affected == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
