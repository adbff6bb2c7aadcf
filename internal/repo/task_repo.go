package repo

import (
	"context"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID string, id int64) (dom.Task, error)
	List(ctx context.Context, userID string) ([]dom.Task, error)
	Update(ctx context.Context, userID string, id int64, patch dom.Task) (dom.Task, error)
	SetCompleted(ctx context.Context, userID string, id int64, completed bool) (dom.Task, error)
	Delete(ctx context.Context, userID string, id int64) error
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, completed, priority, category, due_date, created_at, updated_at`

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, completed, priority, category, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.Completed, t.Priority, t.Category, t.DueDate)
	return scanTask(row)
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID string, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) List(ctx context.Context, userID string) ([]dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update rewrites the editable fields and always advances updated_at.
func (r *PGTaskRepo) Update(ctx context.Context, userID string, id int64, patch dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, completed = $5, priority = $6, category = $7, due_date = $8, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.Completed, patch.Priority, patch.Category, patch.DueDate)
	return scanTask(row)
}

// SetCompleted flips the flag without touching updated_at, so completion
// toggles never mark a task as recently modified.
func (r *PGTaskRepo) SetCompleted(ctx context.Context, userID string, id int64, completed bool) (dom.Task, error) {
	query := `
		UPDATE tasks SET completed = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	return scanTask(r.db.QueryRow(ctx, query, id, userID, completed))
}

// Delete removes the row for good; subtasks go with it (ON DELETE CASCADE).
// Returns pgx.ErrNoRows semantics via notFoundIfZero.
func (r *PGTaskRepo) Delete(ctx context.Context, userID string, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return notFoundIfZero(tag.RowsAffected())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (dom.Task, error) {
	var t dom.Task
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Completed,
		&t.Priority, &t.Category, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}
