package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasktracker/internal/errs"
	"tasktracker/internal/model"
)

// TaskRepo implements TaskRepository using PostgreSQL. Author and performer
// are stored as FK references and resolved to usernames on read.
type TaskRepo struct{ db *DB }

// NewTaskRepo constructs a task repository.
func NewTaskRepo(db *DB) *TaskRepo { return &TaskRepo{db: db} }

const selectTask = `
SELECT t.id, t.title, t.description, t.status, t.priority, a.username, COALESCE(p.username, '')
FROM tasks t
JOIN users a ON a.id = t.author_id
LEFT JOIN users p ON p.id = t.performer_id`

// Create inserts a new task row and returns the assigned id. Author and
// performer usernames must reference existing users.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) (int64, error) {
	const q = `
INSERT INTO tasks (title, description, status, priority, author_id, performer_id)
VALUES ($1, $2, $3, $4,
        (SELECT id FROM users WHERE username = $5),
        (SELECT id FROM users WHERE username = NULLIF($6, '')))
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q,
		t.Title, t.Description, t.Status, t.Priority, t.Author, t.Performer).Scan(&id)
	if isIntegrityViolation(err) {
		return 0, errs.ErrNotFound
	}
	return id, err
}

// GetByID loads a task and its comments in id order.
func (r *TaskRepo) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	row := r.db.Pool.QueryRow(ctx, selectTask+` WHERE t.id = $1`, id)
	var t model.Task
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Author, &t.Performer); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}

	const qc = `
SELECT c.id, c.task_id, c.text, u.username
FROM comments c
JOIN users u ON u.id = c.author_id
WHERE c.task_id = $1
ORDER BY c.id`
	rows, err := r.db.Pool.Query(ctx, qc, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.Text, &c.Author); err != nil {
			return nil, err
		}
		t.Comments = append(t.Comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns tasks matching the filter, ordered by id for stable paging.
// Each set filter field contributes one AND-ed equality clause; nil fields
// contribute nothing.
func (r *TaskRepo) List(ctx context.Context, f model.TaskFilter, page, size int) ([]model.Task, error) {
	q, args := buildTaskQuery(f, page, size)
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.Author, &t.Performer); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func buildTaskQuery(f model.TaskFilter, page, size int) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(expr, len(args)))
	}
	if f.Author != nil {
		add("a.username = $%d", *f.Author)
	}
	if f.Performer != nil {
		add("p.username = $%d", *f.Performer)
	}
	if f.Status != nil {
		add("t.status = $%d", *f.Status)
	}
	if f.Priority != nil {
		add("t.priority = $%d", *f.Priority)
	}

	var sb strings.Builder
	sb.WriteString(selectTask)
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	args = append(args, size, page*size)
	fmt.Fprintf(&sb, " ORDER BY t.id LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	return sb.String(), args
}

// Update persists the mutable fields of an existing task.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	const q = `
UPDATE tasks
SET title = $2, description = $3, status = $4, priority = $5,
    author_id = (SELECT id FROM users WHERE username = $6),
    performer_id = (SELECT id FROM users WHERE username = NULLIF($7, ''))
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q,
		t.ID, t.Title, t.Description, t.Status, t.Priority, t.Author, t.Performer)
	if isIntegrityViolation(err) {
		return errs.ErrNotFound
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes a task row; comments go with it via ON DELETE CASCADE.
func (r *TaskRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// AddComment inserts a single comment row. Concurrent additions to the same
// task are independent inserts, so none is lost.
func (r *TaskRepo) AddComment(ctx context.Context, c *model.Comment) (int64, error) {
	const q = `
INSERT INTO comments (task_id, author_id, text)
VALUES ($1, (SELECT id FROM users WHERE username = $2), $3)
RETURNING id`
	var id int64
	err := r.db.Pool.QueryRow(ctx, q, c.TaskID, c.Author, c.Text).Scan(&id)
	if isIntegrityViolation(err) {
		return 0, errs.ErrNotFound
	}
	return id, err
}
