package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cuctask_bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, content, done, deadline, remind_at, channel_id, reminded, created_at`

// TaskRepository stores tasks in Postgres.
type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts t and fills in its generated id and creation time.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	if strings.TrimSpace(t.Content) == "" {
		return domain.ErrEmptyContent
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (content, done, deadline, remind_at, channel_id, reminded)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		t.Content, t.Done, t.Deadline, t.RemindAt, t.ChannelID, t.Reminded,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}

// FindAll returns every task ordered by ascending id.
func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	res := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %d: %w", id, err)
	}
	return t, nil
}

// Update writes only the columns set in p. Each column falls back to its
// current value, so concurrent patches of different fields don't clobber
// each other.
func (r *TaskRepository) Update(ctx context.Context, id int64, p domain.TaskPatch) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET done      = COALESCE($2, done),
		     deadline  = COALESCE($3, deadline),
		     remind_at = COALESCE($4, remind_at),
		     reminded  = COALESCE($5, reminded)
		 WHERE id = $1
		 RETURNING `+taskColumns,
		id, p.Done, p.Deadline, p.RemindAt, p.Reminded,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return t, nil
}

// Delete removes the task. Deleting a missing id is not an error.
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *TaskRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(&t.ID, &t.Content, &t.Done, &t.Deadline, &t.RemindAt, &t.ChannelID, &t.Reminded, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
