package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"task-manager/internal/models"
)

const uniqueViolation = "23505"

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *models.User) error {
	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (id, username, password) VALUES ($1, $2, $3) RETURNING created_at, updated_at",
		id, u.Username, u.Password,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return nil
}

func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at, updated_at FROM users WHERE username = $1",
		username,
	).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return &u, nil
}

type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

const taskColumns = "id, user_id, title, description, status, priority, due_date, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var (
		t   models.Task
		due sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Status, &t.Priority, &due, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if due.Valid {
		t.DueDate = &due.Time
	}
	return &t, nil
}

func (r *PostgresTaskRepository) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *models.Task) error {
	id := uuid.NewString()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO tasks (id, user_id, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`,
		id, t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	return nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, userID string, offset, limit int) ([]models.Task, error) {
	return r.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 ORDER BY created_at, id OFFSET $2 LIMIT $3",
		userID, offset, limit)
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id, userID string) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE id = $1 AND user_id = $2", id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select task: %w", err)
	}
	return t, nil
}

// Update runs a single UPDATE ... RETURNING so the ownership check and the
// write happen atomically.
func (r *PostgresTaskRepository) Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = COALESCE($3, title),
			description = COALESCE($4, description),
			status = COALESCE($5, status),
			priority = COALESCE($6, priority),
			due_date = COALESCE($7, due_date),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND user_id = $2
		RETURNING `+taskColumns,
		id, userID, patch.Title, patch.Description, patch.Status, patch.Priority, patch.DueDate,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id, userID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByTitle uses POSITION rather than LIKE so the query is never
// interpreted as a pattern.
func (r *PostgresTaskRepository) SearchByTitle(ctx context.Context, userID, title string) ([]models.Task, error) {
	return r.queryTasks(ctx,
		"SELECT "+taskColumns+" FROM tasks WHERE user_id = $1 AND POSITION(LOWER($2) IN LOWER(title)) > 0 ORDER BY created_at, id",
		userID, title)
}

func (r *PostgresTaskRepository) Filter(ctx context.Context, userID string, filter models.TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks WHERE user_id = $1"
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.Priority != "" {
		args = append(args, string(filter.Priority))
		query += fmt.Sprintf(" AND priority = $%d", len(args))
	}
	return r.queryTasks(ctx, query+" ORDER BY created_at, id", args...)
}
