package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/dbx"
	"github.com/avorobjovs/taskdeck/internal/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (user_id, title, content, position)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.UserID, task.Title, task.Content, task.Position).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Task, error) {
	query :=
		`SELECT id, user_id, title, content, completed, position, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1 AND id = $2
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, userID, id).Scan(
		&task.ID, &task.UserID, &task.Title, &task.Content,
		&task.Completed, &task.Position, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]*models.Task, error) {
	query :=
		`SELECT id, user_id, title, content, completed, position, created_at, updated_at
		 FROM tasks
		 WHERE user_id = $1
		 ORDER BY position, created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Task
	for rows.Next() {
		task := &models.Task{}
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Content,
			&task.Completed, &task.Position, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, task *models.Task) error {
	query :=
		`UPDATE tasks
		 SET title = $3, content = $4, completed = $5, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, task.UserID, task.ID, task.Title, task.Content, task.Completed)
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, userID, id, content string) error {
	query :=
		`UPDATE tasks
		 SET content = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, content)
}

func (r *PostgresRepository) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	query :=
		`UPDATE tasks
		 SET completed = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, completed)
}

func (r *PostgresRepository) SetPosition(ctx context.Context, userID, id string, position int) error {
	query :=
		`UPDATE tasks
		 SET position = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, position)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM tasks
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id)
}

// exec runs a statement that must affect exactly one owned row; zero rows
// means the task does not exist (or belongs to someone else).
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
