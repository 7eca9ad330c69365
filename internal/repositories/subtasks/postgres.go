package subtasks

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

// groupParam maps the empty "ungrouped" id to SQL NULL.
func groupParam(groupID string) any {
	if groupID == "" {
		return nil
	}
	return groupID
}

func (r *PostgresRepository) Create(ctx context.Context, st *models.Subtask) (*models.Subtask, error) {

	query :=
		`INSERT INTO subtasks (task_id, user_id, group_id, title, content, position)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		st.TaskID, st.UserID, groupParam(st.GroupID), st.Title, st.Content, st.Position).
		Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return st, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Subtask, error) {
	query :=
		`SELECT id, task_id, user_id, group_id, title, content, completed, position, created_at, updated_at
		 FROM subtasks
		 WHERE user_id = $1 AND id = $2
		 `

	st, err := scanSubtask(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return st, nil
}

func (r *PostgresRepository) ListByTask(ctx context.Context, userID, taskID string) ([]*models.Subtask, error) {
	query :=
		`SELECT id, task_id, user_id, group_id, title, content, completed, position, created_at, updated_at
		 FROM subtasks
		 WHERE user_id = $1 AND task_id = $2
		 ORDER BY position, created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Subtask
	for rows.Next() {
		st, err := scanSubtask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, userID, id, content string) error {
	query :=
		`UPDATE subtasks
		 SET content = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, content)
}

func (r *PostgresRepository) SetCompleted(ctx context.Context, userID, id string, completed bool) error {
	query :=
		`UPDATE subtasks
		 SET completed = $3, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, completed)
}

func (r *PostgresRepository) SetPosition(ctx context.Context, userID, id string, groupID string, position int) error {
	query :=
		`UPDATE subtasks
		 SET group_id = $3, position = $4, updated_at = now()
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, groupParam(groupID), position)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM subtasks
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id)
}

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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubtask(row rowScanner) (*models.Subtask, error) {
	st := &models.Subtask{}
	var group sql.NullString
	err := row.Scan(
		&st.ID, &st.TaskID, &st.UserID, &group, &st.Title, &st.Content,
		&st.Completed, &st.Position, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	st.GroupID = group.String
	return st, nil
}
