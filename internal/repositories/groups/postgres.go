package groups

import (
	"context"
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

func (r *PostgresRepository) Create(ctx context.Context, g *models.TaskGroup) (*models.TaskGroup, error) {

	query :=
		`INSERT INTO task_groups (task_id, user_id, name, position)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, g.TaskID, g.UserID, g.Name, g.Position).Scan(&g.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return g, nil
}

func (r *PostgresRepository) ListByTask(ctx context.Context, userID, taskID string) ([]*models.TaskGroup, error) {
	query :=
		`SELECT id, task_id, user_id, name, position
		 FROM task_groups
		 WHERE user_id = $1 AND task_id = $2
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.TaskGroup
	for rows.Next() {
		g := &models.TaskGroup{}
		if err := rows.Scan(&g.ID, &g.TaskID, &g.UserID, &g.Name, &g.Position); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, userID, id, name string) error {
	query :=
		`UPDATE task_groups
		 SET name = $3
		 WHERE user_id = $1 AND id = $2
		 `

	return r.exec(ctx, query, userID, id, name)
}

// Delete detaches the group's subtasks before removing the group itself.
// Callers run it inside dbx.WithTx so both statements commit together.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	detach :=
		`UPDATE subtasks
		 SET group_id = NULL
		 WHERE user_id = $1 AND group_id = $2
		 `

	if _, err := r.db.ExecContext(ctx, detach, userID, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	query :=
		`DELETE FROM task_groups
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
