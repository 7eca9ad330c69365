package integrations

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

func (r *PostgresRepository) Get(ctx context.Context, userID string) (*models.TrackerIntegration, error) {
	query :=
		`SELECT user_id, webhook_url, name
		 FROM tracker_integrations
		 WHERE user_id = $1
		 `

	ti := &models.TrackerIntegration{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&ti.UserID, &ti.WebhookURL, &ti.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ti, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, ti *models.TrackerIntegration) error {
	query :=
		`INSERT INTO tracker_integrations (user_id, webhook_url, name)
         VALUES ($1, $2, $3)
		 ON CONFLICT (user_id)
		 DO UPDATE SET webhook_url = EXCLUDED.webhook_url, name = EXCLUDED.name
		 `

	if _, err := r.db.ExecContext(ctx, query, ti.UserID, ti.WebhookURL, ti.Name); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID string) error {
	query :=
		`DELETE FROM tracker_integrations
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID)
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
