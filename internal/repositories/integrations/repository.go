// Package integrations persists per-user external tracker settings.
package integrations

import (
	"context"

	"github.com/avorobjovs/taskdeck/internal/models"
)

type Repository interface {
	// Get returns common.ErrNotFound when the user has no integration configured.
	Get(ctx context.Context, userID string) (*models.TrackerIntegration, error)
	Upsert(ctx context.Context, ti *models.TrackerIntegration) error
	Delete(ctx context.Context, userID string) error
}
