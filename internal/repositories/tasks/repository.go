package tasks

import (
	"context"

	"github.com/avorobjovs/taskdeck/internal/models"
)

// Repository is the task persistence contract. Every operation is scoped to
// a user id; rows belonging to other users are invisible, mirroring the
// store-side row isolation policy.
type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, userID, id string) (*models.Task, error)
	List(ctx context.Context, userID string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	UpdateContent(ctx context.Context, userID, id, content string) error
	SetCompleted(ctx context.Context, userID, id string, completed bool) error
	SetPosition(ctx context.Context, userID, id string, position int) error
	Delete(ctx context.Context, userID, id string) error
}
