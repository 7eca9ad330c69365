package subtasks

import (
	"context"

	"github.com/avorobjovs/taskdeck/internal/models"
)

// Repository persists subtasks. All operations are user-scoped; GroupID is
// optional (empty string = ungrouped).
type Repository interface {
	Create(ctx context.Context, st *models.Subtask) (*models.Subtask, error)
	GetByID(ctx context.Context, userID, id string) (*models.Subtask, error)
	ListByTask(ctx context.Context, userID, taskID string) ([]*models.Subtask, error)
	UpdateContent(ctx context.Context, userID, id, content string) error
	SetCompleted(ctx context.Context, userID, id string, completed bool) error
	SetPosition(ctx context.Context, userID, id string, groupID string, position int) error
	Delete(ctx context.Context, userID, id string) error
}
