// Package groups persists named subtask buckets within a task.
package groups

import (
	"context"

	"github.com/avorobjovs/taskdeck/internal/models"
)

type Repository interface {
	Create(ctx context.Context, g *models.TaskGroup) (*models.TaskGroup, error)
	ListByTask(ctx context.Context, userID, taskID string) ([]*models.TaskGroup, error)
	Rename(ctx context.Context, userID, id, name string) error
	// Delete removes the group; its subtasks become ungrouped, not deleted.
	Delete(ctx context.Context, userID, id string) error
}
