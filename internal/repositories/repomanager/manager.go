package repomanager

import (
	"context"
	"database/sql"

	"github.com/avorobjovs/taskdeck/internal/dbx"
	"github.com/avorobjovs/taskdeck/internal/repositories/groups"
	"github.com/avorobjovs/taskdeck/internal/repositories/integrations"
	"github.com/avorobjovs/taskdeck/internal/repositories/subtasks"
	"github.com/avorobjovs/taskdeck/internal/repositories/tasks"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tasks(db dbx.DBTX) tasks.Repository
	Subtasks(db dbx.DBTX) subtasks.Repository
	Groups(db dbx.DBTX) groups.Repository
	Integrations(db dbx.DBTX) integrations.Repository
}
