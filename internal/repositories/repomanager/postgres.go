// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avorobjovs/taskdeck/internal/dbx"
	"github.com/avorobjovs/taskdeck/internal/migrations/postgres"
	"github.com/avorobjovs/taskdeck/internal/repositories/groups"
	"github.com/avorobjovs/taskdeck/internal/repositories/integrations"
	"github.com/avorobjovs/taskdeck/internal/repositories/subtasks"
	"github.com/avorobjovs/taskdeck/internal/repositories/tasks"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook.
type PostgresRepositoryManager struct{}

// Tasks returns a tasks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Tasks(db dbx.DBTX) tasks.Repository {
	return tasks.NewPostgresRepository(db)
}

// Subtasks returns a subtasks.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Subtasks(db dbx.DBTX) subtasks.Repository {
	return subtasks.NewPostgresRepository(db)
}

// Groups returns a groups.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewPostgresRepository(db)
}

// Integrations returns an integrations.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Integrations(db dbx.DBTX) integrations.Repository {
	return integrations.NewPostgresRepository(db)
}

// RunMigrations applies embedded schema migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(postgres.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}

	return goose.UpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() (RepositoryManager, error) {
	return &PostgresRepositoryManager{}, nil
}
