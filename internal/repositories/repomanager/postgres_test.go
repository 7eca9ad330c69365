package repomanager

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avorobjovs/taskdeck/internal/repositories/groups"
	"github.com/avorobjovs/taskdeck/internal/repositories/integrations"
	"github.com/avorobjovs/taskdeck/internal/repositories/subtasks"
	"github.com/avorobjovs/taskdeck/internal/repositories/tasks"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestNewPostgresRepositoryManager_ReturnsInterface(t *testing.T) {
	m, err := NewPostgresRepositoryManager()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var _ RepositoryManager = m
}

func TestFactories_ReturnConcreteRepos(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	m := &PostgresRepositoryManager{}

	var _ tasks.Repository = m.Tasks(db)
	var _ subtasks.Repository = m.Subtasks(db)
	var _ groups.Repository = m.Groups(db)
	var _ integrations.Repository = m.Integrations(db)
}
