package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/avorobjovs/taskdeck/internal/repositories/repomanager"
	"github.com/avorobjovs/taskdeck/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAddFixture(t *testing.T) (*App, sqlmock.Sqlmock, *bytes.Buffer) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rm, err := repomanager.NewPostgresRepositoryManager()
	require.NoError(t, err)

	holder := authx.NewSessionHolder()
	holder.Set(&models.Session{
		AccessToken: "tok",
		User:        models.User{ID: "u-1", Email: "u-1@example.com"},
	})

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
	out := &bytes.Buffer{}

	a := &App{
		Tasks:  services.NewTaskService(db, rm, holder, nil, logger),
		Holder: holder,
		Out:    out,
	}
	return a, mock, out
}

func expectTaskInsert(mock sqlmock.Sqlmock, title, content string) {
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("t-1", now, now)
	mock.ExpectQuery(`INSERT\s+INTO\s+tasks`).
		WithArgs("u-1", title, content, 0).
		WillReturnRows(rows)
}

func TestAddCmd_PromptsForTitleAndDescription(t *testing.T) {
	a, mock, out := newAddFixture(t)
	expectTaskInsert(mock, "write report", "first line\nsecond line")

	root := NewRoot(a)
	root.SetIn(strings.NewReader("write report\nfirst line\nsecond line\n\n"))
	root.SetArgs([]string{"add"})

	require.NoError(t, root.Execute())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, out.String(), "created t-1")
	assert.Contains(t, out.String(), "Title")
}

func TestAddCmd_TitleArgSkipsTitlePrompt(t *testing.T) {
	a, mock, out := newAddFixture(t)
	expectTaskInsert(mock, "write report", "body from stdin")

	root := NewRoot(a)
	root.SetIn(strings.NewReader("body from stdin\n\n"))
	root.SetArgs([]string{"add", "write report"})

	require.NoError(t, root.Execute())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NotContains(t, out.String(), "Title")
}

func TestAddCmd_BodyFlagSkipsDescriptionPrompt(t *testing.T) {
	a, mock, out := newAddFixture(t)
	expectTaskInsert(mock, "write report", "flag body")

	root := NewRoot(a)
	root.SetIn(strings.NewReader(""))
	root.SetArgs([]string{"add", "write report", "-b", "flag body"})

	require.NoError(t, root.Execute())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NotContains(t, out.String(), "Description")
}

func TestAddCmd_EmptyTitleRejected(t *testing.T) {
	a, mock, _ := newAddFixture(t)

	root := NewRoot(a)
	root.SetIn(strings.NewReader("\n"))
	root.SetArgs([]string{"add"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.NoError(t, mock.ExpectationsWereMet())
}
