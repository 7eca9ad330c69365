package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/dbx"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/avorobjovs/taskdeck/internal/repositories/groups"
	"github.com/avorobjovs/taskdeck/internal/repositories/integrations"
	"github.com/avorobjovs/taskdeck/internal/repositories/subtasks"
	"github.com/avorobjovs/taskdeck/internal/repositories/tasks"
	"github.com/golang-jwt/jwt/v5"
)

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

func signedInHolder(t *testing.T, userID string) *authx.SessionHolder {
	t.Helper()
	h := authx.NewSessionHolder()
	h.Set(&models.Session{
		AccessToken: tokenExpiringAt(t, time.Now().Add(time.Hour)),
		User:        models.User{ID: userID, Email: userID + "@example.com"},
	})
	return h
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// fakeTaskRepo records mutations in memory keyed by task id.
type fakeTaskRepo struct {
	byID      map[string]*models.Task
	positions map[string]int
	failOn    string // id whose SetPosition fails, "" for none
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{byID: map[string]*models.Task{}, positions: map[string]int{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	task.ID = "t-" + task.Title
	f.byID[task.ID] = task
	return task, nil
}

func (f *fakeTaskRepo) GetByID(_ context.Context, userID, id string) (*models.Task, error) {
	task, ok := f.byID[id]
	if !ok || task.UserID != userID {
		return nil, common.ErrNotFound
	}
	return task, nil
}

func (f *fakeTaskRepo) List(_ context.Context, userID string) ([]*models.Task, error) {
	var out []*models.Task
	for _, task := range f.byID {
		if task.UserID == userID {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, task *models.Task) error {
	f.byID[task.ID] = task
	return nil
}

func (f *fakeTaskRepo) UpdateContent(_ context.Context, userID, id, content string) error {
	task, ok := f.byID[id]
	if !ok || task.UserID != userID {
		return common.ErrNotFound
	}
	task.Content = content
	return nil
}

func (f *fakeTaskRepo) SetCompleted(_ context.Context, userID, id string, completed bool) error {
	task, ok := f.byID[id]
	if !ok || task.UserID != userID {
		return common.ErrNotFound
	}
	task.Completed = completed
	return nil
}

func (f *fakeTaskRepo) SetPosition(_ context.Context, _, id string, position int) error {
	if f.failOn == id {
		return common.ErrInternal
	}
	f.positions[id] = position
	return nil
}

func (f *fakeTaskRepo) Delete(_ context.Context, userID, id string) error {
	task, ok := f.byID[id]
	if !ok || task.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeSubtaskRepo mirrors fakeTaskRepo for subtasks.
type fakeSubtaskRepo struct {
	byID map[string]*models.Subtask
}

func newFakeSubtaskRepo() *fakeSubtaskRepo {
	return &fakeSubtaskRepo{byID: map[string]*models.Subtask{}}
}

func (f *fakeSubtaskRepo) Create(_ context.Context, st *models.Subtask) (*models.Subtask, error) {
	st.ID = "s-" + st.Title
	f.byID[st.ID] = st
	return st, nil
}

func (f *fakeSubtaskRepo) GetByID(_ context.Context, userID, id string) (*models.Subtask, error) {
	st, ok := f.byID[id]
	if !ok || st.UserID != userID {
		return nil, common.ErrNotFound
	}
	return st, nil
}

func (f *fakeSubtaskRepo) ListByTask(_ context.Context, userID, taskID string) ([]*models.Subtask, error) {
	var out []*models.Subtask
	for _, st := range f.byID {
		if st.UserID == userID && st.TaskID == taskID {
			out = append(out, st)
		}
	}
	return out, nil
}

func (f *fakeSubtaskRepo) UpdateContent(_ context.Context, userID, id, content string) error {
	st, ok := f.byID[id]
	if !ok || st.UserID != userID {
		return common.ErrNotFound
	}
	st.Content = content
	return nil
}

func (f *fakeSubtaskRepo) SetCompleted(_ context.Context, userID, id string, completed bool) error {
	st, ok := f.byID[id]
	if !ok || st.UserID != userID {
		return common.ErrNotFound
	}
	st.Completed = completed
	return nil
}

func (f *fakeSubtaskRepo) SetPosition(_ context.Context, userID, id string, groupID string, position int) error {
	st, ok := f.byID[id]
	if !ok || st.UserID != userID {
		return common.ErrNotFound
	}
	st.GroupID = groupID
	st.Position = position
	return nil
}

func (f *fakeSubtaskRepo) Delete(_ context.Context, userID, id string) error {
	st, ok := f.byID[id]
	if !ok || st.UserID != userID {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

// fakeGroupRepo ungroups subtasks on delete like the real implementation.
type fakeGroupRepo struct {
	byID     map[string]*models.TaskGroup
	subtasks *fakeSubtaskRepo
}

func newFakeGroupRepo(subtasks *fakeSubtaskRepo) *fakeGroupRepo {
	return &fakeGroupRepo{byID: map[string]*models.TaskGroup{}, subtasks: subtasks}
}

func (f *fakeGroupRepo) Create(_ context.Context, g *models.TaskGroup) (*models.TaskGroup, error) {
	g.ID = "g-" + g.Name
	f.byID[g.ID] = g
	return g, nil
}

func (f *fakeGroupRepo) ListByTask(_ context.Context, userID, taskID string) ([]*models.TaskGroup, error) {
	var out []*models.TaskGroup
	for _, g := range f.byID {
		if g.UserID == userID && g.TaskID == taskID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGroupRepo) Rename(_ context.Context, userID, id, name string) error {
	g, ok := f.byID[id]
	if !ok || g.UserID != userID {
		return common.ErrNotFound
	}
	g.Name = name
	return nil
}

func (f *fakeGroupRepo) Delete(_ context.Context, userID, id string) error {
	g, ok := f.byID[id]
	if !ok || g.UserID != userID {
		return common.ErrNotFound
	}
	for _, st := range f.subtasks.byID {
		if st.GroupID == id {
			st.GroupID = ""
		}
	}
	delete(f.byID, id)
	return nil
}

type fakeIntegrationRepo struct {
	byUser map[string]*models.TrackerIntegration
}

func newFakeIntegrationRepo() *fakeIntegrationRepo {
	return &fakeIntegrationRepo{byUser: map[string]*models.TrackerIntegration{}}
}

func (f *fakeIntegrationRepo) Get(_ context.Context, userID string) (*models.TrackerIntegration, error) {
	ti, ok := f.byUser[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return ti, nil
}

func (f *fakeIntegrationRepo) Upsert(_ context.Context, ti *models.TrackerIntegration) error {
	f.byUser[ti.UserID] = ti
	return nil
}

func (f *fakeIntegrationRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.byUser[userID]; !ok {
		return common.ErrNotFound
	}
	delete(f.byUser, userID)
	return nil
}

// fakeRepoManager vends the in-memory fakes regardless of the DBTX handed in.
type fakeRepoManager struct {
	tasks        *fakeTaskRepo
	subtasks     *fakeSubtaskRepo
	groups       *fakeGroupRepo
	integrations *fakeIntegrationRepo
}

func newFakeRepoManager() *fakeRepoManager {
	st := newFakeSubtaskRepo()
	return &fakeRepoManager{
		tasks:        newFakeTaskRepo(),
		subtasks:     st,
		groups:       newFakeGroupRepo(st),
		integrations: newFakeIntegrationRepo(),
	}
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Tasks(dbx.DBTX) tasks.Repository { return f.tasks }

func (f *fakeRepoManager) Subtasks(dbx.DBTX) subtasks.Repository { return f.subtasks }

func (f *fakeRepoManager) Groups(dbx.DBTX) groups.Repository { return f.groups }

func (f *fakeRepoManager) Integrations(dbx.DBTX) integrations.Repository { return f.integrations }
