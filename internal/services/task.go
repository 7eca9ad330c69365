// Package services holds the application-level operations composed from
// repositories, the auth provider, the object store and the local cache.
package services

import (
	"context"
	"database/sql"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/content"
	"github.com/avorobjovs/taskdeck/internal/dbx"
	"github.com/avorobjovs/taskdeck/internal/logging"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/avorobjovs/taskdeck/internal/repositories/repomanager"
)

// TaskService implements the task, subtask and group operations for the
// signed-in user. All repository calls are scoped by the holder's user id.
type TaskService struct {
	db     *sql.DB
	rm     repomanager.RepositoryManager
	holder *authx.SessionHolder
	store  content.Uploader
	logger logging.Logger
}

func NewTaskService(db *sql.DB, rm repomanager.RepositoryManager, holder *authx.SessionHolder, store content.Uploader, logger logging.Logger) *TaskService {
	return &TaskService{
		db:     db,
		rm:     rm,
		holder: holder,
		store:  store,
		logger: logger.With("component", "tasks"),
	}
}

// userID resolves the signed-in user, failing fast when signed out.
func (s *TaskService) userID() (string, error) {
	id := s.holder.UserID()
	if id == "" {
		return "", common.ErrAuthRequired
	}
	return id, nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, body string) (*models.Task, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	task := &models.Task{UserID: userID, Title: title, Content: body}
	created, err := s.rm.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "task created", "id", created.ID)
	return created, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]*models.Task, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.rm.Tasks(s.db).List(ctx, userID)
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.rm.Tasks(s.db).GetByID(ctx, userID, id)
}

func (s *TaskService) SetTaskCompleted(ctx context.Context, id string, completed bool) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.rm.Tasks(s.db).SetCompleted(ctx, userID, id, completed)
}

func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.rm.Tasks(s.db).Delete(ctx, userID, id)
}

// ReorderTasks persists the given id order as positions 0..n-1 in a single
// transaction, so a partial failure leaves the old order intact.
func (s *TaskService) ReorderTasks(ctx context.Context, orderedIDs []string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.rm.Tasks(tx)
		for pos, id := range orderedIDs {
			if err := repo.SetPosition(ctx, userID, id, pos); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TaskService) CreateSubtask(ctx context.Context, taskID, groupID, title string) (*models.Subtask, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	st := &models.Subtask{TaskID: taskID, UserID: userID, GroupID: groupID, Title: title}
	created, err := s.rm.Subtasks(s.db).Create(ctx, st)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "subtask created", "id", created.ID, "task", taskID)
	return created, nil
}

func (s *TaskService) ListSubtasks(ctx context.Context, taskID string) ([]*models.Subtask, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.rm.Subtasks(s.db).ListByTask(ctx, userID, taskID)
}

func (s *TaskService) SetSubtaskCompleted(ctx context.Context, id string, completed bool) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.rm.Subtasks(s.db).SetCompleted(ctx, userID, id, completed)
}

// MoveSubtask assigns the subtask to a group (empty id means ungrouped) at
// the given position.
func (s *TaskService) MoveSubtask(ctx context.Context, id, groupID string, position int) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.rm.Subtasks(s.db).SetPosition(ctx, userID, id, groupID, position)
}

func (s *TaskService) DeleteSubtask(ctx context.Context, id string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return s.rm.Subtasks(s.db).Delete(ctx, userID, id)
}

func (s *TaskService) CreateGroup(ctx context.Context, taskID, name string) (*models.TaskGroup, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.rm.Groups(s.db).Create(ctx, &models.TaskGroup{TaskID: taskID, UserID: userID, Name: name})
}

func (s *TaskService) ListGroups(ctx context.Context, taskID string) ([]*models.TaskGroup, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}
	return s.rm.Groups(s.db).ListByTask(ctx, userID, taskID)
}

// DeleteGroup removes the group and ungroups its subtasks atomically.
func (s *TaskService) DeleteGroup(ctx context.Context, id string) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.rm.Groups(tx).Delete(ctx, userID, id)
	})
}

// EditSubtask loads the subtask and opens an edit session over its content.
func (s *TaskService) EditSubtask(ctx context.Context, id string) (*content.Session, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	st, err := s.rm.Subtasks(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sess := content.NewSession(s.store, s.holder.UserID)
	sess.BeginEdit(st.Content)
	return sess, nil
}

// SaveSubtask closes the session and persists the encoded content.
func (s *TaskService) SaveSubtask(ctx context.Context, id string, sess *content.Session) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	encoded, err := sess.Save()
	if err != nil {
		return err
	}

	return s.rm.Subtasks(s.db).UpdateContent(ctx, userID, id, encoded)
}

// EditTask opens an edit session over the task's own description.
func (s *TaskService) EditTask(ctx context.Context, id string) (*content.Session, error) {
	userID, err := s.userID()
	if err != nil {
		return nil, err
	}

	task, err := s.rm.Tasks(s.db).GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	sess := content.NewSession(s.store, s.holder.UserID)
	sess.BeginEdit(task.Content)
	return sess, nil
}

func (s *TaskService) SaveTask(ctx context.Context, id string, sess *content.Session) error {
	userID, err := s.userID()
	if err != nil {
		return err
	}

	encoded, err := sess.Save()
	if err != nil {
		return err
	}

	return s.rm.Tasks(s.db).UpdateContent(ctx, userID, id, encoded)
}
