// Package content implements the editing-session workflow for one
// free-text content field (a task or subtask description), gluing the
// attachment codec to the object store.
//
// A session moves Viewing -> Editing -> Viewing (via Save or Discard).
// It is owned by exactly one editor; concurrent edit sessions on the same
// field are not supported (last save wins).
package content

import (
	"context"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/common"
	"github.com/avorobjovs/taskdeck/internal/models"
)

// State of an edit session.
type State int

const (
	Viewing State = iota
	Editing
)

// Uploader is the subset of the object store the session needs.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType, ownerID string) (*models.AttachmentRef, error)
}

// Session tracks one content field through an edit.
type Session struct {
	store    Uploader
	identity func() string // resolved user id, "" when signed out

	state    State
	draft    string
	existing []models.AttachmentRef
	added    []models.AttachmentRef
}

// NewSession builds a session over the given store. identity resolves the
// current user id at call time; uploads fail fast when it returns "".
func NewSession(store Uploader, identity func() string) *Session {
	return &Session{store: store, identity: identity}
}

func (s *Session) State() State { return s.state }

// BeginEdit enters Editing over the persisted content: existing references
// are extracted for display and the newly-attached list starts empty.
func (s *Session) BeginEdit(persisted string) {
	s.state = Editing
	s.draft = persisted
	s.existing = attachref.ParseRefs(persisted)
	s.added = nil
}

// Existing returns the references already embedded when editing began.
func (s *Session) Existing() []models.AttachmentRef { return s.existing }

// Added returns the files uploaded during this session, in upload order.
func (s *Session) Added() []models.AttachmentRef { return s.added }

// SetDraft replaces the editable text. Attachment bookkeeping is unaffected.
func (s *Session) SetDraft(text string) {
	s.draft = text
}

func (s *Session) Draft() string { return s.draft }

// Attach uploads a file and records it in the newly-attached list. The
// upload is durable immediately; only Save embeds the reference into the
// content. Without a resolved identity no network call is made.
func (s *Session) Attach(ctx context.Context, data []byte, fileName, mimeType string) (*models.AttachmentRef, error) {
	if s.state != Editing {
		return nil, common.ErrNotEditing
	}

	owner := s.identity()
	if owner == "" {
		return nil, common.ErrAuthRequired
	}

	ref, err := s.store.Upload(ctx, data, fileName, mimeType, owner)
	if err != nil {
		return nil, err
	}

	s.added = append(s.added, *ref)
	return ref, nil
}

// RemoveAdded drops a newly-attached entry before save. The stored object is
// deliberately NOT deleted: it is already durable and the user may re-add
// it; reclaiming orphans is deferred to external cleanup.
func (s *Session) RemoveAdded(url string) bool {
	for i, ref := range s.added {
		if ref.URL == url {
			s.added = append(s.added[:i], s.added[i+1:]...)
			return true
		}
	}
	return false
}

// Save encodes the newly-attached references into the draft and returns the
// content string to persist. The session returns to Viewing and the
// newly-attached list is cleared. The result is always a valid Extract
// input recovering exactly the embedded reference set.
func (s *Session) Save() (string, error) {
	if s.state != Editing {
		return "", common.ErrNotEditing
	}

	urls := make([]string, 0, len(s.added))
	for _, ref := range s.added {
		urls = append(urls, ref.URL)
	}

	encoded := attachref.Encode(s.draft, urls)

	s.state = Viewing
	s.added = nil
	s.existing = nil
	s.draft = ""
	return encoded, nil
}

// Discard abandons the edit without persisting. Files uploaded during the
// session stay in the store unreferenced (accepted orphans).
func (s *Session) Discard() {
	s.state = Viewing
	s.added = nil
	s.existing = nil
	s.draft = ""
}
