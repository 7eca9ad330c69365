// Package models defines the data model shared by repositories, services
// and the CLI.
package models

import "time"

// Task is a top-level item owned by a single user. Content is free-text
// Markdown; attachment references live inside it (see internal/attachref).
type Task struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	Completed bool
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subtask belongs to a task and optionally to a group within that task.
type Subtask struct {
	ID        string
	TaskID    string
	UserID    string
	GroupID   string // empty when ungrouped
	Title     string
	Content   string
	Completed bool
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskGroup is a named bucket for subtasks inside one task.
type TaskGroup struct {
	ID       string
	TaskID   string
	UserID   string
	Name     string
	Position int
}

// TrackerIntegration holds the per-user outbound webhook target for pushing
// tasks to an external tracker.
type TrackerIntegration struct {
	UserID     string
	WebhookURL string
	Name       string
}
