// Package export serializes tasks to JSON, YAML or markdown files for
// backup and interchange. Content is exported with attachment markup
// stripped; the references themselves travel in a separate list so nothing
// is lost.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/models"
	"gopkg.in/yaml.v3"
)

type Attachment struct {
	URL         string `json:"url" yaml:"url"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	MimeType    string `json:"mime_type" yaml:"mime_type"`
}

type Subtask struct {
	ID          string       `json:"id" yaml:"id"`
	Group       string       `json:"group,omitempty" yaml:"group,omitempty"`
	Title       string       `json:"title" yaml:"title"`
	Content     string       `json:"content" yaml:"content"`
	Completed   bool         `json:"completed" yaml:"completed"`
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

type Task struct {
	ID          string       `json:"id" yaml:"id"`
	Title       string       `json:"title" yaml:"title"`
	Content     string       `json:"content" yaml:"content"`
	Completed   bool         `json:"completed" yaml:"completed"`
	CreatedAt   time.Time    `json:"created_at" yaml:"created"`
	UpdatedAt   time.Time    `json:"updated_at" yaml:"updated"`
	Subtasks    []Subtask    `json:"subtasks,omitempty" yaml:"subtasks,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" yaml:"attachments,omitempty"`
}

type Document struct {
	ExportedAt time.Time `json:"exported_at" yaml:"exported_at"`
	Version    string    `json:"version" yaml:"version"`
	Tasks      []Task    `json:"tasks" yaml:"tasks"`
}

// BuildTask converts a stored task and its subtasks into the export shape:
// display text plus an explicit attachment list per content field.
func BuildTask(task *models.Task, subtasks []*models.Subtask, groupNames map[string]string) Task {
	out := Task{
		ID:          task.ID,
		Title:       task.Title,
		Content:     attachref.StripForDisplay(task.Content),
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		Attachments: buildAttachments(task.Content),
	}

	for _, st := range subtasks {
		out.Subtasks = append(out.Subtasks, Subtask{
			ID:          st.ID,
			Group:       groupNames[st.GroupID],
			Title:       st.Title,
			Content:     attachref.StripForDisplay(st.Content),
			Completed:   st.Completed,
			Attachments: buildAttachments(st.Content),
		})
	}
	return out
}

func buildAttachments(content string) []Attachment {
	refs := attachref.ParseRefs(content)
	if len(refs) == 0 {
		return nil
	}
	out := make([]Attachment, 0, len(refs))
	for _, ref := range refs {
		out = append(out, Attachment{
			URL:         ref.URL,
			DisplayName: ref.DisplayName,
			MimeType:    ref.MimeType,
		})
	}
	return out
}

func NewDocument(tasks []Task) Document {
	return Document{ExportedAt: time.Now(), Version: "1.0", Tasks: tasks}
}

func WriteJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

// WriteMarkdown writes one markdown file per task into dir, with YAML
// frontmatter carrying the metadata and subtask list.
func WriteMarkdown(dir string, doc Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, task := range doc.Tasks {
		meta := task
		meta.Content = ""

		var sb strings.Builder
		sb.WriteString("---\n")
		frontmatter, err := yaml.Marshal(meta)
		if err != nil {
			return err
		}
		sb.Write(frontmatter)
		sb.WriteString("---\n\n")
		sb.WriteString(task.Content)
		sb.WriteString("\n")

		path := filepath.Join(dir, sanitizeFilename(task.Title)+".md")
		if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-", "\\", "-", ":", "-", "*", "-",
		"?", "-", "\"", "-", "<", "-", ">", "-", "|", "-",
	)
	name = replacer.Replace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
