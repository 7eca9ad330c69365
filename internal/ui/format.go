// Package ui formats tasks for the terminal. Markdown is rendered with
// glamour; metadata lines use fatih/color.
package ui

import (
	"fmt"
	"strings"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

var (
	faint = color.New(color.Faint).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
	cyan  = color.New(color.FgCyan).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
)

func checkbox(completed bool) string {
	if completed {
		return green("[x]")
	}
	return "[ ]"
}

func FormatTaskListItem(task *models.Task) string {
	var sb strings.Builder

	idPrefix := task.ID
	if len(idPrefix) > 6 {
		idPrefix = idPrefix[:6]
	}
	sb.WriteString(fmt.Sprintf("  %s %s  %s\n", checkbox(task.Completed), faint(idPrefix), bold(task.Title)))
	sb.WriteString(fmt.Sprintf("             %s %s\n",
		faint("Updated:"),
		faint(task.UpdatedAt.Format("2006-01-02 15:04"))))

	return sb.String()
}

func FormatTaskHeader(task *models.Task) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s %s\n", checkbox(task.Completed), bold(task.Title)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("ID:"), faint(task.ID)))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Created:"), faint(task.CreatedAt.Format("2006-01-02 15:04"))))
	sb.WriteString(fmt.Sprintf("%s %s\n", faint("Updated:"), faint(task.UpdatedAt.Format("2006-01-02 15:04"))))
	sb.WriteString(Separator())
	return sb.String()
}

// FormatContent renders the display form of a content field (attachment
// markup replaced or removed) as terminal markdown.
func FormatContent(content string) (string, error) {
	display := attachref.StripForDisplay(content)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fallback to plain text if renderer fails
		return display, nil //nolint:nilerr // Intentional fallback
	}

	out, err := renderer.Render(display)
	if err != nil {
		return display, nil //nolint:nilerr // Intentional fallback
	}
	return out, nil
}

// FormatSubtaskList groups subtasks under their group names; ungrouped
// subtasks come first.
func FormatSubtaskList(subtasks []*models.Subtask, groups []*models.TaskGroup) string {
	var sb strings.Builder

	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	write := func(st *models.Subtask) {
		idPrefix := st.ID
		if len(idPrefix) > 6 {
			idPrefix = idPrefix[:6]
		}
		sb.WriteString(fmt.Sprintf("    %s %s  %s\n", checkbox(st.Completed), faint(idPrefix), st.Title))
	}

	for _, st := range subtasks {
		if st.GroupID == "" {
			write(st)
		}
	}
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("  %s\n", cyan(g.Name)))
		for _, st := range subtasks {
			if st.GroupID == g.ID {
				write(st)
			}
		}
	}

	return sb.String()
}

func FormatAttachmentList(refs []models.AttachmentRef) string {
	if len(refs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\n%s\n", bold("Attachments:")))
	for _, ref := range refs {
		sb.WriteString(fmt.Sprintf("  %s %s\n    %s\n",
			ref.DisplayName,
			faint(fmt.Sprintf("[%s]", ref.MimeType)),
			faint(ref.URL)))
	}
	return sb.String()
}

func Separator() string {
	return faint(strings.Repeat("─", 60)) + "\n"
}

func Success(msg string) string {
	return green("✓ ") + msg
}

func Error(msg string) string {
	return red("✗ ") + msg
}
