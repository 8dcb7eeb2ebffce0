package prompt

import (
	"fmt"
	"strings"

	"github.com/nissyi-gh/tareas/internal/model"
)

const yamlFormat = `Reply with a single YAML code block in the format below and nothing else.

` + "```yaml" + `
tasks:
  - title: "Task title"
    description: "What needs doing"
    due_date: "YYYY-MM-DD HH:MM"
    children:
      - title: "Smaller step"
        description: "Step details"
` + "```" + `

Fields:
- title: (required) short task title
- description: (optional) longer notes
- due_date: (optional) deadline, "YYYY-MM-DD HH:MM" or "YYYY-MM-DD"
- completed: (optional) true if already done
- children: (optional) follow-up tasks; they are added right after their parent`

// GenerateNew returns a prompt for creating new tasks from scratch.
func GenerateNew() string {
	return fmt.Sprintf(`You are a task-planning assistant.
Break the user's request into tasks of a sensible size.

%s
`, yamlFormat)
}

// GenerateFromTask returns a prompt for breaking an existing task into
// smaller ones. siblings are the other active tasks, listed so the reply
// does not duplicate them.
func GenerateFromTask(task model.Task, siblings []model.Task) string {
	var sb strings.Builder

	sb.WriteString("You are a task-planning assistant.\n")
	sb.WriteString("Break the task below into smaller, concrete tasks.\n\n")

	sb.WriteString("## Task\n")
	sb.WriteString(fmt.Sprintf("- Title: %s\n", task.Title))

	if task.Description != "" {
		sb.WriteString(fmt.Sprintf("- Description: %s\n", task.Description))
	}
	if task.HasDueDate() {
		sb.WriteString(fmt.Sprintf("- Due: %s\n", task.DueDate.Local().Format("2006-01-02 15:04")))
	}

	var others []model.Task
	for _, s := range siblings {
		if s.ID != task.ID {
			others = append(others, s)
		}
	}
	if len(others) > 0 {
		sb.WriteString("\n## Existing tasks\n")
		for _, o := range others {
			status := "pending"
			if o.IsCompleted() {
				status = "done"
			}
			sb.WriteString(fmt.Sprintf("- %s (%s)\n", o.Title, status))
		}
		sb.WriteString("\nDo not repeat tasks that already exist.\n")
	}

	sb.WriteString("\n")
	sb.WriteString(yamlFormat)
	sb.WriteString("\n")

	return sb.String()
}
