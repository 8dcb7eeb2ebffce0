package importer

import (
	"fmt"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
	"gopkg.in/yaml.v3"
)

// YAMLTask represents a single task in the YAML input.
type YAMLTask struct {
	Title       string     `yaml:"title"`
	Description string     `yaml:"description,omitempty"`
	DueDate     string     `yaml:"due_date,omitempty"`
	Completed   bool       `yaml:"completed,omitempty"`
	Children    []YAMLTask `yaml:"children,omitempty"`
}

// YAMLInput represents the root structure of the YAML input.
type YAMLInput struct {
	Tasks []YAMLTask `yaml:"tasks"`
}

// Store is the subset of the task store the importer drives.
type Store interface {
	Create(title, description string, due *time.Time) (model.Task, error)
	ToggleStatus(id string) (model.Task, error)
}

const dueLayout = "2006-01-02 15:04"

// Import parses a YAML string and creates tasks in the store. Children are
// flattened and created right after their parent.
// Returns the number of tasks created, which is also meaningful on error.
func Import(s Store, yamlStr string) (int, error) {
	var input YAMLInput
	if err := yaml.Unmarshal([]byte(yamlStr), &input); err != nil {
		return 0, fmt.Errorf("YAML parse error: %w", err)
	}

	if len(input.Tasks) == 0 {
		return 0, fmt.Errorf("no tasks found in YAML")
	}

	count := 0
	for _, yt := range input.Tasks {
		n, err := importTask(s, yt)
		count += n
		if err != nil {
			return count, err
		}
	}
	return count, nil
}

func importTask(s Store, yt YAMLTask) (int, error) {
	var due *time.Time
	if yt.DueDate != "" {
		d, err := model.ParseTime(yt.DueDate)
		if err != nil {
			return 0, fmt.Errorf("due date for %q: %w", yt.Title, err)
		}
		due = &d
	}

	task, err := s.Create(yt.Title, yt.Description, due)
	if err != nil {
		return 0, fmt.Errorf("add task %q: %w", yt.Title, err)
	}
	count := 1

	if yt.Completed {
		if _, err := s.ToggleStatus(task.ID); err != nil {
			return count, fmt.Errorf("complete %q: %w", yt.Title, err)
		}
	}

	for _, child := range yt.Children {
		n, err := importTask(s, child)
		count += n
		if err != nil {
			return count, err
		}
	}

	return count, nil
}

// Export renders tasks in the format Import reads.
func Export(tasks []model.Task) (string, error) {
	out := YAMLInput{Tasks: make([]YAMLTask, 0, len(tasks))}
	for _, t := range tasks {
		yt := YAMLTask{
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.IsCompleted(),
		}
		if t.HasDueDate() {
			yt.DueDate = t.DueDate.Local().Format(dueLayout)
		}
		out.Tasks = append(out.Tasks, yt)
	}
	b, err := yaml.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encode YAML: %w", err)
	}
	return string(b), nil
}
