package model

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"
)

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task represents a single task record. The same shape is used for the
// active list and the trash; DeletedAt is set only while in the trash.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

// State is everything that gets persisted: both partitions and the theme flag.
type State struct {
	Active   []Task
	Trash    []Task
	DarkMode bool
}

// IsPending returns true if the task's status is pending.
func (t Task) IsPending() bool {
	return t.Status == StatusPending
}

// IsCompleted returns true if the task has been completed.
func (t Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasDueDate returns true if the task has a deadline.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// IsOverdue returns true if the task's due date lies before now.
// Status is not considered.
func (t Task) IsOverdue(now time.Time) bool {
	if !t.HasDueDate() {
		return false
	}
	return t.DueDate.Before(now)
}

// ShowOverdueBadge returns true if the task is overdue and still pending.
func (t Task) ShowOverdueBadge(now time.Time) bool {
	return t.IsPending() && t.IsOverdue(now)
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	c := t
	c.DueDate = cloneTime(t.DueDate)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.DeletedAt = cloneTime(t.DeletedAt)
	return c
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// CloneTasks deep-copies a task slice. A nil input yields an empty slice.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// UnmarshalJSON accepts timestamps in any of the layouts understood by
// ParseTime, so records written by older clients (for example a due date
// without seconds or zone) still load. A timestamp that cannot be parsed
// is dropped and logged rather than failing the record, so one bad field
// does not empty the whole list.
func (t *Task) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID          string  `json:"id"`
		Title       string  `json:"title"`
		Description *string `json:"description"`
		DueDate     *string `json:"dueDate"`
		Status      Status  `json:"status"`
		CreatedAt   *string `json:"createdAt"`
		CompletedAt *string `json:"completedAt"`
		DeletedAt   *string `json:"deletedAt"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	out := Task{ID: raw.ID, Title: raw.Title, Status: raw.Status}
	if raw.Description != nil {
		out.Description = *raw.Description
	}
	if out.Status == "" {
		out.Status = StatusPending
	}

	out.DueDate = parseLenient(raw.ID, "dueDate", raw.DueDate)
	out.CompletedAt = parseLenient(raw.ID, "completedAt", raw.CompletedAt)
	out.DeletedAt = parseLenient(raw.ID, "deletedAt", raw.DeletedAt)
	if created := parseLenient(raw.ID, "createdAt", raw.CreatedAt); created != nil {
		out.CreatedAt = *created
	}

	*t = out
	return nil
}

func parseLenient(id, field string, s *string) *time.Time {
	v, err := parseOptional(s)
	if err != nil {
		log.Printf("[model] warning: task %s %s dropped: %v", id, field, err)
		return nil
	}
	return v
}

func parseOptional(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v, err := ParseTime(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

var timeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses an ISO-8601 timestamp. RFC 3339 values keep their zone;
// the shorter local forms ("2006-01-02T15:04", "2006-01-02 15:04",
// "2006-01-02") are interpreted in the local time zone.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if v, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return v, nil
	}
	for _, layout := range timeLayouts {
		if v, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", s)
}
