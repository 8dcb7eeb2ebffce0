package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/nissyi-gh/tareas/internal/view"
)

// TaskItem wraps a projected row to satisfy the list.DefaultItem interface.
type TaskItem struct {
	Item view.Item
	// Countdown is the engine's current string, empty when none is running.
	Countdown string
	// BadgeLabel is shown after the title when the task is overdue and pending.
	BadgeLabel string
}

func (i TaskItem) Title() string {
	check := "[ ]"
	if i.Item.Task.IsCompleted() {
		check = "[x]"
	}
	badge := ""
	if i.Item.ShowOverdueBadge {
		badge = " !" + i.BadgeLabel
	}
	return fmt.Sprintf("%s %s%s", check, i.Item.Task.Title, badge)
}

func (i TaskItem) Description() string {
	t := i.Item.Task
	switch {
	case t.IsCompleted() && t.CompletedAt != nil:
		return "    done " + humanize.Time(*t.CompletedAt)
	case t.HasDueDate() && i.Countdown != "":
		return "    ⏱ " + i.Countdown
	case t.HasDueDate():
		return "    due " + t.DueDate.Local().Format("2006-01-02 15:04")
	default:
		return ""
	}
}

func (i TaskItem) FilterValue() string {
	return i.Item.Task.Title
}

// TrashItem is one row of the trash pane.
type TrashItem struct {
	Task model.Task
}

func (i TrashItem) Title() string {
	return i.Task.Title
}

func (i TrashItem) Description() string {
	if i.Task.DeletedAt == nil {
		return ""
	}
	return "    deleted " + humanize.Time(*i.Task.DeletedAt)
}

func (i TrashItem) FilterValue() string {
	return i.Task.Title
}
