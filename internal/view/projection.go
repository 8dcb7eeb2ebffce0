// Package view derives what the user sees from the active list: the
// filtered and searched rows plus summary counts. Nothing here mutates.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
	"golang.org/x/text/cases"
)

// Filter selects tasks by status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts "all", "pending" or "completed". Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending, FilterCompleted:
		return f, nil
	default:
		return FilterAll, fmt.Errorf("unknown filter %q (want all, pending or completed)", s)
	}
}

// Next cycles all -> pending -> completed -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	default:
		return FilterAll
	}
}

func (f Filter) match(t model.Task) bool {
	switch f {
	case FilterPending:
		return t.Status == model.StatusPending
	case FilterCompleted:
		return t.Status == model.StatusCompleted
	default:
		return true
	}
}

// Item is one visible row.
type Item struct {
	Task model.Task
	// Overdue is true when the due date has passed, whatever the status.
	Overdue bool
	// ShowOverdueBadge is Overdue restricted to pending tasks.
	ShowOverdueBadge bool
}

// Projection is the filtered list plus counts over the whole active list.
type Projection struct {
	Items     []Item
	Total     int
	Pending   int
	Completed int
}

// Project filters active by status, then by a case-insensitive substring
// match of term against title or description. Order is preserved.
func Project(active []model.Task, filter Filter, term string, now time.Time) Projection {
	p := Projection{Items: []Item{}, Total: len(active)}
	needle := fold(term)

	for _, t := range active {
		switch t.Status {
		case model.StatusPending:
			p.Pending++
		case model.StatusCompleted:
			p.Completed++
		}

		if !filter.match(t) || !matches(t, needle) {
			continue
		}
		p.Items = append(p.Items, Item{
			Task:             t.Clone(),
			Overdue:          t.IsOverdue(now),
			ShowOverdueBadge: t.ShowOverdueBadge(now),
		})
	}
	return p
}

func matches(t model.Task, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(fold(t.Title), needle) ||
		strings.Contains(fold(t.Description), needle)
}

// fold lower-cases with full Unicode case folding, so "STRASSE" finds
// "straße".
func fold(s string) string {
	return cases.Fold().String(s)
}
