package view

import (
	"testing"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixture() []model.Task {
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	done := now.Add(-30 * time.Minute)
	return []model.Task{
		{ID: "1", Title: "Buy milk", Description: "semi-skimmed", Status: model.StatusPending},
		{ID: "2", Title: "Tarea de Inglés", Description: "página 12", Status: model.StatusCompleted, CompletedAt: &done},
		{ID: "3", Title: "Call mom", Status: model.StatusPending, DueDate: &past},
		{ID: "4", Title: "Pay rent", Description: "BEFORE friday", Status: model.StatusCompleted, DueDate: &past, CompletedAt: &done},
		{ID: "5", Title: "Renew passport", Status: model.StatusPending, DueDate: &future},
	}
}

func itemIDs(p Projection) []string {
	out := make([]string, len(p.Items))
	for i, it := range p.Items {
		out[i] = it.Task.ID
	}
	return out
}

func TestProjectFilters(t *testing.T) {
	tasks := fixture()

	all := Project(tasks, FilterAll, "", now)
	pending := Project(tasks, FilterPending, "", now)
	completed := Project(tasks, FilterCompleted, "", now)

	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, itemIDs(all))
	assert.Equal(t, []string{"1", "3", "5"}, itemIDs(pending))
	assert.Equal(t, []string{"2", "4"}, itemIDs(completed))

	// pending and completed partition all
	union := map[string]int{}
	for _, id := range append(itemIDs(pending), itemIDs(completed)...) {
		union[id]++
	}
	assert.Len(t, union, len(all.Items))
	for id, n := range union {
		assert.Equal(t, 1, n, id)
	}
}

func TestProjectCountsIgnoreFilterAndSearch(t *testing.T) {
	p := Project(fixture(), FilterCompleted, "milk", now)

	assert.Empty(t, p.Items)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, 3, p.Pending)
	assert.Equal(t, 2, p.Completed)
}

func TestProjectSearch(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []string
	}{
		{"empty matches all", "", []string{"1", "2", "3", "4", "5"}},
		{"leading space anchors to a word start", " re", []string{"4"}},
		{"whitespace is matched literally", "    ", []string{}},
		{"title case-insensitive", "MILK", []string{"1"}},
		{"description", "friday", []string{"4"}},
		{"accented", "INGLÉS", []string{"2"}},
		{"substring anywhere", "re", []string{"2", "4", "5"}},
		{"no match", "zzz", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, itemIDs(Project(fixture(), FilterAll, tt.term, now)))
		})
	}
}

func TestProjectOverdueFlags(t *testing.T) {
	p := Project(fixture(), FilterAll, "", now)
	byID := map[string]Item{}
	for _, it := range p.Items {
		byID[it.Task.ID] = it
	}

	assert.True(t, byID["3"].Overdue)
	assert.True(t, byID["3"].ShowOverdueBadge)

	assert.True(t, byID["4"].Overdue, "overdue is independent of status")
	assert.False(t, byID["4"].ShowOverdueBadge, "badge only for pending")

	assert.False(t, byID["5"].Overdue)
	assert.False(t, byID["1"].Overdue)
}

func TestProjectEmpty(t *testing.T) {
	p := Project(nil, FilterAll, "", now)
	assert.NotNil(t, p.Items)
	assert.Zero(t, p.Total)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	f, err = ParseFilter(" Pending ")
	require.NoError(t, err)
	assert.Equal(t, FilterPending, f)

	_, err = ParseFilter("overdue")
	assert.Error(t, err)
}

func TestFilterNextCycles(t *testing.T) {
	f := FilterAll
	seen := []Filter{f}
	for range 3 {
		f = f.Next()
		seen = append(seen, f)
	}
	assert.Equal(t, []Filter{FilterAll, FilterPending, FilterCompleted, FilterAll}, seen)
}

func TestProjectUnknownStatusCountsOnlyInTotal(t *testing.T) {
	tasks := []model.Task{{ID: "x", Title: "legacy", Status: "done"}}

	p := Project(tasks, FilterAll, "", now)
	assert.Equal(t, 1, p.Total)
	assert.Equal(t, 0, p.Pending)
	assert.Equal(t, 0, p.Completed)
	assert.Len(t, p.Items, 1)

	assert.Empty(t, Project(tasks, FilterPending, "", now).Items)
}
