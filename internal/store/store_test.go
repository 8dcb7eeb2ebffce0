package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState() model.State {
	created := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	due := created.Add(48 * time.Hour)
	deleted := created.Add(time.Hour)
	return model.State{
		Active: []model.Task{
			{ID: "a", Title: "Buy milk", Status: model.StatusPending, CreatedAt: created, DueDate: &due},
		},
		Trash: []model.Task{
			{ID: "b", Title: "Old", Status: model.StatusPending, CreatedAt: created, DeletedAt: &deleted},
		},
		DarkMode: true,
	}
}

func TestSQLiteKVGetSet(t *testing.T) {
	kv, err := Open(filepath.Join(t.TempDir(), "nested", "tareas.db"))
	require.NoError(t, err)
	defer kv.Close()

	_, ok, err := kv.Get("missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set("k", "one"))
	require.NoError(t, kv.Set("k", "two"))

	v, ok, err := kv.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestAdapterRoundTripSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tareas.db")
	kv, err := Open(path)
	require.NoError(t, err)

	want := sampleState()
	require.NoError(t, NewAdapter(kv).Save(want))
	require.NoError(t, kv.Close())

	kv, err = Open(path)
	require.NoError(t, err)
	defer kv.Close()

	got, err := NewAdapter(kv).Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAdapterLoadDefaultsWhenEmpty(t *testing.T) {
	st, err := NewAdapter(NewMemoryKV()).Load()
	require.NoError(t, err)
	assert.Empty(t, st.Active)
	assert.NotNil(t, st.Active)
	assert.Empty(t, st.Trash)
	assert.False(t, st.DarkMode)
}

func TestAdapterLoadCorruptKeyFallsBackAlone(t *testing.T) {
	kv := NewMemoryKV()
	a := NewAdapter(kv)
	require.NoError(t, a.Save(sampleState()))
	require.NoError(t, kv.Set(KeyTasks, "{not json"))

	st, err := a.Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrPersistence))

	var perr *model.PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, KeyTasks, perr.Key)
	assert.Equal(t, "parse", perr.Op)

	assert.Empty(t, st.Active)
	assert.Len(t, st.Trash, 1)
	assert.True(t, st.DarkMode)
}

func TestAdapterLoadReadFailure(t *testing.T) {
	kv := NewMemoryKV()
	kv.FailGet[KeyDarkMode] = true

	st, err := NewAdapter(kv).Load()
	assert.True(t, errors.Is(err, model.ErrPersistence))
	assert.False(t, st.DarkMode)
}

func TestAdapterSaveReportsEveryFailingKey(t *testing.T) {
	kv := NewMemoryKV()
	kv.FailSet[KeyTasks] = true
	kv.FailSet[KeyDarkMode] = true

	err := NewAdapter(kv).Save(sampleState())
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrPersistence))
	assert.Contains(t, err.Error(), KeyTasks)
	assert.Contains(t, err.Error(), KeyDarkMode)

	// the healthy key was still written
	v, ok, _ := kv.Get(KeyDeletedTasks)
	assert.True(t, ok)
	assert.Contains(t, v, `"id":"b"`)
}

func TestAdapterSavesEmptyListsAsArrays(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, NewAdapter(kv).Save(model.State{}))

	v, _, _ := kv.Get(KeyTasks)
	assert.Equal(t, "[]", v)
	v, _, _ = kv.Get(KeyDarkMode)
	assert.Equal(t, "false", v)
}

func TestAdapterLoadKeepsTasksWithBadTimestamps(t *testing.T) {
	kv := NewMemoryKV()
	blob := `[{"id":"a","title":"fine","status":"pending","createdAt":"2026-10-19T09:00:00Z"},
		{"id":"b","title":"odd due","status":"pending","dueDate":"next week","createdAt":"2026-10-19T09:00:00Z"}]`
	require.NoError(t, kv.Set(KeyTasks, blob))

	st, err := NewAdapter(kv).Load()
	require.NoError(t, err)
	require.Len(t, st.Active, 2)
	assert.Equal(t, "b", st.Active[1].ID)
	assert.Nil(t, st.Active[1].DueDate)
}
