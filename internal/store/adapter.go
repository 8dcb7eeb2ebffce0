package store

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/nissyi-gh/tareas/internal/model"
)

// Keys under which the three blobs are stored.
const (
	KeyTasks        = "tasks"
	KeyDeletedTasks = "deletedTasks"
	KeyDarkMode     = "darkMode"
)

// Adapter loads and saves model.State as three independent JSON blobs.
type Adapter struct {
	kv KV
}

// NewAdapter wraps kv.
func NewAdapter(kv KV) *Adapter {
	return &Adapter{kv: kv}
}

// Load returns the last persisted state. Each key falls back to its empty
// default on its own when it is missing or unreadable, so the returned
// state is always usable. The error lists every key that fell back for a
// reason other than being absent.
func (a *Adapter) Load() (model.State, error) {
	var (
		st   model.State
		errs []error
	)

	if err := a.load(KeyTasks, &st.Active); err != nil {
		st.Active = nil
		errs = append(errs, err)
	}
	if err := a.load(KeyDeletedTasks, &st.Trash); err != nil {
		st.Trash = nil
		errs = append(errs, err)
	}
	if err := a.load(KeyDarkMode, &st.DarkMode); err != nil {
		st.DarkMode = false
		errs = append(errs, err)
	}

	if st.Active == nil {
		st.Active = []model.Task{}
	}
	if st.Trash == nil {
		st.Trash = []model.Task{}
	}

	err := errors.Join(errs...)
	if err != nil {
		log.Printf("[store] warning: falling back to defaults: %v", err)
	}
	return st, err
}

func (a *Adapter) load(key string, dst any) error {
	raw, ok, err := a.kv.Get(key)
	if err != nil {
		return &model.PersistenceError{Key: key, Op: "load", Err: err}
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return &model.PersistenceError{Key: key, Op: "parse", Err: err}
	}
	return nil
}

// Save writes all three keys. A failing key does not stop the others from
// being written; every failure is reported.
func (a *Adapter) Save(st model.State) error {
	active := st.Active
	if active == nil {
		active = []model.Task{}
	}
	trash := st.Trash
	if trash == nil {
		trash = []model.Task{}
	}

	return errors.Join(
		a.save(KeyTasks, active),
		a.save(KeyDeletedTasks, trash),
		a.save(KeyDarkMode, st.DarkMode),
	)
}

func (a *Adapter) save(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return &model.PersistenceError{Key: key, Op: "encode", Err: err}
	}
	if err := a.kv.Set(key, string(b)); err != nil {
		return &model.PersistenceError{Key: key, Op: "save", Err: err}
	}
	return nil
}
