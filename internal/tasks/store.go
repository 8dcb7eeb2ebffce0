// Package tasks holds the authoritative in-memory task state and the named
// mutations over it. Every successful mutation persists the full state and
// then lets the countdown timers catch up.
package tasks

import (
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nissyi-gh/tareas/internal/model"
)

// Saver persists a full state snapshot.
type Saver interface {
	Save(model.State) error
}

// Reconciler is told about the active list after every mutation.
type Reconciler interface {
	Reconcile(active []model.Task)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides the id generator.
func WithIDFunc(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// WithReconciler registers r to run after every successful mutation.
func WithReconciler(r Reconciler) Option {
	return func(s *Store) { s.reconciler = r }
}

// Store is not safe for concurrent mutation; callers drive it from a
// single goroutine.
type Store struct {
	active   []model.Task
	trash    []model.Task
	darkMode bool

	saver      Saver
	reconciler Reconciler
	now        func() time.Time
	newID      func() string
	saveErr    error
}

// New builds a Store seeded with initial. saver may be nil, in which case
// nothing is persisted.
func New(saver Saver, initial model.State, opts ...Option) *Store {
	s := &Store{
		active:   model.CloneTasks(initial.Active),
		trash:    model.CloneTasks(initial.Trash),
		darkMode: initial.DarkMode,
		saver:    saver,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.reconciler != nil {
		s.reconciler.Reconcile(s.Active())
	}
	return s
}

func validateTitle(title string) (string, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return "", &model.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return t, nil
}

func indexOf(list []model.Task, id string) int {
	return slices.IndexFunc(list, func(t model.Task) bool { return t.ID == id })
}

// Create appends a new pending task to the active list.
func (s *Store) Create(title, description string, due *time.Time) (model.Task, error) {
	t, err := validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}
	task := model.Task{
		ID:          s.newID(),
		Title:       t,
		Description: description,
		DueDate:     copyTime(due),
		Status:      model.StatusPending,
		CreatedAt:   s.now(),
	}
	s.active = append(s.active, task)
	s.commit()
	return task.Clone(), nil
}

// Update replaces title, description and due date of an active task.
// Status, CreatedAt and CompletedAt are kept.
func (s *Store) Update(id, title, description string, due *time.Time) (model.Task, error) {
	i := indexOf(s.active, id)
	if i < 0 {
		return model.Task{}, &model.NotFoundError{ID: id, Partition: model.PartitionActive}
	}
	t, err := validateTitle(title)
	if err != nil {
		return model.Task{}, err
	}
	s.active[i].Title = t
	s.active[i].Description = description
	s.active[i].DueDate = copyTime(due)
	s.commit()
	return s.active[i].Clone(), nil
}

// ToggleStatus flips pending and completed. CompletedAt is stamped on
// completion and cleared when the task is reopened.
func (s *Store) ToggleStatus(id string) (model.Task, error) {
	i := indexOf(s.active, id)
	if i < 0 {
		return model.Task{}, &model.NotFoundError{ID: id, Partition: model.PartitionActive}
	}
	task := &s.active[i]
	if task.IsPending() {
		now := s.now()
		task.Status = model.StatusCompleted
		task.CompletedAt = &now
	} else {
		task.Status = model.StatusPending
		task.CompletedAt = nil
	}
	s.commit()
	return task.Clone(), nil
}

// Delete moves an active task to the end of the trash.
func (s *Store) Delete(id string) error {
	i := indexOf(s.active, id)
	if i < 0 {
		return &model.NotFoundError{ID: id, Partition: model.PartitionActive}
	}
	task := s.active[i]
	now := s.now()
	task.DeletedAt = &now
	s.active = slices.Delete(s.active, i, i+1)
	s.trash = append(s.trash, task)
	s.commit()
	return nil
}

// Restore moves a trashed task to the end of the active list. Its status
// is left as it was when deleted.
func (s *Store) Restore(id string) error {
	i := indexOf(s.trash, id)
	if i < 0 {
		return &model.NotFoundError{ID: id, Partition: model.PartitionTrash}
	}
	task := s.trash[i]
	task.DeletedAt = nil
	s.trash = slices.Delete(s.trash, i, i+1)
	s.active = append(s.active, task)
	s.commit()
	return nil
}

// PermanentlyDelete erases a trashed task.
func (s *Store) PermanentlyDelete(id string) error {
	i := indexOf(s.trash, id)
	if i < 0 {
		return &model.NotFoundError{ID: id, Partition: model.PartitionTrash}
	}
	s.trash = slices.Delete(s.trash, i, i+1)
	s.commit()
	return nil
}

// EmptyTrash erases every trashed task. It never fails.
func (s *Store) EmptyTrash() error {
	s.trash = []model.Task{}
	s.commit()
	return nil
}

// SetDarkMode stores the theme flag.
func (s *Store) SetDarkMode(on bool) {
	s.darkMode = on
	s.commit()
}

// ToggleDarkMode flips the theme flag and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	s.SetDarkMode(!s.darkMode)
	return s.darkMode
}

// Active returns a copy of the active list in insertion order.
func (s *Store) Active() []model.Task { return model.CloneTasks(s.active) }

// Trash returns a copy of the trash in insertion order.
func (s *Store) Trash() []model.Task { return model.CloneTasks(s.trash) }

// DarkMode returns the theme flag.
func (s *Store) DarkMode() bool { return s.darkMode }

// Get looks id up in the active list.
func (s *Store) Get(id string) (model.Task, bool) {
	i := indexOf(s.active, id)
	if i < 0 {
		return model.Task{}, false
	}
	return s.active[i].Clone(), true
}

// State returns a copy of everything that is persisted.
func (s *Store) State() model.State {
	return model.State{Active: s.Active(), Trash: s.Trash(), DarkMode: s.darkMode}
}

// SaveErr returns the error of the most recent save, or nil if it succeeded.
func (s *Store) SaveErr() error { return s.saveErr }

// commit persists and reconciles after a successful mutation. A save
// failure is kept and logged; the in-memory state stays authoritative.
func (s *Store) commit() {
	if s.saver != nil {
		s.saveErr = s.saver.Save(s.State())
		if s.saveErr != nil {
			log.Printf("[tasks] warning: state kept in memory only: %v", s.saveErr)
		}
	}
	if s.reconciler != nil {
		s.reconciler.Reconcile(s.Active())
	}
}

func copyTime(p *time.Time) *time.Time {
	if p == nil || p.IsZero() {
		return nil
	}
	v := *p
	return &v
}
