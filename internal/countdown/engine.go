// Package countdown keeps a live "time remaining" string for every pending
// task that has a due date.
package countdown

import (
	"log"
	"maps"
	"sync"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
)

// DefaultPeriod is how often a running countdown is recomputed.
const DefaultPeriod = time.Minute

// Option configures an Engine.
type Option func(*Engine)

// WithPeriod sets the recompute period.
func WithPeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.period = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithScheduler overrides the TickerScheduler.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) { e.sched = s }
}

// WithOverdueLabel sets the text shown once a due date has passed.
func WithOverdueLabel(label string) Option {
	return func(e *Engine) {
		if label != "" {
			e.overdueLabel = label
		}
	}
}

// WithNotify registers fn to be called, outside the engine lock, whenever a
// display string is (re)computed.
func WithNotify(fn func(id, text string)) Option {
	return func(e *Engine) { e.notify = fn }
}

type timer struct {
	due  time.Time
	stop func()
}

// Engine maps task ids to running timers. Timer callbacks only ever touch
// the display map.
type Engine struct {
	period       time.Duration
	now          func() time.Time
	sched        Scheduler
	overdueLabel string
	notify       func(id, text string)

	mu      sync.Mutex
	timers  map[string]*timer
	display map[string]string
}

// New creates an Engine with no running timers.
func New(opts ...Option) *Engine {
	e := &Engine{
		period:       DefaultPeriod,
		now:          time.Now,
		sched:        TickerScheduler{},
		overdueLabel: DefaultOverdueLabel,
		timers:       make(map[string]*timer),
		display:      make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OverdueLabel returns the text used for passed due dates.
func (e *Engine) OverdueLabel() string { return e.overdueLabel }

// Start computes the display for id right away and, unless it is already
// overdue, recomputes it every period. A timer already running for id is
// cancelled first.
func (e *Engine) Start(id string, due time.Time) {
	e.mu.Lock()
	e.cancelLocked(id)

	tm := &timer{due: due}
	e.timers[id] = tm
	text, overdue := Text(due, e.now(), e.overdueLabel)
	e.display[id] = text
	if !overdue {
		tm.stop = e.sched.Every(e.period, func() { e.tick(id, tm) })
	}
	e.mu.Unlock()

	e.emit(id, text)
}

func (e *Engine) tick(id string, tm *timer) {
	e.mu.Lock()
	if e.timers[id] != tm {
		// replaced or stopped since this tick was scheduled
		e.mu.Unlock()
		return
	}
	text, overdue := Text(tm.due, e.now(), e.overdueLabel)
	e.display[id] = text
	if overdue && tm.stop != nil {
		tm.stop()
		tm.stop = nil
		log.Printf("[countdown] task %s is overdue, timer stopped", id)
	}
	e.mu.Unlock()

	e.emit(id, text)
}

func (e *Engine) emit(id, text string) {
	if e.notify != nil {
		e.notify(id, text)
	}
}

// cancelLocked stops the timer for id and forgets it. e.mu must be held.
func (e *Engine) cancelLocked(id string) {
	tm, ok := e.timers[id]
	if !ok {
		return
	}
	if tm.stop != nil {
		tm.stop()
		tm.stop = nil
	}
	delete(e.timers, id)
}

// Stop cancels the timer for id and drops its display string.
func (e *Engine) Stop(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelLocked(id)
	delete(e.display, id)
}

// StopAll cancels every timer.
func (e *Engine) StopAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for id := range e.timers {
		e.cancelLocked(id)
	}
	clear(e.display)
}

// Reconcile diffs the set of tasks that deserve a countdown (pending, with
// a due date) against the running timers. Timers for tasks that left the
// set or whose due date moved are cancelled; new members are started;
// everything else keeps running untouched.
func (e *Engine) Reconcile(active []model.Task) {
	eligible := make(map[string]time.Time, len(active))
	for _, t := range active {
		if t.IsPending() && t.HasDueDate() {
			eligible[t.ID] = *t.DueDate
		}
	}

	e.mu.Lock()
	for id, tm := range e.timers {
		if due, ok := eligible[id]; !ok || !due.Equal(tm.due) {
			e.cancelLocked(id)
			delete(e.display, id)
		}
	}
	var toStart []model.Task
	for _, t := range active {
		if _, ok := eligible[t.ID]; !ok {
			continue
		}
		if _, running := e.timers[t.ID]; !running {
			toStart = append(toStart, t)
		}
	}
	e.mu.Unlock()

	for _, t := range toStart {
		e.Start(t.ID, *t.DueDate)
	}
}

// Remaining returns the current display string for id.
func (e *Engine) Remaining(id string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	text, ok := e.display[id]
	return text, ok
}

// Snapshot returns a copy of every display string.
func (e *Engine) Snapshot() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return maps.Clone(e.display)
}

// Running reports whether a periodic timer is live for id. Overdue tasks
// keep their display string but have no running timer.
func (e *Engine) Running(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	tm, ok := e.timers[id]
	return ok && tm.stop != nil
}
