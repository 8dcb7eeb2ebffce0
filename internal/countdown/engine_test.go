package countdown

import (
	"sync"
	"testing"
	"time"

	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine() (*Engine, *ManualScheduler, *clock) {
	c := &clock{t: time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)}
	sched := NewManualScheduler()
	e := New(WithClock(c.Now), WithScheduler(sched), WithOverdueLabel("Vencido"))
	return e, sched, c
}

func pendingWithDue(id string, due time.Time) model.Task {
	return model.Task{ID: id, Title: id, Status: model.StatusPending, DueDate: &due}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{25 * time.Hour, "1d 1h 0m"},
		{90 * time.Minute, "0d 1h 30m"},
		{89*time.Minute + 59*time.Second, "0d 1h 29m"},
		{59 * time.Second, "0d 0h 0m"},
		{49*time.Hour + 7*time.Minute, "2d 1h 7m"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.d), tt.d.String())
	}
}

func TestText(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	text, overdue := Text(now.Add(-5*time.Minute), now, DefaultOverdueLabel)
	assert.True(t, overdue)
	assert.Equal(t, "Overdue", text)

	text, overdue = Text(now, now, DefaultOverdueLabel)
	assert.True(t, overdue, "zero difference counts as overdue")
	assert.Equal(t, "Overdue", text)

	text, overdue = Text(now.Add(25*time.Hour), now, DefaultOverdueLabel)
	assert.False(t, overdue)
	assert.Equal(t, "1d 1h 0m", text)
}

func TestStartComputesImmediately(t *testing.T) {
	e, sched, c := newTestEngine()
	e.Start("b", c.Now().Add(90*time.Minute))

	text, ok := e.Remaining("b")
	require.True(t, ok)
	assert.Equal(t, "0d 1h 30m", text)
	assert.True(t, e.Running("b"))
	assert.Equal(t, 1, sched.Jobs())

	c.Advance(time.Minute)
	sched.Tick()
	text, _ = e.Remaining("b")
	assert.Equal(t, "0d 1h 29m", text)
}

func TestOverdueStopsTimer(t *testing.T) {
	e, sched, c := newTestEngine()
	e.Start("b", c.Now().Add(90*time.Minute))

	c.Advance(91 * time.Minute)
	sched.Tick()

	text, ok := e.Remaining("b")
	require.True(t, ok)
	assert.Equal(t, "Vencido", text)
	assert.False(t, e.Running("b"))
	assert.Zero(t, sched.Jobs())

	// further ticks change nothing
	c.Advance(time.Hour)
	sched.Tick()
	text, _ = e.Remaining("b")
	assert.Equal(t, "Vencido", text)
}

func TestStartAlreadyOverdueSchedulesNothing(t *testing.T) {
	e, sched, c := newTestEngine()
	e.Start("late", c.Now().Add(-5*time.Minute))

	text, _ := e.Remaining("late")
	assert.Equal(t, "Vencido", text)
	assert.Zero(t, sched.Jobs())
}

func TestRestartReplacesTimer(t *testing.T) {
	e, sched, c := newTestEngine()
	e.Start("a", c.Now().Add(time.Hour))
	e.Start("a", c.Now().Add(2*time.Hour))

	assert.Equal(t, 1, sched.Jobs())
	text, _ := e.Remaining("a")
	assert.Equal(t, "0d 2h 0m", text)
}

func TestStaleCallbackIsIgnored(t *testing.T) {
	e, _, c := newTestEngine()
	var captured func()
	e.sched = schedulerFunc(func(_ time.Duration, fn func()) func() {
		captured = fn
		return func() {}
	})

	e.Start("a", c.Now().Add(time.Hour))
	stale := captured
	e.Stop("a")

	stale()
	_, ok := e.Remaining("a")
	assert.False(t, ok, "a stopped timer must not write its entry back")
}

type schedulerFunc func(time.Duration, func()) func()

func (f schedulerFunc) Every(d time.Duration, fn func()) func() { return f(d, fn) }

func TestReconcile(t *testing.T) {
	e, sched, c := newTestEngine()
	now := c.Now()

	a := pendingWithDue("a", now.Add(time.Hour))
	b := pendingWithDue("b", now.Add(2*time.Hour))
	noDue := model.Task{ID: "c", Status: model.StatusPending}
	e.Reconcile([]model.Task{a, b, noDue})

	assert.True(t, e.Running("a"))
	assert.True(t, e.Running("b"))
	assert.False(t, e.Running("c"))
	assert.Equal(t, 2, sched.Jobs())

	// completing a stops it
	doneA := a
	doneA.Status = model.StatusCompleted
	e.Reconcile([]model.Task{doneA, b})
	assert.False(t, e.Running("a"))
	_, ok := e.Remaining("a")
	assert.False(t, ok)
	assert.Equal(t, 1, sched.Jobs())

	// clearing the due date stops it
	bNoDue := b
	bNoDue.DueDate = nil
	e.Reconcile([]model.Task{doneA, bNoDue})
	assert.False(t, e.Running("b"))
	assert.Zero(t, sched.Jobs())

	// moving the due date restarts it
	e.Reconcile([]model.Task{b})
	moved := pendingWithDue("b", now.Add(3*time.Hour))
	e.Reconcile([]model.Task{moved})
	text, _ := e.Remaining("b")
	assert.Equal(t, "0d 3h 0m", text)
	assert.Equal(t, 1, sched.Jobs())

	// deleting (absent from the active list) stops it
	e.Reconcile(nil)
	assert.Zero(t, sched.Jobs())
	assert.Empty(t, e.Snapshot())
}

func TestReconcileLeavesRunningTimersAlone(t *testing.T) {
	e, sched, c := newTestEngine()
	a := pendingWithDue("a", c.Now().Add(time.Hour))

	var notified []string
	e.notify = func(id, _ string) { notified = append(notified, id) }

	e.Reconcile([]model.Task{a})
	e.Reconcile([]model.Task{a})
	e.Reconcile([]model.Task{a})

	assert.Equal(t, []string{"a"}, notified)
	assert.Equal(t, 1, sched.Jobs())
}

func TestReconcileKeepsOverdueEntry(t *testing.T) {
	e, sched, c := newTestEngine()
	late := pendingWithDue("late", c.Now().Add(-time.Minute))

	e.Reconcile([]model.Task{late})
	e.Reconcile([]model.Task{late})

	text, ok := e.Remaining("late")
	assert.True(t, ok)
	assert.Equal(t, "Vencido", text)
	assert.Zero(t, sched.Jobs())
}

func TestStopAll(t *testing.T) {
	e, sched, c := newTestEngine()
	e.Start("a", c.Now().Add(time.Hour))
	e.Start("b", c.Now().Add(time.Hour))

	e.StopAll()
	assert.Zero(t, sched.Jobs())
	assert.Empty(t, e.Snapshot())
}

func TestTickerSchedulerFiresAndStops(t *testing.T) {
	fired := make(chan struct{}, 8)
	stop := TickerScheduler{}.Every(5*time.Millisecond, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("ticker never fired")
	}
	stop()
}

func TestReconcileSkipsUnknownStatus(t *testing.T) {
	e, sched, c := newTestEngine()
	due := c.Now().Add(time.Hour)

	e.Reconcile([]model.Task{{ID: "x", Title: "x", Status: "done", DueDate: &due}})

	assert.Equal(t, 0, sched.Jobs())
	_, ok := e.Remaining("x")
	assert.False(t, ok)
}
