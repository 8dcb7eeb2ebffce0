package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/nissyi-gh/tareas/internal/countdown"
	"github.com/nissyi-gh/tareas/internal/importer"
	"github.com/nissyi-gh/tareas/internal/model"
	"github.com/nissyi-gh/tareas/internal/prompt"
	"github.com/nissyi-gh/tareas/internal/tasks"
	"github.com/nissyi-gh/tareas/internal/view"
)

type appState int

const (
	stateList appState = iota
	stateForm
	stateConfirm
	stateSearch
	stateTrash
)

type formSection int

const (
	sectionTitle formSection = iota
	sectionDesc
	sectionDue
)

type extraKeyMap struct {
	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Delete  key.Binding
	Search  key.Binding
	Filter  key.Binding
	Trash   key.Binding
	Theme   key.Binding
	Export  key.Binding
	Prompt  key.Binding
	Import  key.Binding
	Restore key.Binding
	Purge   key.Binding
	Empty   key.Binding
	Back    key.Binding
}

func newExtraKeyMap() extraKeyMap {
	return extraKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", "x"),
			key.WithHelp("enter/x", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter"),
		),
		Trash: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "trash"),
		),
		Theme: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "dark mode"),
		),
		Export: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy yaml"),
		),
		Prompt: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "copy prompt"),
		),
		Import: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "paste import"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Purge: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "delete forever"),
		),
		Empty: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "empty trash"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "t"),
			key.WithHelp("esc/t", "back"),
		),
	}
}

// Option configures a Model.
type Option func(*Model)

// WithClock overrides time.Now for overdue flags and date defaults.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithClipboard overrides the system clipboard.
func WithClipboard(read func() (string, error), write func(string) error) Option {
	return func(m *Model) {
		m.readClipboard = read
		m.writeClipboard = write
	}
}

// WithFilter sets the initial status filter.
func WithFilter(f view.Filter) Option {
	return func(m *Model) { m.filter = f }
}

// WithCountdownUpdates makes the model redraw whenever ch fires.
func WithCountdownUpdates(ch <-chan struct{}) Option {
	return func(m *Model) { m.updates = ch }
}

// Model is the top-level BubbleTea model.
type Model struct {
	state     appState
	list      list.Model
	trashList list.Model
	input     textinput.Model
	descInput textarea.Model
	dateInput dateInput
	search    textinput.Model
	section   formSection
	editID    string
	filter    view.Filter
	store     *tasks.Store
	engine    *countdown.Engine
	updates   <-chan struct{}
	keys      extraKeyMap
	theme     theme
	notice    string
	err       error
	width     int
	height    int

	now            func() time.Time
	readClipboard  func() (string, error)
	writeClipboard func(string) error
}

type countdownMsg struct{}

// CountdownNotifier returns a channel for WithCountdownUpdates and the
// matching notify func for countdown.WithNotify. Bursts coalesce into a
// single pending redraw.
func CountdownNotifier() (<-chan struct{}, func(id, text string)) {
	ch := make(chan struct{}, 1)
	return ch, func(string, string) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func waitForCountdown(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return countdownMsg{}
	}
}

// NewModel creates a new TUI model.
func NewModel(s *tasks.Store, e *countdown.Engine, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title..."
	ti.CharLimit = 256

	search := textinput.New()
	search.Placeholder = "Search title or description..."
	search.CharLimit = 128
	search.Prompt = "/ "

	keys := newExtraKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "tareas"
	l.SetShowHelp(true)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Toggle, keys.Delete, keys.Search, keys.Filter, keys.Trash}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Edit, keys.Toggle, keys.Delete, keys.Search, keys.Filter, keys.Trash, keys.Theme, keys.Export, keys.Prompt, keys.Import}
	}

	tl := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	tl.Title = "Trash"
	tl.SetShowHelp(true)
	tl.SetFilteringEnabled(false)
	tl.SetStatusBarItemName("task", "tasks")
	tl.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Restore, keys.Purge, keys.Empty, keys.Back}
	}

	ta := textarea.New()
	ta.Placeholder = "Task description..."
	ta.CharLimit = 4096
	ta.SetHeight(4)

	m := Model{
		state:          stateList,
		list:           l,
		trashList:      tl,
		input:          ti,
		descInput:      ta,
		search:         search,
		filter:         view.FilterAll,
		store:          s,
		engine:         e,
		keys:           keys,
		now:            time.Now,
		readClipboard:  clipboard.ReadAll,
		writeClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.dateInput = newDateInput(m.now)
	m.applyTheme()
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	return waitForCountdown(m.updates)
}

func (m *Model) applyTheme() {
	m.theme = newTheme(m.store.DarkMode())
	m.list.Styles.Title = m.theme.title
	m.trashList.Styles.Title = m.theme.title
	m.list.SetDelegate(m.theme.delegate())
	m.trashList.SetDelegate(m.theme.delegate())
}

func (m Model) projection() view.Projection {
	return view.Project(m.store.Active(), m.filter, m.search.Value(), m.now())
}

// refresh rebuilds both lists from the store, keeping the cursor on the
// same task when it is still visible.
func (m *Model) refresh() {
	selected := ""
	if item, ok := m.list.SelectedItem().(TaskItem); ok {
		selected = item.Item.Task.ID
	}

	var snapshot map[string]string
	label := countdown.DefaultOverdueLabel
	if m.engine != nil {
		snapshot = m.engine.Snapshot()
		label = m.engine.OverdueLabel()
	}

	p := m.projection()
	items := make([]list.Item, len(p.Items))
	cursor := 0
	for i, it := range p.Items {
		ti := TaskItem{Item: it, BadgeLabel: label}
		if it.Task.IsPending() {
			ti.Countdown = snapshot[it.Task.ID]
		}
		items[i] = ti
		if it.Task.ID == selected {
			cursor = i
		}
	}
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(cursor)
	}

	trashed := m.store.Trash()
	titems := make([]list.Item, len(trashed))
	for i, t := range trashed {
		titems[i] = TrashItem{Task: t}
	}
	m.trashList.SetItems(titems)
	if n := len(titems); n > 0 && m.trashList.Index() >= n {
		m.trashList.Select(n - 1)
	}
}

// report turns a store error into what the user sees. Not-found means the
// view was stale and only earns a notice.
func (m *Model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, model.ErrNotFound):
		m.notice = "That task is no longer there."
	default:
		m.err = err
	}
	if saveErr := m.store.SaveErr(); saveErr != nil {
		m.err = fmt.Errorf("not saved, changes kept for this session: %w", saveErr)
	}
}

func (m Model) remaining(id string) (string, bool) {
	if m.engine == nil {
		return "", false
	}
	return m.engine.Remaining(id)
}

func (m Model) selectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Item.Task, true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h, v := m.theme.app.GetFrameSize()
		contentWidth := msg.Width - h
		leftWidth := contentWidth * 60 / 100
		header := 2
		m.list.SetSize(leftWidth, msg.Height-v-header)
		m.trashList.SetSize(contentWidth, msg.Height-v-header)
		m.descInput.SetWidth(max(contentWidth-16, 20))
		return m, nil

	case countdownMsg:
		m.refresh()
		if m.updates == nil {
			return m, nil
		}
		return m, waitForCountdown(m.updates)
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		m.notice = ""
	}

	switch m.state {
	case stateList:
		return m.updateList(msg)
	case stateForm:
		return m.updateForm(msg)
	case stateConfirm:
		return m.updateConfirm(msg)
	case stateSearch:
		return m.updateSearch(msg)
	case stateTrash:
		return m.updateTrash(msg)
	}

	return m, nil
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "a", "n":
			return m.openForm(model.Task{})
		case "e":
			if task, ok := m.selectedTask(); ok {
				return m.openForm(task)
			}
			return m, nil
		case "enter", "x":
			if task, ok := m.selectedTask(); ok {
				m.err = nil
				_, err := m.store.ToggleStatus(task.ID)
				m.report(err)
				m.refresh()
			}
			return m, nil
		case "d":
			if _, ok := m.selectedTask(); ok {
				m.state = stateConfirm
			}
			return m, nil
		case "/":
			m.state = stateSearch
			cmd := m.search.Focus()
			return m, cmd
		case "f":
			m.filter = m.filter.Next()
			m.refresh()
			return m, nil
		case "t":
			m.state = stateTrash
			m.refresh()
			return m, nil
		case "m":
			m.store.ToggleDarkMode()
			m.applyTheme()
			m.report(nil)
			return m, nil
		case "y":
			out, err := importer.Export(m.store.Active())
			if err == nil {
				err = m.writeClipboard(out)
			}
			if err != nil {
				m.err = err
				return m, nil
			}
			m.notice = fmt.Sprintf("Copied %d tasks as YAML.", len(m.store.Active()))
			return m, nil
		case "p":
			text := prompt.GenerateNew()
			if task, ok := m.selectedTask(); ok {
				text = prompt.GenerateFromTask(task, m.store.Active())
			}
			if err := m.writeClipboard(text); err != nil {
				m.err = err
				return m, nil
			}
			m.notice = "Copied prompt to clipboard."
			return m, nil
		case "i":
			text, err := m.readClipboard()
			if err != nil {
				m.err = err
				return m, nil
			}
			n, err := importer.Import(m.store, text)
			m.err = nil
			m.report(err)
			m.refresh()
			if n > 0 {
				m.notice = fmt.Sprintf("Imported %d tasks.", n)
			}
			return m, nil
		case "esc":
			if m.search.Value() != "" {
				m.search.Reset()
				m.refresh()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) openForm(task model.Task) (tea.Model, tea.Cmd) {
	m.state = stateForm
	m.editID = task.ID
	m.err = nil
	m.input.Reset()
	m.descInput.Reset()
	m.dateInput.Reset()
	if task.ID != "" {
		m.input.SetValue(task.Title)
		m.descInput.SetValue(task.Description)
		if task.HasDueDate() {
			m.dateInput.SetValue(*task.DueDate)
		}
	}
	cmd := m.focusSection(sectionTitle)
	return m, cmd
}

func (m *Model) focusSection(s formSection) tea.Cmd {
	m.section = s
	m.input.Blur()
	m.descInput.Blur()
	m.dateInput.Blur()
	switch s {
	case sectionTitle:
		return m.input.Focus()
	case sectionDesc:
		return m.descInput.Focus()
	default:
		return m.dateInput.Focus()
	}
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	var due *time.Time
	if !m.dateInput.IsEmpty() {
		d, err := m.dateInput.Value()
		if err != nil {
			m.err = err
			return m, nil
		}
		due = &d
	}

	var err error
	if m.editID == "" {
		_, err = m.store.Create(m.input.Value(), m.descInput.Value(), due)
	} else {
		_, err = m.store.Update(m.editID, m.input.Value(), m.descInput.Value(), due)
	}
	if errors.Is(err, model.ErrValidation) {
		m.err = err
		cmd := m.focusSection(sectionTitle)
		return m, cmd
	}

	m.err = nil
	m.report(err)
	m.state = stateList
	m.editID = ""
	m.refresh()
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = stateList
			m.editID = ""
			m.err = nil
			return m, nil
		case "ctrl+s":
			return m.submitForm()
		case "enter":
			if m.section != sectionDesc {
				return m.submitForm()
			}
		case "tab":
			if m.section == sectionDue {
				if moved, cmd := m.dateInput.next(); moved {
					return m, cmd
				}
				cmd := m.focusSection(sectionTitle)
				return m, cmd
			}
			cmd := m.focusSection(m.section + 1)
			return m, cmd
		case "shift+tab":
			switch m.section {
			case sectionDue:
				if moved, cmd := m.dateInput.prev(); moved {
					return m, cmd
				}
				cmd := m.focusSection(sectionDesc)
				return m, cmd
			case sectionDesc:
				cmd := m.focusSection(sectionTitle)
				return m, cmd
			default:
				cmd := tea.Batch(m.focusSection(sectionDue), m.dateInput.FocusLast())
				return m, cmd
			}
		}
	}

	var cmd tea.Cmd
	switch m.section {
	case sectionTitle:
		m.input, cmd = m.input.Update(msg)
	case sectionDesc:
		m.descInput, cmd = m.descInput.Update(msg)
	case sectionDue:
		m.dateInput, cmd = m.dateInput.Update(msg)
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "y":
			if task, ok := m.selectedTask(); ok {
				m.err = nil
				m.report(m.store.Delete(task.ID))
			}
			m.state = stateList
			m.refresh()
			return m, nil
		case "n", "esc":
			m.state = stateList
			return m, nil
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.search.Blur()
			m.state = stateList
			return m, nil
		case "esc":
			m.search.Reset()
			m.search.Blur()
			m.state = stateList
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.refresh()
	return m, cmd
}

func (m Model) updateTrash(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "t":
			m.state = stateList
			return m, nil
		case "r":
			if item, ok := m.trashList.SelectedItem().(TrashItem); ok {
				m.err = nil
				m.report(m.store.Restore(item.Task.ID))
				m.refresh()
			}
			return m, nil
		case "D":
			if item, ok := m.trashList.SelectedItem().(TrashItem); ok {
				m.err = nil
				m.report(m.store.PermanentlyDelete(item.Task.ID))
				m.refresh()
			}
			return m, nil
		case "E":
			m.err = nil
			m.report(m.store.EmptyTrash())
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.trashList, cmd = m.trashList.Update(msg)
	return m, cmd
}

func (m Model) header() string {
	p := m.projection()
	parts := []string{
		fmt.Sprintf("Total: %d", p.Total),
		fmt.Sprintf("Pending: %d", p.Pending),
		fmt.Sprintf("Completed: %d", p.Completed),
		fmt.Sprintf("Trash: %d", len(m.store.Trash())),
		"Filter: " + string(m.filter),
	}
	if q := m.search.Value(); q != "" && m.state != stateSearch {
		parts = append(parts, fmt.Sprintf("Search: %q", q))
	}
	return m.theme.status.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return m.theme.status.Render("No tasks. Press a to add one.")
	}
	now := m.now()

	descContent := m.theme.status.Render("(no description)")
	if task.Description != "" {
		descContent = task.Description
	}
	desc := m.theme.descBox.Render(descContent)

	var lines []string
	status := "pending"
	if task.IsCompleted() {
		status = "completed"
	}
	lines = append(lines, "status:     "+status)

	if task.HasDueDate() {
		label := "due:        " + task.DueDate.Local().Format("2006-01-02 15:04")
		if task.ShowOverdueBadge(now) {
			label = m.theme.badge.Render(label)
		}
		lines = append(lines, label)
		if remaining, ok := m.remaining(task.ID); ok && task.IsPending() {
			style := m.theme.countdown
			if task.IsOverdue(now) {
				style = m.theme.critical
			}
			lines = append(lines, "remaining:  "+style.Render(remaining))
		}
	}
	lines = append(lines, "created:    "+humanize.Time(task.CreatedAt))
	if task.CompletedAt != nil {
		lines = append(lines, "completed:  "+humanize.Time(*task.CompletedAt))
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s",
		m.theme.title.Render(task.Title),
		desc,
		strings.Join(lines, "\n"),
	)
}

func (m Model) renderForm() string {
	header := "New Task"
	if m.editID != "" {
		header = "Edit Task"
	}
	label := func(s formSection, text string) string {
		if m.section == s {
			return m.theme.focused.Render(text)
		}
		return m.theme.label.Render(text)
	}
	return m.theme.title.Render(header) + "\n\n" +
		label(sectionTitle, "Title") + m.input.View() + "\n\n" +
		label(sectionDesc, "Description") + "\n" + m.descInput.View() + "\n\n" +
		label(sectionDue, "Due date") + m.dateInput.View() + "\n\n" +
		m.theme.status.Render("tab: next field • enter/ctrl+s: save • esc: cancel • empty date: no due date")
}

func (m Model) View() string {
	var footer string
	if m.err != nil {
		footer += "\n" + m.theme.err.Render("Error: "+m.err.Error())
	}
	if m.notice != "" {
		footer += "\n" + m.theme.notice.Render(m.notice)
	}

	switch m.state {
	case stateForm:
		return m.theme.app.Render(m.renderForm() + "\n" + footer)
	case stateConfirm:
		task, _ := m.selectedTask()
		return m.theme.app.Render(
			m.theme.confirm.Render("Move to trash?") + "\n\n" +
				"  " + task.Title + "\n\n" +
				m.theme.status.Render("y: delete • n/esc: cancel") +
				footer,
		)
	case stateTrash:
		return m.theme.app.Render(m.header() + "\n\n" + m.trashList.View() + footer)
	default:
		h, v := m.theme.app.GetFrameSize()
		contentWidth := m.width - h
		contentHeight := m.height - v
		leftWidth := contentWidth * 60 / 100
		rightWidth := contentWidth - leftWidth

		top := m.header()
		if m.state == stateSearch {
			top += "\n" + m.search.View()
		}
		leftPane := m.list.View()
		rightPane := m.theme.detail.
			Width(max(rightWidth, 0)).
			Height(max(contentHeight-2, 0)).
			Render(m.renderDetail())
		content := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
		return m.theme.app.Render(top + "\n" + content + footer)
	}
}
