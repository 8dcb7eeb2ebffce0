package ui

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const dateFields = 5

// dateInput is a segmented YYYY-MM-DD hh:mm editor.
type dateInput struct {
	fields [dateFields]textinput.Model // 0:YYYY, 1:MM, 2:DD, 3:hh, 4:mm
	focus  int
	now    func() time.Time
}

func newDateInput(now func() time.Time) dateInput {
	placeholders := [dateFields]string{"YYYY", "MM", "DD", "hh", "mm"}
	charLimits := [dateFields]int{4, 2, 2, 2, 2}

	var fields [dateFields]textinput.Model
	for i := range dateFields {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = charLimits[i]
		ti.Width = charLimits[i] + 2
		ti.Prompt = ""
		ti.Validate = func(s string) error {
			for _, r := range s {
				if !unicode.IsDigit(r) {
					return fmt.Errorf("digits only")
				}
			}
			return nil
		}
		fields[i] = ti
	}

	return dateInput{fields: fields, now: now}
}

func (d *dateInput) Focus() tea.Cmd {
	return d.focusField(0)
}

func (d *dateInput) FocusLast() tea.Cmd {
	return d.focusField(dateFields - 1)
}

func (d *dateInput) Blur() {
	for i := range d.fields {
		d.fields[i].Blur()
	}
}

// SetValue fills the fields from t in local time.
func (d *dateInput) SetValue(t time.Time) {
	t = t.Local()
	values := [dateFields]string{
		fmt.Sprintf("%04d", t.Year()),
		fmt.Sprintf("%02d", int(t.Month())),
		fmt.Sprintf("%02d", t.Day()),
		fmt.Sprintf("%02d", t.Hour()),
		fmt.Sprintf("%02d", t.Minute()),
	}
	for i := range d.fields {
		d.fields[i].SetValue(values[i])
	}
}

// Value parses the fields. Year and month default to the current ones,
// the time of day defaults to 23:59; the day is required.
func (d *dateInput) Value() (time.Time, error) {
	now := d.now()

	get := func(i int) string { return strings.TrimSpace(d.fields[i].Value()) }
	yyyy, mm, dd, hh, mi := get(0), get(1), get(2), get(3), get(4)

	if yyyy == "" {
		yyyy = fmt.Sprintf("%04d", now.Year())
	}
	if mm == "" {
		mm = fmt.Sprintf("%02d", int(now.Month()))
	}
	if dd == "" {
		return time.Time{}, fmt.Errorf("day is required")
	}
	if hh == "" && mi == "" {
		hh, mi = "23", "59"
	}

	s := fmt.Sprintf("%s-%s-%s %s:%s", yyyy, padLeft(mm, 2), padLeft(dd, 2), padLeft(hh, 2), padLeft(mi, 2))
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date: %s", s)
	}
	return t, nil
}

func padLeft(s string, length int) string {
	for len(s) < length {
		s = "0" + s
	}
	return s
}

func (d *dateInput) IsEmpty() bool {
	for i := range d.fields {
		if d.fields[i].Value() != "" {
			return false
		}
	}
	return true
}

func (d *dateInput) Reset() {
	for i := range d.fields {
		d.fields[i].Reset()
	}
	d.focus = 0
}

func (d *dateInput) focusField(idx int) tea.Cmd {
	d.focus = idx
	var cmds []tea.Cmd
	for i := range d.fields {
		if i == idx {
			cmds = append(cmds, d.fields[i].Focus())
		} else {
			d.fields[i].Blur()
		}
	}
	return tea.Batch(cmds...)
}

// next moves focus one field right. It returns false when already on the
// last field so the caller can move on to the next form section.
func (d *dateInput) next() (bool, tea.Cmd) {
	if d.focus >= dateFields-1 {
		return false, nil
	}
	return true, d.focusField(d.focus + 1)
}

// prev is next in the other direction.
func (d *dateInput) prev() (bool, tea.Cmd) {
	if d.focus <= 0 {
		return false, nil
	}
	return true, d.focusField(d.focus - 1)
}

func (d dateInput) Update(msg tea.Msg) (dateInput, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "right":
			_, cmd := d.next()
			return d, cmd
		case "left":
			_, cmd := d.prev()
			return d, cmd
		}
	}

	var cmd tea.Cmd
	d.fields[d.focus], cmd = d.fields[d.focus].Update(msg)
	return d, cmd
}

func (d dateInput) View() string {
	return d.fields[0].View() + "-" + d.fields[1].View() + "-" + d.fields[2].View() +
		"  " + d.fields[3].View() + ":" + d.fields[4].View()
}
