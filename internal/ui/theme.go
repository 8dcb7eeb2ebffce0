package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	accent, muted, text, danger, warn, ok, border string
}

var (
	lightPalette = palette{accent: "170", muted: "241", text: "235", danger: "160", warn: "166", ok: "28", border: "245"}
	darkPalette  = palette{accent: "213", muted: "245", text: "252", danger: "203", warn: "214", ok: "114", border: "240"}
)

// theme bundles every style the view uses. It is rebuilt when dark mode
// is toggled.
type theme struct {
	dark      bool
	app       lipgloss.Style
	title     lipgloss.Style
	status    lipgloss.Style
	err       lipgloss.Style
	notice    lipgloss.Style
	confirm   lipgloss.Style
	badge     lipgloss.Style
	countdown lipgloss.Style
	critical  lipgloss.Style
	done      lipgloss.Style
	detail    lipgloss.Style
	descBox   lipgloss.Style
	label     lipgloss.Style
	focused   lipgloss.Style
}

func newTheme(dark bool) theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }

	return theme{
		dark:      dark,
		app:       lipgloss.NewStyle().Padding(1, 2).Foreground(c(p.text)),
		title:     lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
		status:    lipgloss.NewStyle().Foreground(c(p.muted)),
		err:       lipgloss.NewStyle().Foreground(c(p.danger)),
		notice:    lipgloss.NewStyle().Foreground(c(p.warn)),
		confirm:   lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true),
		badge:     lipgloss.NewStyle().Foreground(c(p.danger)).Bold(true),
		countdown: lipgloss.NewStyle().Foreground(c(p.ok)),
		critical:  lipgloss.NewStyle().Foreground(c(p.danger)),
		done:      lipgloss.NewStyle().Foreground(c(p.muted)).Strikethrough(true),
		detail: lipgloss.NewStyle().
			Padding(1, 2).
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(c(p.border)),
		descBox: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(p.border)),
		label:   lipgloss.NewStyle().Foreground(c(p.muted)).Width(14),
		focused: lipgloss.NewStyle().Foreground(c(p.accent)).Bold(true).Width(14),
	}
}

func (t theme) delegate() list.DefaultDelegate {
	p := lightPalette
	if t.dark {
		p = darkPalette
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = true
	d.SetSpacing(0)
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(lipgloss.Color(p.text))
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(lipgloss.Color(p.muted))
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(lipgloss.Color(p.accent)).
		BorderForeground(lipgloss.Color(p.accent))
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.
		Foreground(lipgloss.Color(p.accent)).
		BorderForeground(lipgloss.Color(p.accent))
	return d
}
