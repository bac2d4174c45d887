package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mickamy/blockproxy/presenter"
)

// New builds a live pager: a Presenter the proxy can render into exactly
// like a terminal, and a Bubble Tea *tea.Program that displays it. Run the
// program on the main goroutine; the proxy runs independently and feeds it
// asynchronously.
func New(colorize bool) (*presenter.Guarded, *tea.Program) {
	f := newFeed()
	tp := presenter.NewTextPresenter(f, colorize)
	guarded := presenter.NewGuarded(tp)

	m := newModel(f)
	program := tea.NewProgram(m, tea.WithAltScreen())
	return guarded, program
}
