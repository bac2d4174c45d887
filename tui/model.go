package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

var statusStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("57")).
	Padding(0, 1)

type lineMsg string

// model is the Bubble Tea model driving the live pager: a ring of rendered
// lines, a scroll offset, and a follow flag that pins the view to the
// bottom as new lines arrive.
type model struct {
	source *feed

	lines  []string
	offset int
	follow bool

	width  int
	height int
}

func newModel(src *feed) model {
	return model{source: src, follow: true}
}

func waitForLine(ch <-chan string) tea.Cmd {
	return func() tea.Msg {
		return lineMsg(<-ch)
	}
}

func (m model) Init() tea.Cmd {
	return waitForLine(m.source.lines)
}

func (m model) contentHeight() int {
	h := m.height - 1 // one line reserved for the status bar
	if h < 1 {
		h = 1
	}
	return h
}

func (m model) maxOffset() int {
	max := len(m.lines) - m.contentHeight()
	if max < 0 {
		max = 0
	}
	return max
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case lineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > maxLines {
			drop := len(m.lines) - maxLines
			m.lines = m.lines[drop:]
		}
		if m.follow {
			m.offset = m.maxOffset()
		}
		return m, waitForLine(m.source.lines)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			m.follow = false
			if m.offset > 0 {
				m.offset--
			}
		case "down", "j":
			m.offset++
			if m.offset >= m.maxOffset() {
				m.offset = m.maxOffset()
				m.follow = true
			}
		case "pgup":
			m.follow = false
			m.offset -= m.contentHeight()
			if m.offset < 0 {
				m.offset = 0
			}
		case "pgdown":
			m.offset += m.contentHeight()
			if m.offset >= m.maxOffset() {
				m.offset = m.maxOffset()
				m.follow = true
			}
		case "g", "home":
			m.follow = false
			m.offset = 0
		case "G", "end":
			m.follow = true
			m.offset = m.maxOffset()
		}
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	h := m.contentHeight()
	start := m.offset
	if start > len(m.lines) {
		start = len(m.lines)
	}
	end := start + h
	if end > len(m.lines) {
		end = len(m.lines)
	}

	var body strings.Builder
	for _, line := range m.lines[start:end] {
		body.WriteString(line)
		body.WriteByte('\n')
	}
	for i := end - start; i < h; i++ {
		body.WriteByte('\n')
	}

	mode := "follow"
	if !m.follow {
		mode = "scroll"
	}
	statusText := "blockproxy  " + mode + "  (q quit, g/G top/bottom)"
	if m.width > 0 {
		statusText = ansi.Truncate(statusText, m.width, "…")
	}
	status := statusStyle.Render(statusText)
	return body.String() + status
}
