// Package tui hosts the flow field in a terminal, drawn with braille dots.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm-cable/perlinflow/game"
	"github.com/pthm-cable/perlinflow/palette"
	"github.com/pthm-cable/perlinflow/renderer"
)

// statusLines is the number of terminal rows below the canvas.
const statusLines = 2

var (
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	accent = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warn   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// frameMsg carries one rendered frame to the program.
type frameMsg struct {
	canvas string
	status game.Status
}

// model is the bubbletea model. Callbacks run on the program's goroutine.
type model struct {
	canvasStyle lipgloss.Style
	frame       string
	status      game.Status
	width       int
	height      int

	onResize      func(cols, rows int)
	onTogglePause func()
	onToggleStick func()
}

func newModel(colors renderer.Colors) model {
	return model{
		canvasStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Hex(colors.Particle))).
			Background(lipgloss.Color(palette.Hex(colors.Background))),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.onResize != nil {
			m.onResize(canvasSize(msg.Width, msg.Height))
		}
	case frameMsg:
		m.frame = msg.canvas
		m.status = msg.status
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case " ", "p":
		if m.onTogglePause != nil {
			m.onTogglePause()
		}
	case "s":
		if m.onToggleStick != nil {
			m.onToggleStick()
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	if m.frame != "" {
		b.WriteString(m.canvasStyle.Render(m.frame))
		b.WriteByte('\n')
	}
	b.WriteString(statusLine(m.status))
	b.WriteByte('\n')
	b.WriteString(dim.Render("space pause  s sticks  q quit"))
	return b.String()
}

func statusLine(s game.Status) string {
	state := accent.Render("running")
	if s.Paused {
		state = warn.Render("paused")
	}
	l := s.Layout
	return fmt.Sprintf("%s %s  %s",
		state,
		dim.Render(fmt.Sprintf("tick %d  %dx%d lattice  %s  sticks %s", s.Tick, l.HorizontalGridCount, l.VerticalGridCount, l.Profile, s.StickMode)),
		dim.Render(s.Perf.AvgTickDuration.Round(time.Microsecond).String()),
	)
}

// canvasSize returns the braille grid that fits a terminal of the given size.
func canvasSize(width, height int) (cols, rows int) {
	return max(width, 0), max(height-statusLines, 0)
}
