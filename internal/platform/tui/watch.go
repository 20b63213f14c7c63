package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/groupmotion/internal/core"
	"github.com/vovakirdan/groupmotion/internal/motion"
	"github.com/vovakirdan/groupmotion/internal/sim"
)

// Rows the watch view keeps for the header, stats and help lines.
const watchChrome = 3

// modeCycle is the order the mode key walks through.
var modeCycle = []motion.Mode{motion.Auto, motion.Serial, motion.Parallel}

// Builder creates a fresh, populated runner for a mode.
type Builder func(mode motion.Mode) (*sim.Runner, error)

// WatchModel is the Bubble Tea model for the live section heatmap.
type WatchModel struct {
	title    string
	build    Builder
	runner   *sim.Runner
	mode     motion.Mode
	screen   *core.Screen
	keys     WatchKeyMap
	help     help.Model
	width    int
	height   int
	tickRate int
	paused   bool
	last     motion.FrameStats
	err      error
	quitting bool
}

// NewWatchModel builds the first runner and sizes the heatmap.
func NewWatchModel(title string, build Builder, mode motion.Mode, tickRate, width, height int) (WatchModel, error) {
	r, err := build(mode)
	if err != nil {
		return WatchModel{}, err
	}
	m := WatchModel{
		title:    title,
		build:    build,
		runner:   r,
		mode:     mode,
		keys:     DefaultWatchKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
		tickRate: tickRate,
	}
	m.screen = core.NewScreen(max(1, width), max(1, height-watchChrome))
	m.help.Width = width
	return m, nil
}

// Init starts the tick loop.
func (m WatchModel) Init() tea.Cmd {
	return tickCmd(m.tickRate)
}

// Update handles messages and updates the model state.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.screen.Resize(max(1, msg.Width), max(1, msg.Height-watchChrome))
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if !m.paused {
			m.step()
		}
		return m, tickCmd(m.tickRate)
	}

	return m, nil
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused

	case key.Matches(msg, m.keys.Step):
		if m.paused {
			m.step()
		}

	case key.Matches(msg, m.keys.Mode):
		next := modeCycle[0]
		for i, md := range modeCycle {
			if md == m.mode {
				next = modeCycle[(i+1)%len(modeCycle)]
			}
		}
		m.rebuild(next)

	case key.Matches(msg, m.keys.Reset):
		m.rebuild(m.mode)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *WatchModel) step() {
	m.last = m.runner.Step()
}

// rebuild starts over with a fresh world in the given mode.
func (m *WatchModel) rebuild(mode motion.Mode) {
	r, err := m.build(mode)
	if err != nil {
		m.err = err
		return
	}
	m.runner = r
	m.mode = mode
	m.last = motion.FrameStats{}
	m.err = nil
}

// Stamp returns the engine frame the view has reached.
func (m WatchModel) Stamp() uint64 {
	return m.runner.Engine().Stamp()
}

// Mode returns the engine mode.
func (m WatchModel) Mode() motion.Mode {
	return m.mode
}

// Paused reports whether ticking is suspended.
func (m WatchModel) Paused() bool {
	return m.paused
}

// View renders the header, heatmap, stats and help.
func (m WatchModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	w := m.runner.World()
	state := "running"
	if m.paused {
		state = "paused"
	}
	header := fmt.Sprintf("%s  |  %s  |  frame %d  |  %s", m.title, m.mode, m.Stamp(), state)

	grid := w.Index.Occupancy(w.Index.Viewport())
	peak := DrawHeatmap(m.screen, grid)

	st := m.last
	stats := fmt.Sprintf("%v/frame  rot %d (%d obj, par %v)  moved %d  inline %d  tasks %d  chunks %d  active %d/%d  peak %d",
		st.Duration.Round(time.Microsecond), st.Rotations, st.Rotated, st.ParallelRotation, st.Moved,
		st.InlineBatches, st.Tasks, st.Chunks, w.Active(), w.Scene.Len(), peak)
	if m.err != nil {
		stats = "error: " + m.err.Error()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(stats))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// RunWatch starts the watch view in the alternate screen.
func RunWatch(m WatchModel) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
