package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rmarien/botsim/internal/controller"
	"github.com/rmarien/botsim/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const (
	arenaW = 72
	arenaH = 26
)

// Live is the bubbletea model driving a real-time simulation view.
type Live struct {
	sim      *sim.Simulator
	scenario string
	speed    float64
	paused   bool
	err      error

	canvas *canvas
	width  int
	height int
}

// NewLive wraps a loaded simulator. The world window defaults to a 2x2 m
// arena centered on the origin when the scene has no bounds.
func NewLive(s *sim.Simulator, scenario string, minX, minY, maxX, maxY float64) *Live {
	if maxX <= minX {
		minX, maxX = -1, 1
	}
	if maxY <= minY {
		minY, maxY = -1, 1
	}
	return &Live{
		sim:      s,
		scenario: scenario,
		speed:    1.0,
		canvas:   newCanvas(arenaW, arenaH, minX, minY, maxX, maxY),
		width:    80,
		height:   30,
	}
}

// Run starts the bubbletea program and blocks until quit.
func (l *Live) Run() error {
	_, err := tea.NewProgram(l, tea.WithAltScreen()).Run()
	return err
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (l *Live) Init() tea.Cmd { return tick() }

func (l *Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return l, tea.Quit
		case " ":
			l.paused = !l.paused
		case "+", "=":
			if l.speed < 8 {
				l.speed *= 2
			}
		case "-":
			if l.speed > 0.25 {
				l.speed /= 2
			}
		case "r":
			for _, rid := range l.sim.RobotIDs() {
				if err := l.sim.ResetToSpawn(rid); err != nil {
					l.err = err
				}
			}
		case "e":
			l.sim.ClearControllerError("")
		}
		return l, nil
	case tea.WindowSizeMsg:
		l.width = msg.Width
		l.height = msg.Height
		return l, nil
	case tickMsg:
		if !l.paused && l.err == nil {
			// Step enough sim time to cover one frame at the chosen speed.
			steps := int(0.033 * l.speed / l.sim.Dt())
			if steps < 1 {
				steps = 1
			}
			for i := 0; i < steps; i++ {
				if err := l.sim.Step(); err != nil {
					l.err = err
					break
				}
			}
		}
		return l, tick()
	}
	return l, nil
}

func (l *Live) View() string {
	l.canvas.clear()
	for _, body := range l.sim.Bodies() {
		if body.CanMove {
			l.canvas.drawBody(body, '*', '@')
		} else {
			l.canvas.drawBody(body, '#', '#')
		}
	}

	var b strings.Builder
	b.WriteString(cyan.Render(fmt.Sprintf(" %s", l.scenario)))
	b.WriteString(dim.Render(fmt.Sprintf("  t=%.2fs  step=%d  speed=%.2gx", l.sim.Time(), l.sim.StepIndex(), l.speed)))
	if l.paused {
		b.WriteString(yellow.Render("  [paused]"))
	}
	b.WriteString("\n")
	border := dim.Render(" +" + strings.Repeat("-", arenaW) + "+")
	b.WriteString(border + "\n")
	for _, row := range l.canvas.rows() {
		b.WriteString(dim.Render(" |") + white.Render(row) + dim.Render("|") + "\n")
	}
	b.WriteString(border + "\n")

	b.WriteString(l.statusLine())
	b.WriteString(dim.Render(" space pause  +/- speed  r reset  e clear errors  q quit") + "\n")
	return b.String()
}

func (l *Live) statusLine() string {
	var b strings.Builder
	for _, rid := range l.sim.RobotIDs() {
		b.WriteString(green.Render(" " + rid))
		readings := l.sim.LastReadings(rid)
		keys := make([]string, 0, len(readings))
		for k := range readings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if v := controller.Float(readings, k, -1); v >= 0 {
				b.WriteString(dim.Render(fmt.Sprintf(" %s=%.2f", k, v)))
			}
		}
		b.WriteString("\n")
	}
	if w := l.sim.LastWarning(); w != "" {
		b.WriteString(yellow.Render(" warning: "+w) + "\n")
	}
	for rid, err := range l.sim.ControllerErrors() {
		b.WriteString(red.Render(fmt.Sprintf(" %s: %v", rid, err)) + "\n")
	}
	if l.err != nil {
		b.WriteString(red.Render(fmt.Sprintf(" fatal: %v", l.err)) + "\n")
	}
	return b.String()
}
