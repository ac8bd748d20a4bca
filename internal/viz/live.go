package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ferrosim/internal/config"
	"github.com/san-kum/ferrosim/internal/engine"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 240
)

type TickMsg time.Time

// Model is the interactive live view: one engine stepped from the tea tick
// loop, a 3D scene, and a stats sidebar. All input mutates the engine only
// through its command queue, never mid-step.
type Model struct {
	cfg   *config.Config
	eng   *engine.Engine
	scene *Scene

	preset   string
	selected int
	dt       float64

	liveHistory []float64
	showHelp    bool
	status      string
}

func NewModel(cfg *config.Config, eng *engine.Engine, preset string) Model {
	dt := cfg.Dt
	if dt > config.MaxDt {
		dt = config.MaxDt // bound per-frame integration error
	}
	return Model{
		cfg:         cfg,
		eng:         eng,
		scene:       NewScene(width, height, cfg.Engine.Bounds.MaxX, cfg.Engine.Bounds.MaxZ),
		preset:      preset,
		dt:          dt,
		liveHistory: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		m.eng.Step(m.dt)

		st := m.eng.Stats()
		if len(m.liveHistory) >= historyCapacity {
			m.liveHistory = m.liveHistory[1:]
		}
		m.liveHistory = append(m.liveHistory, float64(st.Live))

		return m, tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		if m.eng.Running() {
			m.eng.Pause()
		} else {
			m.eng.Resume()
		}
	case "r":
		if eng, err := m.cfg.BuildEngine(); err == nil {
			m.eng = eng
			m.liveHistory = m.liveHistory[:0]
			m.status = ""
		} else {
			m.status = err.Error()
		}
	case "b":
		if err := m.eng.QueueBurst(25); err != nil {
			m.status = err.Error()
		}
	case "tab":
		if n := len(m.eng.Magnets()); n > 0 {
			m.selected = (m.selected + 1) % n
		}
	case "left":
		m.nudgeMagnet(-0.5, 0, 0)
	case "right":
		m.nudgeMagnet(0.5, 0, 0)
	case "up":
		m.nudgeMagnet(0, 0, -0.5)
	case "down":
		m.nudgeMagnet(0, 0, 0.5)
	case "u":
		m.nudgeMagnet(0, 0.5, 0)
	case "d":
		m.nudgeMagnet(0, -0.5, 0)
	case "+", "=":
		m.adjustStrength(0.1)
	case "-":
		m.adjustStrength(-0.1)
	case "x":
		m.scene.Camera.RotateX(0.1)
	case "y":
		m.scene.Camera.RotateY(0.1)
	case "z":
		m.scene.Camera.RotateZ(0.1)
	case "i":
		m.scene.Camera.ZoomIn()
	case "o":
		m.scene.Camera.ZoomOut()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) nudgeMagnet(dx, dy, dz float64) {
	ms := m.eng.Magnets()
	if m.selected >= len(ms) {
		return
	}
	pos := ms[m.selected].Pos
	pos.X += dx
	pos.Y += dy
	pos.Z += dz
	if err := m.eng.QueueMagnetMove(m.selected, pos); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) adjustStrength(delta float64) {
	ms := m.eng.Magnets()
	if m.selected >= len(ms) {
		return
	}
	if err := m.eng.QueueMagnetStrength(m.selected, ms[m.selected].Strength+delta); err != nil {
		m.status = err.Error()
	}
}

func (m Model) View() string {
	m.scene.Render(m.eng, m.selected)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		canvasStyle.Render(m.scene.Canvas.String()),
		statsStyle.Render(m.statsPanel()),
	)
}

func (m Model) statsPanel() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("ferrosim · " + m.preset))
	b.WriteString("\n")

	st := m.eng.Stats()
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("time", fmt.Sprintf("%.1fs", st.Time))
	row("live", fmt.Sprintf("%d", st.Live))
	row("pooled", fmt.Sprintf("%d", st.Pooled))
	row("kinetic", fmt.Sprintf("%.3f", st.Kinetic))
	row("settled", fmt.Sprintf("%d", st.Settled))

	ms := m.eng.Magnets()
	if m.selected < len(ms) {
		sel := ms[m.selected]
		row("magnet", fmt.Sprintf("%d/%d %s", m.selected+1, len(ms), sel.Type))
		row("strength", fmt.Sprintf("%.1f", sel.Strength))
	}

	if !m.eng.Running() {
		b.WriteString("\n" + pausedStyle.Render("PAUSED") + "\n")
	}

	if len(m.liveHistory) > 2 {
		graph := asciigraph.Plot(m.liveHistory,
			asciigraph.Height(4),
			asciigraph.Width(32),
		)
		b.WriteString(graphStyle.Render(graph) + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + pausedStyle.Render(m.status) + "\n")
	}

	if m.showHelp {
		b.WriteString(helpStyle.Render(strings.Join([]string{
			"space pause · r reset · b burst",
			"tab magnet · arrows/u/d move",
			"+/- strength · x/y/z rotate",
			"i/o zoom · q quit",
		}, "\n")))
	} else {
		b.WriteString(helpStyle.Render("? help"))
	}

	return b.String()
}

// Run blocks until the user quits the live view.
func Run(cfg *config.Config, eng *engine.Engine, preset string) error {
	p := tea.NewProgram(NewModel(cfg, eng, preset), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
