package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/clothsim/internal/sim"
)

const (
	canvasWidth     = 80
	canvasHeight    = 24
	historyCapacity = 600
	maxTickRate     = 60
	minParamStep    = 0.01
)

type TickMsg time.Time

// Model is the bubbletea model of the live view. It advances the system one
// frame per tick while running.
type Model struct {
	sys          sim.System
	fps          float64
	substeps     int
	displayScale float64

	canvas *Canvas
	camera *Camera

	frame   int
	t       float64
	running bool
	help    bool
	notice  string

	params        map[string]float64
	initialParams map[string]float64
	paramKeys     []string
	selected      int

	energyHistory []float64
	strainHistory []float64
}

// NewModel builds a live view for sys. displayScale divides galaxy
// coordinates before projection and is ignored for cloth.
func NewModel(sys sim.System, fps float64, substeps int, displayScale float64) Model {
	m := Model{
		sys:           sys,
		fps:           fps,
		substeps:      substeps,
		displayScale:  displayScale,
		canvas:        NewCanvas(canvasWidth, canvasHeight),
		camera:        FitCamera(sys, displayScale),
		running:       true,
		params:        make(map[string]float64),
		initialParams: make(map[string]float64),
		energyHistory: make([]float64, 0, historyCapacity),
		strainHistory: make([]float64, 0, historyCapacity),
	}
	if c, ok := sys.(sim.Configurable); ok {
		for k, v := range c.GetParams() {
			m.params[k] = v
			m.initialParams[k] = v
			m.paramKeys = append(m.paramKeys, k)
		}
	}
	sort.Strings(m.paramKeys)
	m.record(sys.Snapshot())
	return m
}

func (m Model) tick() tea.Cmd {
	rate := m.fps
	if rate <= 0 || rate > maxTickRate {
		rate = maxTickRate
	}
	return tea.Tick(time.Duration(float64(time.Second)/rate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "tab", "n":
			m.cycleParam()
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "a":
			m.addBody()
		case "d":
			m.removeBody()
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		case "?":
			m.help = !m.help
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one frame and records the plotted series.
func (m *Model) step() {
	m.sys.Advance(m.fps, m.substeps)
	m.frame++
	if m.fps > 0 {
		m.t += 1 / m.fps
	}
	state := m.sys.Snapshot()
	if !state.IsValid() {
		m.running = false
		m.notice = fmt.Sprintf("non-finite state at frame %d, paused", m.frame)
	}
	m.record(state)
}

func (m *Model) record(s sim.State) {
	m.energyHistory = appendCapped(m.energyHistory, s.Energy)
	m.strainHistory = appendCapped(m.strainHistory, s.Strain)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[len(h)-historyCapacity:]
	}
	return h
}

func (m *Model) reset() {
	m.sys.Reset()
	m.frame, m.t = 0, 0
	m.energyHistory = m.energyHistory[:0]
	m.strainHistory = m.strainHistory[:0]
	if c, ok := m.sys.(sim.Configurable); ok {
		for k, v := range m.initialParams {
			m.params[k] = v
			c.SetParam(k, v)
		}
	}
	m.record(m.sys.Snapshot())
}

func (m *Model) cycleParam() {
	if len(m.paramKeys) == 0 {
		return
	}
	m.selected = (m.selected + 1) % len(m.paramKeys)
}

func (m *Model) adjustParam(factor float64) {
	c, ok := m.sys.(sim.Configurable)
	if !ok || len(m.paramKeys) == 0 {
		return
	}
	key := m.paramKeys[m.selected]
	v := m.params[key] * factor
	if v == 0 && factor > 1 {
		v = zeroStep(m.initialParams[key])
	}
	c.SetParam(key, v)
	m.params[key] = c.GetParams()[key]
}

// zeroStep is the value an increase moves a zero parameter to: a hundredth of
// its initial value, or minParamStep when that was zero as well.
func zeroStep(initial float64) float64 {
	if initial != 0 {
		return math.Abs(initial) / 100
	}
	return minParamStep
}

func (m *Model) addBody() {
	g, ok := m.sys.(*sim.GalaxySystem)
	if !ok {
		return
	}
	b, err := g.Galaxy().AddRandomBody()
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = "added " + b.Name
	m.camera = FitCamera(m.sys, m.displayScale)
}

func (m *Model) removeBody() {
	g, ok := m.sys.(*sim.GalaxySystem)
	if !ok {
		return
	}
	if err := g.Galaxy().RemoveLast(); err != nil {
		m.notice = err.Error()
		return
	}
	m.camera = FitCamera(m.sys, m.displayScale)
}

func (m Model) View() string {
	Draw(m.canvas, m.sys, m.camera, m.displayScale)
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.sys.Name())) + "\n")
	if m.running {
		s.WriteString(runningStyle.Render("RUNNING"))
	} else {
		s.WriteString(pausedStyle.Render("PAUSED"))
	}
	s.WriteString("\n\n")
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	_, isCloth := m.sys.(*sim.ClothSystem)
	if isCloth && len(m.strainHistory) > 1 {
		chart := asciigraph.Plot(m.strainHistory, asciigraph.Height(3), asciigraph.Width(30), asciigraph.Caption("Max strain"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d", m.frame)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.4g", last(m.energyHistory))) + "\n")
	if isCloth {
		s.WriteString(labelStyle.Render("Strain") + valueStyle.Render(fmt.Sprintf("%.4f", last(m.strainHistory))) + "\n")
	}
	if g, ok := m.sys.(*sim.GalaxySystem); ok {
		s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d (+%d asteroids)", g.Galaxy().Size(), len(g.Galaxy().Asteroids()))) + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	if len(m.paramKeys) == 0 {
		s.WriteString(labelStyle.Render("  (none)") + "\n")
	}
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-14s %s %.4g", k, paramBar(m.params[k], m.initialParams[k], 10), m.params[k])
		if i == m.selected {
			s.WriteString(activeParamStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}
	if m.notice != "" {
		s.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	view := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.help {
		return helpBoxStyle.Render(helpText) + "\n" + view
	}
	return view
}

const helpText = `Space    pause / resume
.        single frame while paused
R        reset
Tab/N    next parameter
Up/K     parameter +5%
Down/J   parameter -5%
A / D    add random body / remove farthest body
x y z    rotate (shift reverses)
+ / -    zoom
Q        quit`

func last(h []float64) float64 {
	if len(h) == 0 {
		return 0
	}
	return h[len(h)-1]
}

// Run starts the live view on the alternate screen and blocks until quit.
func Run(sys sim.System, fps float64, substeps int, displayScale float64) error {
	_, err := tea.NewProgram(NewModel(sys, fps, substeps, displayScale), tea.WithAltScreen()).Run()
	return err
}
