package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/orbsim/internal/input"
	"github.com/san-kum/orbsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 18
	historyCapacity = 300
)

type TickMsg time.Time

// Options configures the interactive view.
type Options struct {
	Title string
	Dt    float32
	FPS   int
	// Hold is how long a key counts as held after its last press event.
	// Terminals only report presses, so auto-repeat keeps a key held.
	Hold  time.Duration
	Theme string
}

// Model drives a sim.Driver from terminal key events and renders the scene.
type Model struct {
	driver    *sim.Driver
	keyboard  *input.Keyboard
	lastPress map[input.Key]time.Time
	opts      Options
	theme     Theme
	canvas    *Canvas
	window    Window
	heights   []float64
	showHelp  bool
	quitting  bool
	now       func() time.Time
}

func NewModel(d *sim.Driver, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Dt <= 0 {
		opts.Dt = 1 / float32(opts.FPS)
	}
	if opts.Hold <= 0 {
		opts.Hold = 550 * time.Millisecond
	}
	if opts.Title == "" {
		opts.Title = "orbsim"
	}
	return Model{
		driver:    d,
		keyboard:  input.NewKeyboard(),
		lastPress: make(map[input.Key]time.Time),
		opts:      opts,
		theme:     GetTheme(opts.Theme),
		canvas:    NewCanvas(canvasWidth, canvasHeight),
		window:    DefaultWindow,
		heights:   make([]float64, 0, historyCapacity),
		now:       time.Now,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// keyFor maps terminal keys to simulation keys.
func keyFor(s string) (input.Key, bool) {
	switch s {
	case "e", " ":
		return input.KeyInteract, true
	case "g":
		return input.KeyGravity, true
	case "r":
		return input.KeyReset, true
	case "x":
		return input.KeySave, true
	case "esc", "q":
		return input.KeyExit, true
	}
	return 0, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "?":
			m.showHelp = !m.showHelp
		case "t":
			m.theme = NextTheme(m.theme)
		default:
			if k, ok := keyFor(msg.String()); ok {
				m.lastPress[k] = m.now()
			}
		}
	case TickMsg:
		now := time.Time(msg)
		in := m.keyboard.Process(func(k input.Key) bool {
			last, ok := m.lastPress[k]
			return ok && now.Sub(last) < m.opts.Hold
		})
		if !m.driver.Tick(in, m.opts.Dt) {
			m.quitting = true
			return m, tea.Quit
		}
		m.record()
		if m.driver.Exited() {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) record() {
	m.heights = append(m.heights, float64(m.driver.Scene().Orb.Position.Y()))
	if len(m.heights) > historyCapacity {
		m.heights = m.heights[1:]
	}
}

// signals names the active flags of one input poll.
func signals(in input.State) string {
	var names []string
	if in.ShouldInteract {
		names = append(names, input.KeyInteract.String())
	}
	if in.ToggleGravity {
		names = append(names, input.KeyGravity.String())
	}
	if in.ResetPosition {
		names = append(names, input.KeyReset.String())
	}
	if in.SaveState {
		names = append(names, input.KeySave.String())
	}
	if in.ExitApp {
		names = append(names, input.KeyExit.String())
	}
	return strings.Join(names, " ")
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	t := m.theme
	scene := m.driver.Scene()
	orb := scene.Orb

	DrawScene(m.canvas, scene, m.window)
	canvas := t.panel().Render(lipgloss.NewStyle().Foreground(t.orbColor(orb.Energy)).Render(m.canvas.String()))

	var s strings.Builder
	s.WriteString(t.title().Render(strings.ToUpper(m.opts.Title)) + "\n")

	gravity := "OFF"
	if m.driver.Engine().GravityEnabled() {
		gravity = "ON"
	}
	s.WriteString(t.row("gravity", t.status(gravity == "ON").Render(gravity)) + "\n")
	s.WriteString(t.row("body", orb.Equilibrium.String()) + "\n")
	s.WriteString(t.row("time", fmt.Sprintf("%.2fs", m.driver.Time())) + "\n")
	s.WriteString(t.row("id", orb.ID) + "\n\n")
	s.WriteString(t.row("pos", fmt.Sprintf("%6.2f %6.2f %6.2f", orb.Position.X(), orb.Position.Y(), orb.Position.Z())) + "\n")
	s.WriteString(t.row("vel", fmt.Sprintf("%6.2f %6.2f %6.2f", orb.Velocity.X(), orb.Velocity.Y(), orb.Velocity.Z())) + "\n")
	s.WriteString(t.row("charge", t.ChargeBar(orb.Energy, 20)) + "\n")
	if in := m.keyboard.State(); in.Any() {
		s.WriteString(t.row("input", t.value().Render(signals(in))) + "\n")
	}
	if scene.Cube != nil {
		c := scene.Cube
		s.WriteString(t.row("cube", fmt.Sprintf("%6.2f %6.2f %6.2f", c.Position.X(), c.Position.Y(), c.Position.Z())) + "\n")
	}

	if len(m.heights) > 1 {
		graph := asciigraph.Plot(m.heights, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("height"))
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(t.Accent).Render(graph) + "\n")
	}

	if m.showHelp {
		s.WriteString(t.hint().Render("hold e charge · g gravity · r reset · x save\nt theme · ? help · esc/q quit"))
	} else {
		s.WriteString(t.hint().Render("? help"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, statsStyle.Render(s.String()))
}
