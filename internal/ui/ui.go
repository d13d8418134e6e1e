// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-skymap/internal/catalog"
	"github.com/litescript/ls-skymap/internal/logging"
	"github.com/litescript/ls-skymap/internal/nav"
	"github.com/litescript/ls-skymap/internal/richtext"
	"github.com/litescript/ls-skymap/internal/scene"
	"github.com/litescript/ls-skymap/internal/search"
	"github.com/litescript/ls-skymap/internal/sky"
	"github.com/litescript/ls-skymap/internal/version"
)

const (
	headerHeight = 1
	footerHeight = 1

	sidebarMin = 24
	sidebarMax = 48

	// Cells moved per arrow key press.
	panStep = 5.0
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	store *catalog.Store
	nav   nav.Machine
	scene *scene.Scene
	log   *logging.Logger

	// Widgets
	input    textinput.Model
	detail   viewport.Model
	renderer *richtext.Renderer
	style    string // glamour style for the detail pane
	canvas   *scene.Canvas

	// UI state
	width     int
	height    int
	chartW    int
	chartH    int
	ready     bool
	statusMsg string
	cursor    int // highlighted candidate, -1 for none

	featured    catalog.Star
	hasFeatured bool

	refs      []richtext.Ref // cross-references in the shown document
	detailKey string

	// Mouse drag tracking
	dragging     bool
	moved        bool
	lastX, lastY int

	initCmd tea.Cmd
}

// New creates the root model. The machine's persisted focus, if any, is
// restored when the program starts.
func New(store *catalog.Store, machine nav.Machine, log *logging.Logger) Model {
	if log == nil {
		log = logging.Discard()
	}
	in := textinput.New()
	in.Placeholder = "搜尋星名 / 星官"
	in.Prompt = "/ "
	in.CharLimit = 32

	m := Model{
		store:  store,
		nav:    machine,
		scene:  scene.New(store),
		log:    log,
		input:  in,
		detail: viewport.New(0, 0),
		style:  "dark",
		cursor: -1,
	}
	m.featured, m.hasFeatured = store.Featured(time.Now())
	m.initCmd = m.nav.Restore()
	m.input.SetValue(m.nav.Input())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case tea.KeyMsg:
		if cmd, quit := m.handleKey(msg); quit {
			return m, tea.Quit
		} else if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		cmds = append(cmds, m.handleMouse(msg))

	default:
		if cmd, handled := m.nav.Update(msg); handled {
			cmds = append(cmds, cmd)
		} else {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.sync()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return nil, true
	}
	if m.input.Focused() {
		return m.handleInputKey(msg), false
	}

	switch msg.String() {
	case "q":
		return nil, true
	case "/":
		m.statusMsg = ""
		m.nav.FocusInput()
		return m.input.Focus(), false
	case "esc":
		m.cursor = -1
		return m.nav.SetQuery(""), false
	case "b":
		return m.nav.ToggleBrowsing(), false
	case "f":
		if m.hasFeatured {
			return m.nav.Select(m.featured.ID), false
		}
	case "+", "=":
		m.nav.Zoom(m.nav.Config().Gesture.ZoomStep)
	case "-", "_":
		m.nav.Zoom(1 / m.nav.Config().Gesture.ZoomStep)
	case "left", "h":
		m.nav.Drag(-panStep, 0)
	case "right", "l":
		m.nav.Drag(panStep, 0)
	case "up", "k":
		m.nav.Drag(0, -panStep)
	case "down", "j":
		m.nav.Drag(0, panStep)
	case "[", "pgup":
		m.detail.ScrollUp(m.detail.Height / 2)
	case "]", "pgdown":
		m.detail.ScrollDown(m.detail.Height / 2)
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '0')
		if n <= len(m.refs) {
			return m.nav.FollowReference(m.refs[n-1].Name), false
		}
	}
	return nil, false
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		return nil
	case "enter":
		m.input.Blur()
		if c := m.candidates(); m.cursor >= 0 && m.cursor < len(c) {
			id := c[m.cursor].ID
			m.cursor = -1
			return m.nav.Select(id)
		}
		return m.nav.Submit()
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return nil
	case "down", "tab":
		if m.cursor < len(m.candidates())-1 {
			m.cursor++
		}
		return nil
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != before {
		m.cursor = -1
		return tea.Batch(cmd, m.nav.SetQuery(v))
	}
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	col, row := msg.X, msg.Y-headerHeight
	inChart := col >= 0 && col < m.chartW && row >= 0 && row < m.chartH

	if !inChart && !m.dragging {
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			var cmd tea.Cmd
			m.detail, cmd = m.detail.Update(msg)
			return cmd
		}
		return nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.nav.Wheel(1)
		return nil
	case tea.MouseButtonWheelDown:
		m.nav.Wheel(-1)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.dragging, m.moved = true, false
		m.lastX, m.lastY = msg.X, msg.Y

	case tea.MouseActionMotion:
		if !m.dragging {
			return nil
		}
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		if dx == 0 && dy == 0 {
			return nil
		}
		m.moved = true
		m.lastX, m.lastY = msg.X, msg.Y
		// Rows are taller than columns are wide.
		m.nav.Drag(float64(dx), float64(dy)*sky.DefaultCellAspect)

	case tea.MouseActionRelease:
		wasClick := m.dragging && !m.moved
		m.dragging = false
		if wasClick && inChart {
			if h, ok := m.scene.LabelAt(col, row); ok {
				m.log.Debug("click %s %s", h.ID, h.Text)
				return m.nav.ClickLabel(h.ID)
			}
		}
	}
	return nil
}

// candidates returns the selectable entries while searching.
func (m *Model) candidates() []search.Entry {
	s, ok := m.nav.State().(nav.Searching)
	if !ok {
		return nil
	}
	return s.Candidates()
}

func (m *Model) resize() {
	side := m.width / 3
	if side < sidebarMin {
		side = sidebarMin
	}
	if side > sidebarMax {
		side = sidebarMax
	}
	if side > m.width {
		side = m.width
	}

	m.chartW = m.width - side - 1
	m.chartH = m.height - headerHeight - footerHeight
	if m.chartW < 0 {
		m.chartW = 0
	}
	if m.chartH < 0 {
		m.chartH = 0
	}
	m.canvas = scene.NewCanvas(m.chartW, m.chartH)

	m.input.Width = side - 4
	m.detail.Width = side
	m.detail.Height = m.chartH - 2
	if m.detail.Height < 0 {
		m.detail.Height = 0
	}

	r, err := richtext.New(side-2, richtext.WithStyle(m.style))
	if err != nil {
		m.log.Warn("detail renderer: %v", err)
		r = nil
	}
	m.renderer = r
	m.detailKey = ""
}

// sync repaints the chart from the machine's view state and refreshes the
// sidebar. It runs after every update.
func (m *Model) sync() {
	if v := m.nav.Input(); m.input.Value() != v {
		m.input.SetValue(v)
	}
	if m.cursor >= len(m.candidates()) {
		m.cursor = -1
	}
	if !m.ready || m.canvas == nil || m.chartW == 0 || m.chartH == 0 {
		return
	}

	start := time.Now()
	vp := sky.NewViewport(m.chartW, m.chartH)
	m.scene.Apply(m.nav.View(), vp, m.nav.LabelsVisible())
	m.canvas.Draw(m.scene)
	m.log.Since("render", start)

	m.refreshDetail()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.chartW < 20 || m.chartH < 8 {
		return "Sky chart requires larger terminal"
	}

	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("60")).
		Render(strings.TrimSuffix(strings.Repeat("│\n", m.chartH), "\n"))
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.canvas.Render(), sep, m.renderSidebar())

	return m.renderHeader() + "\n" + body + "\n" + m.renderFooter()
}

func (m Model) renderSidebar() string {
	side := m.width - m.chartW - 1
	box := lipgloss.NewStyle().Width(side).Height(m.chartH).MaxHeight(m.chartH)
	return box.Render(m.input.View() + "\n\n" + m.detail.View())
}

func (m Model) renderHeader() string {
	title := "ls-skymap"
	var b strings.Builder
	for i, r := range title {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(i, len(title))))
		b.WriteString(style.Render(string(r)))
	}

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	v := m.nav.View()
	center := v.Center()
	parts := []string{
		b.String(),
		dim.Render("v" + version.Version),
		dim.Render(fmt.Sprintf("RA %s  Dec %s  ×%.2f", sky.FormatRA(center.Lon), sky.FormatDec(center.Lat), v.Scale)),
	}
	if st, sep, ok := m.store.Nearest(center); ok {
		parts = append(parts, dim.Render(fmt.Sprintf("near %s %.1f°", st.Name, sep)))
	}
	if m.nav.Browsing() {
		parts = append(parts, accent.Render("● BROWSING"))
	}
	if m.nav.Pending() {
		parts = append(parts, accent.Render("… locating"))
	}
	return " " + strings.Join(parts, dim.Render(" | "))
}

func (m Model) renderFooter() string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	if m.statusMsg != "" {
		return " " + m.statusMsg
	}
	help := "drag/arrows pan · wheel/+/- zoom · click label focus · / search · f star of the day · b browse · esc overview · q quit"
	if len(m.refs) > 0 {
		help = "1-9 follow reference · [ ] scroll · " + help
	}
	return " " + dim.Render(help)
}

// gradientColor returns a hex color for a position in the title gradient:
// blue to purple to magenta.
func gradientColor(i, n int) string {
	t := 0.0
	if n > 1 {
		t = float64(i) / float64(n-1)
	}
	var r, g, b float64
	if t < 0.5 {
		u := t / 0.5
		r, g, b = 59+u*(139-59), 130+u*(92-130), 246
	} else {
		u := (t - 0.5) / 0.5
		r, g, b = 139+u*(217-139), 92+u*(70-92), 246+u*(239-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}
