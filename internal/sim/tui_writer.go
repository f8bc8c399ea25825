package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"starops-sim/internal/battlelog"
	"starops-sim/internal/mission"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a battle log line for the viewport.
type logMsg struct{ line string }

// hudMsg carries a HUD section toggle.
type hudMsg struct {
	section string
	visible bool
}

// stateMsg carries a mission state update.
type stateMsg struct{ battlelog.StateRow }

// craftMsg carries a spacecraft status snapshot.
type craftMsg struct{ craft []CraftStatus }

// setPauseMsg registers a callback to toggle the simulation pause flag.
type setPauseMsg struct{ fn func() bool }

const maxLogLines = 1000

// TUIWriter renders battle log rows in a bubbletea TUI.
type TUIWriter struct {
	program     teaProgram
	eventColors map[string]string
	colorIdx    int
	craftSource func() []CraftStatus
	done        chan struct{}
	sendSignal  atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(def *mission.Mission) *TUIWriter {
	ec := make(map[string]string)
	w := &TUIWriter{eventColors: ec, done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(def, ec)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	for _, ev := range def.Events {
		w.getEventColor(ev.Name)
	}
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func (w *TUIWriter) getEventColor(name string) string {
	if c, ok := w.eventColors[name]; ok {
		return c
	}
	c := teamPalette[w.colorIdx%len(teamPalette)]
	w.eventColors[name] = c
	w.colorIdx++
	return c
}

// SetPauser registers the callback the TUI uses for its pause key.
func (w *TUIWriter) SetPauser(fn func() bool) {
	w.program.Send(setPauseMsg{fn: fn})
}

// SetCraftSource registers the snapshot source backing the craft table.
// The table refreshes on every state row.
func (w *TUIWriter) SetCraftSource(fn func() []CraftStatus) {
	w.craftSource = fn
}

// WriteAction implements ActionWriter.
func (w *TUIWriter) WriteAction(row battlelog.ActionRow) error {
	eColor := w.getEventColor(row.Event)
	line := fmt.Sprintf("%s[%s]%s %sACTION%s %s%s%s kind=%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorYellow, colorReset,
		eColor, row.Event, colorReset, row.Kind)
	if row.Command != "" {
		line += fmt.Sprintf(" command=%s", row.Command)
	}
	if len(row.Subjects) > 0 {
		line += fmt.Sprintf(" subjects=%s", strings.Join(row.Subjects, ","))
	}
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteActions outputs multiple action rows.
func (w *TUIWriter) WriteActions(rows []battlelog.ActionRow) error {
	for _, r := range rows {
		_ = w.WriteAction(r)
	}
	return nil
}

// WriteMessage implements MessageWriter.
func (w *TUIWriter) WriteMessage(row battlelog.MessageRow) error {
	style := colorCyan
	if row.Urgent {
		style = colorRed
	}
	text := row.Text
	if text == "" {
		text = "<" + row.Key + ">"
	}
	sender := row.Sender
	if sender == "" {
		sender = "mission"
	}
	line := fmt.Sprintf("%s[%s]%s %sMSG%s %s: %s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		style, colorReset, sender, text)
	w.program.Send(logMsg{line: line})
	return nil
}

// WriteMessages outputs multiple message rows.
func (w *TUIWriter) WriteMessages(rows []battlelog.MessageRow) error {
	for _, r := range rows {
		_ = w.WriteMessage(r)
	}
	return nil
}

// WriteHud implements HudWriter.
func (w *TUIWriter) WriteHud(row battlelog.HudRow) error {
	w.program.Send(hudMsg{section: row.Section, visible: row.Visible})
	return nil
}

// WriteState implements StateWriter.
func (w *TUIWriter) WriteState(row battlelog.StateRow) error {
	w.program.Send(stateMsg{StateRow: row})
	if w.craftSource != nil {
		w.program.Send(craftMsg{craft: w.craftSource()})
	}
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	def          *mission.Mission
	table        table.Model
	vp           viewport.Model
	logs         []string
	hud          map[string]bool
	state        battlelog.StateRow
	pause        func() bool
	paused       bool
	wrap         bool
	autoscroll   bool
	help         bool
	header       string
	headerHeight int
	height       int
	eventColors  map[string]string
}

func newTUIModel(def *mission.Mission, eventColors map[string]string) tuiModel {
	cols := []table.Column{
		{Title: "Craft", Width: 18},
		{Title: "Team", Width: 12},
		{Title: "Hull", Width: 6},
		{Title: "Shield", Width: 6},
		{Title: "Target", Width: 18},
		{Title: "Status", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return tuiModel{
		def:         def,
		table:       t,
		vp:          viewport.New(0, 0),
		hud:         make(map[string]bool),
		eventColors: eventColors,
		autoscroll:  true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "p":
			if m.pause != nil {
				m.paused = m.pause()
			}
			return m, nil
		case "h", "?":
			m.help = !m.help
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case hudMsg:
		m.hud[msg.section] = msg.visible
	case stateMsg:
		m.state = msg.StateRow
	case craftMsg:
		m.setCraftRows(msg.craft)
	case setPauseMsg:
		m.pause = msg.fn
	}
	return m, nil
}

func (m *tuiModel) setCraftRows(craft []CraftStatus) {
	rows := make([]table.Row, 0, len(craft))
	for _, c := range craft {
		status := "alive"
		if c.Destroyed {
			status = "destroyed"
		} else if c.Away {
			status = "away"
		}
		rows = append(rows, table.Row{
			c.Name, c.Team,
			fmt.Sprintf("%.0f", c.Hull),
			fmt.Sprintf("%.0f", c.Shield),
			c.Target, status,
		})
	}
	m.table.SetRows(rows)
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())
	h := m.height - m.headerHeight - m.table.Height() - bottomHeight - 3
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.renderHeader(),
		divider,
		m.table.View(),
		divider,
		m.vp.View(),
		divider,
		m.renderBottom(),
	}
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mission: %s\n", m.def.Name)
	b.WriteString("Events\n")
	for i, ev := range m.def.Events {
		prefix := "├─"
		if i == len(m.def.Events)-1 {
			prefix = "└─"
		}
		c := m.eventColors[ev.Name]
		fmt.Fprintf(&b, "%s %s%s%s (%d conditions, %d actions)\n",
			prefix, c, ev.Name, colorReset, len(ev.Trigger.Conditions), len(ev.Actions))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderBottom() string {
	stateColor := colorBlue
	switch mission.State(m.state.State) {
	case mission.StateCompleted:
		stateColor = colorGreen
	case mission.StateFailed:
		stateColor = colorRed
	}
	line := fmt.Sprintf("%sSTATE%s %s%s%s alive=%d tick=%d t=%dms",
		colorBlue, colorReset,
		stateColor, m.state.State, colorReset,
		m.state.AliveCraft, m.state.Tick, m.state.MissionTimeMS)
	var visible []string
	for section, on := range m.hud {
		if on {
			visible = append(visible, section)
		}
	}
	if len(visible) > 0 {
		line += fmt.Sprintf(" hud=%s", strings.Join(visible, ","))
	}
	pauseColor := lipgloss.Color("10")
	if m.paused {
		pauseColor = lipgloss.Color("9")
	}
	running := lipgloss.NewStyle().Foreground(pauseColor).Render("●")
	return fmt.Sprintf("%s | Running %s | q quit, p pause, w wrap, s scroll, ? help", line, running)
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" p  toggle simulation pause",
		" w  toggle log line wrapping",
		" s  toggle auto-scroll",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
