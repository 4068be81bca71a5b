package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	profiledto "wellness/internal/modules/profile/dto"
	sessiondto "wellness/internal/modules/session/dto"
	"wellness/internal/ui/components"
	"wellness/internal/ui/theme"
	sessionview "wellness/internal/ui/views/session"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type sessionPort interface {
	Begin(ctx context.Context, kind string, minutes int) (sessiondto.StateOutput, error)
	Cancel(ctx context.Context) error
	Reset(ctx context.Context) error
	State(ctx context.Context) sessiondto.StateOutput
	Watch(ctx context.Context) <-chan sessiondto.StateOutput
	AwaitResult(ctx context.Context, runID string) (sessiondto.CompletionOutput, error)
}

type profilePort interface {
	Login(ctx context.Context, uid string) error
	Logout(ctx context.Context) error
	State(ctx context.Context) profiledto.StateOutput
	Watch(ctx context.Context) <-chan profiledto.StateOutput
}

// ─── async messages ───────────────────────────────────────────────────────────

type sessionStateMsg struct{ state sessiondto.StateOutput }

type profileStateMsg struct{ state profiledto.StateOutput }

type resultMsg struct {
	result sessiondto.CompletionOutput
	err    error
}

type actionDoneMsg struct {
	what string
	err  error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Longer  key.Binding
	Shorter key.Binding
	Start   key.Binding
	Cancel  key.Binding
	Back    key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/↓", "activity")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↑/↓", "activity")),
		Longer:  key.NewBinding(key.WithKeys("right", "+"), key.WithHelp("←/→", "minutes")),
		Shorter: key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/→", "minutes")),
		Start:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Cancel:  key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc", "cancel")),
		Back:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "back to setup")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Cancel, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Longer, k.Start},
		{k.Cancel, k.Back},
		{k.Help, k.Palette, k.Quit},
	}
}

// paletteHints must match the switch in executePalette.
var paletteHints = []string{
	"begin <activity> <minutes>",
	"cancel",
	"reset",
	"login <uid>",
	"logout",
}

const (
	defaultMinutes = 5
	maxMinutes     = 180
)

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It renders whatever the session and
// profile usecases publish; all state changes go through their ports.
type Model struct {
	ctx     context.Context
	session sessionPort
	profile profilePort

	sessionCh <-chan sessiondto.StateOutput
	profileCh <-chan profiledto.StateOutput

	kinds    []string
	selected int
	minutes  int

	state   sessiondto.StateOutput
	result  *sessiondto.CompletionOutput
	account profiledto.StateOutput

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	spinner  spinner.Model
	status   string
	width    int
	height   int
}

// NewModel subscribes to both ports for the lifetime of ctx.
func NewModel(ctx context.Context, session sessionPort, profile profilePort, kinds []string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		ctx:       ctx,
		session:   session,
		profile:   profile,
		sessionCh: session.Watch(ctx),
		profileCh: profile.Watch(ctx),
		kinds:     kinds,
		minutes:   defaultMinutes,
		state:     session.State(ctx),
		account:   profile.State(ctx),
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(paletteHints),
		spinner:   sp,
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		listenSession(m.sessionCh),
		listenProfile(m.profileCh),
		m.spinner.Tick,
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		return m, nil

	case sessionStateMsg:
		prev := m.state
		m.state = msg.state
		var cmd tea.Cmd
		if msg.state.Phase == "SUMMARY" && (prev.Phase != "SUMMARY" || prev.RunID != msg.state.RunID) {
			m.result = nil
			cmd = m.awaitResultCmd(msg.state.RunID)
		}
		if msg.state.Phase != "SUMMARY" {
			m.result = nil
		}
		return m, tea.Batch(listenSession(m.sessionCh), cmd)

	case profileStateMsg:
		m.account = msg.state
		return m, listenProfile(m.profileCh)

	case resultMsg:
		if msg.err != nil {
			m.status = "result: " + msg.err.Error()
			return m, nil
		}
		if msg.result.RunID == m.state.RunID {
			r := msg.result
			m.result = &r
		}
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.status = msg.what + ": " + msg.err.Error()
		} else {
			m.status = msg.what
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if msg.String() == "?" || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Palette):
		return m, m.palette.Open()
	}

	switch m.state.Phase {
	case "ACTIVE":
		if key.Matches(msg, m.keys.Cancel) {
			return m, m.cancelCmd()
		}
	case "SUMMARY":
		if key.Matches(msg, m.keys.Back, m.keys.Start, m.keys.Cancel) {
			return m, m.resetCmd()
		}
	default:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.selected = (m.selected + len(m.kinds) - 1) % len(m.kinds)
		case key.Matches(msg, m.keys.Down):
			m.selected = (m.selected + 1) % len(m.kinds)
		case key.Matches(msg, m.keys.Longer):
			m.minutes = min(maxMinutes, m.minutes+1)
		case key.Matches(msg, m.keys.Shorter):
			m.minutes = max(1, m.minutes-1)
		case key.Matches(msg, m.keys.Start):
			return m, m.beginCmd(m.kinds[m.selected], m.minutes)
		}
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).
		Render(theme.Title.Render(" wellness ") + theme.Muted.Render(" "+strings.ToLower(m.phaseLabel())))
	statusBar := m.renderStatusBar()

	var content string
	switch {
	case m.showHelp:
		content = m.help.View(m.keys)
	case m.palette.Visible():
		content = m.palette.View()
	default:
		content = lipgloss.JoinHorizontal(lipgloss.Top, m.mainPane(), "  ", sessionview.Profile(m.account))
	}

	contentH := max(1, m.height-lipgloss.Height(header)-lipgloss.Height(statusBar))
	body := lipgloss.Place(max(m.width, lipgloss.Width(content)), contentH, lipgloss.Center, lipgloss.Center, content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) mainPane() string {
	switch m.state.Phase {
	case "ACTIVE":
		return sessionview.Active(m.state)
	case "SUMMARY":
		return sessionview.Summary(m.state, m.result, m.spinner.View())
	default:
		return sessionview.Setup(m.kinds, m.selected, m.minutes)
	}
}

func (m Model) phaseLabel() string {
	if m.state.Phase == "" {
		return "SETUP"
	}
	return m.state.Phase
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "begin":
		if len(parts) != 3 {
			m.status = "usage: begin <activity> <minutes>"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[2])
		if err != nil {
			m.status = "invalid minutes"
			return m, nil
		}
		return m, m.beginCmd(parts[1], minutes)
	case "cancel":
		return m, m.cancelCmd()
	case "reset":
		return m, m.resetCmd()
	case "login":
		if len(parts) != 2 {
			m.status = "usage: login <uid>"
			return m, nil
		}
		uid := parts[1]
		return m, m.action("signed in as "+uid, func(ctx context.Context) error { return m.profile.Login(ctx, uid) })
	case "logout":
		return m, m.action("signed out", m.profile.Logout)
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ───────────────────────────────────────────────────────────

func listenSession(ch <-chan sessiondto.StateOutput) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return sessionStateMsg{state: st}
	}
}

func listenProfile(ch <-chan profiledto.StateOutput) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-ch
		if !ok {
			return nil
		}
		return profileStateMsg{state: st}
	}
}

func (m Model) beginCmd(kind string, minutes int) tea.Cmd {
	return m.action(fmt.Sprintf("%s for %d min", kind, minutes), func(ctx context.Context) error {
		_, err := m.session.Begin(ctx, kind, minutes)
		return err
	})
}

func (m Model) cancelCmd() tea.Cmd {
	return m.action("cancelled", m.session.Cancel)
}

func (m Model) resetCmd() tea.Cmd {
	return m.action("ready", m.session.Reset)
}

func (m Model) awaitResultCmd(runID string) tea.Cmd {
	return func() tea.Msg {
		result, err := m.session.AwaitResult(m.ctx, runID)
		return resultMsg{result: result, err: err}
	}
}

func (m Model) action(what string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{what: what, err: fn(m.ctx)}
	}
}
