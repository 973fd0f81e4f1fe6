package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"minidxo/internal/consultation"
	"minidxo/internal/logging"
	"minidxo/internal/reference"
	"minidxo/internal/ui"
)

const (
	inputPlaceholder  = "Describe your symptoms..."
	lockedPlaceholder = "Diagnosis complete. Press ctrl+r to start over."
	archiveTimeout    = 30 * time.Second
	minSidebarWidth   = 30
	relatedLimit      = 3
)

// Archiver stores concluded consultations. Optional.
type Archiver interface {
	Archive(ctx context.Context, record consultation.Consultation) (uuid.UUID, error)
}

type Model struct {
	session  *consultation.Session
	archiver Archiver
	log      *slog.Logger

	state  consultation.State
	notice string
	frame  int

	width  int
	height int

	input    textinput.Model
	timeline viewport.Model
	spinner  spinner.Model
}

type replyMsg struct {
	reply *consultation.StructuredReply
	err   error
}

type archivedMsg struct {
	id  uuid.UUID
	err error
}

func New(session *consultation.Session, archiver Archiver) Model {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = 2000
	input.Placeholder = inputPlaceholder
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#22d3ee"))

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = true

	return Model{
		session:  session,
		archiver: archiver,
		log:      logging.New("tui"),
		state:    session.Snapshot(),
		input:    input,
		timeline: timeline,
		spinner:  sp,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+r":
			if err := m.session.Reset(); err == nil {
				m.notice = ui.Status(ui.StatusInfo, "New diagnosis started", "")
				m.input.Placeholder = inputPlaceholder
				m.input.Focus()
				m.sync()
			}
			return m, nil
		case "enter":
			return m.submit()
		}

	case replyMsg:
		m.sync()
		if msg.err != nil {
			m.log.Error("chat exchange failed", "err", msg.err)
			m.notice = Notice(msg.err)
			return m, nil
		}
		m.notice = ""
		if !m.state.Locked {
			return m, nil
		}
		m.input.Blur()
		m.input.Placeholder = lockedPlaceholder
		return m, m.archiveCmd()

	case archivedMsg:
		if msg.err != nil {
			m.log.Warn("archive failed", "err", msg.err)
			m.notice = ui.Status(ui.StatusWarning, "Archive failed", msg.err.Error())
		} else {
			m.notice = ui.Status(ui.StatusInfo, "Consultation archived", msg.id.String())
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.frame++
		if m.state.Loading {
			m.refreshTimeline()
		}
		return m, cmd
	}

	if m.inputEnabled() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.timeline, cmd = m.timeline.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	ex, err := m.session.Prepare(m.input.Value())
	if err != nil {
		// Empty input, a pending reply and a finished consultation are no-ops.
		return m, nil
	}
	m.input.Reset()
	m.notice = ""
	m.sync()

	session := m.session
	return m, func() tea.Msg {
		reply, err := session.Complete(context.Background(), ex)
		return replyMsg{reply: reply, err: err}
	}
}

func (m Model) archiveCmd() tea.Cmd {
	if m.archiver == nil {
		return nil
	}
	record, err := m.session.Record()
	if err != nil {
		return nil
	}
	archiver := m.archiver
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		id, err := archiver.Archive(ctx, *record)
		return archivedMsg{id: id, err: err}
	}
}

func (m Model) inputEnabled() bool {
	return !m.state.Loading && !m.state.Locked
}

// Notice maps an exchange failure to the transient notification shown to
// the user.
func Notice(err error) string {
	switch {
	case errors.Is(err, consultation.ErrRateLimited):
		return ui.Status(ui.StatusWarning, "Rate Limit Reached", "Please wait a moment before sending another message.")
	case errors.Is(err, consultation.ErrQuotaExceeded):
		return ui.Status(ui.StatusError, "Quota Exceeded", "AI service quota exceeded. Please contact support.")
	default:
		return ui.Status(ui.StatusError, "Error", "Failed to get AI response. Please try again.")
	}
}

func (m *Model) sync() {
	m.state = m.session.Snapshot()
	m.refreshTimeline()
}

func (m *Model) layout() {
	chatWidth, _ := m.columns()
	// header, input, notice and footer lines plus the input border
	chrome := 7
	height := m.height - chrome
	if height < 3 {
		height = 3
	}
	m.timeline.Width = chatWidth
	m.timeline.Height = height
	m.input.Width = chatWidth - 4
	m.refreshTimeline()
}

func (m Model) columns() (chat, sidebar int) {
	sidebar = m.width / 3
	if sidebar < minSidebarWidth {
		sidebar = minSidebarWidth
	}
	chat = m.width - sidebar - 1
	if chat < 20 {
		chat = 20
	}
	return chat, sidebar
}

func (m *Model) refreshTimeline() {
	if m.timeline.Width == 0 {
		return
	}
	m.timeline.SetContent(Transcript(m.state, m.frame, m.timeline.Width))
	m.timeline.GotoBottom()
}

// Transcript renders every turn plus the typing indicator while loading.
func Transcript(state consultation.State, frame, width int) string {
	parts := make([]string, 0, len(state.Transcript)+1)
	for _, t := range state.Transcript {
		parts = append(parts, ui.MessageBubble(t.Role, t.Content, width))
	}
	if state.Loading {
		parts = append(parts, ui.TypingIndicator(frame))
	}
	return strings.Join(parts, "\n\n")
}

// Sidebar renders the agent, reasoning and summary panels of the current
// reply.
func Sidebar(state consultation.State, width int) string {
	reply := state.Current
	if reply == nil {
		return ""
	}

	var panels []string
	if len(reply.Agents) > 0 {
		panels = append(panels, ui.AgentPanel(reply.Agents, reply.Confidence, width))
	}
	if reply.Reasoning != "" {
		view := ui.ReasoningView{
			Reasoning:          reply.Reasoning,
			Reference:          reply.Reference,
			PossibleConditions: reply.PossibleConditions,
		}
		if reply.Reference == nil {
			view.Related = reference.Suggest(lastUserTurn(state.Transcript), relatedLimit)
		}
		panels = append(panels, ui.ReasoningPanel(view, width))
	}
	if d := reply.Diagnosis(); state.Locked && d != nil {
		panels = append(panels, ui.DiagnosisSummary(*d, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panels...)
}

func lastUserTurn(turns []consultation.Turn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == consultation.RoleUser {
			return turns[i].Content
		}
	}
	return ""
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	chatWidth, sidebarWidth := m.columns()

	inputLine := m.input.View()
	if m.state.Loading {
		inputLine = m.spinner.View() + " waiting for MiniDxO..."
	}
	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#0e7490")).
		Width(chatWidth - 2).
		Render(inputLine)

	chat := lipgloss.JoinVertical(lipgloss.Left, m.timeline.View(), inputBox)
	sidebar := lipgloss.NewStyle().Width(sidebarWidth).Render(Sidebar(m.state, sidebarWidth))
	body := lipgloss.JoinHorizontal(lipgloss.Top, chat, " ", sidebar)

	return lipgloss.JoinVertical(lipgloss.Left,
		ui.Header(),
		body,
		m.notice,
		ui.Footer(),
	)
}
