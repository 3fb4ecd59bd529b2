package bubbletea

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/parleyhq/parley"
)

var _ tea.Model = Model{}

const sidebarWidth = 30

// suggestedPrompts are shown on the empty screen; pressing the matching
// digit sends one.
var suggestedPrompts = []string{
	"What is Playtech?",
	"What products does Playtech offer?",
	"How does Playtech support its partners?",
}

// Model is the Bubble Tea model for the parley TUI.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable transcript area. Exported for test access.
	Viewport viewport.Model

	controller *parley.Controller
	lister     *parley.Lister
	transport  parley.Transport
	store      parley.Store
	styles     Styles

	conversations []parley.Conversation
	cursor        int
	sidebarOpen   bool
	sidebarFocus  bool
	listLoading   bool

	err    error
	ready  bool
	width  int
	height int
}

// New creates a new TUI Model wired to the given collaborators.
func New(controller *parley.Controller, lister *parley.Lister, transport parley.Transport, store parley.Store, theme parley.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:       ti,
		controller:  controller,
		lister:      lister,
		transport:   transport,
		store:       store,
		styles:      NewStyles(theme),
		sidebarOpen: true,
		listLoading: true,
	}
}

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Conversations returns the current sidebar list.
func (m Model) Conversations() []parley.Conversation { return m.conversations }

// SidebarFocused reports whether key input is routed to the sidebar.
func (m Model) SidebarFocused() bool { return m.sidebarFocus }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m = m.handleWindowSize(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendResultMsg:
		if err := m.controller.FinishSend(msg.Op, msg.Reply, msg.Err); err != nil {
			m.err = err
		}
		m = m.syncViewport()
		if msg.Err == nil {
			// The remote pipeline has stored the exchange by now; keep
			// the sidebar in step.
			m.listLoading = true
			return m, m.refreshCmd()
		}
		return m, nil

	case SelectResultMsg:
		if err := m.controller.FinishSelect(msg.Op, msg.Records, msg.Err); err != nil {
			m.err = err
		}
		m = m.syncViewport()
		return m, nil

	case ConversationsMsg:
		m.listLoading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.conversations = msg.Conversations
		if m.cursor >= len(m.conversations) {
			m.cursor = 0
		}
		return m, nil
	}

	return m.updateComponents(msg)
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.sidebarFocus {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var main strings.Builder
	main.WriteString(m.Viewport.View())
	main.WriteString("\n")
	main.WriteString(m.statusLine())
	main.WriteString("\n")
	main.WriteString(m.Input.View())

	if !m.sidebarOpen {
		return main.String()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), main.String())
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height

	mainWidth := msg.Width
	if m.sidebarOpen {
		mainWidth -= sidebarWidth
	}
	if mainWidth < 1 {
		mainWidth = 1
	}

	inputH := 1
	statusH := 1
	gapH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - gapH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(mainWidth, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = mainWidth
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = mainWidth

	m = m.syncViewport()
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyCtrlN:
		m.controller.NewChat()
		m.err = nil
		m.sidebarFocus = false
		cmd := m.Input.Focus()
		m = m.syncViewport()
		m.listLoading = true
		return m, tea.Batch(cmd, m.refreshCmd())

	case tea.KeyCtrlR:
		m.listLoading = true
		return m, m.refreshCmd()

	case tea.KeyCtrlB:
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen {
			m.sidebarFocus = false
		}
		return m.handleWindowSize(tea.WindowSizeMsg{Width: m.width, Height: m.height}), nil

	case tea.KeyTab:
		if m.sidebarOpen {
			m.sidebarFocus = !m.sidebarFocus
			if m.sidebarFocus {
				m.Input.Blur()
				return m, nil
			}
			return m, m.Input.Focus()
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		if m.sidebarFocus {
			m = m.moveCursor(msg.Type == tea.KeyDown)
			return m, nil
		}

	case tea.KeyEnter:
		if m.sidebarFocus {
			return m.selectConversation()
		}
		return m.submit(strings.TrimSpace(m.Input.Value()))

	case tea.KeyRunes:
		// On the empty screen a digit sends the matching suggested prompt.
		if !m.sidebarFocus && len(m.controller.Messages()) == 0 && m.Input.Value() == "" && len(msg.Runes) == 1 {
			if i := int(msg.Runes[0] - '1'); i >= 0 && i < len(suggestedPrompts) {
				return m.submit(suggestedPrompts[i])
			}
		}
	}

	return m.updateComponents(msg)
}

func (m Model) moveCursor(down bool) Model {
	if len(m.conversations) == 0 {
		return m
	}
	if down && m.cursor < len(m.conversations)-1 {
		m.cursor++
	}
	if !down && m.cursor > 0 {
		m.cursor--
	}
	return m
}

func (m Model) submit(content string) (tea.Model, tea.Cmd) {
	if m.controller.Loading() {
		return m, nil
	}
	op, err := m.controller.BeginSend(content)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.Input.SetValue("")
	m = m.syncViewport()
	return m, m.sendCmd(op)
}

func (m Model) selectConversation() (tea.Model, tea.Cmd) {
	if len(m.conversations) == 0 {
		return m, nil
	}
	conv := m.conversations[m.cursor]
	op := m.controller.BeginSelect(conv.SessionID, conv.Title)
	m.err = nil
	m.sidebarFocus = false
	focusCmd := m.Input.Focus()
	m = m.syncViewport()
	return m, tea.Batch(focusCmd, m.selectCmd(op))
}

// sendCmd performs the webhook round trip off the Update goroutine.
func (m Model) sendCmd(op parley.SendOp) tea.Cmd {
	transport := m.transport
	req := op.Request()
	return func() tea.Msg {
		reply, err := transport.Send(context.Background(), req)
		return SendResultMsg{Op: op, Reply: reply, Err: err}
	}
}

// selectCmd fetches a stored conversation's visible records.
func (m Model) selectCmd(op parley.SelectOp) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		records, err := store.SessionRecords(context.Background(), op.SessionID())
		return SelectResultMsg{Op: op, Records: records, Err: err}
	}
}

// refreshCmd rebuilds the conversation list.
func (m Model) refreshCmd() tea.Cmd {
	lister := m.lister
	return func() tea.Msg {
		conversations, err := lister.List(context.Background())
		return ConversationsMsg{Conversations: conversations, Err: err}
	}
}

func (m Model) syncViewport() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(m.renderTranscript())
	m.Viewport.GotoBottom()
	return m
}

func (m Model) renderTranscript() string {
	msgs := m.controller.Messages()
	if len(msgs) == 0 {
		return m.renderWelcome()
	}

	width := m.Viewport.Width
	body := lipgloss.NewStyle().Width(width)

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg.Role {
		case parley.RoleUser:
			b.WriteString(m.styles.UserMsg.Render("You"))
		case parley.RoleAssistant:
			b.WriteString(m.styles.Accent.Render("Assistant"))
		}
		b.WriteString("\n")
		b.WriteString(body.Render(msg.Content))
	}
	return b.String()
}

func (m Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("How can I help you with Playtech?"))
	b.WriteString("\n\n")
	for i, prompt := range suggestedPrompts {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d.", i+1)))
		b.WriteString(" " + prompt + "\n")
	}
	return b.String()
}

func (m Model) renderSidebar() string {
	height := m.Viewport.Height + 3
	frame := lipgloss.NewStyle().Width(sidebarWidth).Height(height).PaddingRight(1)

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Conversations"))
	b.WriteString("\n\n")

	switch {
	case m.listLoading:
		b.WriteString(m.styles.Muted.Render("Loading..."))
	case len(m.conversations) == 0:
		b.WriteString(m.styles.Muted.Render("No conversations found"))
	default:
		for i, conv := range m.conversations {
			title := runewidth.Truncate(conv.Title, sidebarWidth-3, "…")
			line := title
			if m.sidebarFocus && i == m.cursor {
				line = m.styles.Selected.Render(title)
			} else if conv.SessionID == m.controller.SessionID() {
				line = m.styles.Accent.Render(title)
			}
			b.WriteString(line)
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render(conv.CreatedAt.Format("Jan 2, 2006")))
			b.WriteString("\n")
		}
	}

	return frame.Render(b.String())
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if m.controller.Loading() {
		return m.styles.Muted.Render("Thinking...")
	}
	footer := "New conversation"
	if title := m.controller.Title(); title != "" {
		footer = "Current conversation: " + title
	}
	return m.styles.Muted.Render(footer + "  ·  Enter send · Tab history · Ctrl+N new · Ctrl+C quit")
}
