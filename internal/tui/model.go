package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/typechat/internal/api"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/render"
	"github.com/diogo/typechat/internal/session"
	"github.com/diogo/typechat/internal/typing"
)

const (
	sidebarWidth   = 22
	headerHeight   = 3
	inputHeight    = 5
	statusHeight   = 1
	minViewport    = 5
	feedbackExpiry = 3 * time.Second
)

var errNothingToCopy = errors.New("no reply to copy yet")

// Message types for the TUI
type (
	historyLoadedMsg struct {
		history models.History
		err     error
	}
	clipboardMsg struct {
		err error
	}
	clearFeedbackMsg struct{}
)

// Options configures the chat window.
type Options struct {
	// Client fetches the history at startup. Nil starts with a new chat.
	Client api.HistoryClientInterface
	// Timeout bounds the history request. Defaults to 30s.
	Timeout time.Duration

	Typing        typing.Config
	ResponseDelay time.Duration

	Theme    render.TUITheme
	Markdown render.Options

	// Clipboard writes the copied reply. Defaults to the system clipboard.
	Clipboard func(text string) error
	Logger    *slog.Logger
}

// Model represents the TUI state
type Model struct {
	client  api.HistoryClientInterface
	timeout time.Duration
	session *session.Session
	ticks   *tickScheduler // nil when the session runs on another scheduler

	keys      keyMap
	styles    Styles
	markdown  render.Options
	clipboard func(string) error
	logger    *slog.Logger

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	loading        bool
	ready          bool
	sidebarFocused bool
	cursor         int
	feedback       string
	feedbackErr    bool

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(opts Options) Model {
	return newModel(opts, nil)
}

// newModel builds the model on sched, or on tea.Tick timers when sched is nil.
func newModel(opts Options, sched typing.Scheduler) Model {
	m := Model{
		client:    opts.Client,
		timeout:   opts.Timeout,
		keys:      defaultKeyMap(),
		markdown:  opts.Markdown,
		clipboard: opts.Clipboard,
		logger:    opts.Logger,
		loading:   opts.Client != nil,
	}
	if m.timeout <= 0 {
		m.timeout = 30 * time.Second
	}
	if m.clipboard == nil {
		m.clipboard = clipboard.WriteAll
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.markdown.Style == "" {
		m.markdown = render.DefaultOptions()
	}
	theme := opts.Theme
	if theme.Name == "" {
		theme = render.DefaultTUITheme
	}
	m.styles = NewStyles(theme)

	if sched == nil {
		m.ticks = newTickScheduler()
		sched = m.ticks
	}
	m.session = session.New(session.Options{
		Scheduler:     sched,
		Typing:        opts.Typing,
		ResponseDelay: opts.ResponseDelay,
		Logger:        m.logger,
	})
	if opts.Client == nil {
		m.session.StartNewChat()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(theme.Text)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(theme.TextDim)
	ta.BlurredStyle = ta.FocusedStyle
	m.textarea = ta

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = m.styles.Thinking
	m.spinner = s

	return m
}

// Session exposes the conversation state
func (m Model) Session() *session.Session { return m.session }

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.client != nil {
		cmds = append(cmds, m.loadHistory())
	}
	return tea.Batch(cmds...)
}

// loadHistory fetches the conversations once
func (m Model) loadHistory() tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		h, err := client.FetchConversations(ctx)
		return historyLoadedMsg{history: h, err: err}
	}
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case historyLoadedMsg:
		m.loading = false
		m.session.LoadHistory(msg.history, msg.err)
		m.cursor = max(m.session.ActiveIndex(), 0)
		m.refresh()

	case timerFiredMsg:
		msg.fn()
		m.refresh()

	case spinner.TickMsg:
		if m.session.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
			m.refresh()
		}

	case clipboardMsg:
		if msg.err != nil {
			m.setFeedback("Copy failed: "+msg.err.Error(), true)
		} else {
			m.setFeedback("Copied last reply", false)
		}
		cmds = append(cmds, clearFeedbackAfter(feedbackExpiry))

	case clearFeedbackMsg:
		m.feedback = ""

	case tea.KeyMsg:
		var handled bool
		var quit bool
		m, cmd, handled, quit = m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)
		// only keys reach the textarea, to keep escape sequences out; it is
		// hidden while a reply is pending
		if !handled && !m.sidebarFocused && !m.session.Busy() {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.ticks != nil {
		cmds = append(cmds, m.ticks.Drain())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, nil, true, true

	case key.Matches(msg, m.keys.NewChat):
		m.session.StartNewChat()
		m.sidebarFocused = false
		m.textarea.Focus()
		m.refresh()
		return m, nil, true, false

	case key.Matches(msg, m.keys.ToggleFocus):
		m.sidebarFocused = !m.sidebarFocused
		if m.sidebarFocused {
			m.textarea.Blur()
			m.cursor = max(m.session.ActiveIndex(), 0)
		} else {
			m.textarea.Focus()
		}
		return m, nil, true, false

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyLastReply(), true, false
	}

	if m.sidebarFocused {
		n := len(m.session.History())
		switch {
		case key.Matches(msg, m.keys.Up):
			if n > 0 {
				m.cursor = (m.cursor - 1 + n) % n
			}
		case key.Matches(msg, m.keys.Down):
			if n > 0 {
				m.cursor = (m.cursor + 1) % n
			}
		case key.Matches(msg, m.keys.Send):
			if m.session.SelectConversation(m.cursor) {
				m.sidebarFocused = false
				m.textarea.Focus()
				m.refresh()
			}
		}
		return m, nil, true, false
	}

	if key.Matches(msg, m.keys.Send) {
		input := strings.TrimSpace(m.textarea.Value())
		if input == "/quit" || input == "/exit" {
			return m, nil, true, true
		}
		if m.session.Submit(input) {
			m.textarea.Reset()
			m.refresh()
			return m, m.spinner.Tick, true, false
		}
		return m, nil, true, false
	}

	switch msg.String() {
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd, true, false
	}
	return m, nil, false, false
}

func (m Model) copyLastReply() tea.Cmd {
	reply, ok := m.session.LastReply()
	if !ok {
		return func() tea.Msg { return clipboardMsg{err: errNothingToCopy} }
	}
	write := m.clipboard
	return func() tea.Msg {
		return clipboardMsg{err: write(reply.Content)}
	}
}

func clearFeedbackAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearFeedbackMsg{} })
}

func (m *Model) setFeedback(text string, isErr bool) {
	m.feedback = text
	m.feedbackErr = isErr
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - inputHeight - statusHeight - 2
	if vpHeight < minViewport {
		vpHeight = minViewport
	}
	vpWidth := m.messagesWidth() - 4

	if !m.ready {
		m.viewport = viewport.New(vpWidth, vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = vpWidth
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(width - 6)
	m.refresh()
}

func (m Model) messagesWidth() int {
	w := m.width - sidebarWidth
	if w < 20 {
		w = 20
	}
	return w
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript(m.viewport.Width))
	m.viewport.GotoBottom()
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return m.styles.Busy.Render("  Initializing...")
	}

	header := m.styles.Header.Width(m.width - 2).Render(
		lipgloss.JoinHorizontal(lipgloss.Center,
			m.styles.Title.Render("✦ typechat"),
			m.styles.Hint.Render("  •  "),
			m.styles.Subtitle.Render(m.headerSubtitle()),
		),
	)

	var body string
	if m.session.Active().Len() == 0 && len(m.session.Transcript()) == 0 {
		body = m.renderWelcome()
	} else {
		body = m.viewport.View()
	}
	messages := m.styles.MessagesArea.
		Width(m.messagesWidth() - 2).
		Height(m.viewport.Height).
		Render(body)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidebar(), messages)

	var input string
	if m.session.Busy() {
		input = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.InputLabel.Render("You"),
			m.styles.Busy.Render("Waiting for the reply..."),
		)
	} else {
		input = lipgloss.JoinVertical(lipgloss.Left,
			m.styles.InputLabel.Render("You"),
			m.textarea.View(),
		)
	}
	inputPanel := m.styles.InputPanel.Width(m.width - 2).Render(input)

	return lipgloss.JoinVertical(lipgloss.Left, header, panels, inputPanel, m.renderStatusBar())
}

func (m Model) headerSubtitle() string {
	switch {
	case m.loading:
		return "loading conversations..."
	case m.session.ActiveIndex() >= 0:
		return m.session.History().Label(m.session.ActiveIndex())
	default:
		return "New chat"
	}
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.styles.SidebarTitle.Render("Chats"))
	sb.WriteString("\n")

	labels := m.session.Labels()
	switch {
	case m.loading:
		sb.WriteString(m.styles.Hint.Render("Loading..."))
	case len(labels) == 0:
		sb.WriteString(m.styles.Hint.Render("No chats"))
	}

	for i, label := range labels {
		style := m.styles.SidebarItem
		if i == m.session.ActiveIndex() {
			style = m.styles.SidebarActive
		}
		line := style.Render(label)
		if m.sidebarFocused && i == m.cursor {
			line = m.styles.SidebarCursor.Render("▸ ") + style.PaddingLeft(0).Render(label)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	style := m.styles.Sidebar
	if m.sidebarFocused {
		style = m.styles.SidebarFocused
	}
	return style.Width(sidebarWidth - 2).Height(m.viewport.Height).Render(sb.String())
}

// renderWelcome renders the empty-state screen
func (m Model) renderWelcome() string {
	width := m.viewport.Width

	content := lipgloss.JoinVertical(lipgloss.Center,
		m.styles.WelcomeIcon.Width(width).Render("✦"),
		"",
		m.styles.WelcomeTitle.Width(width).Render("Welcome to typechat"),
		"",
		m.styles.Welcome.Width(width).Render("Start a conversation by typing a message below"),
	)

	topPadding := (m.viewport.Height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

func (m Model) renderTranscript(width int) string {
	bubbleWidth := width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	var content strings.Builder
	for _, e := range m.session.Transcript() {
		if !e.Visible() {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n")
		}

		switch {
		case e.Notice:
			content.WriteString(m.styles.Notice.Width(width).Render(e.Text()))

		case e.Message.IsUser():
			content.WriteString(m.styles.UserLabel.Render("● You"))
			content.WriteString("\n")
			content.WriteString(m.styles.UserBubble.Width(bubbleWidth).Render(e.Text()))

		default:
			content.WriteString(m.styles.AssistantLabel.Render("✦ Assistant"))
			content.WriteString("\n")
			content.WriteString(m.styles.AssistantBubble.Width(bubbleWidth).Render(m.renderReply(e, bubbleWidth-4)))
			if tags := m.styles.RenderTags(e.Tags()); tags != "" {
				content.WriteString("\n")
				content.WriteString(tags)
			}
		}
		content.WriteString("\n")
	}
	return content.String()
}

// renderReply shows the indicator while thinking, plain text while typing and
// markdown once the reveal is done.
func (m Model) renderReply(e *session.Entry, width int) string {
	switch {
	case e.Thinking():
		return m.spinner.View()
	case e.Typing():
		return e.Text() + "▌"
	}

	rendered, err := render.Markdown(e.Text(), m.markdown.WithWidth(width))
	if err != nil {
		m.logger.Debug("markdown render failed", "error", err)
		return e.Text()
	}
	return strings.Trim(rendered, "\n")
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar() string {
	if m.feedback != "" {
		style := m.styles.Feedback
		if m.feedbackErr {
			style = m.styles.Error
		}
		return style.Width(m.width).Align(lipgloss.Center).Render(m.feedback)
	}

	var items []string
	for _, b := range m.keys.statusBindings() {
		items = append(items, m.styles.StatusKey.Render(b.Help().Key)+m.styles.StatusDesc.Render(" "+b.Help().Desc))
	}
	return m.styles.StatusBar.Width(m.width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(opts Options) error {
	p := tea.NewProgram(
		NewChatModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
