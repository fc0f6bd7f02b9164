// Package tui provides the terminal chat window for typechat.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/typechat/internal/errors"
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/render"
)

// Styles holds every lipgloss style of the chat window, built from a theme.
type Styles struct {
	theme render.TUITheme

	Header   lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Hint     lipgloss.Style

	Sidebar        lipgloss.Style
	SidebarFocused lipgloss.Style
	SidebarTitle   lipgloss.Style
	SidebarItem    lipgloss.Style
	SidebarActive  lipgloss.Style
	SidebarCursor  lipgloss.Style

	MessagesArea    lipgloss.Style
	UserLabel       lipgloss.Style
	UserBubble      lipgloss.Style
	AssistantLabel  lipgloss.Style
	AssistantBubble lipgloss.Style
	Notice          lipgloss.Style
	Thinking        lipgloss.Style
	Tag             lipgloss.Style

	InputPanel lipgloss.Style
	InputLabel lipgloss.Style
	Busy       lipgloss.Style

	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	StatusDesc lipgloss.Style
	Feedback   lipgloss.Style
	Error      lipgloss.Style

	Welcome      lipgloss.Style
	WelcomeTitle lipgloss.Style
	WelcomeIcon  lipgloss.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme render.TUITheme) Styles {
	s := Styles{theme: theme}

	s.Header = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 2)
	s.Title = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	s.Subtitle = lipgloss.NewStyle().
		Foreground(theme.TextDim)
	s.Hint = lipgloss.NewStyle().
		Foreground(theme.TextMute).
		Italic(true)

	s.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	s.SidebarFocused = s.Sidebar.
		BorderForeground(theme.Accent)
	s.SidebarTitle = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		MarginBottom(1)
	s.SidebarItem = lipgloss.NewStyle().
		Foreground(theme.Text).
		PaddingLeft(2)
	s.SidebarActive = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		PaddingLeft(2)
	s.SidebarCursor = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	s.MessagesArea = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	s.UserLabel = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		MarginLeft(4)
	s.UserBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(0, 1).
		MarginLeft(4)
	s.AssistantLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	s.AssistantBubble = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Foreground(theme.Text).
		Padding(0, 1).
		MarginRight(4)
	s.Notice = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Align(lipgloss.Center)
	s.Thinking = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)
	s.Tag = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		MarginRight(1)

	s.InputPanel = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	s.InputLabel = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)
	s.Busy = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true)

	s.StatusBar = lipgloss.NewStyle().
		Foreground(theme.TextMute)
	s.StatusKey = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Bold(true)
	s.StatusDesc = lipgloss.NewStyle().
		Foreground(theme.TextMute)
	s.Feedback = lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Italic(true)
	s.Error = lipgloss.NewStyle().
		Foreground(theme.Error).
		Bold(true)

	s.Welcome = lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Align(lipgloss.Center)
	s.WelcomeTitle = lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Align(lipgloss.Center)
	s.WelcomeIcon = lipgloss.NewStyle().
		Foreground(theme.Accent).
		Align(lipgloss.Center)

	return s
}

// Theme returns the theme the styles were built from
func (s Styles) Theme() render.TUITheme { return s.theme }

// RenderTag renders one category chip in its palette color.
func (s Styles) RenderTag(tag models.CategoryTag) string {
	return s.Tag.
		Foreground(s.theme.Background).
		Background(s.theme.TagColor(tag.Style)).
		Render(tag.Label)
}

// RenderTags renders a row of category chips, or "" when there are none.
func (s Styles) RenderTags(tags []models.CategoryTag) string {
	if len(tags) == 0 {
		return ""
	}
	chips := make([]string, len(tags))
	for i, tag := range tags {
		chips[i] = s.RenderTag(tag)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

var defaultStyles = NewStyles(render.DefaultTUITheme)

// FormatError returns a styled error message with context from the typed
// errors, for printing outside the TUI.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(defaultStyles.theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(defaultStyles.theme.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := errors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}
	if endpoint := errors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	switch {
	case errors.IsNetworkError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Is the server running? Start it with 'typechat serve'"))
	case errors.IsParseError(err):
		sb.WriteString(dimStyle.Render("\n  Hint: The conversations document is malformed"))
	case errors.IsNotFound(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check the path and try again"))
	}

	return sb.String()
}
