package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/typechat/internal/render"
)

// spinner handles the animated loading indicator
type spinner struct {
	out     io.Writer
	theme   render.TUITheme
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	started bool
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner writing to out
func newSpinner(out io.Writer, theme render.TUITheme, message string) *spinner {
	return &spinner{
		out:     out,
		theme:   theme,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

func (s *spinner) gradient() []lipgloss.Color {
	return []lipgloss.Color{
		s.theme.Primary,
		s.theme.Info,
		s.theme.Accent,
		s.theme.Secondary,
		s.theme.Warning,
	}
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	colors := s.gradient()

	spinColor := colors[s.frame%len(colors)]
	spinnerChar := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[s.frame%len(chars)])

	// Pulsing dots, one lit at a time
	var dots strings.Builder
	lit := (s.frame / 3) % 3
	for i := 0; i < 3; i++ {
		if i == lit {
			dots.WriteString(lipgloss.NewStyle().Foreground(colors[(s.frame+i)%len(colors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(s.theme.TextMute).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(s.theme.Text).Render(s.message)
	fmt.Fprintf(s.out, "\r\033[K%s %s %s", spinnerChar, msg, dots.String())
}

// stopOnce safely closes the stop channel only once
func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// halt stops the spinner and waits for the line to be cleared. Safe to call
// on a spinner that never started.
func (s *spinner) halt() {
	s.stopOnce()
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

// stopWithSuccess stops the spinner and shows success message
func (s *spinner) stopWithSuccess(message string) {
	s.halt()
	printSuccess(s.out, s.theme, message)
}

func printSuccess(w io.Writer, theme render.TUITheme, message string) {
	checkmark := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("✓")
	msg := lipgloss.NewStyle().Foreground(theme.Secondary).Render(message)
	fmt.Fprintf(w, "%s %s\n", checkmark, msg)
}

// stopWithError stops the spinner and leaves the line clear
func (s *spinner) stopWithError() {
	s.halt()
}
