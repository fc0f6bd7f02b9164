package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// timerFiredMsg delivers a scheduled callback to the Update loop.
type timerFiredMsg struct {
	fn func()
}

// tickScheduler implements typing.Scheduler on tea.Tick. After only records a
// command; the model collects the commands with Drain at the end of every
// Update, so callbacks always run on the program goroutine.
type tickScheduler struct {
	pending []tea.Cmd
}

func newTickScheduler() *tickScheduler {
	return &tickScheduler{}
}

func (s *tickScheduler) After(d time.Duration, fn func()) {
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFiredMsg{fn: fn}
	}))
}

// Drain returns the commands recorded since the last call.
func (s *tickScheduler) Drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}
