// Package session owns the state of one chat window: the loaded history, the
// active conversation, the rendered transcript and the busy flag.
//
// A Session is not safe for concurrent use. Every method and every scheduled
// callback must run on the same goroutine; the TUI guarantees this by
// delivering timers as bubbletea messages.
package session

import (
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/responder"
	"github.com/diogo/typechat/internal/typing"
)

const (
	// DefaultResponseDelay is the pause between a user message and the reply.
	DefaultResponseDelay = time.Second
	// DefaultFadeIn is the delay before an animated user message becomes
	// visible.
	DefaultFadeIn = 10 * time.Millisecond
)

// Options configures a Session. Zero values select the defaults.
type Options struct {
	Scheduler     typing.Scheduler
	Typing        typing.Config
	Rand          typing.Rand
	ResponseDelay time.Duration
	FadeIn        time.Duration
	// Respond generates replies. Defaults to responder.Generate.
	Respond func(input string) responder.Reply
	Logger  *slog.Logger
}

// Session is the conversation store and submission controller.
type Session struct {
	sched         typing.Scheduler
	typingCfg     typing.Config
	rnd           typing.Rand
	responseDelay time.Duration
	fadeIn        time.Duration
	respond       func(string) responder.Reply
	logger        *slog.Logger

	history     models.History
	active      *models.Conversation
	activeIndex int
	transcript  []*Entry
	busy        bool
	loadErr     error
}

// New creates a session with an empty history and a fresh conversation.
// opts.Scheduler is required.
func New(opts Options) *Session {
	if opts.Scheduler == nil {
		panic("session: nil scheduler")
	}
	s := &Session{
		sched:         opts.Scheduler,
		typingCfg:     opts.Typing,
		rnd:           opts.Rand,
		responseDelay: opts.ResponseDelay,
		fadeIn:        opts.FadeIn,
		respond:       opts.Respond,
		logger:        opts.Logger,
		active:        models.NewConversation(),
		activeIndex:   -1,
	}
	if s.typingCfg.Mode == "" {
		s.typingCfg = typing.DefaultConfig()
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.responseDelay <= 0 {
		s.responseDelay = DefaultResponseDelay
	}
	if s.fadeIn <= 0 {
		s.fadeIn = DefaultFadeIn
	}
	if s.respond == nil {
		s.respond = responder.Generate
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// LoadHistory installs the result of the startup history fetch. On error the
// history stays empty and the transcript shows a single failure notice. On
// success the first conversation, if any, is selected.
func (s *Session) LoadHistory(history models.History, err error) {
	if err != nil {
		s.logger.Error("failed to load conversations", "error", err)
		s.loadErr = err
		s.history = nil
		s.transcript = nil
		s.addNotice(models.HistoryLoadFailed)
		return
	}

	s.loadErr = nil
	s.history = history
	s.logger.Info("conversations loaded", "count", len(history))
	if len(history) > 0 {
		s.SelectConversation(0)
	}
}

// LoadError returns the error passed to the last LoadHistory call.
func (s *Session) LoadError() error { return s.loadErr }

// History returns the loaded conversations.
func (s *Session) History() models.History { return s.history }

// Labels returns one sidebar label per history entry: "Chat 1", "Chat 2", ...
func (s *Session) Labels() []string {
	labels := make([]string, len(s.history))
	for i := range s.history {
		labels[i] = s.history.Label(i)
	}
	return labels
}

// Active returns the active conversation.
func (s *Session) Active() *models.Conversation { return s.active }

// ActiveIndex returns the history index of the active conversation, or -1 for
// a new chat.
func (s *Session) ActiveIndex() int { return s.activeIndex }

// Transcript returns the rendered entries, oldest first.
func (s *Session) Transcript() []*Entry { return s.transcript }

// Busy reports whether a reply is pending or being typed.
func (s *Session) Busy() bool { return s.busy }

// SelectConversation activates the history entry at index and replays it
// statically after the welcome notice. Out of range indices are ignored.
func (s *Session) SelectConversation(index int) bool {
	if !s.history.Valid(index) {
		return false
	}
	s.active = s.history[index]
	s.activeIndex = index
	s.transcript = nil
	s.addNotice(models.WelcomeHistoryLoaded)
	for _, msg := range s.active.Messages() {
		s.transcript = append(s.transcript, &Entry{Message: msg})
	}
	return true
}

// StartNewChat activates a fresh conversation that is not part of the history.
func (s *Session) StartNewChat() {
	s.active = models.NewConversation()
	s.activeIndex = -1
	s.transcript = nil
	s.addNotice(models.WelcomeNewChat)
}

// AppendUserMessage stores text in the active conversation and renders it.
// When animate is set the entry stays hidden until the fade-in delay passes.
func (s *Session) AppendUserMessage(text string, animate bool) *Entry {
	msg := models.NewUserMessage(text)
	s.active.Append(msg)

	e := &Entry{Message: msg}
	s.transcript = append(s.transcript, e)
	if animate {
		e.hidden = true
		s.sched.After(s.fadeIn, func() { e.hidden = false })
	}
	return e
}

// AppendSystemMessage stores a reply in the active conversation and renders
// it, with the typing simulation when animate is set. The stored message is
// complete at once; the animation only affects display. An animated message
// keeps the session busy until its tags are shown.
func (s *Session) AppendSystemMessage(text string, categories []string, animate bool) *Entry {
	msg := models.NewSystemMessage(text, categories)
	s.active.Append(msg)
	return s.renderSystem(msg, animate)
}

// Submit handles a user submission. Blank input and submissions while busy
// are rejected without any change. Otherwise the user message is appended and
// the reply is generated after the response delay. The reply is stored in the
// conversation that received the user message and typed out only if that
// conversation is still active.
func (s *Session) Submit(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || s.busy {
		return false
	}

	s.busy = true
	conv := s.active
	s.AppendUserMessage(text, true)

	s.sched.After(s.responseDelay, func() {
		reply := s.respond(text)
		msg := models.NewSystemMessage(reply.Text, reply.Categories)
		conv.Append(msg)
		if conv != s.active {
			s.logger.Debug("reply stored for inactive conversation")
			s.busy = false
			return
		}
		s.renderSystem(msg, true)
	})
	return true
}

// LastReply returns the most recent system message of the active conversation.
func (s *Session) LastReply() (models.Message, bool) {
	return s.active.LastSystem()
}

func (s *Session) renderSystem(msg models.Message, animate bool) *Entry {
	e := &Entry{Message: msg}
	s.transcript = append(s.transcript, e)
	if !animate {
		return e
	}

	s.busy = true
	plan := typing.NewPlan(msg.Content, s.typingCfg, s.rnd)
	e.anim = typing.NewAnimation(plan, s.sched, typing.Hooks{
		OnComplete: func(*typing.Animation) { s.busy = false },
	})
	e.anim.Start()
	return e
}

func (s *Session) addNotice(text string) {
	s.transcript = append(s.transcript, &Entry{
		Message: models.NewSystemMessage(text, nil),
		Notice:  true,
	})
}
