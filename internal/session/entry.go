package session

import (
	"github.com/diogo/typechat/internal/models"
	"github.com/diogo/typechat/internal/typing"
)

// Entry is one rendered block of the transcript.
type Entry struct {
	Message models.Message
	// Notice marks welcome and failure messages, which are shown but never
	// stored in a conversation.
	Notice bool

	hidden bool
	anim   *typing.Animation
}

// Visible reports whether the entry has faded in.
func (e *Entry) Visible() bool { return !e.hidden }

// Text returns the part of the message currently on screen.
func (e *Entry) Text() string {
	if e.anim != nil {
		return e.anim.Text()
	}
	return e.Message.Content
}

// Thinking reports whether the typing indicator replaces the text.
func (e *Entry) Thinking() bool {
	return e.anim != nil && e.anim.Thinking()
}

// Typing reports whether the entry is still animating.
func (e *Entry) Typing() bool {
	return e.anim != nil && !e.anim.Done()
}

// Tags returns the category tags to show, which is none until the reveal has
// finished.
func (e *Entry) Tags() []models.CategoryTag {
	if e.anim != nil && !e.anim.TagsVisible() {
		return nil
	}
	return e.Message.Tags()
}

// Phase returns the typing phase, PhaseComplete for static entries.
func (e *Entry) Phase() typing.Phase {
	if e.anim == nil {
		return typing.PhaseComplete
	}
	return e.anim.Phase()
}
