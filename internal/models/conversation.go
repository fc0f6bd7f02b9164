package models

import "fmt"

// Conversation is an ordered, append-only sequence of messages.
// Insertion order is chronological order.
type Conversation struct {
	messages []Message
}

// NewConversation creates a conversation holding the given messages.
func NewConversation(messages ...Message) *Conversation {
	c := &Conversation{}
	for _, msg := range messages {
		c.Append(msg)
	}
	return c
}

// Append adds a message to the end of the conversation.
// Categories on user messages are dropped.
func (c *Conversation) Append(msg Message) {
	if msg.IsUser() {
		msg.Categories = nil
	}
	c.messages = append(c.messages, msg)
}

// Len returns the number of messages
func (c *Conversation) Len() int {
	if c == nil {
		return 0
	}
	return len(c.messages)
}

// At returns the message at index i.
func (c *Conversation) At(i int) Message {
	return c.messages[i]
}

// Messages returns a copy of the messages in chronological order.
func (c *Conversation) Messages() []Message {
	if c == nil {
		return nil
	}
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Last returns the most recent message, if any.
func (c *Conversation) Last() (Message, bool) {
	if c.Len() == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1], true
}

// LastSystem returns the most recent system message, if any.
func (c *Conversation) LastSystem() (Message, bool) {
	for i := c.Len() - 1; i >= 0; i-- {
		if c.messages[i].IsSystem() {
			return c.messages[i], true
		}
	}
	return Message{}, false
}

// History is the index-addressable list of conversations fetched at startup.
type History []*Conversation

// Len returns the number of conversations
func (h History) Len() int { return len(h) }

// Valid reports whether index addresses a conversation.
func (h History) Valid(index int) bool {
	return index >= 0 && index < len(h)
}

// Label returns the display label of the conversation at index (1-based).
func (h History) Label(index int) string {
	return ConversationLabel(index)
}

// ConversationLabel formats the sidebar label for a 0-based index.
func ConversationLabel(index int) string {
	return fmt.Sprintf("Chat %d", index+1)
}
