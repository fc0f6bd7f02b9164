// Package models contains the chat data types shared by the client and server.
package models

// Role identifies who authored a message.
type Role string

const (
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleSystem
}

// ParseRole converts a wire value into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Message represents a single chat message.
// Messages are values: once appended to a conversation they are never mutated.
type Message struct {
	Role       Role     `json:"role"`
	Content    string   `json:"content"`
	Categories []string `json:"categories,omitempty"`
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewSystemMessage creates a system message. The categories slice is copied
// so later changes by the caller do not leak into the stored message.
func NewSystemMessage(content string, categories []string) Message {
	var cats []string
	if len(categories) > 0 {
		cats = make([]string, len(categories))
		copy(cats, categories)
	}
	return Message{Role: RoleSystem, Content: content, Categories: cats}
}

// IsUser returns true for user-authored messages
func (m Message) IsUser() bool { return m.Role == RoleUser }

// IsSystem returns true for messages authored by the responder
func (m Message) IsSystem() bool { return m.Role == RoleSystem }

// Tags returns the message categories paired with their palette styles.
// User messages never carry tags.
func (m Message) Tags() []CategoryTag {
	if !m.IsSystem() {
		return nil
	}
	return TagsFor(m.Categories)
}
