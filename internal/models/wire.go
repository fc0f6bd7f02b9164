package models

import (
	"encoding/json"
	"fmt"
)

// HistoryPayload is the body of GET /api/conversations.
type HistoryPayload struct {
	Conversations History `json:"conversations"`
}

// MarshalJSON encodes a conversation as a bare array of messages.
func (c *Conversation) MarshalJSON() ([]byte, error) {
	msgs := c.Messages()
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(msgs)
}

// UnmarshalJSON decodes a bare array of messages, rejecting unknown roles.
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return err
	}
	c.messages = nil
	for i, msg := range msgs {
		if !msg.Role.Valid() {
			return fmt.Errorf("message %d: invalid role %q", i, msg.Role)
		}
		c.Append(msg)
	}
	return nil
}

// MarshalJSON always emits an array, never null. Nil conversations are
// left out.
func (h History) MarshalJSON() ([]byte, error) {
	convs := make([]*Conversation, 0, len(h))
	for _, c := range h {
		if c != nil {
			convs = append(convs, c)
		}
	}
	return json.Marshal(convs)
}
