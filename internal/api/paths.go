// Package api provides the client for the conversation history endpoint.
package api

// GJSON paths into the /api/conversations body.
const (
	PathConversations = "conversations"

	// Message fields, relative to a message object
	PathMsgRole       = "role"
	PathMsgContent    = "content"
	PathMsgCategories = "categories"
)
