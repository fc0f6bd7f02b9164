package models

// Endpoint paths served by the conversation server
const (
	PathConversations = "/api/conversations"
	PathHealth        = "/healthz"
)

// Fixed notices shown in the transcript. They are never stored in a
// conversation.
const (
	WelcomeHistoryLoaded = "Chat history loaded. Continue your conversation!"
	WelcomeNewChat       = "Welcome to a new chat! How can I help you today?"
	HistoryLoadFailed    = "Failed to load conversations. Please try again later."
)
