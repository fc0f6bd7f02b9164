package history

import "github.com/diogo/typechat/internal/models"

func sampleHistory() models.History {
	return models.History{
		models.NewConversation(
			models.NewUserMessage("Hello, how are you?"),
			models.NewSystemMessage("Hello! How can I assist you today?", []string{"Greeting", "Introduction"}),
		),
		models.NewConversation(
			models.NewUserMessage("What's the weather like in Lisbon?"),
			models.NewSystemMessage("I don't have access to real-time weather data.", []string{"Weather", "Meteorology", "Clarification"}),
			models.NewUserMessage("thanks"),
		),
		models.NewConversation(),
	}
}
