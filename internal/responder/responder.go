// Package responder fabricates canned replies by keyword matching.
package responder

import "strings"

// Reply is a generated response and its category tags.
type Reply struct {
	Text       string
	Categories []string
}

// Rule maps a set of trigger substrings to a reply.
type Rule struct {
	Triggers []string
	Reply    Reply
}

// Matches reports whether any trigger occurs in the lowercased input.
func (r Rule) Matches(lower string) bool {
	for _, t := range r.Triggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// Rules is the ordered rule table. The first matching rule wins.
var Rules = []Rule{
	{
		Triggers: []string{"hello", "hi", "hey"},
		Reply: Reply{
			Text:       "Hello! How can I assist you today?",
			Categories: []string{"Greeting", "Introduction"},
		},
	},
	{
		Triggers: []string{"weather"},
		Reply: Reply{
			Text:       "I don't have access to real-time weather data, but I can tell you that weather patterns are influenced by atmospheric pressure, temperature, humidity, and air movement. What specific weather information are you looking for?",
			Categories: []string{"Weather", "Meteorology", "Clarification"},
		},
	},
	{
		Triggers: []string{"machine learning", "ai", "artificial intelligence"},
		Reply: Reply{
			Text:       "Machine learning is a branch of artificial intelligence that focuses on building systems that learn from data. There are several types including supervised learning, unsupervised learning, and reinforcement learning. Would you like to know more about a specific type?",
			Categories: []string{"Machine Learning", "AI", "Technology", "Education"},
		},
	},
	{
		Triggers: []string{"joke", "funny"},
		Reply: Reply{
			Text:       "Why don't scientists trust atoms? Because they make up everything! 😄",
			Categories: []string{"Humor", "Science"},
		},
	},
	{
		Triggers: []string{"python", "code", "programming"},
		Reply: Reply{
			Text:       "Python is a high-level, interpreted programming language known for its readability and simplicity. It's widely used in data science, web development, and automation. Would you like to see an example of Python code?",
			Categories: []string{"Programming", "Python", "Technology"},
		},
	},
	{
		Triggers: []string{"thank"},
		Reply: Reply{
			Text:       "You're welcome! If you have any other questions, feel free to ask.",
			Categories: []string{"Gratitude", "Conclusion"},
		},
	},
	{
		Triggers: []string{"bye", "goodbye"},
		Reply: Reply{
			Text:       "Goodbye! Have a great day!",
			Categories: []string{"Farewell"},
		},
	},
}

// Fallback is used when no rule matches.
var Fallback = Reply{
	Text:       "That's an interesting question. While I don't have specific information on that topic, I'd be happy to discuss it further. Could you provide more details about what you're looking for?",
	Categories: []string{"General", "Clarification"},
}

// Generate returns the reply for input. It is deterministic and the returned
// categories are a fresh slice the caller may keep.
func Generate(input string) Reply {
	lower := strings.ToLower(input)
	reply := Fallback
	for _, rule := range Rules {
		if rule.Matches(lower) {
			reply = rule.Reply
			break
		}
	}
	cats := make([]string, len(reply.Categories))
	copy(cats, reply.Categories)
	return Reply{Text: reply.Text, Categories: cats}
}
