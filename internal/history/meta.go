package history

import (
	"strings"
	"unicode/utf8"

	"github.com/diogo/typechat/internal/models"
)

const previewLen = 60

// Summary is the listing information for one conversation
type Summary struct {
	Index    int
	Label    string
	Messages int
	Replies  int
	Preview  string // first user message, truncated
}

// Summarize returns one summary per conversation, in history order
func Summarize(h models.History) []Summary {
	out := make([]Summary, len(h))
	for i, conv := range h {
		s := Summary{
			Index:    i,
			Label:    h.Label(i),
			Messages: conv.Len(),
		}
		for _, msg := range conv.Messages() {
			if msg.IsSystem() {
				s.Replies++
			} else if s.Preview == "" {
				s.Preview = truncate(msg.Content, previewLen)
			}
		}
		out[i] = s
	}
	return out
}

func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}
