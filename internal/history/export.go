package history

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/diogo/typechat/internal/models"
)

// ExportFormat represents the format for exporting conversations
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// ParseExportFormat accepts "markdown", "md" or "json"
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "markdown", "md", "":
		return ExportFormatMarkdown, nil
	case "json":
		return ExportFormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want markdown or json)", s)
	}
}

// FormatForPath guesses the export format from a file extension
func FormatForPath(path string) ExportFormat {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return ExportFormatJSON
	}
	return ExportFormatMarkdown
}

// ExportOptions configures how conversations are exported
type ExportOptions struct {
	Format            ExportFormat
	IncludeCategories bool
}

// DefaultExportOptions returns sensible defaults for export
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		Format:            ExportFormatMarkdown,
		IncludeCategories: true,
	}
}

// Export renders conv in the format selected by opts
func Export(conv *models.Conversation, title string, opts ExportOptions) ([]byte, error) {
	if opts.Format == ExportFormatJSON {
		return ExportToJSON(conv, title, opts)
	}
	return []byte(ExportToMarkdown(conv, title, opts)), nil
}

// ExportToMarkdown exports a conversation to Markdown format
func ExportToMarkdown(conv *models.Conversation, title string, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# ")
	sb.WriteString(title)
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", conv.Len()))

	msgs := conv.Messages()
	for i, msg := range msgs {
		role := "User"
		if msg.IsSystem() {
			role = "Assistant"
		}
		sb.WriteString("## ")
		sb.WriteString(role)
		sb.WriteString("\n\n")

		sb.WriteString(msg.Content)
		sb.WriteString("\n")

		if opts.IncludeCategories && len(msg.Categories) > 0 {
			sb.WriteString("\n")
			for j, cat := range msg.Categories {
				if j > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString("`")
				sb.WriteString(cat)
				sb.WriteString("`")
			}
			sb.WriteString("\n")
		}

		// Separator between messages (except last)
		if i < len(msgs)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

// ExportToJSON exports a conversation to JSON format
func ExportToJSON(conv *models.Conversation, title string, opts ExportOptions) ([]byte, error) {
	type ExportMessage struct {
		Role       models.Role `json:"role"`
		Content    string      `json:"content"`
		Categories []string    `json:"categories,omitempty"`
	}

	type ExportConversation struct {
		Title    string          `json:"title"`
		Messages []ExportMessage `json:"messages"`
	}

	msgs := conv.Messages()
	export := ExportConversation{
		Title:    title,
		Messages: make([]ExportMessage, len(msgs)),
	}
	for i, msg := range msgs {
		export.Messages[i] = ExportMessage{Role: msg.Role, Content: msg.Content}
		if opts.IncludeCategories {
			export.Messages[i].Categories = msg.Categories
		}
	}

	return json.MarshalIndent(export, "", "  ")
}

// SearchResult represents a search match in conversations
type SearchResult struct {
	Index        int    // History index of the conversation
	MessageIndex int    // Index of the first matching message
	MatchSnippet string // Snippet where the term was found
}

// Search finds conversations whose messages contain query, case-insensitive.
// Only the first match per conversation is reported.
func Search(h models.History, query string) []SearchResult {
	queryLower := strings.ToLower(query)
	var results []SearchResult

	for ci, conv := range h {
		for mi, msg := range conv.Messages() {
			if strings.Contains(strings.ToLower(msg.Content), queryLower) {
				results = append(results, SearchResult{
					Index:        ci,
					MessageIndex: mi,
					MatchSnippet: extractSnippet(msg.Content, query, 80),
				})
				break
			}
		}
	}

	return results
}

// extractSnippet extracts a snippet of about maxLen runes around the first
// occurrence of query
func extractSnippet(content, query string, maxLen int) string {
	runes := []rune(content)
	lower := []rune(strings.ToLower(content))
	q := []rune(strings.ToLower(query))

	idx := indexRunes(lower, q)
	if idx == -1 || len(lower) != len(runes) {
		// Case folding changed the length; fall back to the start.
		idx = 0
	}

	half := maxLen / 2
	start := idx - half
	end := idx + len(q) + half

	if start < 0 {
		start = 0
		end = maxLen
	}
	if end > len(runes) {
		end = len(runes)
		start = end - maxLen
		if start < 0 {
			start = 0
		}
	}

	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet = snippet + "..."
	}
	return snippet
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
