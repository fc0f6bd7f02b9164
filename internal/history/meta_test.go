package history

import (
	"strings"
	"testing"

	"github.com/diogo/typechat/internal/models"
)

func TestSummarize(t *testing.T) {
	got := Summarize(sampleHistory())
	if len(got) != 3 {
		t.Fatalf("got %d summaries, want 3", len(got))
	}

	tests := []struct {
		i        int
		label    string
		messages int
		replies  int
		preview  string
	}{
		{0, "Chat 1", 2, 1, "Hello, how are you?"},
		{1, "Chat 2", 3, 1, "What's the weather like in Lisbon?"},
		{2, "Chat 3", 0, 0, ""},
	}
	for _, tt := range tests {
		s := got[tt.i]
		if s.Index != tt.i || s.Label != tt.label || s.Messages != tt.messages || s.Replies != tt.replies || s.Preview != tt.preview {
			t.Errorf("Summarize()[%d] = %+v", tt.i, s)
		}
	}
}

func TestSummarize_TruncatesPreview(t *testing.T) {
	long := strings.Repeat("word ", 40)
	h := models.History{models.NewConversation(models.NewUserMessage(long))}

	s := Summarize(h)[0]
	if n := len([]rune(s.Preview)); n != previewLen {
		t.Errorf("preview has %d runes, want %d", n, previewLen)
	}
	if !strings.HasSuffix(s.Preview, "...") {
		t.Errorf("preview = %q, want ellipsis", s.Preview)
	}
}

func TestTruncate_CollapsesWhitespace(t *testing.T) {
	if got := truncate("a\n\n  b\tc", 20); got != "a b c" {
		t.Errorf("truncate() = %q", got)
	}
}
