package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/diogo/typechat/internal/models"
)

// Resolve converts a user-friendly reference to a history index.
//
// Supported references:
//   - "@first" - first conversation
//   - "@last" - last conversation
//   - "1", "2", "3" - by position (1-based, as in the "Chat N" labels)
//   - "substring" - case-insensitive match on message content (error if
//     several conversations match)
func Resolve(ref string, h models.History) (int, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return -1, fmt.Errorf("empty reference")
	}
	if len(h) == 0 {
		return -1, fmt.Errorf("no conversations found")
	}

	switch strings.ToLower(ref) {
	case "@first":
		return 0, nil
	case "@last":
		return len(h) - 1, nil
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(h) {
			return -1, fmt.Errorf("index %d out of range (1-%d)", n, len(h))
		}
		return n - 1, nil
	}

	results := Search(h, ref)
	switch len(results) {
	case 0:
		return -1, fmt.Errorf("no conversation matching '%s'", ref)
	case 1:
		return results[0].Index, nil
	default:
		labels := make([]string, len(results))
		for i, r := range results {
			labels[i] = models.ConversationLabel(r.Index)
		}
		return -1, fmt.Errorf("multiple conversations match '%s': %s. Use a number or be more specific",
			ref, strings.Join(labels, ", "))
	}
}

// ListAliases returns information about supported references
func ListAliases() string {
	return `Supported references:
  @first         First conversation
  @last          Last conversation
  1, 2, 3        By position (as in "Chat 1", "Chat 2", ...)
  "text"         Search by message content`
}
