package render

import (
	"strings"

	"github.com/diogo/typechat/internal/models"
)

// Glamour standard style names accepted in the markdown config.
const (
	StyleDark       = "dark"
	StyleLight      = "light"
	StyleDracula    = "dracula"
	StyleTokyoNight = "tokyo-night"
	StylePink       = "pink"
	StyleNoTTY      = "notty"
	StyleASCII      = "ascii"
)

// StandardStyles lists the glamour styles that need no style file.
func StandardStyles() []string {
	return []string{StyleDark, StyleLight, StyleDracula, StyleTokyoNight, StylePink, StyleNoTTY, StyleASCII}
}

// IsStandardStyle reports whether style names a glamour standard style
// rather than a JSON style file.
func IsStandardStyle(style string) bool {
	for _, s := range StandardStyles() {
		if s == style {
			return true
		}
	}
	return false
}

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with the default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Reply renders a finished system message followed by its category tags as
// plain bracketed labels, for output that is not a TUI.
func Reply(msg models.Message, opts Options) (string, error) {
	out, err := Markdown(msg.Content, opts)
	if err != nil {
		return "", err
	}
	out = strings.TrimRight(out, "\n")

	tags := msg.Tags()
	if len(tags) == 0 {
		return out + "\n", nil
	}
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = "[" + tag.Label + "]"
	}
	return out + "\n\n  " + strings.Join(labels, " ") + "\n", nil
}
