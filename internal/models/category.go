package models

// CategoryStyle is the visual style of a category tag.
type CategoryStyle string

const (
	StyleInfo    CategoryStyle = "info"
	StyleSuccess CategoryStyle = "success"
	StyleWarning CategoryStyle = "warning"
	StyleDanger  CategoryStyle = "danger"
	StylePrimary CategoryStyle = "primary"
)

// CategoryPalette is the fixed, ordered set of tag styles.
var CategoryPalette = [...]CategoryStyle{
	StyleInfo,
	StyleSuccess,
	StyleWarning,
	StyleDanger,
	StylePrimary,
}

// CategoryTag pairs a category label with its style.
type CategoryTag struct {
	Label string
	Style CategoryStyle
}

// StyleAt returns the palette style for the tag at position i, cycling
// through the palette.
func StyleAt(i int) CategoryStyle {
	n := len(CategoryPalette)
	return CategoryPalette[((i%n)+n)%n]
}

// TagsFor builds the tags for an ordered category list.
func TagsFor(categories []string) []CategoryTag {
	if len(categories) == 0 {
		return nil
	}
	tags := make([]CategoryTag, len(categories))
	for i, c := range categories {
		tags[i] = CategoryTag{Label: c, Style: StyleAt(i)}
	}
	return tags
}
