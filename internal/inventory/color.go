package inventory

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultColor is used when no color is known.
const DefaultColor = "Clear"

var colorAliases = map[string]string{
	"clear":    "Clear",
	"acid_div": "Acid Etched",
	"acid-div": "Acid Etched",
	"blue":     "Blue",
	"gray":     "Gray",
	"grey":     "Gray",
	"gris":     "Gray",
	"brown":    "Brown",
	"bronze":   "Bronze",
}

// NormalizeColor maps a raw color to its display name. Known aliases are
// matched case-insensitively; unknown values are title-cased; empty input is Clear.
func NormalizeColor(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return DefaultColor
	}
	if name, ok := colorAliases[key]; ok {
		return name
	}
	return cases.Title(language.Und).String(key)
}

// ColorSlug returns the identifier form of a color: the normalized name in
// lowercase with spaces and hyphens replaced by underscores.
func ColorSlug(raw string) string {
	slug := strings.ToLower(NormalizeColor(raw))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(slug)
}

// LookupKey is the matching key shared by stored records and incoming rows.
func LookupKey(width, height int64, color string) string {
	return fmt.Sprintf("%dx%d_%s", width, height, ColorSlug(color))
}

// GlassID is the identifier assigned to newly created records.
func GlassID(width, height int64, color string) string {
	return LookupKey(width, height, color) + "_group"
}
