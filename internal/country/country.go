// Package country maps country directory slugs to display names.
package country

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName converts a country directory slug to a human-readable name:
// "south_africa" -> "South Africa".
func DisplayName(slug string) string {
	cleaned := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(slug)), "_", " ")
	cleaned = strings.ReplaceAll(cleaned, "-", " ")
	return cases.Title(language.English).String(cleaned)
}
