package synthesis

import (
	"regexp"
	"strings"
)

var (
	openingFencePattern = regexp.MustCompile("```[a-zA-Z]*")
	bareFence           = "```"
)

// StripMarkdownFences removes every fence marker (with or without a language
// tag) from model output and trims the outer whitespace. Whitespace inside the
// body, including blank lines between former blocks, is left alone.
func StripMarkdownFences(text string) string {
	text = openingFencePattern.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, bareFence, "")
	return strings.TrimSpace(text)
}
