package stories

import (
	"regexp"
	"strings"
)

var (
	baseURLPattern      = regexp.MustCompile(`(?i)Base URL:[\s\p{Z}\x{FEFF}]*(https?://[^\s\p{Z}\x{FEFF}]+)`)
	titlePattern        = regexp.MustCompile(`(?i)Title:\s*(.+)`)
	sectionStartPattern = regexp.MustCompile(`^[A-Z]`)
)

const criteriaLabel = "acceptance criteria"

// ExtractBaseURL returns the first "Base URL:" http(s) token in text
func ExtractBaseURL(text string) (string, bool) {
	match := baseURLPattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// ExtractStoryTitle returns the remainder of the first "Title:" line.
// Colons inside the title are kept.
func ExtractStoryTitle(text string) (string, bool) {
	match := titlePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return strings.TrimSpace(match[1]), true
}

// ExtractAcceptanceCriteria returns the trimmed lines following an
// "Acceptance criteria" label. List items and lines that do not open with a
// capital letter are collected; blank lines are skipped; the first capitalised
// non-list line ends the section. The capital-letter check looks at the raw
// line, so indented text always counts as a continuation.
func ExtractAcceptanceCriteria(text string) []string {
	criteria := make([]string, 0)
	collecting := false

	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(line), criteriaLabel) {
			collecting = true
			continue
		}
		if !collecting {
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "-"):
			criteria = append(criteria, trimmed)
		case !sectionStartPattern.MatchString(line):
			criteria = append(criteria, trimmed)
		default:
			return criteria
		}
	}

	return criteria
}
