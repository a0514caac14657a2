package synthesis

import (
	"fmt"
	"strings"

	"github.com/ternarybob/testpilot/internal/models"
	"github.com/ternarybob/testpilot/internal/services/stories"
)

// SystemPrompt is sent as the system role of every generation request
const SystemPrompt = "You write Playwright tests in pure JavaScript, no markdown."

// BuildPrompt builds the generation prompt for one story. fileName is the
// name the generated test will be written to.
func BuildPrompt(story models.Story, fileName string) string {
	var b strings.Builder

	b.WriteString("\nYou are a Playwright automation engineer.\n\n")
	b.WriteString("Generate a SINGLE Playwright test in JavaScript based on this user story:\n\n")
	b.WriteString(story.Text)
	b.WriteString("\n\n")

	if facts := storyFacts(story.Text); facts != "" {
		b.WriteString("Key facts from the story:\n")
		b.WriteString(facts)
		b.WriteString("\n")
	}

	b.WriteString("Requirements:\n")
	b.WriteString("- Use @playwright/test\n")
	b.WriteString("- Use: import { test, expect } from '@playwright/test';\n")
	b.WriteString("- Use page.goto, page.fill, page.click, expect(...)\n")
	b.WriteString("- Do NOT include markdown code fences.\n")
	b.WriteString("- Do NOT include ``` or the word \"javascript\".\n")
	fmt.Fprintf(&b, "- Output ONLY raw JavaScript code that can go directly into %s.\n", fileName)

	return b.String()
}

// storyFacts lists the fields the extractors recognise, or "" when none are present
func storyFacts(text string) string {
	var b strings.Builder

	if title, ok := stories.ExtractStoryTitle(text); ok {
		fmt.Fprintf(&b, "- Title: %s\n", title)
	}
	if baseURL, ok := stories.ExtractBaseURL(text); ok {
		fmt.Fprintf(&b, "- Base URL: %s (navigate with page.goto)\n", baseURL)
	}
	if criteria := stories.ExtractAcceptanceCriteria(text); len(criteria) > 0 {
		b.WriteString("- Acceptance criteria, one assertion each:\n")
		for _, c := range criteria {
			fmt.Fprintf(&b, "  %s\n", c)
		}
	}

	return b.String()
}
