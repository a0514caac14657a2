package analysis

import (
	"fmt"
	"strings"

	"github.com/ternarybob/testpilot/internal/models"
)

const notAvailable = "N/A"

const promptTemplate = `
You are a senior QA engineer specializing in Playwright.

The application under test is the public demo app at:
%s

Test title: %s
Project: %s
Overall status: %s

Error message:
%s

Stack:
%s

Stdout / Stderr:
%s
%s

Use your knowledge of this demo application and the provided Base URL + story details to ground your answer in the real behavior of that page.

Tasks:
Return your answer as an HTML snippet only (no <html> or <body> tags).
Use headings (<h3>), paragraphs (<p>), ordered/unordered lists (<ol>, <ul>), and <pre><code> for code.
Do NOT use markdown, do NOT include backticks.

Include:
1. A short heading "Plain-English Explanation" and a paragraph explaining why this test likely failed, referencing the actual behavior of the page at the given path when you can infer it.

2. A heading "Probable Root Causes" with a bulleted or numbered list of 2-3 items. Use realistic causes based on the real page under test (e.g., how many elements actually appear, how the UI behaves, typical selectors, etc.).

3. A heading "Suggested Test Fixes" with a list of 2 concrete Playwright code fix ideas that would make the test align with the real behavior of that page.

4. A heading "Flakiness Mitigation" with 1-2 ideas to make this test less flaky.
`

// BuildPrompt assembles the root-cause prompt for one failed test. story is
// optional; when present its full text is appended as context.
func BuildPrompt(test models.FailedTest, story *models.Story, appURL string) string {
	message, stack := notAvailable, notAvailable
	logs := notAvailable

	if first := test.FirstResult(); first != nil {
		if first.Error != nil {
			message = valueOr(first.Error.Message, notAvailable)
			stack = valueOr(first.Error.Stack, notAvailable)
		}
		if joined := joinOutput(first); joined != "" {
			logs = joined
		}
	}

	storyContext := ""
	if story != nil {
		storyContext = "\n\nRelated user story (including Base URL and acceptance criteria):\n" + story.Text
	}

	status := string(test.Status)
	if status == "" {
		status = "unknown"
	}

	return fmt.Sprintf(promptTemplate,
		appURL,
		test.Title,
		test.ProjectOr("n/a"),
		status,
		message,
		stack,
		logs,
		storyContext,
	)
}

// joinOutput joins the non-empty stdout then stderr text chunks of a result
func joinOutput(result *models.Result) string {
	lines := make([]string, 0, len(result.Stdout)+len(result.Stderr))
	for _, chunks := range [][]models.OutputChunk{result.Stdout, result.Stderr} {
		for _, chunk := range chunks {
			if chunk.Text != nil && *chunk.Text != "" {
				lines = append(lines, *chunk.Text)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
