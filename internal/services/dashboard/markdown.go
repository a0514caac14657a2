package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/ternarybob/testpilot/internal/models"
)

// ExportMarkdown converts every analysis into a single markdown document.
// Fragments that fail to convert are included verbatim.
func ExportMarkdown(title string, records []models.AnalysisRecord) string {
	if title == "" {
		title = "AI Playwright Failure Analysis"
	}

	converter := md.NewConverter("", true, nil)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Failed tests analyzed: %d\n", len(records))

	for _, record := range records {
		fmt.Fprintf(&b, "\n## %s\n\n", record.Title)
		fmt.Fprintf(&b, "- **Status:** %s\n", orDefault(string(record.Status), "unknown"))
		fmt.Fprintf(&b, "- **Project:** %s\n\n", orDefault(record.Project, "n/a"))

		analysis := strings.TrimSpace(record.Analysis)
		if analysis == "" {
			b.WriteString("_No analysis returned._\n")
			continue
		}

		converted, err := converter.ConvertString(analysis)
		if err != nil || strings.TrimSpace(converted) == "" {
			converted = analysis
		}
		b.WriteString(strings.TrimSpace(converted))
		b.WriteString("\n")
	}

	return b.String()
}

// WriteMarkdown writes the markdown export to path
func WriteMarkdown(path, title string, records []models.AnalysisRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create markdown export directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, []byte(ExportMarkdown(title, records)), 0644); err != nil {
		return fmt.Errorf("failed to write markdown export %s: %w", path, err)
	}
	return nil
}
