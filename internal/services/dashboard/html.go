package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/models"
)

// HTMLData contains all data needed for the dashboard template
type HTMLData struct {
	Title       string
	Stylesheet  string
	GeneratedAt string
	Count       int
	Tests       []TestHTMLData
}

// TestHTMLData is one analysed test as shown on the dashboard. Analysis is
// inserted unescaped.
type TestHTMLData struct {
	Title    string
	Status   string
	Project  string
	Analysis template.HTML
}

// Renderer turns analysis records into the static HTML dashboard
type Renderer struct {
	config *common.HTMLConfig
	logger arbor.ILogger
}

// NewRenderer creates a new dashboard renderer
func NewRenderer(config *common.HTMLConfig, logger arbor.ILogger) *Renderer {
	return &Renderer{
		config: config,
		logger: logger,
	}
}

// Render builds the dashboard document
func (r *Renderer) Render(records []models.AnalysisRecord, generatedAt time.Time) (string, error) {
	data := HTMLData{
		Title:       r.config.Title,
		Stylesheet:  stylesheetHref(r.config.Output, r.config.Stylesheet),
		GeneratedAt: generatedAt.Format("2006-01-02 15:04:05"),
		Count:       len(records),
		Tests:       make([]TestHTMLData, 0, len(records)),
	}
	if data.Title == "" {
		data.Title = "AI Playwright Failure Analysis"
	}

	opts := FragmentOptions{
		RenderMarkdown: r.config.RenderMarkdown,
		Sanitize:       r.config.Sanitize,
	}

	for _, record := range records {
		fragment, err := NormalizeFragment(record.Analysis, opts)
		if err != nil {
			r.logger.Warn().Err(err).Str("title", record.Title).Msg("Failed to normalise analysis fragment, using raw text")
			fragment = record.Analysis
		}

		data.Tests = append(data.Tests, TestHTMLData{
			Title:    record.Title,
			Status:   orDefault(string(record.Status), "unknown"),
			Project:  orDefault(record.Project, "n/a"),
			Analysis: template.HTML(fragment),
		})
	}

	return renderHTML(data)
}

// Write renders the dashboard and writes it together with its stylesheet.
// Returns the dashboard path.
func (r *Renderer) Write(records []models.AnalysisRecord, generatedAt time.Time) (string, error) {
	html, err := r.Render(records, generatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to render dashboard: %w", err)
	}

	if err := WriteStylesheet(r.config.Stylesheet); err != nil {
		return "", err
	}
	r.logger.Info().Str("path", r.config.Stylesheet).Msg("Wrote stylesheet")

	if dir := filepath.Dir(r.config.Output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create dashboard directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(r.config.Output, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("failed to write dashboard %s: %w", r.config.Output, err)
	}
	r.logger.Info().Str("path", r.config.Output).Int("tests", len(records)).Msg("HTML report written")

	return r.config.Output, nil
}

// stylesheetHref returns the stylesheet location relative to the dashboard
func stylesheetHref(htmlPath, cssPath string) string {
	rel, err := filepath.Rel(filepath.Dir(htmlPath), cssPath)
	if err != nil {
		return filepath.ToSlash(cssPath)
	}
	return filepath.ToSlash(rel)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func renderHTML(data HTMLData) (string, error) {
	tmpl, err := template.New("dashboard").Parse(htmlTemplate)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1.0" />
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="{{.Stylesheet}}" />
</head>
<body>
  <div class="app-shell">
    <header>
      <div class="header-left">
        <h1><span class="header-logo"><span>AI</span></span>{{.Title}}</h1>
        <p>Run insights generated on {{.GeneratedAt}}</p>
      </div>
      <div class="header-right">
        <div class="tagline">INTELLIGENT TEST TRIAGE</div>
        <div class="badge-chip">
          <span class="badge-dot"></span>
          {{.Count}} failed test{{if ne .Count 1}}s{{end}}
        </div>
      </div>
    </header>

    <main>
      <div class="summary">
        <div class="pill">Total: {{.Count}}</div>
        <div class="pill">Failed tests analyzed: {{.Count}}</div>
        <div class="pill">Playwright JSON to AI insight</div>
      </div>
{{range .Tests}}
      <section class="test">
        <div class="test-header">
          <h2>{{.Title}}</h2>
          <span class="badge-status">{{.Status}}</span>
        </div>
        <p class="meta"><span>Project:</span> {{.Project}}</p>
        <details open class="details">
          <summary>AI Analysis</summary>
          <div class="analysis">
            {{.Analysis}}
          </div>
        </details>
      </section>
{{end}}
    </main>
  </div>
</body>
</html>
`
