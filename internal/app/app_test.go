package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/models"
	"github.com/ternarybob/testpilot/internal/services/analysis"
	"github.com/ternarybob/testpilot/internal/services/llm"
	"github.com/ternarybob/testpilot/internal/services/synthesis"
	"github.com/ternarybob/testpilot/internal/storage/badger"
)

const failingReport = `{
  "suites": [{
    "title": "add_remove.spec.js",
    "specs": [],
    "suites": [{
      "title": "Add/Remove Elements",
      "specs": [
        {
          "title": "Add/Remove Elements - wrong expectations",
          "tests": [{
            "projectName": "chromium",
            "status": "unexpected",
            "results": [{"status": "failed", "error": {"message": "Expected: 3"}}]
          }]
        },
        {
          "title": "Add/Remove Elements - adds one element",
          "tests": [{"status": "expected", "results": [{"status": "passed"}]}]
        }
      ]
    }]
  }],
  "stats": {"expected": 1, "unexpected": 1, "duration": 1200}
}`

const passingReport = `{
  "suites": [{
    "title": "checkboxes.spec.js",
    "specs": [{
      "title": "Checkboxes - toggles",
      "tests": [{"status": "expected", "results": [{"status": "passed"}]}]
    }]
  }]
}`

type stubCompletion struct {
	text     string
	err      error
	requests []*interfaces.CompletionRequest
	closed   bool
}

func (s *stubCompletion) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	s.requests = append(s.requests, request)
	if s.err != nil {
		return nil, s.err
	}
	return &interfaces.CompletionResponse{Text: s.text, Provider: "openai", Model: request.Model}, nil
}

func (s *stubCompletion) Close() error {
	s.closed = true
	return nil
}

func newTestConfig(t *testing.T) *common.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := common.NewDefaultConfig()
	cfg.Report.Path = filepath.Join(dir, "playwright-report.json")
	cfg.Stories.Dir = filepath.Join(dir, "stories")
	cfg.Analysis.Output = filepath.Join(dir, "ai-analysis.json")
	cfg.HTML.Output = filepath.Join(dir, "ai-report.html")
	cfg.HTML.Stylesheet = filepath.Join(dir, "ai-report.css")
	cfg.Generate.TestsDir = filepath.Join(dir, "tests")
	cfg.Audit.Path = filepath.Join(dir, "audit")
	return cfg
}

func newTestApp(t *testing.T, cfg *common.Config, completion interfaces.CompletionService) *App {
	t.Helper()
	a := &App{
		Config:     cfg,
		Logger:     arbor.NewLogger(),
		Completion: completion,
	}
	a.initServices()
	return a
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew_WithoutAudit(t *testing.T) {
	cfg := newTestConfig(t)

	a, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &llm.ProviderFactory{}, a.Completion)
	assert.Nil(t, a.AuditStorage)
	assert.NotNil(t, a.Stories)
	assert.NotNil(t, a.Analysis)
	assert.NotNil(t, a.Synthesis)
	assert.NotNil(t, a.Renderer)
}

func TestNew_WithAudit(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Audit.Enabled = true

	a, err := New(cfg, arbor.NewLogger())
	require.NoError(t, err)

	assert.IsType(t, &llm.AuditedService{}, a.Completion)
	require.NotNil(t, a.AuditStorage)
	assert.DirExists(t, cfg.Audit.Path)

	require.NoError(t, a.Close())
}

func TestRunAnalyze_NoFailures(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.HTML.Enabled = true
	writeFile(t, cfg.Report.Path, passingReport)

	stub := &stubCompletion{text: "<p>unused</p>"}
	a := newTestApp(t, cfg, stub)

	result, err := a.RunAnalyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Failed)
	assert.Empty(t, stub.requests)
	assert.NoFileExists(t, cfg.Analysis.Output)
	assert.NoFileExists(t, cfg.HTML.Output)
}

func TestRunAnalyze_WritesArtifacts(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.HTML.Enabled = true
	cfg.Analysis.MarkdownOutput = filepath.Join(filepath.Dir(cfg.Analysis.Output), "ai-analysis.md")
	writeFile(t, cfg.Report.Path, failingReport)
	writeFile(t, filepath.Join(cfg.Stories.Dir, "add_remove_elements.md"),
		"Title: Add/Remove Elements\nBase URL: https://the-internet.herokuapp.com/add_remove_elements/\n")

	stub := &stubCompletion{text: "  <h3>Root cause</h3><p>Count assertion is off by one.</p>  "}
	a := newTestApp(t, cfg, stub)

	result, err := a.RunAnalyze(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Add/Remove Elements - wrong expectations", result.Records[0].Title)
	assert.Equal(t, "chromium", result.Records[0].Project)

	require.Len(t, stub.requests, 1)
	prompt := stub.requests[0].Messages[len(stub.requests[0].Messages)-1].Content
	assert.Contains(t, prompt, "Related user story")
	assert.Contains(t, prompt, "https://the-internet.herokuapp.com/add_remove_elements/")

	records, err := analysis.ReadDocument(cfg.Analysis.Output)
	require.NoError(t, err)
	assert.Equal(t, result.Records, records)

	html, err := os.ReadFile(cfg.HTML.Output)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<p>Count assertion is off by one.</p>")
	assert.FileExists(t, cfg.HTML.Stylesheet)

	markdown, err := os.ReadFile(cfg.Analysis.MarkdownOutput)
	require.NoError(t, err)
	assert.Contains(t, string(markdown), "Count assertion is off by one.")
	assert.Equal(t, cfg.HTML.Output, result.HTMLPath)
	assert.Empty(t, result.PDFPath)
}

func TestRunAnalyze_CompletionErrorAborts(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.HTML.Enabled = true
	writeFile(t, cfg.Report.Path, failingReport)

	stub := &stubCompletion{err: errors.New("rate limited")}
	a := newTestApp(t, cfg, stub)

	_, err := a.RunAnalyze(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
	assert.NoFileExists(t, cfg.Analysis.Output)
	assert.NoFileExists(t, cfg.HTML.Output)
}

func TestRunAnalyze_MissingReport(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, &stubCompletion{})

	_, err := a.RunAnalyze(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read report")
}

func TestRunRender_FromDocument(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.HTML.Enabled = true
	records := []models.AnalysisRecord{
		{Title: "Login - rejects bad password", Project: "firefox", Status: models.StatusUnexpected, Analysis: "**Selector** changed"},
	}
	require.NoError(t, analysis.WriteDocument(cfg.Analysis.Output, analysis.FormatJSON, records))

	stub := &stubCompletion{}
	a := newTestApp(t, cfg, stub)

	result, err := a.RunRender(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, stub.requests)
	assert.Equal(t, cfg.Analysis.Output, result.DocumentPath)
	html, err := os.ReadFile(result.HTMLPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<strong>Selector</strong>")
	assert.Contains(t, string(html), "Login - rejects bad password")
}

func TestRunGenerate(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.Stories.Dir, "login.md"), "Title: Login\nBase URL: https://the-internet.herokuapp.com/login\n")
	writeFile(t, filepath.Join(cfg.Stories.Dir, "checkboxes.md"), "Title: Checkboxes\n")

	stub := &stubCompletion{text: "```javascript\nimport { test, expect } from '@playwright/test';\n```"}
	a := newTestApp(t, cfg, stub)

	generated, err := a.RunGenerate(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, generated, 2)

	// stories are processed in name order
	assert.Equal(t, "checkboxes", generated[0].Story)
	assert.Equal(t, "login", generated[1].Story)

	content, err := os.ReadFile(filepath.Join(cfg.Generate.TestsDir, "login.spec.js"))
	require.NoError(t, err)
	assert.Equal(t, "import { test, expect } from '@playwright/test';", string(content))
	assert.False(t, strings.Contains(string(content), "```"))
}

func TestRunGenerate_SingleStory(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.Stories.Dir, "login.md"), "Title: Login\n")
	writeFile(t, filepath.Join(cfg.Stories.Dir, "checkboxes.md"), "Title: Checkboxes\n")

	stub := &stubCompletion{text: "test('x', async () => {});"}
	a := newTestApp(t, cfg, stub)

	generated, err := a.RunGenerate(context.Background(), "login")
	require.NoError(t, err)
	require.Len(t, generated, 1)
	assert.Len(t, stub.requests, 1)
	assert.NoFileExists(t, filepath.Join(cfg.Generate.TestsDir, "checkboxes.spec.js"))

	_, err = a.RunGenerate(context.Background(), "missing")
	assert.Error(t, err)
}

func TestRunGenerate_NoStories(t *testing.T) {
	cfg := newTestConfig(t)
	a := newTestApp(t, cfg, &stubCompletion{})

	_, err := a.RunGenerate(context.Background(), "")
	assert.ErrorIs(t, err, synthesis.ErrNoStories)
}

func TestClose_ClosesCompletion(t *testing.T) {
	stub := &stubCompletion{}
	a := newTestApp(t, newTestConfig(t), stub)

	require.NoError(t, a.Close())
	assert.True(t, stub.closed)
}

func TestListAudits_ReadsPastRuns(t *testing.T) {
	cfg := newTestConfig(t)
	logger := arbor.NewLogger()

	db, err := badger.NewBadgerDB(logger, cfg.Audit.Path)
	require.NoError(t, err)
	storage := badger.NewAuditStorage(db, logger)
	base := time.Date(2025, 11, 20, 10, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-1", "run-1", "run-2"} {
		require.NoError(t, storage.SaveAudit(context.Background(), &models.CompletionAudit{
			ID:        fmt.Sprintf("entry-%d", i),
			RunID:     runID,
			Operation: "analyze",
			Prompt:    "[user]\nExplain",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, storage.Close())

	// auditing is off for this run; past entries are still readable
	a := newTestApp(t, cfg, &stubCompletion{})
	defer a.Close()

	entries, err := a.ListAudits(context.Background(), "run-1", 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID)
	assert.Equal(t, "entry-0", entries[1].ID)

	all, err := a.ListAudits(context.Background(), "", 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "entry-2", all[0].ID)

	entry, err := a.GetAudit(context.Background(), "entry-0")
	require.NoError(t, err)
	assert.Equal(t, "[user]\nExplain", entry.Prompt)

	_, err = a.GetAudit(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrAuditNotFound)
}
