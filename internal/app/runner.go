package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/testpilot/internal/models"
	"github.com/ternarybob/testpilot/internal/services/analysis"
	"github.com/ternarybob/testpilot/internal/services/dashboard"
	"github.com/ternarybob/testpilot/internal/services/failures"
	"github.com/ternarybob/testpilot/internal/services/synthesis"
)

// AnalyzeResult summarises one analysis run
type AnalyzeResult struct {
	Failed       int
	Records      []models.AnalysisRecord
	DocumentPath string
	MarkdownPath string
	HTMLPath     string
	PDFPath      string
}

// RunAnalyze loads the Playwright report, analyses every failed test and
// writes the configured artifacts. A report without failures produces no
// artifacts and a nil error.
func (a *App) RunAnalyze(ctx context.Context) (*AnalyzeResult, error) {
	report, err := failures.LoadReport(a.Config.Report.Path)
	if err != nil {
		return nil, err
	}
	failures.LogSummary(a.Logger, report)

	failed := failures.CollectFailedTests(report.Suites)
	result := &AnalyzeResult{Failed: len(failed)}
	if len(failed) == 0 {
		a.Logger.Info().Msg("No failed tests found in report.")
		return result, nil
	}

	a.Logger.Info().
		Int("failed", len(failed)).
		Str("model", a.Config.Analysis.Model).
		Msg("Analyzing failed tests")

	records, err := a.Analysis.Analyze(ctx, failed)
	result.Records = records
	if err != nil {
		return result, fmt.Errorf("failed to analyze failed tests: %w", err)
	}

	if err := analysis.WriteDocument(a.Config.Analysis.Output, a.Config.Analysis.Format, records); err != nil {
		return result, err
	}
	result.DocumentPath = a.Config.Analysis.Output
	a.Logger.Info().
		Str("path", result.DocumentPath).
		Int("records", len(records)).
		Msg("AI analysis written")

	if err := a.writeArtifacts(ctx, records, result); err != nil {
		return result, err
	}

	return result, nil
}

// RunRender re-renders the dashboard from an existing analysis document
// without calling the completion service.
func (a *App) RunRender(ctx context.Context, documentPath string) (*AnalyzeResult, error) {
	if documentPath == "" {
		documentPath = a.Config.Analysis.Output
	}

	records, err := analysis.ReadDocument(documentPath)
	if err != nil {
		return nil, err
	}

	result := &AnalyzeResult{
		Failed:       len(records),
		Records:      records,
		DocumentPath: documentPath,
	}

	if err := a.writeArtifacts(ctx, records, result); err != nil {
		return result, err
	}

	return result, nil
}

// writeArtifacts writes the optional markdown export, the HTML dashboard and
// its PDF, then opens the dashboard when asked to.
func (a *App) writeArtifacts(ctx context.Context, records []models.AnalysisRecord, result *AnalyzeResult) error {
	if path := a.Config.Analysis.MarkdownOutput; path != "" {
		if err := dashboard.WriteMarkdown(path, a.Config.HTML.Title, records); err != nil {
			return err
		}
		result.MarkdownPath = path
		a.Logger.Info().Str("path", path).Msg("Markdown export written")
	}

	if !a.Config.HTML.Enabled {
		return nil
	}

	htmlPath, err := a.Renderer.Write(records, time.Now())
	if err != nil {
		return err
	}
	result.HTMLPath = htmlPath

	if pdfPath := a.Config.HTML.PDF; pdfPath != "" {
		if err := dashboard.PrintPDF(ctx, htmlPath, pdfPath); err != nil {
			return err
		}
		result.PDFPath = pdfPath
		a.Logger.Info().Str("path", pdfPath).Msg("PDF report written")
	}

	if a.Config.HTML.Open {
		if err := dashboard.Open(htmlPath); err != nil {
			a.Logger.Warn().Err(err).Str("path", htmlPath).Msg("Failed to open HTML report")
		}
	}

	return nil
}

// RunGenerate writes a Playwright test for every story, or only for
// storyName when it is set.
func (a *App) RunGenerate(ctx context.Context, storyName string) ([]models.GeneratedTest, error) {
	storyList, err := a.Stories.List()
	if err != nil {
		return nil, err
	}

	selected, err := synthesis.SelectStory(storyList, storyName)
	if err != nil {
		return nil, err
	}

	generated, err := a.Synthesis.Generate(ctx, selected)
	if err != nil {
		if errors.Is(err, synthesis.ErrNoStories) {
			a.Logger.Warn().Str("dir", a.Stories.Dir()).Msg("No story files found")
		}
		return generated, err
	}

	a.Logger.Info().
		Int("tests", len(generated)).
		Str("dir", a.Config.Generate.TestsDir).
		Msg("Test generation complete")

	return generated, nil
}

// ListAudits returns recorded completion calls, newest first. The audit
// database is opened on demand so past runs can be read even when auditing
// is disabled for the current configuration.
func (a *App) ListAudits(ctx context.Context, runID string, limit int) ([]*models.CompletionAudit, error) {
	if err := a.openAuditStorage(); err != nil {
		return nil, err
	}
	return a.AuditStorage.ListAudits(ctx, runID, limit)
}

// GetAudit returns a single recorded completion call
func (a *App) GetAudit(ctx context.Context, id string) (*models.CompletionAudit, error) {
	if err := a.openAuditStorage(); err != nil {
		return nil, err
	}
	return a.AuditStorage.GetAudit(ctx, id)
}
