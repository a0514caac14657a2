package failures

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/models"
)

// LoadReport reads and decodes a Playwright JSON report
func LoadReport(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", path, err)
	}

	var report models.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", path, err)
	}

	return &report, nil
}

// LogSummary logs the run statistics and any global runner errors
func LogSummary(logger arbor.ILogger, report *models.Report) {
	if report == nil {
		return
	}

	if report.Stats != nil {
		logger.Info().
			Int("expected", report.Stats.Expected).
			Int("unexpected", report.Stats.Unexpected).
			Int("flaky", report.Stats.Flaky).
			Int("skipped", report.Stats.Skipped).
			Int64("duration_ms", int64(report.Stats.Duration)).
			Msg("Playwright run summary")
	}

	for _, e := range report.Errors {
		if e.Message != nil {
			logger.Warn().Str("message", *e.Message).Msg("Runner reported a global error")
		}
	}
}
