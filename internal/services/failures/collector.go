package failures

import (
	"github.com/ternarybob/testpilot/internal/models"
)

// CollectFailedTests flattens a suite tree into the failing tests it contains.
//
// Each suite contributes its own specs first, then the failures of its child
// suites in order. A test qualifies when its status is failed or any of its
// results failed or timed out. The input is never modified; a nil slice yields
// an empty, non-nil result.
func CollectFailedTests(suites []models.Suite) []models.FailedTest {
	return collect(suites, make([]models.FailedTest, 0))
}

func collect(suites []models.Suite, failed []models.FailedTest) []models.FailedTest {
	for i := range suites {
		suite := &suites[i]

		for _, spec := range suite.Specs {
			for _, test := range spec.Tests {
				if !isFailed(test) {
					continue
				}
				failed = append(failed, models.FailedTest{
					Title:   spec.Title,
					Project: cloneString(test.ProjectName),
					Status:  test.Status,
					Results: cloneResults(test.Results),
				})
			}
		}

		if len(suite.Suites) > 0 {
			failed = collect(suite.Suites, failed)
		}
	}
	return failed
}

func isFailed(test models.Test) bool {
	if test.Status == models.StatusFailed {
		return true
	}
	for _, result := range test.Results {
		if result.Status.IsFailure() {
			return true
		}
	}
	return false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// cloneResults copies the results slice so callers cannot alias the report
func cloneResults(results []models.Result) []models.Result {
	out := make([]models.Result, len(results))
	copy(out, results)
	return out
}
