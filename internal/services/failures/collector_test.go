package failures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/testpilot/internal/models"
)

func strPtr(s string) *string { return &s }

func TestCollectFailedTests_Empty(t *testing.T) {
	assert.Empty(t, CollectFailedTests(nil))
	assert.Empty(t, CollectFailedTests([]models.Suite{}))
	assert.NotNil(t, CollectFailedTests(nil))
}

func TestCollectFailedTests(t *testing.T) {
	tests := []struct {
		name     string
		suites   []models.Suite
		expected []string
	}{
		{
			name: "flat failed test",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Login test",
					Tests: []models.Test{{
						Status:      models.StatusFailed,
						ProjectName: strPtr("chromium"),
						Results:     []models.Result{{Status: models.StatusFailed}},
					}},
				}},
			}},
			expected: []string{"Login test"},
		},
		{
			name: "timed out result on passed test",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Slow test",
					Tests: []models.Test{{
						Status:      models.StatusPassed,
						ProjectName: strPtr("chromium"),
						Results:     []models.Result{{Status: models.StatusTimedOut}},
					}},
				}},
			}},
			expected: []string{"Slow test"},
		},
		{
			name: "flaky retry sequence",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Flaky test",
					Tests: []models.Test{{
						Status: models.StatusFlaky,
						Results: []models.Result{
							{Status: models.StatusFailed, Retry: 0},
							{Status: models.StatusPassed, Retry: 1},
						},
					}},
				}},
			}},
			expected: []string{"Flaky test"},
		},
		{
			name: "nested suites",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Parent test",
					Tests: []models.Test{{Status: models.StatusPassed}},
				}},
				Suites: []models.Suite{{
					Specs: []models.Spec{{
						Title: "Child test",
						Tests: []models.Test{{
							Status:  models.StatusFailed,
							Results: []models.Result{{Status: models.StatusFailed}},
						}},
					}},
				}},
			}},
			expected: []string{"Child test"},
		},
		{
			name: "passed tests ignored",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Passed test",
					Tests: []models.Test{{
						Status:  models.StatusPassed,
						Results: []models.Result{{Status: models.StatusPassed}},
					}},
				}},
			}},
			expected: []string{},
		},
		{
			name: "skipped and interrupted are not failures",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Skipped test",
					Tests: []models.Test{{
						Status: models.StatusSkipped,
						Results: []models.Result{
							{Status: models.StatusSkipped},
							{Status: models.StatusInterrupted},
						},
					}},
				}},
			}},
			expected: []string{},
		},
		{
			name: "one record per failing project",
			suites: []models.Suite{{
				Specs: []models.Spec{{
					Title: "Cross browser",
					Tests: []models.Test{
						{Status: models.StatusFailed, ProjectName: strPtr("chromium")},
						{Status: models.StatusPassed, ProjectName: strPtr("firefox")},
						{Status: models.StatusFailed, ProjectName: strPtr("webkit")},
					},
				}},
			}},
			expected: []string{"Cross browser", "Cross browser"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CollectFailedTests(tt.suites)

			titles := make([]string, 0, len(result))
			for _, f := range result {
				titles = append(titles, f.Title)
			}
			assert.Equal(t, tt.expected, titles)
		})
	}
}

func TestCollectFailedTests_MissingOptionalFields(t *testing.T) {
	suites := []models.Suite{{
		Specs: []models.Spec{{
			Title: "Test with missing fields",
			Tests: []models.Test{{Status: models.StatusFailed}},
		}},
	}}

	result := CollectFailedTests(suites)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Project)
	assert.Empty(t, result[0].Results)
	assert.Nil(t, result[0].FirstResult())
	assert.Equal(t, "n/a", result[0].ProjectOr("n/a"))
}

func TestCollectFailedTests_Ordering(t *testing.T) {
	failing := func(title string) models.Spec {
		return models.Spec{Title: title, Tests: []models.Test{{Status: models.StatusFailed}}}
	}

	// Each level emits its own specs before any descendant suite, so the
	// root's second spec precedes the nested child's spec.
	suites := []models.Suite{
		{
			Specs: []models.Spec{failing("A1")},
			Suites: []models.Suite{
				{
					Specs:  []models.Spec{failing("A.child1")},
					Suites: []models.Suite{{Specs: []models.Spec{failing("A.child1.grandchild")}}},
				},
				{Specs: []models.Spec{failing("A.child2")}},
			},
		},
		{
			Specs: []models.Spec{failing("B1"), failing("B2")},
		},
	}
	suites[0].Specs = append(suites[0].Specs, failing("A2"))

	result := CollectFailedTests(suites)

	titles := make([]string, 0, len(result))
	for _, f := range result {
		titles = append(titles, f.Title)
	}
	assert.Equal(t, []string{"A1", "A2", "A.child1", "A.child1.grandchild", "A.child2", "B1", "B2"}, titles)
}

func TestCollectFailedTests_CarriesFullRecord(t *testing.T) {
	message := "expected 2 elements, got 1"
	suites := []models.Suite{{
		Specs: []models.Spec{{
			Title: "Add/Remove Elements - wrong expectations",
			Tests: []models.Test{{
				Status:      models.StatusUnexpected,
				ProjectName: strPtr("chromium"),
				Results: []models.Result{
					{Status: models.StatusFailed, Error: &models.ResultError{Message: &message}},
					{Status: models.StatusFailed, Retry: 1},
				},
			}},
		}},
	}}

	result := CollectFailedTests(suites)
	require.Len(t, result, 1)
	record := result[0]
	assert.Equal(t, models.StatusUnexpected, record.Status)
	require.NotNil(t, record.Project)
	assert.Equal(t, "chromium", *record.Project)
	require.Len(t, record.Results, 2)
	assert.Equal(t, message, *record.FirstResult().Error.Message)
}

func TestCollectFailedTests_PureAndStable(t *testing.T) {
	suites := []models.Suite{{
		Specs: []models.Spec{{
			Title: "Login test",
			Tests: []models.Test{{
				Status:      models.StatusFailed,
				ProjectName: strPtr("chromium"),
				Results:     []models.Result{{Status: models.StatusFailed}},
			}},
		}},
		Suites: []models.Suite{{
			Specs: []models.Spec{{
				Title: "Nested",
				Tests: []models.Test{{Status: models.StatusFailed}},
			}},
		}},
	}}

	first := CollectFailedTests(suites)
	second := CollectFailedTests(suites)
	assert.Equal(t, first, second)

	// Mutating the output must not reach back into the report
	first[0].Results[0].Status = models.StatusPassed
	*first[0].Project = "firefox"
	assert.Equal(t, models.StatusFailed, suites[0].Specs[0].Tests[0].Results[0].Status)
	assert.Equal(t, "chromium", *suites[0].Specs[0].Tests[0].ProjectName)
}

func TestCollectFailedTests_EndToEndReport(t *testing.T) {
	report, err := LoadReport("testdata/nested-report.json")
	require.NoError(t, err)

	result := CollectFailedTests(report.Suites)
	require.Len(t, result, 1)
	assert.Equal(t, "Add/Remove Elements - wrong expectations (the-internet.herokuapp.com)", result[0].Title)
	require.Len(t, result[0].Results, 1)
	assert.Equal(t, models.StatusFailed, result[0].Results[0].Status)
}
