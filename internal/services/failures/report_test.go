package failures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestLoadReport(t *testing.T) {
	report, err := LoadReport("testdata/nested-report.json")
	require.NoError(t, err)

	require.Len(t, report.Suites, 1)
	require.NotNil(t, report.Stats)
	assert.Equal(t, 1, report.Stats.Unexpected)

	spec := report.Suites[0].Suites[0].Specs[0]
	require.NotNil(t, spec.OK)
	assert.False(t, *spec.OK)
	require.NotNil(t, spec.Tests[0].Results[0].Stdout[0].Text)
	assert.Equal(t, "clicked Add Element twice\n", *spec.Tests[0].Results[0].Stdout[0].Text)

	LogSummary(arbor.NewLogger(), report)
}

func TestLoadReport_MissingOptionalCollections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"suites":[{"specs":[{"title":"bare","tests":[{"status":"failed"}]}]}]}`), 0644))

	report, err := LoadReport(path)
	require.NoError(t, err)
	assert.Nil(t, report.Stats)

	failed := CollectFailedTests(report.Suites)
	require.Len(t, failed, 1)
	assert.Nil(t, failed[0].Project)
}

func TestLoadReport_NoSuites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	report, err := LoadReport(path)
	require.NoError(t, err)
	assert.Empty(t, CollectFailedTests(report.Suites))
}

func TestLoadReport_Errors(t *testing.T) {
	_, err := LoadReport(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"suites": [`), 0644))
	_, err = LoadReport(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse report")
}
