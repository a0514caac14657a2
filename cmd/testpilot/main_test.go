package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"plain error is printed", errors.New("flag provided but not defined: -x"), "flag provided but not defined: -x"},
		{"logged error is silent", &loggedError{err: errors.New("failed to read report")}, ""},
		{"wrapped logged error is silent", fmt.Errorf("run: %w", &loggedError{err: errors.New("boom")}), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorMessage(tt.err))
		})
	}
}

func TestRun_CommandFailureIsLoggedOnce(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "testpilot.toml")
	config := fmt.Sprintf(`
[html]
output = %q
stylesheet = %q

[audit]
path = %q
`, filepath.Join(dir, "ai-report.html"), filepath.Join(dir, "ai-report.css"), filepath.Join(dir, "audit"))
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	err := newCLIApp().Run([]string{"testpilot", "-c", configPath, "render", filepath.Join(dir, "missing.json")})
	require.Error(t, err)

	var logged *loggedError
	assert.True(t, errors.As(err, &logged))
	assert.Empty(t, errorMessage(err))
	assert.NoFileExists(t, filepath.Join(dir, "ai-report.html"))
}

func TestRun_InvalidConfigIsLoggedOnce(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "testpilot.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[analysis]\nformat = \"xml\"\n"), 0644))

	err := newCLIApp().Run([]string{"testpilot", "-c", configPath, "generate"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
	assert.Empty(t, errorMessage(err))
}
