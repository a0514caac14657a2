package stories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Add/Remove Elements - wrong expectations (the-internet.herokuapp.com)", "add_remove_elements"},
		{"Login - valid credentials", "login"},
		{"Checkboxes", "checkboxes"},
		{"  Dynamic   Loading!! - example 2", "dynamic_loading"},
		{"Form-Auth - basic", "form_auth"},
		{"A - B - C", "a"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slug(tt.title))
		})
	}
}

func writeStory(t *testing.T, dir, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(text), 0644))
}

func TestStore_Lookup(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "add_remove_elements.md", "Title: Add/Remove Elements\nBase URL: https://the-internet.herokuapp.com/add_remove_elements/\n")
	store := NewStore(dir, ".md", arbor.NewLogger())

	story, ok := store.Lookup("Add/Remove Elements - wrong expectations (the-internet.herokuapp.com)")
	require.True(t, ok)
	assert.Equal(t, "add_remove_elements", story.Name)
	assert.Equal(t, filepath.Join(dir, "add_remove_elements.md"), story.Path)

	baseURL, ok := ExtractBaseURL(story.Text)
	require.True(t, ok)
	assert.Equal(t, "https://the-internet.herokuapp.com/add_remove_elements/", baseURL)

	_, ok = store.Lookup("Checkboxes - toggles")
	assert.False(t, ok)

	_, ok = store.Lookup("--")
	assert.False(t, ok)
}

func TestStore_LookupMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"), ".md", arbor.NewLogger())

	_, ok := store.Lookup("Login - valid")
	assert.False(t, ok)
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "login.md", "Title: Login")
	writeStory(t, dir, "checkboxes.md", "Title: Checkboxes")
	writeStory(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "drafts.md"), 0755))

	store := NewStore(dir, "", arbor.NewLogger())
	stories, err := store.List()
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "checkboxes", stories[0].Name)
	assert.Equal(t, "login", stories[1].Name)
	assert.Equal(t, "Title: Login", stories[1].Text)
}

func TestStore_ListMissingDirectory(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing"), ".md", arbor.NewLogger())

	stories, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, stories)
}

func TestStore_Load(t *testing.T) {
	dir := t.TempDir()
	writeStory(t, dir, "login.md", "Title: Login")
	store := NewStore(dir, ".md", arbor.NewLogger())

	story, err := store.Load("login")
	require.NoError(t, err)
	assert.Equal(t, "Title: Login", story.Text)

	_, err = store.Load("missing")
	assert.Error(t, err)
}
