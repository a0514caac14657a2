package stories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/models"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a story name from a test title: the text before the first
// " - ", lowercased, with non-alphanumeric runs collapsed to underscores.
//
//	"Add/Remove Elements - wrong expectations" -> "add_remove_elements"
func Slug(title string) string {
	head, _, _ := strings.Cut(title, " - ")
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(head), "_")
	return strings.Trim(slug, "_")
}

// Store reads story markdown files from a directory
type Store struct {
	dir       string
	extension string
	logger    arbor.ILogger
}

// NewStore creates a story store rooted at dir. Extension includes the dot.
func NewStore(dir, extension string, logger arbor.ILogger) *Store {
	if extension == "" {
		extension = ".md"
	}
	return &Store{
		dir:       dir,
		extension: extension,
		logger:    logger,
	}
}

// Dir returns the directory the store reads from
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a story name
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+s.extension)
}

// Load reads a single story by name
func (s *Store) Load(name string) (*models.Story, error) {
	path := s.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read story %s: %w", path, err)
	}
	return &models.Story{
		Name: name,
		Path: path,
		Text: string(data),
	}, nil
}

// Lookup finds the story related to a test title. Any failure (no slug,
// missing file, unreadable file) means no story and is only logged.
func (s *Store) Lookup(title string) (*models.Story, bool) {
	slug := Slug(title)
	if slug == "" {
		return nil, false
	}

	story, err := s.Load(slug)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug().Err(err).Str("slug", slug).Msg("Story lookup failed")
		}
		return nil, false
	}

	s.logger.Debug().Str("slug", slug).Str("path", story.Path).Msg("Matched story for test")
	return story, true
}

// List returns every story in the directory sorted by name.
// A missing directory yields no stories.
func (s *Store) List() ([]models.Story, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Story{}, nil
		}
		return nil, fmt.Errorf("failed to read stories directory %s: %w", s.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.extension) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), s.extension))
	}
	sort.Strings(names)

	stories := make([]models.Story, 0, len(names))
	for _, name := range names {
		story, err := s.Load(name)
		if err != nil {
			return nil, err
		}
		stories = append(stories, *story)
	}

	return stories, nil
}
