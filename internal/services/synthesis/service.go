package synthesis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/models"
	"github.com/ternarybob/testpilot/internal/services/llm"
)

// ErrNoStories is returned when there is nothing to generate from
var ErrNoStories = errors.New("no story files found")

// Service writes one Playwright test per story using the completion service
type Service struct {
	completion interfaces.CompletionService
	config     *common.GenerateConfig
	logger     arbor.ILogger
}

// NewService creates a new synthesis service
func NewService(completion interfaces.CompletionService, config *common.GenerateConfig, logger arbor.ILogger) *Service {
	return &Service{
		completion: completion,
		config:     config,
		logger:     logger,
	}
}

// FileName returns the test file name for a story
func (s *Service) FileName(story models.Story) string {
	return story.Name + s.config.Suffix
}

// Generate processes stories strictly one at a time. The first completion or
// write error aborts the run; files already written are kept.
func (s *Service) Generate(ctx context.Context, storyList []models.Story) ([]models.GeneratedTest, error) {
	if len(storyList) == 0 {
		return nil, ErrNoStories
	}

	if err := os.MkdirAll(s.config.TestsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create tests directory %s: %w", s.config.TestsDir, err)
	}

	generated := make([]models.GeneratedTest, 0, len(storyList))
	for _, story := range storyList {
		if err := ctx.Err(); err != nil {
			return generated, err
		}

		test, err := s.generateOne(ctx, story)
		if err != nil {
			return generated, err
		}
		generated = append(generated, *test)

		s.logger.Info().
			Str("story", story.Name).
			Str("path", test.Path).
			Msg("Test created")
	}

	return generated, nil
}

func (s *Service) generateOne(ctx context.Context, story models.Story) (*models.GeneratedTest, error) {
	fileName := s.FileName(story)
	request := interfaces.UserPrompt(s.config.Model, SystemPrompt, BuildPrompt(story, fileName))

	resp, err := s.completion.Complete(llm.WithAuditSubject(ctx, "generate", story.Name), request)
	if err != nil {
		return nil, fmt.Errorf("failed to generate test for story %s: %w", story.Name, err)
	}

	test := &models.GeneratedTest{Story: story.Name}
	var text string
	if resp != nil {
		text = resp.Text
		test.Provider = resp.Provider
		test.Model = resp.Model
	}

	code := StripMarkdownFences(text)
	if code == "" {
		s.logger.Warn().Str("story", story.Name).Msg("Completion service returned no code")
	}

	path := filepath.Join(s.config.TestsDir, fileName)
	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return nil, fmt.Errorf("failed to write test %s: %w", path, err)
	}

	test.Path = path
	test.Content = code
	return test, nil
}

// SelectStory narrows the list to the named story. An empty name keeps all.
func SelectStory(storyList []models.Story, name string) ([]models.Story, error) {
	if name == "" {
		return storyList, nil
	}
	for _, story := range storyList {
		if story.Name == name {
			return []models.Story{story}, nil
		}
	}
	return nil, fmt.Errorf("story %q not found", name)
}
