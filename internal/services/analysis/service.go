package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/models"
	"github.com/ternarybob/testpilot/internal/services/llm"
)

// StoryLookup finds the story related to a test title
type StoryLookup interface {
	Lookup(title string) (*models.Story, bool)
}

// Service asks the completion service for a root-cause analysis of each
// failed test
type Service struct {
	completion interfaces.CompletionService
	stories    StoryLookup
	config     *common.AnalysisConfig
	logger     arbor.ILogger
}

// NewService creates a new analysis service. stories may be nil.
func NewService(completion interfaces.CompletionService, stories StoryLookup, config *common.AnalysisConfig, logger arbor.ILogger) *Service {
	return &Service{
		completion: completion,
		stories:    stories,
		config:     config,
		logger:     logger,
	}
}

// Analyze processes failed tests strictly in order, one request at a time.
// The first completion error aborts the batch and is returned with the
// records completed so far. With checkpointing enabled the analysis document
// is rewritten after every record.
func (s *Service) Analyze(ctx context.Context, failed []models.FailedTest) ([]models.AnalysisRecord, error) {
	records := make([]models.AnalysisRecord, 0, len(failed))

	for i := range failed {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record, err := s.analyzeOne(ctx, &failed[i])
		if err != nil {
			return records, err
		}
		records = append(records, *record)

		s.logger.Info().
			Str("title", record.Title).
			Int("index", i+1).
			Int("total", len(failed)).
			Msg("Analyzed")

		if s.config.Checkpoint {
			if err := WriteDocument(s.config.Output, s.config.Format, records); err != nil {
				return records, fmt.Errorf("failed to checkpoint analysis: %w", err)
			}
		}
	}

	return records, nil
}

func (s *Service) analyzeOne(ctx context.Context, test *models.FailedTest) (*models.AnalysisRecord, error) {
	var story *models.Story
	if s.stories != nil {
		if found, ok := s.stories.Lookup(test.Title); ok {
			story = found
		}
	}

	prompt := BuildPrompt(*test, story, s.config.AppURL)
	request := interfaces.UserPrompt(s.config.Model, "", prompt)

	resp, err := s.completion.Complete(llm.WithAuditSubject(ctx, "analyze", test.Title), request)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze test %q: %w", test.Title, err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}

	return &models.AnalysisRecord{
		Title:    test.Title,
		Project:  test.ProjectOr("n/a"),
		Status:   test.Status,
		Analysis: text,
	}, nil
}
