package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// AuditStorage implements interfaces.AuditStorage for Badger
type AuditStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewAuditStorage creates a new AuditStorage instance
func NewAuditStorage(db *BadgerDB, logger arbor.ILogger) interfaces.AuditStorage {
	return &AuditStorage{
		db:     db,
		logger: logger,
	}
}

// SaveAudit inserts or replaces an audit entry
func (s *AuditStorage) SaveAudit(ctx context.Context, entry *models.CompletionAudit) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("audit entry ID is required")
	}
	if err := s.db.Store().Upsert(entry.ID, entry); err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}
	return nil
}

// GetAudit retrieves an audit entry by ID
func (s *AuditStorage) GetAudit(ctx context.Context, id string) (*models.CompletionAudit, error) {
	var entry models.CompletionAudit
	err := s.db.Store().Get(id, &entry)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, interfaces.ErrAuditNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit entry: %w", err)
	}
	return &entry, nil
}

// ListAudits returns the newest entries first. An empty runID lists all runs;
// a non-positive limit returns every match.
func (s *AuditStorage) ListAudits(ctx context.Context, runID string, limit int) ([]*models.CompletionAudit, error) {
	query := badgerhold.Where("ID").Ne("") // Select all
	if runID != "" {
		query = badgerhold.Where("RunID").Eq(runID)
	}
	query = query.SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}

	var entries []models.CompletionAudit
	if err := s.db.Store().Find(&entries, query); err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	result := make([]*models.CompletionAudit, len(entries))
	for i := range entries {
		result[i] = &entries[i]
	}
	return result, nil
}

// Close closes the underlying database
func (s *AuditStorage) Close() error {
	return s.db.Close()
}
