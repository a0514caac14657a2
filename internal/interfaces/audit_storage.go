package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/testpilot/internal/models"
)

// ErrAuditNotFound is returned when an audit entry does not exist
var ErrAuditNotFound = errors.New("audit entry not found")

// AuditStorage persists completion-service audit entries
type AuditStorage interface {
	SaveAudit(ctx context.Context, entry *models.CompletionAudit) error
	GetAudit(ctx context.Context, id string) (*models.CompletionAudit, error)
	ListAudits(ctx context.Context, runID string, limit int) ([]*models.CompletionAudit, error)
	Close() error
}
