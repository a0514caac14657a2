package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/testpilot/internal/interfaces"
	"github.com/ternarybob/testpilot/internal/models"
)

type auditSubjectKey struct{}

type auditSubject struct {
	operation string
	subject   string
}

// WithAuditSubject labels completion calls made with ctx so the audit trail
// can tell which test or story a prompt was about.
func WithAuditSubject(ctx context.Context, operation, subject string) context.Context {
	return context.WithValue(ctx, auditSubjectKey{}, auditSubject{operation: operation, subject: subject})
}

func auditSubjectFrom(ctx context.Context) auditSubject {
	if s, ok := ctx.Value(auditSubjectKey{}).(auditSubject); ok {
		return s
	}
	return auditSubject{operation: "complete"}
}

// AuditedService wraps a CompletionService and records every call to
// AuditStorage. Storage failures are logged and never fail the call.
type AuditedService struct {
	inner      interfaces.CompletionService
	storage    interfaces.AuditStorage
	runID      string
	logPrompts bool
	logger     arbor.ILogger
}

// NewAuditedService creates an audited completion service for one run
func NewAuditedService(inner interfaces.CompletionService, storage interfaces.AuditStorage, logPrompts bool, logger arbor.ILogger) *AuditedService {
	return &AuditedService{
		inner:      inner,
		storage:    storage,
		runID:      uuid.New().String(),
		logPrompts: logPrompts,
		logger:     logger,
	}
}

// RunID identifies the audit entries written by this service
func (s *AuditedService) RunID() string {
	return s.runID
}

// Complete forwards the request and records the outcome
func (s *AuditedService) Complete(ctx context.Context, request *interfaces.CompletionRequest) (*interfaces.CompletionResponse, error) {
	start := time.Now()
	resp, err := s.inner.Complete(ctx, request)
	duration := time.Since(start)

	label := auditSubjectFrom(ctx)
	entry := &models.CompletionAudit{
		ID:         uuid.New().String(),
		RunID:      s.runID,
		Operation:  label.operation,
		Subject:    label.subject,
		Success:    err == nil,
		DurationMs: duration.Milliseconds(),
		CreatedAt:  start,
	}
	if request != nil {
		entry.Model = request.Model
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if resp != nil {
		entry.Provider = resp.Provider
		entry.Model = resp.Model
	}
	if s.logPrompts {
		if request != nil {
			entry.Prompt = joinPrompt(request.Messages)
		}
		if resp != nil {
			entry.Response = resp.Text
		}
	}

	if saveErr := s.storage.SaveAudit(ctx, entry); saveErr != nil {
		s.logger.Warn().
			Err(saveErr).
			Str("operation", entry.Operation).
			Str("subject", entry.Subject).
			Msg("Failed to save completion audit entry")
	}

	return resp, err
}

// Close closes the wrapped service
func (s *AuditedService) Close() error {
	return s.inner.Close()
}

func joinPrompt(messages []interfaces.Message) string {
	var b strings.Builder
	for i, msg := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(msg.Role)
		b.WriteString("]\n")
		b.WriteString(msg.Content)
	}
	return b.String()
}
