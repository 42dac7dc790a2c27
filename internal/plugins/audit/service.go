package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keyxmakerx/managewiki/internal/apperror"
)

// perPage is the number of entries returned per log page.
const perPage = 50

// AuditService handles business logic for the wiki log.
type AuditService interface {
	// Log records an entry. Errors are also written to slog so callers may
	// treat this as fire-and-forget.
	Log(ctx context.Context, entry *LogEntry) error

	// GetWikiLog returns one page of a wiki's log. Pages are 1-indexed.
	GetWikiLog(ctx context.Context, wiki string, page int) (*LogPage, error)
}

// auditService implements AuditService.
type auditService struct {
	repo AuditRepository
}

// NewAuditService creates a new audit service with the given repository.
func NewAuditService(repo AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// Log validates and persists an entry.
func (s *auditService) Log(ctx context.Context, entry *LogEntry) error {
	if entry.Wiki == "" {
		return apperror.NewBadRequest("wiki id is required for log entry")
	}
	if entry.Action == "" {
		return apperror.NewBadRequest("action is required for log entry")
	}

	if err := s.repo.Log(ctx, entry); err != nil {
		slog.Error("failed to write log entry",
			slog.String("wiki", entry.Wiki),
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
		return apperror.NewInternal(fmt.Errorf("writing log entry: %w", err))
	}
	return nil
}

// GetWikiLog returns a page of entries. Invalid page numbers are clamped to 1.
func (s *auditService) GetWikiLog(ctx context.Context, wiki string, page int) (*LogPage, error) {
	if wiki == "" {
		return nil, apperror.NewBadRequest("wiki id is required")
	}
	if page < 1 {
		page = 1
	}

	entries, total, err := s.repo.ListByWiki(ctx, wiki, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing wiki log: %w", err))
	}
	if entries == nil {
		entries = []LogEntry{}
	}
	return &LogPage{Entries: entries, Total: total, Page: page, PerPage: perPage}, nil
}
