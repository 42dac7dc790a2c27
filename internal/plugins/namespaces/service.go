package namespaces

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/keyxmakerx/managewiki/internal/apperror"
)

// NamespaceService handles business logic for direct namespace edits.
type NamespaceService interface {
	List(ctx context.Context, wiki string) ([]NamespaceRow, error)
	Get(ctx context.Context, wiki string, id int) (*NamespaceRow, error)
	AddNamespace(ctx context.Context, wiki string, id int, input NamespaceInput) (*NamespaceRow, error)
}

// namespaceService implements NamespaceService.
type namespaceService struct {
	registry Registry
}

// NewNamespaceService creates a new namespace service.
func NewNamespaceService(registry Registry) NamespaceService {
	return &namespaceService{registry: registry}
}

// List returns the decoded namespaces of a wiki.
func (s *namespaceService) List(ctx context.Context, wiki string) ([]NamespaceRow, error) {
	if strings.TrimSpace(wiki) == "" {
		return nil, apperror.NewBadRequest("wiki is required")
	}
	rows, err := s.registry.ListForWiki(ctx, wiki)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("listing namespaces: %w", err))
	}
	return rows, nil
}

// Get returns one namespace of a wiki.
func (s *namespaceService) Get(ctx context.Context, wiki string, id int) (*NamespaceRow, error) {
	wiki = strings.TrimSpace(wiki)
	if wiki == "" {
		return nil, apperror.NewBadRequest("wiki is required")
	}
	row, ok, err := s.registry.ForWiki(wiki).Get(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading namespace: %w", err))
	}
	if !ok {
		return nil, apperror.NewNotFound(fmt.Sprintf("namespace %d not found", id))
	}
	return &row, nil
}

// AddNamespace writes one namespace definition verbatim (no prefix
// substitution) and commits it. Aliases and additional settings of an
// existing namespace are kept.
func (s *namespaceService) AddNamespace(ctx context.Context, wiki string, id int, input NamespaceInput) (*NamespaceRow, error) {
	wiki = strings.TrimSpace(wiki)
	if wiki == "" {
		return nil, apperror.NewBadRequest("wiki is required")
	}
	if id < 0 {
		return nil, apperror.NewValidation("virtual namespaces cannot be stored")
	}

	name := strings.ReplaceAll(strings.TrimSpace(input.Name), " ", "_")
	if name == "" && id != NSMain {
		return nil, apperror.NewValidation("namespace name is required")
	}
	if strings.Contains(name, ":") {
		return nil, apperror.NewValidation("namespace name cannot contain a colon")
	}
	contentModel := strings.TrimSpace(input.ContentModel)
	if contentModel == "" {
		return nil, apperror.NewValidation("content model is required")
	}

	row := NamespaceRow{
		ID:           id,
		Name:         name,
		Core:         input.Core,
		Searchable:   input.Searchable,
		Subpages:     input.Subpages,
		Content:      input.Content,
		ContentModel: contentModel,
		Protection:   strings.TrimSpace(input.Protection),
		Aliases:      []string{},
		Additional:   map[string]any{},
	}

	mod := s.registry.ForWiki(wiki)
	existing, ok, err := mod.Get(ctx, id)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("loading namespace: %w", err))
	}
	if ok {
		if existing.Aliases != nil {
			row.Aliases = existing.Aliases
		}
		if existing.Additional != nil {
			row.Additional = existing.Additional
		}
	}

	if err := mod.Modify(ctx, id, row, false); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("staging namespace: %w", err))
	}
	if err := mod.Commit(ctx); err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("committing namespace: %w", err))
	}

	slog.Info("namespace written",
		slog.String("wiki", wiki),
		slog.Int("id", id),
		slog.String("name", name),
	)
	return &row, nil
}
