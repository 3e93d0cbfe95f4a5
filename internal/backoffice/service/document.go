package service

import (
	"context"
	"strings"
	"time"

	"github.com/backdeskhq/backdesk/internal/backoffice/domain"
	"github.com/backdeskhq/backdesk/internal/backoffice/store"
	"github.com/backdeskhq/backdesk/pkg/idx"
)

// DocumentService manages client-owned records. Reads go through the
// ownership guard: a document belonging to another client is indistinguishable
// from one that does not exist.
type DocumentService struct {
	Store store.Store
}

// AddDocumentParams are the inputs for registering a document.
type AddDocumentParams struct {
	Title       string
	Description string
	FileType    string
	ClientID    idx.ID
	ProjectID   idx.ID
}

// AddDocument registers a new document under a client account.
func (s *DocumentService) AddDocument(ctx context.Context, p AddDocumentParams) (domain.Document, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return domain.Document{}, ErrInvalidInput
	}

	client, err := s.Store.Users().GetByID(ctx, p.ClientID)
	if err != nil {
		return domain.Document{}, err
	}
	if client.Role != domain.RoleClient {
		return domain.Document{}, ErrInvalidInput
	}

	doc := domain.Document{
		ID:          idx.New(),
		Title:       p.Title,
		Description: strings.TrimSpace(p.Description),
		FileType:    strings.TrimSpace(p.FileType),
		ClientID:    p.ClientID,
		ProjectID:   p.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Store.Documents().Create(ctx, doc); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// ViewDocument fetches one document for its owning client or an admin.
func (s *DocumentService) ViewDocument(ctx context.Context, principal *domain.User, id idx.ID) (domain.Document, error) {
	doc, err := s.Store.Documents().GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if !domain.RequireOwnerOrAdmin(principal, doc).Allowed() {
		return domain.Document{}, store.ErrNotFound
	}
	return doc, nil
}

// ListMine returns the principal's own documents.
func (s *DocumentService) ListMine(ctx context.Context, principal *domain.User) ([]domain.Document, error) {
	if !domain.RequireAuthenticated(principal).Allowed() {
		return nil, ErrForbidden
	}
	return s.Store.Documents().ListByClient(ctx, principal.ID)
}
