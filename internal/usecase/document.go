package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateDocumentInput attaches a document to a vehicle, driver or shipment.
type CreateDocumentInput struct {
	OwnerKind domain.DocumentOwnerKind `json:"-" validate:"required,oneof=vehicle driver shipment"`
	OwnerID   string                   `json:"-" validate:"required"`
	Title     string                   `json:"title" validate:"required,max=128"`
	Kind      string                   `json:"kind" validate:"required,max=64"`
	URL       string                   `json:"url" validate:"required,url"`
	ExpiresAt *time.Time               `json:"expires_at"`
}

// UpdateDocumentInput lists the document attributes an update may change.
type UpdateDocumentInput struct {
	ID        string     `json:"-" validate:"required"`
	Title     *string    `json:"title" validate:"omitempty,min=1,max=128"`
	Kind      *string    `json:"kind" validate:"omitempty,min=1,max=64"`
	URL       *string    `json:"url" validate:"omitempty,url"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// ListDocumentsInput selects the documents of one owner.
type ListDocumentsInput struct {
	OwnerKind domain.DocumentOwnerKind `json:"-" validate:"required,oneof=vehicle driver shipment"`
	OwnerID   string                   `json:"-" validate:"required"`
}

// DocumentService manages documents nested under their owning resource.
type DocumentService struct {
	controller
	documents port.DocumentRepository
}

// NewDocumentService constructs a DocumentService.
func NewDocumentService(deps ControllerDeps, documents port.DocumentRepository) *DocumentService {
	return &DocumentService{controller: newController(deps), documents: documents}
}

// Create attaches a document. The owner's stored tenant is the target tenant.
func (s *DocumentService) Create(ctx context.Context, actor domain.Principal, input CreateDocumentInput) (*domain.Document, error) {
	op := PolicyDocumentCreate.Name
	if err := s.authorizeOwner(ctx, actor, input.OwnerKind, input.OwnerID, PolicyDocumentCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	now := s.now()
	document := domain.Document{
		ID:        s.newID(),
		TenantID:  actor.TenantID,
		OwnerKind: input.OwnerKind,
		OwnerID:   input.OwnerID,
		Title:     strings.TrimSpace(input.Title),
		Kind:      strings.ToLower(strings.TrimSpace(input.Kind)),
		URL:       strings.TrimSpace(input.URL),
		ExpiresAt: input.ExpiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.documents.Create(ctx, document); err != nil {
		return nil, storageError(op, domain.ResourceDocument, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDocument, document.ID, domain.EntityCreated, map[string]any{
		"owner_kind": string(document.OwnerKind),
		"owner_id":   document.OwnerID,
	})
	return &document, nil
}

// Get returns one document.
func (s *DocumentService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Document, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceDocument, id, PolicyDocumentRead); err != nil {
		return nil, err
	}

	document, err := s.documents.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyDocumentRead.Name, domain.ResourceDocument, err)
	}
	return document, nil
}

// ListByOwner returns the documents attached to one resource.
func (s *DocumentService) ListByOwner(ctx context.Context, actor domain.Principal, input ListDocumentsInput) ([]domain.Document, error) {
	op := PolicyDocumentList.Name
	if err := s.authorizeOwner(ctx, actor, input.OwnerKind, input.OwnerID, PolicyDocumentList); err != nil {
		return nil, err
	}

	documents, err := s.documents.ListByOwner(ctx, actor.TenantID, input.OwnerKind, input.OwnerID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDocument, err)
	}
	return documents, nil
}

// Update changes the supplied attributes of a document.
func (s *DocumentService) Update(ctx context.Context, actor domain.Principal, input UpdateDocumentInput) (*domain.Document, error) {
	op := PolicyDocumentUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDocument, input.ID, PolicyDocumentUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	document, err := s.documents.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDocument, err)
	}

	if input.Title != nil {
		document.Title = strings.TrimSpace(*input.Title)
	}
	if input.Kind != nil {
		document.Kind = strings.ToLower(strings.TrimSpace(*input.Kind))
	}
	if input.URL != nil {
		document.URL = strings.TrimSpace(*input.URL)
	}
	if input.ExpiresAt != nil {
		document.ExpiresAt = input.ExpiresAt
	}
	document.UpdatedAt = s.now()

	if err := s.documents.Update(ctx, *document); err != nil {
		return nil, storageError(op, domain.ResourceDocument, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDocument, document.ID, domain.EntityUpdated, nil)
	return document, nil
}

// Delete removes a document.
func (s *DocumentService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyDocumentDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDocument, id, PolicyDocumentDelete); err != nil {
		return err
	}

	if err := s.documents.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceDocument, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDocument, id, domain.EntityDeleted, nil)
	return nil
}

func (s *DocumentService) authorizeOwner(ctx context.Context, actor domain.Principal, kind domain.DocumentOwnerKind, ownerID string, policy Policy) error {
	resource, ok := kind.Resource()
	if !ok {
		return invalidInput(policy.Name, "owner_kind", "owner_kind must be one of: vehicle driver shipment")
	}
	return s.authorizeResource(ctx, actor, resource, ownerID, policy)
}
