package postgres

import (
	"context"
	"database/sql"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const documentsTable = "logitrack.documents"

var documentColumns = []string{
	"id",
	"tenant_id",
	"owner_kind",
	"owner_id",
	"title",
	"kind",
	"url",
	"expires_at",
	"created_at",
	"updated_at",
}

// DocumentRepository implements port.DocumentRepository using PostgreSQL.
type DocumentRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewDocumentRepository wires a PostgreSQL-backed document repository.
func NewDocumentRepository(exec pgExecutor) *DocumentRepository {
	return &DocumentRepository{exec: exec, builder: newBuilder()}
}

// Create inserts a new document row.
func (r *DocumentRepository) Create(ctx context.Context, document domain.Document) error {
	stmt, args, err := r.builder.Insert(documentsTable).
		Columns(documentColumns...).
		Values(
			document.ID,
			document.TenantID,
			document.OwnerKind,
			document.OwnerID,
			document.Title,
			document.Kind,
			document.URL,
			document.ExpiresAt,
			document.CreatedAt,
			document.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert document sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return translateError(err, "insert document")
	}

	return nil
}

// GetByID retrieves a document owned by tenantID.
func (r *DocumentRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Document, error) {
	stmt, args, err := r.builder.Select(documentColumns...).
		From(documentsTable).
		Where(tenantScoped(tenantID, id)).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select document sql: %w", err)
	}

	document, err := scanDocument(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		return nil, translateError(err, "scan document")
	}

	return document, nil
}

// ListByOwner returns the documents attached to one vehicle, driver or shipment.
func (r *DocumentRepository) ListByOwner(ctx context.Context, tenantID string, ownerKind domain.DocumentOwnerKind, ownerID string) ([]domain.Document, error) {
	stmt, args, err := r.builder.Select(documentColumns...).
		From(documentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "owner_kind": ownerKind, "owner_id": ownerID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list documents sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	documents := make([]domain.Document, 0)
	for rows.Next() {
		document, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, *document)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

// Update persists the descriptive document attributes. The owner never changes.
func (r *DocumentRepository) Update(ctx context.Context, document domain.Document) error {
	stmt, args, err := r.builder.Update(documentsTable).
		Set("title", document.Title).
		Set("kind", document.Kind).
		Set("url", document.URL).
		Set("expires_at", document.ExpiresAt).
		Set("updated_at", document.UpdatedAt).
		Where(tenantScoped(document.TenantID, document.ID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update document sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "update document")
}

// Delete removes a document owned by tenantID.
func (r *DocumentRepository) Delete(ctx context.Context, tenantID, id string) error {
	stmt, args, err := r.builder.Delete(documentsTable).
		Where(tenantScoped(tenantID, id)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete document sql: %w", err)
	}

	return execAffectingOne(ctx, r.exec, stmt, args, "delete document")
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		document  domain.Document
		expiresAt sql.NullTime
	)

	if err := row.Scan(
		&document.ID,
		&document.TenantID,
		&document.OwnerKind,
		&document.OwnerID,
		&document.Title,
		&document.Kind,
		&document.URL,
		&expiresAt,
		&document.CreatedAt,
		&document.UpdatedAt,
	); err != nil {
		return nil, err
	}

	document.ExpiresAt = timePtr(expiresAt)
	return &document, nil
}

var _ port.DocumentRepository = (*DocumentRepository)(nil)
