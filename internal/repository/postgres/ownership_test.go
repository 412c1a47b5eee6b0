package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

func TestOwnershipRepository_TenantOf(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	mock.ExpectQuery(`SELECT tenant_id FROM logitrack\.shipments WHERE id = \$1 LIMIT 1`).
		WithArgs("shp-1").
		WillReturnRows(pgxmock.NewRows([]string{"tenant_id"}).AddRow("tenant-b"))

	tenantID, err := repo.TenantOf(context.Background(), domain.ResourceShipment, "shp-1")
	if err != nil {
		t.Fatalf("TenantOf returned error: %v", err)
	}
	if tenantID != "tenant-b" {
		t.Fatalf("expected tenant-b, got %s", tenantID)
	}
}

func TestOwnershipRepository_TenantOfMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	mock.ExpectQuery(`SELECT tenant_id FROM logitrack\.inventory_items`).
		WithArgs("inv-404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.TenantOf(context.Background(), domain.ResourceInventory, "inv-404")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOwnershipRepository_UnknownKind(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	if _, err := repo.TenantOf(context.Background(), domain.ResourceKind("planet"), "x"); err == nil {
		t.Fatalf("expected error for unknown resource kind")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query expected: %v", err)
	}
}

func TestOwnershipRepository_MalformedIDIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOwnershipRepository(mock)

	mock.ExpectQuery(`SELECT tenant_id FROM logitrack\.vehicles WHERE id = \$1`).
		WithArgs("not-a-uuid").
		WillReturnError(&pgconn.PgError{
			Code:    pgInvalidTextRepresentation,
			Message: `invalid input syntax for type uuid: "not-a-uuid"`,
		})

	_, err := repo.TenantOf(context.Background(), domain.ResourceVehicle, "not-a-uuid")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
