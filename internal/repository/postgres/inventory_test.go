package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

func TestInventoryRepository_AdjustQuantity(t *testing.T) {
	mock := newMockPool(t)
	repo := NewInventoryRepository(mock)

	mock.ExpectQuery(`UPDATE logitrack\.inventory_items SET quantity = quantity \+ \$1.* RETURNING quantity`).
		WithArgs(-3, pgxmock.AnyArg(), "inv-1", "tenant-a", -3).
		WillReturnRows(pgxmock.NewRows([]string{"quantity"}).AddRow(7))

	quantity, err := repo.AdjustQuantity(context.Background(), "tenant-a", "inv-1", -3)
	if err != nil {
		t.Fatalf("AdjustQuantity returned error: %v", err)
	}
	if quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", quantity)
	}
}

func TestInventoryRepository_AdjustQuantityInsufficient(t *testing.T) {
	mock := newMockPool(t)
	repo := NewInventoryRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`UPDATE logitrack\.inventory_items`).
		WithArgs(-3, pgxmock.AnyArg(), "inv-1", "tenant-a", -3).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .* FROM logitrack\.inventory_items WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("inv-1", "tenant-a").
		WillReturnRows(pgxmock.NewRows(inventoryColumns).
			AddRow("inv-1", "tenant-a", "wh-1", "SKU-1", "Pallet", 2, 5, now, now))

	_, err := repo.AdjustQuantity(context.Background(), "tenant-a", "inv-1", -3)
	if !errors.Is(err, repository.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInventoryRepository_AdjustQuantityMissing(t *testing.T) {
	mock := newMockPool(t)
	repo := NewInventoryRepository(mock)

	mock.ExpectQuery(`UPDATE logitrack\.inventory_items`).
		WithArgs(4, pgxmock.AnyArg(), "inv-1", "tenant-b", 4).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .* FROM logitrack\.inventory_items`).
		WithArgs("inv-1", "tenant-b").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.AdjustQuantity(context.Background(), "tenant-b", "inv-1", 4)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
