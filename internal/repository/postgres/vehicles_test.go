package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock
}

func vehicleRow(now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows(vehicleColumns).AddRow(
		"veh-1", "tenant-a", "34 ABC 12", "Ford", "Transit", 2021, "van",
		domain.VehicleStatusActive, 1200.0, nil, now, now,
	)
}

func TestVehicleRepository_GetByIDFiltersByTenant(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM logitrack\.vehicles WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("veh-1", "tenant-a").
		WillReturnRows(vehicleRow(now))

	vehicle, err := repo.GetByID(context.Background(), "tenant-a", "veh-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if vehicle.PlateNumber != "34 ABC 12" || vehicle.TenantID != "tenant-a" {
		t.Fatalf("unexpected vehicle: %+v", vehicle)
	}
	if vehicle.DriverID != nil {
		t.Fatalf("expected nil driver id, got %v", *vehicle.DriverID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestVehicleRepository_GetByIDOtherTenantIsNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)

	mock.ExpectQuery(`SELECT .* FROM logitrack\.vehicles`).
		WithArgs("veh-1", "tenant-b").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "tenant-b", "veh-1")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleRepository_CreateDuplicatePlate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)

	mock.ExpectExec(`INSERT INTO logitrack\.vehicles`).
		WithArgs("veh-2", "tenant-a", "34 ABC 12",
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: "vehicles_tenant_plate_key"})

	err := repo.Create(context.Background(), domain.Vehicle{ID: "veh-2", TenantID: "tenant-a", PlateNumber: "34 ABC 12"})
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	var conflict *repository.ConflictError
	if !errors.As(err, &conflict) || conflict.Field != "plate_number" {
		t.Fatalf("expected conflict on plate_number, got %v", err)
	}
}

func TestVehicleRepository_UpdateMissingRow(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)

	mock.ExpectExec(`UPDATE logitrack\.vehicles SET .* WHERE id = \$9 AND tenant_id = \$10`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			"veh-1", "tenant-b").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), domain.Vehicle{ID: "veh-1", TenantID: "tenant-b"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVehicleRepository_ListAppliesFilters(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .* FROM logitrack\.vehicles WHERE tenant_id = \$1 AND status = \$2 ORDER BY plate_number ASC LIMIT 10`).
		WithArgs("tenant-a", "active").
		WillReturnRows(vehicleRow(now))

	vehicles, err := repo.List(context.Background(), "tenant-a", port.ListFilter{Status: "active", Limit: 10})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(vehicles) != 1 {
		t.Fatalf("expected 1 vehicle, got %d", len(vehicles))
	}
}

func TestVehicleRepository_DeleteScopedToTenant(t *testing.T) {
	mock := newMockPool(t)
	repo := NewVehicleRepository(mock)

	mock.ExpectExec(`DELETE FROM logitrack\.vehicles WHERE id = \$1 AND tenant_id = \$2`).
		WithArgs("veh-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.Delete(context.Background(), "tenant-a", "veh-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
