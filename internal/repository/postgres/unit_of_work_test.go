package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"go.uber.org/zap/zaptest"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	mock := newMockPool(t)
	uow := NewUnitOfWork(mock, NewRepositories(mock), zaptest.NewLogger(t))
	driverID := "drv-1"

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE logitrack\.vehicles SET driver_id = \$1, updated_at = \$2 WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "veh-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE logitrack\.drivers SET vehicle_id = \$1, updated_at = \$2 WHERE id = \$3 AND tenant_id = \$4`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), driverID, "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	err := uow.WithinTx(context.Background(), func(ctx context.Context, repos port.TxRepositories) error {
		vehicleID := "veh-1"
		if err := repos.Vehicles.SetDriver(ctx, "tenant-a", vehicleID, &driverID); err != nil {
			return err
		}
		return repos.Drivers.SetVehicle(ctx, "tenant-a", driverID, &vehicleID)
	})
	if err != nil {
		t.Fatalf("WithinTx returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnitOfWork_RollsBackWhenSecondWriteFails(t *testing.T) {
	mock := newMockPool(t)
	uow := NewUnitOfWork(mock, NewRepositories(mock), zaptest.NewLogger(t))
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM logitrack\.vehicles WHERE id = \$1 AND tenant_id = \$2 LIMIT 1 FOR UPDATE`).
		WithArgs("veh-1", "tenant-a").
		WillReturnRows(vehicleRow(now))
	mock.ExpectExec(`UPDATE logitrack\.vehicles SET driver_id`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "veh-1", "tenant-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE logitrack\.drivers SET vehicle_id`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "drv-1", "tenant-a").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	driverID := "drv-1"
	err := uow.WithinTx(context.Background(), func(ctx context.Context, repos port.TxRepositories) error {
		if _, err := repos.Vehicles.GetForUpdate(ctx, "tenant-a", "veh-1"); err != nil {
			return err
		}
		if err := repos.Vehicles.SetDriver(ctx, "tenant-a", "veh-1", &driverID); err != nil {
			return err
		}
		vehicleID := "veh-1"
		return repos.Drivers.SetVehicle(ctx, "tenant-a", driverID, &vehicleID)
	})
	if err == nil {
		t.Fatalf("expected error from WithinTx")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUnitOfWork_BeginFailure(t *testing.T) {
	mock := newMockPool(t)
	uow := NewUnitOfWork(mock, NewRepositories(mock), nil)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := uow.WithinTx(context.Background(), func(context.Context, port.TxRepositories) error {
		called = true
		return nil
	})
	if err == nil {
		t.Fatalf("expected begin error")
	}
	if called {
		t.Fatalf("callback must not run without a transaction")
	}
}
