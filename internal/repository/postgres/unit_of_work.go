package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UnitOfWork runs repository calls inside a single PostgreSQL transaction.
type UnitOfWork struct {
	db        txBeginner
	vehicles  *VehicleRepository
	drivers   *DriverRepository
	inventory *InventoryRepository
	roles     *RoleRepository
	logger    *zap.Logger
}

// NewUnitOfWork wires the transactional repositories used for multi-step writes.
func NewUnitOfWork(db txBeginner, repos *Repositories, logger *zap.Logger) *UnitOfWork {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UnitOfWork{
		db:        db,
		vehicles:  repos.Vehicles,
		drivers:   repos.Drivers,
		inventory: repos.Inventory,
		roles:     repos.Roles,
		logger:    logger,
	}
}

// WithinTx begins a transaction, commits when fn succeeds and rolls back otherwise.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) (err error) {
	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	repos := port.TxRepositories{
		Vehicles:  u.vehicles.WithTx(tx),
		Drivers:   u.drivers.WithTx(tx),
		Inventory: u.inventory.WithTx(tx),
		Roles:     u.roles.WithTx(tx),
	}

	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			u.logger.Error("failed to rollback transaction",
				zap.Error(rbErr),
				zap.NamedError("original_error", err),
			)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

var _ port.UnitOfWork = (*UnitOfWork)(nil)
