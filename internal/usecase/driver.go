package usecase

import (
	"context"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateDriverInput captures the payload for registering a driver.
type CreateDriverInput struct {
	UserID        *string             `json:"user_id"`
	FullName      string              `json:"full_name" validate:"required,max=128"`
	LicenseNumber string              `json:"license_number" validate:"required,max=64"`
	Phone         *string             `json:"phone" validate:"omitempty,max=32"`
	Status        domain.DriverStatus `json:"status" validate:"omitempty,oneof=available on_duty off_duty suspended"`
}

// UpdateDriverInput lists the driver attributes an update may change. The
// vehicle pairing is changed through AssignVehicle and UnassignVehicle only.
type UpdateDriverInput struct {
	ID            string               `json:"-" validate:"required"`
	UserID        *string              `json:"user_id"`
	FullName      *string              `json:"full_name" validate:"omitempty,min=1,max=128"`
	LicenseNumber *string              `json:"license_number" validate:"omitempty,min=1,max=64"`
	Phone         *string              `json:"phone" validate:"omitempty,max=32"`
	Status        *domain.DriverStatus `json:"status" validate:"omitempty,oneof=available on_duty off_duty suspended"`
}

// ListDriversInput narrows a driver listing.
type ListDriversInput struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=available on_duty off_duty suspended"`
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// AssignVehicleInput pairs a driver with a vehicle.
type AssignVehicleInput struct {
	DriverID  string `json:"-" validate:"required"`
	VehicleID string `json:"vehicle_id" validate:"required"`
}

// DriverService manages drivers and their vehicle pairing.
type DriverService struct {
	controller
	drivers port.DriverRepository
	uow     port.UnitOfWork
}

// NewDriverService constructs a DriverService.
func NewDriverService(deps ControllerDeps, drivers port.DriverRepository, uow port.UnitOfWork) *DriverService {
	return &DriverService{controller: newController(deps), drivers: drivers, uow: uow}
}

// Create registers a driver in the actor's tenant.
func (s *DriverService) Create(ctx context.Context, actor domain.Principal, input CreateDriverInput) (*domain.Driver, error) {
	op := PolicyDriverCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDriverCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeReference(ctx, actor, domain.ResourceUser, trimmedPtr(input.UserID), PolicyDriverCreate); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.DriverStatusAvailable
	}

	now := s.now()
	driver := domain.Driver{
		ID:            s.newID(),
		TenantID:      actor.TenantID,
		UserID:        trimmedPtr(input.UserID),
		FullName:      strings.TrimSpace(input.FullName),
		LicenseNumber: strings.ToUpper(strings.TrimSpace(input.LicenseNumber)),
		Phone:         trimmedPtr(input.Phone),
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDriver, driver.ID, domain.EntityCreated, nil)
	return &driver, nil
}

// Get returns one driver of the actor's tenant.
func (s *DriverService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Driver, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceDriver, id, PolicyDriverRead); err != nil {
		return nil, err
	}

	driver, err := s.drivers.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyDriverRead.Name, domain.ResourceDriver, err)
	}
	return driver, nil
}

// List returns the drivers of the actor's tenant.
func (s *DriverService) List(ctx context.Context, actor domain.Principal, input ListDriversInput) ([]domain.Driver, error) {
	op := PolicyDriverList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDriverList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	drivers, err := s.drivers.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}
	return drivers, nil
}

// Update changes the supplied attributes of a driver.
func (s *DriverService) Update(ctx context.Context, actor domain.Principal, input UpdateDriverInput) (*domain.Driver, error) {
	op := PolicyDriverUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDriver, input.ID, PolicyDriverUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeReference(ctx, actor, domain.ResourceUser, trimmedPtr(input.UserID), PolicyDriverUpdate); err != nil {
		return nil, err
	}

	driver, err := s.drivers.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}

	if input.UserID != nil {
		driver.UserID = trimmedPtr(input.UserID)
	}
	if input.FullName != nil {
		driver.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.LicenseNumber != nil {
		driver.LicenseNumber = strings.ToUpper(strings.TrimSpace(*input.LicenseNumber))
	}
	if input.Phone != nil {
		driver.Phone = trimmedPtr(input.Phone)
	}
	if input.Status != nil {
		driver.Status = *input.Status
	}
	driver.UpdatedAt = s.now()

	if err := s.drivers.Update(ctx, *driver); err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDriver, driver.ID, domain.EntityUpdated, nil)
	return driver, nil
}

// Delete removes a driver. A paired vehicle is released by the schema.
func (s *DriverService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyDriverDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDriver, id, PolicyDriverDelete); err != nil {
		return err
	}

	if err := s.drivers.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceDriver, err)
	}

	s.publishChange(ctx, actor, domain.ResourceDriver, id, domain.EntityDeleted, nil)
	return nil
}

// AssignVehicle pairs a driver with a vehicle, releasing any previous pairing of
// either side. All writes happen in one transaction; on failure nothing changes.
func (s *DriverService) AssignVehicle(ctx context.Context, actor domain.Principal, input AssignVehicleInput) (*domain.Driver, error) {
	op := PolicyDriverAssign.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDriver, input.DriverID, PolicyDriverAssign); err != nil {
		return nil, err
	}
	if err := s.authorizeResource(ctx, actor, domain.ResourceVehicle, input.VehicleID, PolicyDriverAssign); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	tenantID := actor.TenantID
	var (
		assigned        *domain.Driver
		previousVehicle *string
	)

	err := s.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		// Vehicles are always locked before drivers.
		vehicle, err := repos.Vehicles.GetForUpdate(ctx, tenantID, input.VehicleID)
		if err != nil {
			return storageError(op, domain.ResourceVehicle, err)
		}
		driver, err := repos.Drivers.GetForUpdate(ctx, tenantID, input.DriverID)
		if err != nil {
			return storageError(op, domain.ResourceDriver, err)
		}

		if vehicle.Status == domain.VehicleStatusRetired {
			return invalidInput(op, "vehicle_id", "retired vehicles cannot be assigned")
		}
		if driver.Status == domain.DriverStatusSuspended {
			return invalidInput(op, "driver_id", "suspended drivers cannot be assigned")
		}
		if driver.VehicleID != nil && *driver.VehicleID == vehicle.ID {
			assigned = driver
			return nil
		}
		previousVehicle = driver.VehicleID

		if err := repos.Vehicles.ClearDriver(ctx, tenantID, driver.ID); err != nil {
			return storageError(op, domain.ResourceVehicle, err)
		}
		if err := repos.Drivers.ClearVehicle(ctx, tenantID, vehicle.ID); err != nil {
			return storageError(op, domain.ResourceDriver, err)
		}
		if err := repos.Vehicles.SetDriver(ctx, tenantID, vehicle.ID, &driver.ID); err != nil {
			return storageError(op, domain.ResourceVehicle, err)
		}
		if err := repos.Drivers.SetVehicle(ctx, tenantID, driver.ID, &vehicle.ID); err != nil {
			return storageError(op, domain.ResourceDriver, err)
		}

		vehicleID := vehicle.ID
		driver.VehicleID = &vehicleID
		assigned = driver
		return nil
	})
	if err != nil {
		return nil, err
	}

	metadata := map[string]any{"vehicle_id": input.VehicleID}
	if previousVehicle != nil {
		metadata["previous_vehicle_id"] = *previousVehicle
	}
	s.publishChange(ctx, actor, domain.ResourceDriver, assigned.ID, domain.EntityAssigned, metadata)
	return assigned, nil
}

// UnassignVehicle releases the driver's current vehicle, if any, in one transaction.
func (s *DriverService) UnassignVehicle(ctx context.Context, actor domain.Principal, driverID string) (*domain.Driver, error) {
	op := PolicyDriverUnassign.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceDriver, driverID, PolicyDriverUnassign); err != nil {
		return nil, err
	}

	tenantID := actor.TenantID
	current, err := s.drivers.GetByID(ctx, tenantID, driverID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}
	if current.VehicleID == nil {
		return current, nil
	}
	released := *current.VehicleID

	var result *domain.Driver
	err = s.uow.WithinTx(ctx, func(ctx context.Context, repos port.TxRepositories) error {
		if _, err := repos.Vehicles.GetForUpdate(ctx, tenantID, released); err != nil {
			return storageError(op, domain.ResourceVehicle, err)
		}
		driver, err := repos.Drivers.GetForUpdate(ctx, tenantID, driverID)
		if err != nil {
			return storageError(op, domain.ResourceDriver, err)
		}

		// The pairing may have moved between the read above and the locks.
		if driver.VehicleID != nil {
			if err := repos.Vehicles.SetDriver(ctx, tenantID, *driver.VehicleID, nil); err != nil {
				return storageError(op, domain.ResourceVehicle, err)
			}
			if err := repos.Drivers.SetVehicle(ctx, tenantID, driver.ID, nil); err != nil {
				return storageError(op, domain.ResourceDriver, err)
			}
		}

		driver.VehicleID = nil
		result = driver
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishChange(ctx, actor, domain.ResourceDriver, driverID, domain.EntityUpdated, map[string]any{"released_vehicle_id": released})
	return result, nil
}
