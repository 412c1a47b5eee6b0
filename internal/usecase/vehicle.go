package usecase

import (
	"context"
	"strings"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateVehicleInput captures the payload for registering a vehicle.
type CreateVehicleInput struct {
	PlateNumber string               `json:"plate_number" validate:"required,max=32"`
	Make        string               `json:"make" validate:"required,max=64"`
	Model       string               `json:"model" validate:"required,max=64"`
	Year        int                  `json:"year" validate:"gte=1950,lte=2100"`
	Type        string               `json:"type" validate:"required,max=32"`
	Status      domain.VehicleStatus `json:"status" validate:"omitempty,oneof=active in_transit maintenance retired"`
	CapacityKg  float64              `json:"capacity_kg" validate:"gte=0"`
}

// UpdateVehicleInput lists the vehicle attributes an update may change.
type UpdateVehicleInput struct {
	ID          string                `json:"-" validate:"required"`
	PlateNumber *string               `json:"plate_number" validate:"omitempty,min=1,max=32"`
	Make        *string               `json:"make" validate:"omitempty,min=1,max=64"`
	Model       *string               `json:"model" validate:"omitempty,min=1,max=64"`
	Year        *int                  `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	Type        *string               `json:"type" validate:"omitempty,min=1,max=32"`
	Status      *domain.VehicleStatus `json:"status" validate:"omitempty,oneof=active in_transit maintenance retired"`
	CapacityKg  *float64              `json:"capacity_kg" validate:"omitempty,gte=0"`
}

// ListVehiclesInput narrows a vehicle listing.
type ListVehiclesInput struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=active in_transit maintenance retired"`
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// VehicleService manages the fleet of a tenant.
type VehicleService struct {
	controller
	vehicles port.VehicleRepository
}

// NewVehicleService constructs a VehicleService.
func NewVehicleService(deps ControllerDeps, vehicles port.VehicleRepository) *VehicleService {
	return &VehicleService{controller: newController(deps), vehicles: vehicles}
}

// Create registers a vehicle in the actor's tenant.
func (s *VehicleService) Create(ctx context.Context, actor domain.Principal, input CreateVehicleInput) (*domain.Vehicle, error) {
	op := PolicyVehicleCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyVehicleCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.VehicleStatusActive
	}

	now := s.now()
	vehicle := domain.Vehicle{
		ID:          s.newID(),
		TenantID:    actor.TenantID,
		PlateNumber: strings.ToUpper(strings.TrimSpace(input.PlateNumber)),
		Make:        strings.TrimSpace(input.Make),
		Model:       strings.TrimSpace(input.Model),
		Year:        input.Year,
		Type:        strings.TrimSpace(input.Type),
		Status:      status,
		CapacityKg:  input.CapacityKg,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, storageError(op, domain.ResourceVehicle, err)
	}

	s.publishChange(ctx, actor, domain.ResourceVehicle, vehicle.ID, domain.EntityCreated, nil)
	return &vehicle, nil
}

// Get returns one vehicle of the actor's tenant.
func (s *VehicleService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Vehicle, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceVehicle, id, PolicyVehicleRead); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyVehicleRead.Name, domain.ResourceVehicle, err)
	}
	return vehicle, nil
}

// List returns the vehicles of the actor's tenant.
func (s *VehicleService) List(ctx context.Context, actor domain.Principal, input ListVehiclesInput) ([]domain.Vehicle, error) {
	op := PolicyVehicleList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyVehicleList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	vehicles, err := s.vehicles.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceVehicle, err)
	}
	return vehicles, nil
}

// Update changes the supplied attributes of a vehicle.
func (s *VehicleService) Update(ctx context.Context, actor domain.Principal, input UpdateVehicleInput) (*domain.Vehicle, error) {
	op := PolicyVehicleUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceVehicle, input.ID, PolicyVehicleUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceVehicle, err)
	}

	if input.PlateNumber != nil {
		vehicle.PlateNumber = strings.ToUpper(strings.TrimSpace(*input.PlateNumber))
	}
	if input.Make != nil {
		vehicle.Make = strings.TrimSpace(*input.Make)
	}
	if input.Model != nil {
		vehicle.Model = strings.TrimSpace(*input.Model)
	}
	if input.Year != nil {
		vehicle.Year = *input.Year
	}
	if input.Type != nil {
		vehicle.Type = strings.TrimSpace(*input.Type)
	}
	if input.Status != nil {
		vehicle.Status = *input.Status
	}
	if input.CapacityKg != nil {
		vehicle.CapacityKg = *input.CapacityKg
	}
	vehicle.UpdatedAt = s.now()

	if err := s.vehicles.Update(ctx, *vehicle); err != nil {
		return nil, storageError(op, domain.ResourceVehicle, err)
	}

	s.publishChange(ctx, actor, domain.ResourceVehicle, vehicle.ID, domain.EntityUpdated, nil)
	return vehicle, nil
}

// Delete removes a vehicle. Drivers paired with it are released by the schema.
func (s *VehicleService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyVehicleDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceVehicle, id, PolicyVehicleDelete); err != nil {
		return err
	}

	if err := s.vehicles.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceVehicle, err)
	}

	s.publishChange(ctx, actor, domain.ResourceVehicle, id, domain.EntityDeleted, nil)
	return nil
}
