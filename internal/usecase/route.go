package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

// CreateRouteInput captures the payload for planning a route.
type CreateRouteInput struct {
	Name        string             `json:"name" validate:"required,max=128"`
	Origin      string             `json:"origin" validate:"required,max=256"`
	Destination string             `json:"destination" validate:"required,max=256"`
	DistanceKm  float64            `json:"distance_km" validate:"gte=0"`
	VehicleID   *string            `json:"vehicle_id"`
	DriverID    *string            `json:"driver_id"`
	Status      domain.RouteStatus `json:"status" validate:"omitempty,oneof=planned active completed cancelled"`
	StartsAt    *time.Time         `json:"starts_at"`
}

// UpdateRouteInput lists the route attributes an update may change.
type UpdateRouteInput struct {
	ID          string              `json:"-" validate:"required"`
	Name        *string             `json:"name" validate:"omitempty,min=1,max=128"`
	Origin      *string             `json:"origin" validate:"omitempty,min=1,max=256"`
	Destination *string             `json:"destination" validate:"omitempty,min=1,max=256"`
	DistanceKm  *float64            `json:"distance_km" validate:"omitempty,gte=0"`
	VehicleID   *string             `json:"vehicle_id"`
	DriverID    *string             `json:"driver_id"`
	Status      *domain.RouteStatus `json:"status" validate:"omitempty,oneof=planned active completed cancelled"`
	StartsAt    *time.Time          `json:"starts_at"`
}

// ListRoutesInput narrows a route listing.
type ListRoutesInput struct {
	Status string `form:"status" json:"status" validate:"omitempty,oneof=planned active completed cancelled"`
	Search string `form:"q" json:"q"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

// RouteService manages delivery routes.
type RouteService struct {
	controller
	routes port.RouteRepository
}

// NewRouteService constructs a RouteService.
func NewRouteService(deps ControllerDeps, routes port.RouteRepository) *RouteService {
	return &RouteService{controller: newController(deps), routes: routes}
}

// Create plans a route in the actor's tenant.
func (s *RouteService) Create(ctx context.Context, actor domain.Principal, input CreateRouteInput) (*domain.Route, error) {
	op := PolicyRouteCreate.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyRouteCreate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeCrew(ctx, actor, input.VehicleID, input.DriverID, PolicyRouteCreate); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.RouteStatusPlanned
	}

	now := s.now()
	route := domain.Route{
		ID:          s.newID(),
		TenantID:    actor.TenantID,
		Name:        strings.TrimSpace(input.Name),
		Origin:      strings.TrimSpace(input.Origin),
		Destination: strings.TrimSpace(input.Destination),
		DistanceKm:  input.DistanceKm,
		VehicleID:   trimmedPtr(input.VehicleID),
		DriverID:    trimmedPtr(input.DriverID),
		Status:      status,
		StartsAt:    input.StartsAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.routes.Create(ctx, route); err != nil {
		return nil, storageError(op, domain.ResourceRoute, err)
	}

	s.publishChange(ctx, actor, domain.ResourceRoute, route.ID, domain.EntityCreated, nil)
	return &route, nil
}

// Get returns one route of the actor's tenant.
func (s *RouteService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.Route, error) {
	if err := s.authorizeResource(ctx, actor, domain.ResourceRoute, id, PolicyRouteRead); err != nil {
		return nil, err
	}

	route, err := s.routes.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, storageError(PolicyRouteRead.Name, domain.ResourceRoute, err)
	}
	return route, nil
}

// List returns the routes of the actor's tenant.
func (s *RouteService) List(ctx context.Context, actor domain.Principal, input ListRoutesInput) ([]domain.Route, error) {
	op := PolicyRouteList.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyRouteList); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}

	routes, err := s.routes.List(ctx, actor.TenantID, listFilter(input.Status, input.Search, input.Limit, input.Offset))
	if err != nil {
		return nil, storageError(op, domain.ResourceRoute, err)
	}
	return routes, nil
}

// Update changes the supplied attributes of a route.
func (s *RouteService) Update(ctx context.Context, actor domain.Principal, input UpdateRouteInput) (*domain.Route, error) {
	op := PolicyRouteUpdate.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceRoute, input.ID, PolicyRouteUpdate); err != nil {
		return nil, err
	}
	if err := validateInput(op, input); err != nil {
		return nil, err
	}
	if err := s.authorizeCrew(ctx, actor, input.VehicleID, input.DriverID, PolicyRouteUpdate); err != nil {
		return nil, err
	}

	route, err := s.routes.GetByID(ctx, actor.TenantID, input.ID)
	if err != nil {
		return nil, storageError(op, domain.ResourceRoute, err)
	}

	if input.Name != nil {
		route.Name = strings.TrimSpace(*input.Name)
	}
	if input.Origin != nil {
		route.Origin = strings.TrimSpace(*input.Origin)
	}
	if input.Destination != nil {
		route.Destination = strings.TrimSpace(*input.Destination)
	}
	if input.DistanceKm != nil {
		route.DistanceKm = *input.DistanceKm
	}
	if input.VehicleID != nil {
		route.VehicleID = trimmedPtr(input.VehicleID)
	}
	if input.DriverID != nil {
		route.DriverID = trimmedPtr(input.DriverID)
	}
	if input.Status != nil {
		route.Status = *input.Status
	}
	if input.StartsAt != nil {
		route.StartsAt = input.StartsAt
	}
	route.UpdatedAt = s.now()

	if err := s.routes.Update(ctx, *route); err != nil {
		return nil, storageError(op, domain.ResourceRoute, err)
	}

	s.publishChange(ctx, actor, domain.ResourceRoute, route.ID, domain.EntityUpdated, nil)
	return route, nil
}

// Delete removes a route. Shipments on it are detached by the schema.
func (s *RouteService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	op := PolicyRouteDelete.Name
	if err := s.authorizeResource(ctx, actor, domain.ResourceRoute, id, PolicyRouteDelete); err != nil {
		return err
	}

	if err := s.routes.Delete(ctx, actor.TenantID, id); err != nil {
		return storageError(op, domain.ResourceRoute, err)
	}

	s.publishChange(ctx, actor, domain.ResourceRoute, id, domain.EntityDeleted, nil)
	return nil
}

func (s *RouteService) authorizeCrew(ctx context.Context, actor domain.Principal, vehicleID, driverID *string, policy Policy) error {
	if err := s.authorizeReference(ctx, actor, domain.ResourceVehicle, trimmedPtr(vehicleID), policy); err != nil {
		return err
	}
	return s.authorizeReference(ctx, actor, domain.ResourceDriver, trimmedPtr(driverID), policy)
}
