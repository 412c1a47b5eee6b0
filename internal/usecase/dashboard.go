package usecase

import (
	"context"
	"time"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const (
	defaultVolumeMonths = 6
	maxVolumeMonths     = 24
	defaultLowStock     = 20
	maxLowStock         = 100
)

var (
	vehicleStatuses  = []string{"active", "in_transit", "maintenance", "retired"}
	driverStatuses   = []string{"available", "on_duty", "off_duty", "suspended"}
	shipmentStatuses = []string{"pending", "in_transit", "delivered", "cancelled"}
)

// DashboardService serves read-only aggregates of the actor's tenant. Storage
// failures always propagate; an empty chart means there is no data.
type DashboardService struct {
	controller
	reports port.ReportingRepository
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(deps ControllerDeps, reports port.ReportingRepository) *DashboardService {
	return &DashboardService{controller: newController(deps), reports: reports}
}

// FleetOverview summarises vehicles and drivers.
func (s *DashboardService) FleetOverview(ctx context.Context, actor domain.Principal) (*domain.FleetOverview, error) {
	op := PolicyDashboardRead.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDashboardRead); err != nil {
		return nil, err
	}

	vehicles, err := s.reports.CountVehiclesByStatus(ctx, actor.TenantID)
	if err != nil {
		return nil, storageError(op, domain.ResourceVehicle, err)
	}
	drivers, err := s.reports.CountDriversByStatus(ctx, actor.TenantID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}
	unassigned, err := s.reports.CountUnassignedDrivers(ctx, actor.TenantID)
	if err != nil {
		return nil, storageError(op, domain.ResourceDriver, err)
	}

	vehicleChart, vehicleTotal := statusChart(vehicleStatuses, vehicles)
	driverChart, driverTotal := statusChart(driverStatuses, drivers)
	return &domain.FleetOverview{
		TotalVehicles:     vehicleTotal,
		VehiclesByStatus:  vehicleChart,
		TotalDrivers:      driverTotal,
		DriversByStatus:   driverChart,
		UnassignedDrivers: unassigned,
	}, nil
}

// ShipmentStatusBreakdown counts shipments per lifecycle status.
func (s *DashboardService) ShipmentStatusBreakdown(ctx context.Context, actor domain.Principal) ([]domain.ChartPoint, error) {
	op := PolicyDashboardRead.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDashboardRead); err != nil {
		return nil, err
	}

	counts, err := s.reports.CountShipmentsByStatus(ctx, actor.TenantID)
	if err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	chart, _ := statusChart(shipmentStatuses, counts)
	return chart, nil
}

// ShipmentVolume returns shipments created per month, oldest first, over the
// last months calendar months including the current one. Empty months are zero.
func (s *DashboardService) ShipmentVolume(ctx context.Context, actor domain.Principal, months int) ([]domain.ChartPoint, error) {
	op := PolicyDashboardRead.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDashboardRead); err != nil {
		return nil, err
	}

	switch {
	case months <= 0:
		months = defaultVolumeMonths
	case months > maxVolumeMonths:
		months = maxVolumeMonths
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	counts, err := s.reports.CountShipmentsByMonth(ctx, actor.TenantID, start)
	if err != nil {
		return nil, storageError(op, domain.ResourceShipment, err)
	}

	byPeriod := make(map[string]int, len(counts))
	for _, count := range counts {
		byPeriod[count.Period] = count.Count
	}

	chart := make([]domain.ChartPoint, 0, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format("2006-01")
		chart = append(chart, domain.ChartPoint{Label: label, Value: float64(byPeriod[label])})
	}
	return chart, nil
}

// LowStockItems lists items at or below their reorder level.
func (s *DashboardService) LowStockItems(ctx context.Context, actor domain.Principal, limit int) ([]domain.InventoryItem, error) {
	op := PolicyDashboardRead.Name
	if err := s.authorizeOwnTenant(ctx, actor, PolicyDashboardRead); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultLowStock
	case limit > maxLowStock:
		limit = maxLowStock
	}

	items, err := s.reports.ListLowStock(ctx, actor.TenantID, limit)
	if err != nil {
		return nil, storageError(op, domain.ResourceInventory, err)
	}
	return items, nil
}

// statusChart orders counts by the known statuses, filling gaps with zero.
// Unknown statuses found in storage are appended after the known ones.
func statusChart(known []string, counts []domain.StatusCount) ([]domain.ChartPoint, int) {
	byStatus := make(map[string]int, len(counts))
	for _, count := range counts {
		byStatus[count.Status] += count.Count
	}

	total := 0
	chart := make([]domain.ChartPoint, 0, len(known))
	for _, status := range known {
		value := byStatus[status]
		total += value
		chart = append(chart, domain.ChartPoint{Label: status, Value: float64(value)})
		delete(byStatus, status)
	}
	for _, count := range counts {
		value, ok := byStatus[count.Status]
		if !ok {
			continue
		}
		total += value
		chart = append(chart, domain.ChartPoint{Label: count.Status, Value: float64(value)})
		delete(byStatus, count.Status)
	}
	return chart, total
}
