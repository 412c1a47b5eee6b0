package domain

// ChartPoint is a labelled value ready to be plotted.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// FleetOverview summarises the fleet of a single tenant.
type FleetOverview struct {
	TotalVehicles     int          `json:"total_vehicles"`
	VehiclesByStatus  []ChartPoint `json:"vehicles_by_status"`
	TotalDrivers      int          `json:"total_drivers"`
	DriversByStatus   []ChartPoint `json:"drivers_by_status"`
	UnassignedDrivers int          `json:"unassigned_drivers"`
}

// StatusCount is a raw aggregation row returned by the storage layer.
type StatusCount struct {
	Status string
	Count  int
}

// PeriodCount is a raw time-bucketed aggregation row.
type PeriodCount struct {
	Period string
	Count  int
}
