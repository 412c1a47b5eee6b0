package domain

import "time"

// ResourceKind names a tenant scoped entity family.
type ResourceKind string

const (
	ResourceVehicle   ResourceKind = "vehicle"
	ResourceDriver    ResourceKind = "driver"
	ResourceShipment  ResourceKind = "shipment"
	ResourceRoute     ResourceKind = "route"
	ResourceWarehouse ResourceKind = "warehouse"
	ResourceInventory ResourceKind = "inventory"
	ResourceDocument  ResourceKind = "document"
	ResourceCustomer  ResourceKind = "customer"
	ResourceRole      ResourceKind = "role"
	ResourceUser      ResourceKind = "user"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInTransit   VehicleStatus = "in_transit"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

// Vehicle is a fleet asset owned by a tenant.
type Vehicle struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"tenant_id"`
	PlateNumber string        `json:"plate_number"`
	Make        string        `json:"make"`
	Model       string        `json:"model"`
	Year        int           `json:"year"`
	Type        string        `json:"type"`
	Status      VehicleStatus `json:"status"`
	CapacityKg  float64       `json:"capacity_kg"`
	DriverID    *string       `json:"driver_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type DriverStatus string

const (
	DriverStatusAvailable DriverStatus = "available"
	DriverStatusOnDuty    DriverStatus = "on_duty"
	DriverStatusOffDuty   DriverStatus = "off_duty"
	DriverStatusSuspended DriverStatus = "suspended"
)

// Driver is a tenant employee who can be paired with at most one vehicle.
type Driver struct {
	ID            string       `json:"id"`
	TenantID      string       `json:"tenant_id"`
	UserID        *string      `json:"user_id,omitempty"`
	FullName      string       `json:"full_name"`
	LicenseNumber string       `json:"license_number"`
	Phone         *string      `json:"phone,omitempty"`
	Status        DriverStatus `json:"status"`
	VehicleID     *string      `json:"vehicle_id,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}
