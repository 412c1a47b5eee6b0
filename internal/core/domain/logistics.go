package domain

import "time"

type ShipmentStatus string

const (
	ShipmentStatusPending   ShipmentStatus = "pending"
	ShipmentStatusInTransit ShipmentStatus = "in_transit"
	ShipmentStatusDelivered ShipmentStatus = "delivered"
	ShipmentStatusCancelled ShipmentStatus = "cancelled"
)

// CanTransition reports whether a shipment may move from s to next.
func (s ShipmentStatus) CanTransition(next ShipmentStatus) bool {
	switch s {
	case ShipmentStatusPending:
		return next == ShipmentStatusInTransit || next == ShipmentStatusCancelled
	case ShipmentStatusInTransit:
		return next == ShipmentStatusDelivered || next == ShipmentStatusCancelled
	default:
		return false
	}
}

type Shipment struct {
	ID                string         `json:"id"`
	TenantID          string         `json:"tenant_id"`
	TrackingNumber    string         `json:"tracking_number"`
	CustomerID        *string        `json:"customer_id,omitempty"`
	OriginWarehouseID *string        `json:"origin_warehouse_id,omitempty"`
	RouteID           *string        `json:"route_id,omitempty"`
	Destination       string         `json:"destination"`
	WeightKg          float64        `json:"weight_kg"`
	Status            ShipmentStatus `json:"status"`
	ScheduledAt       *time.Time     `json:"scheduled_at,omitempty"`
	DeliveredAt       *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

type RouteStatus string

const (
	RouteStatusPlanned   RouteStatus = "planned"
	RouteStatusActive    RouteStatus = "active"
	RouteStatusCompleted RouteStatus = "completed"
	RouteStatusCancelled RouteStatus = "cancelled"
)

type Route struct {
	ID          string      `json:"id"`
	TenantID    string      `json:"tenant_id"`
	Name        string      `json:"name"`
	Origin      string      `json:"origin"`
	Destination string      `json:"destination"`
	DistanceKm  float64     `json:"distance_km"`
	VehicleID   *string     `json:"vehicle_id,omitempty"`
	DriverID    *string     `json:"driver_id,omitempty"`
	Status      RouteStatus `json:"status"`
	StartsAt    *time.Time  `json:"starts_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type Customer struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
