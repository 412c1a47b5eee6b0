package domain

import "time"

type Warehouse struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	CapacityUnits int       `json:"capacity_units"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// InventoryItem is stock of a single SKU held in a warehouse. Its tenant is
// always the tenant of the owning warehouse.
type InventoryItem struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	WarehouseID  string    `json:"warehouse_id"`
	SKU          string    `json:"sku"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	ReorderLevel int       `json:"reorder_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BelowReorderLevel reports whether the item needs restocking.
func (i InventoryItem) BelowReorderLevel() bool {
	return i.Quantity <= i.ReorderLevel
}

// DocumentOwnerKind is the resource family a document is attached to.
type DocumentOwnerKind string

const (
	DocumentOwnerVehicle  DocumentOwnerKind = "vehicle"
	DocumentOwnerDriver   DocumentOwnerKind = "driver"
	DocumentOwnerShipment DocumentOwnerKind = "shipment"
)

// Resource maps the owner kind to the resource family used for ownership lookups.
func (k DocumentOwnerKind) Resource() (ResourceKind, bool) {
	switch k {
	case DocumentOwnerVehicle:
		return ResourceVehicle, true
	case DocumentOwnerDriver:
		return ResourceDriver, true
	case DocumentOwnerShipment:
		return ResourceShipment, true
	default:
		return "", false
	}
}

type Document struct {
	ID        string            `json:"id"`
	TenantID  string            `json:"tenant_id"`
	OwnerKind DocumentOwnerKind `json:"owner_kind"`
	OwnerID   string            `json:"owner_id"`
	Title     string            `json:"title"`
	Kind      string            `json:"kind"`
	URL       string            `json:"url"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
