package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

const (
	tenantA = "tenant-a"
	tenantB = "tenant-b"
)

var errInjected = errors.New("injected failure")

func actorOf(tenantID string, role domain.RoleKind) domain.Principal {
	return domain.Principal{
		UserID:   "user-" + tenantID + "-" + string(role),
		TenantID: tenantID,
		Role:     role,
	}
}

// memTable is a tenant aware in-memory table with an optional per-tenant unique key.
type memTable[T any] struct {
	rows   map[string]T
	id     func(T) string
	tenant func(T) string
	status func(T) string
	unique func(T) (field, key string)
}

func newTable[T any](id, tenant func(T) string) *memTable[T] {
	return &memTable[T]{rows: map[string]T{}, id: id, tenant: tenant}
}

func (t *memTable[T]) create(row T) error {
	if _, exists := t.rows[t.id(row)]; exists {
		return &repository.ConflictError{Constraint: "pkey", Field: "id"}
	}
	if err := t.checkUnique(row); err != nil {
		return err
	}
	t.rows[t.id(row)] = row
	return nil
}

func (t *memTable[T]) checkUnique(row T) error {
	if t.unique == nil {
		return nil
	}
	field, key := t.unique(row)
	for id, other := range t.rows {
		if id == t.id(row) || t.tenant(other) != t.tenant(row) {
			continue
		}
		if _, otherKey := t.unique(other); otherKey == key {
			return &repository.ConflictError{Constraint: field + "_key", Field: field}
		}
	}
	return nil
}

func (t *memTable[T]) get(tenantID, id string) (*T, error) {
	row, ok := t.rows[id]
	if !ok || t.tenant(row) != tenantID {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (t *memTable[T]) list(tenantID string, filter port.ListFilter, keep func(T) bool) []T {
	ids := make([]string, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]T, 0)
	for _, id := range ids {
		row := t.rows[id]
		if t.tenant(row) != tenantID {
			continue
		}
		if filter.Status != "" && t.status != nil && t.status(row) != filter.Status {
			continue
		}
		if keep != nil && !keep(row) {
			continue
		}
		out = append(out, row)
	}

	if filter.Offset >= len(out) {
		return out[:0]
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func (t *memTable[T]) update(row T) error {
	existing, ok := t.rows[t.id(row)]
	if !ok || t.tenant(existing) != t.tenant(row) {
		return repository.ErrNotFound
	}
	if err := t.checkUnique(row); err != nil {
		return err
	}
	t.rows[t.id(row)] = row
	return nil
}

func (t *memTable[T]) delete(tenantID, id string) error {
	row, ok := t.rows[id]
	if !ok || t.tenant(row) != tenantID {
		return repository.ErrNotFound
	}
	delete(t.rows, id)
	return nil
}

func (t *memTable[T]) tenantOf(id string) (string, error) {
	row, ok := t.rows[id]
	if !ok {
		return "", repository.ErrNotFound
	}
	return t.tenant(row), nil
}

func (t *memTable[T]) clone() map[string]T {
	out := make(map[string]T, len(t.rows))
	for id, row := range t.rows {
		out[id] = row
	}
	return out
}

// memStore backs every repository port and the unit of work. Transactions
// snapshot all tables and restore them when the callback fails.
type memStore struct {
	vehicles   *memTable[domain.Vehicle]
	drivers    *memTable[domain.Driver]
	shipments  *memTable[domain.Shipment]
	routes     *memTable[domain.Route]
	warehouses *memTable[domain.Warehouse]
	inventory  *memTable[domain.InventoryItem]
	documents  *memTable[domain.Document]
	customers  *memTable[domain.Customer]
	roles      *memTable[domain.Role]
	users      *memTable[domain.User]

	failures map[string]error
	txCount  int
	rollback int
}

func newMemStore() *memStore {
	s := &memStore{
		vehicles:   newTable(func(v domain.Vehicle) string { return v.ID }, func(v domain.Vehicle) string { return v.TenantID }),
		drivers:    newTable(func(d domain.Driver) string { return d.ID }, func(d domain.Driver) string { return d.TenantID }),
		shipments:  newTable(func(s domain.Shipment) string { return s.ID }, func(s domain.Shipment) string { return s.TenantID }),
		routes:     newTable(func(r domain.Route) string { return r.ID }, func(r domain.Route) string { return r.TenantID }),
		warehouses: newTable(func(w domain.Warehouse) string { return w.ID }, func(w domain.Warehouse) string { return w.TenantID }),
		inventory:  newTable(func(i domain.InventoryItem) string { return i.ID }, func(i domain.InventoryItem) string { return i.TenantID }),
		documents:  newTable(func(d domain.Document) string { return d.ID }, func(d domain.Document) string { return d.TenantID }),
		customers:  newTable(func(c domain.Customer) string { return c.ID }, func(c domain.Customer) string { return c.TenantID }),
		roles:      newTable(func(r domain.Role) string { return r.ID }, func(r domain.Role) string { return r.TenantID }),
		users:      newTable(func(u domain.User) string { return u.ID }, func(u domain.User) string { return u.TenantID }),
		failures:   map[string]error{},
	}

	s.vehicles.status = func(v domain.Vehicle) string { return string(v.Status) }
	s.vehicles.unique = func(v domain.Vehicle) (string, string) { return "plate_number", v.PlateNumber }
	s.drivers.status = func(d domain.Driver) string { return string(d.Status) }
	s.drivers.unique = func(d domain.Driver) (string, string) { return "license_number", d.LicenseNumber }
	s.shipments.status = func(sh domain.Shipment) string { return string(sh.Status) }
	s.shipments.unique = func(sh domain.Shipment) (string, string) { return "tracking_number", sh.TrackingNumber }
	s.routes.status = func(r domain.Route) string { return string(r.Status) }
	s.warehouses.unique = func(w domain.Warehouse) (string, string) { return "code", w.Code }
	s.inventory.unique = func(i domain.InventoryItem) (string, string) { return "sku", i.WarehouseID + "/" + i.SKU }
	s.customers.unique = func(c domain.Customer) (string, string) { return "email", c.Email }
	s.roles.unique = func(r domain.Role) (string, string) { return "name", r.Name }
	s.users.status = func(u domain.User) string {
		if u.IsActive {
			return "active"
		}
		return "inactive"
	}
	return s
}

func (s *memStore) fail(method string, err error) {
	s.failures[method] = err
}

func (s *memStore) injected(method string) error {
	return s.failures[method]
}

func (s *memStore) TenantOf(_ context.Context, kind domain.ResourceKind, id string) (string, error) {
	switch kind {
	case domain.ResourceVehicle:
		return s.vehicles.tenantOf(id)
	case domain.ResourceDriver:
		return s.drivers.tenantOf(id)
	case domain.ResourceShipment:
		return s.shipments.tenantOf(id)
	case domain.ResourceRoute:
		return s.routes.tenantOf(id)
	case domain.ResourceWarehouse:
		return s.warehouses.tenantOf(id)
	case domain.ResourceInventory:
		return s.inventory.tenantOf(id)
	case domain.ResourceDocument:
		return s.documents.tenantOf(id)
	case domain.ResourceCustomer:
		return s.customers.tenantOf(id)
	case domain.ResourceRole:
		return s.roles.tenantOf(id)
	case domain.ResourceUser:
		return s.users.tenantOf(id)
	default:
		return "", errors.New("unknown resource kind")
	}
}

type storeSnapshot struct {
	vehicles  map[string]domain.Vehicle
	drivers   map[string]domain.Driver
	inventory map[string]domain.InventoryItem
	roles     map[string]domain.Role
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos port.TxRepositories) error) error {
	s.txCount++
	snapshot := storeSnapshot{
		vehicles:  s.vehicles.clone(),
		drivers:   s.drivers.clone(),
		inventory: s.inventory.clone(),
		roles:     s.roles.clone(),
	}

	err := fn(ctx, port.TxRepositories{
		Vehicles:  vehicleRepo{s},
		Drivers:   driverRepo{s},
		Inventory: inventoryRepo{s},
		Roles:     roleRepo{s},
	})
	if err != nil {
		s.rollback++
		s.vehicles.rows = snapshot.vehicles
		s.drivers.rows = snapshot.drivers
		s.inventory.rows = snapshot.inventory
		s.roles.rows = snapshot.roles
		return err
	}
	return nil
}

type vehicleRepo struct{ s *memStore }

func (r vehicleRepo) Create(_ context.Context, v domain.Vehicle) error {
	return r.s.vehicles.create(v)
}

func (r vehicleRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Vehicle, error) {
	return r.s.vehicles.get(tenantID, id)
}

func (r vehicleRepo) GetForUpdate(_ context.Context, tenantID, id string) (*domain.Vehicle, error) {
	if err := r.s.injected("vehicles.GetForUpdate"); err != nil {
		return nil, err
	}
	return r.s.vehicles.get(tenantID, id)
}

func (r vehicleRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Vehicle, error) {
	if err := r.s.injected("vehicles.List"); err != nil {
		return nil, err
	}
	return r.s.vehicles.list(tenantID, filter, nil), nil
}

func (r vehicleRepo) Update(_ context.Context, v domain.Vehicle) error {
	return r.s.vehicles.update(v)
}

func (r vehicleRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.vehicles.delete(tenantID, id)
}

func (r vehicleRepo) SetDriver(_ context.Context, tenantID, vehicleID string, driverID *string) error {
	if err := r.s.injected("vehicles.SetDriver"); err != nil {
		return err
	}
	vehicle, err := r.s.vehicles.get(tenantID, vehicleID)
	if err != nil {
		return err
	}
	vehicle.DriverID = driverID
	return r.s.vehicles.update(*vehicle)
}

func (r vehicleRepo) ClearDriver(_ context.Context, tenantID, driverID string) error {
	for id, vehicle := range r.s.vehicles.rows {
		if vehicle.TenantID == tenantID && vehicle.DriverID != nil && *vehicle.DriverID == driverID {
			vehicle.DriverID = nil
			r.s.vehicles.rows[id] = vehicle
		}
	}
	return nil
}

type driverRepo struct{ s *memStore }

func (r driverRepo) Create(_ context.Context, d domain.Driver) error {
	return r.s.drivers.create(d)
}

func (r driverRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Driver, error) {
	return r.s.drivers.get(tenantID, id)
}

func (r driverRepo) GetForUpdate(_ context.Context, tenantID, id string) (*domain.Driver, error) {
	return r.s.drivers.get(tenantID, id)
}

func (r driverRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Driver, error) {
	return r.s.drivers.list(tenantID, filter, nil), nil
}

func (r driverRepo) Update(_ context.Context, d domain.Driver) error {
	return r.s.drivers.update(d)
}

func (r driverRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.drivers.delete(tenantID, id)
}

func (r driverRepo) SetVehicle(_ context.Context, tenantID, driverID string, vehicleID *string) error {
	if err := r.s.injected("drivers.SetVehicle"); err != nil {
		return err
	}
	driver, err := r.s.drivers.get(tenantID, driverID)
	if err != nil {
		return err
	}
	driver.VehicleID = vehicleID
	return r.s.drivers.update(*driver)
}

func (r driverRepo) ClearVehicle(_ context.Context, tenantID, vehicleID string) error {
	for id, driver := range r.s.drivers.rows {
		if driver.TenantID == tenantID && driver.VehicleID != nil && *driver.VehicleID == vehicleID {
			driver.VehicleID = nil
			r.s.drivers.rows[id] = driver
		}
	}
	return nil
}

type shipmentRepo struct{ s *memStore }

func (r shipmentRepo) Create(_ context.Context, sh domain.Shipment) error {
	return r.s.shipments.create(sh)
}

func (r shipmentRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Shipment, error) {
	return r.s.shipments.get(tenantID, id)
}

func (r shipmentRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Shipment, error) {
	return r.s.shipments.list(tenantID, filter, nil), nil
}

func (r shipmentRepo) Update(_ context.Context, sh domain.Shipment) error {
	return r.s.shipments.update(sh)
}

func (r shipmentRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.shipments.delete(tenantID, id)
}

type routeRepo struct{ s *memStore }

func (r routeRepo) Create(_ context.Context, route domain.Route) error {
	return r.s.routes.create(route)
}

func (r routeRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Route, error) {
	return r.s.routes.get(tenantID, id)
}

func (r routeRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Route, error) {
	return r.s.routes.list(tenantID, filter, nil), nil
}

func (r routeRepo) Update(_ context.Context, route domain.Route) error {
	return r.s.routes.update(route)
}

func (r routeRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.routes.delete(tenantID, id)
}

type warehouseRepo struct{ s *memStore }

func (r warehouseRepo) Create(_ context.Context, w domain.Warehouse) error {
	return r.s.warehouses.create(w)
}

func (r warehouseRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Warehouse, error) {
	return r.s.warehouses.get(tenantID, id)
}

func (r warehouseRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Warehouse, error) {
	return r.s.warehouses.list(tenantID, filter, nil), nil
}

func (r warehouseRepo) Update(_ context.Context, w domain.Warehouse) error {
	return r.s.warehouses.update(w)
}

func (r warehouseRepo) Delete(_ context.Context, tenantID, id string) error {
	if err := r.s.warehouses.delete(tenantID, id); err != nil {
		return err
	}
	for itemID, item := range r.s.inventory.rows {
		if item.WarehouseID == id {
			delete(r.s.inventory.rows, itemID)
		}
	}
	return nil
}

type inventoryRepo struct{ s *memStore }

func (r inventoryRepo) Create(_ context.Context, item domain.InventoryItem) error {
	if err := r.s.injected("inventory.Create"); err != nil {
		return err
	}
	return r.s.inventory.create(item)
}

func (r inventoryRepo) GetByID(_ context.Context, tenantID, id string) (*domain.InventoryItem, error) {
	return r.s.inventory.get(tenantID, id)
}

func (r inventoryRepo) GetBySKU(_ context.Context, tenantID, warehouseID, sku string) (*domain.InventoryItem, error) {
	for _, item := range r.s.inventory.rows {
		if item.TenantID == tenantID && item.WarehouseID == warehouseID && item.SKU == sku {
			found := item
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r inventoryRepo) ListByWarehouse(_ context.Context, tenantID, warehouseID string, filter port.ListFilter) ([]domain.InventoryItem, error) {
	return r.s.inventory.list(tenantID, filter, func(item domain.InventoryItem) bool {
		return item.WarehouseID == warehouseID
	}), nil
}

func (r inventoryRepo) Update(_ context.Context, item domain.InventoryItem) error {
	return r.s.inventory.update(item)
}

func (r inventoryRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.inventory.delete(tenantID, id)
}

func (r inventoryRepo) AdjustQuantity(_ context.Context, tenantID, id string, delta int) (int, error) {
	item, err := r.s.inventory.get(tenantID, id)
	if err != nil {
		return 0, err
	}
	if item.Quantity+delta < 0 {
		return 0, repository.ErrInsufficientStock
	}
	item.Quantity += delta
	r.s.inventory.rows[id] = *item
	return item.Quantity, nil
}

type documentRepo struct{ s *memStore }

func (r documentRepo) Create(_ context.Context, d domain.Document) error {
	return r.s.documents.create(d)
}

func (r documentRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Document, error) {
	return r.s.documents.get(tenantID, id)
}

func (r documentRepo) ListByOwner(_ context.Context, tenantID string, ownerKind domain.DocumentOwnerKind, ownerID string) ([]domain.Document, error) {
	return r.s.documents.list(tenantID, port.ListFilter{}, func(d domain.Document) bool {
		return d.OwnerKind == ownerKind && d.OwnerID == ownerID
	}), nil
}

func (r documentRepo) Update(_ context.Context, d domain.Document) error {
	return r.s.documents.update(d)
}

func (r documentRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.documents.delete(tenantID, id)
}

type customerRepo struct{ s *memStore }

func (r customerRepo) Create(_ context.Context, c domain.Customer) error {
	return r.s.customers.create(c)
}

func (r customerRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Customer, error) {
	return r.s.customers.get(tenantID, id)
}

func (r customerRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.Customer, error) {
	return r.s.customers.list(tenantID, filter, nil), nil
}

func (r customerRepo) Update(_ context.Context, c domain.Customer) error {
	return r.s.customers.update(c)
}

func (r customerRepo) Delete(_ context.Context, tenantID, id string) error {
	return r.s.customers.delete(tenantID, id)
}

type roleRepo struct{ s *memStore }

func (r roleRepo) Create(_ context.Context, role domain.Role) error {
	role.Permissions = nil
	return r.s.roles.create(role)
}

func (r roleRepo) GetByID(_ context.Context, tenantID, id string) (*domain.Role, error) {
	return r.s.roles.get(tenantID, id)
}

func (r roleRepo) List(_ context.Context, tenantID string) ([]domain.Role, error) {
	return r.s.roles.list(tenantID, port.ListFilter{}, nil), nil
}

func (r roleRepo) Update(_ context.Context, role domain.Role) error {
	existing, err := r.s.roles.get(role.TenantID, role.ID)
	if err != nil {
		return err
	}
	role.Permissions = existing.Permissions
	return r.s.roles.update(role)
}

func (r roleRepo) Delete(_ context.Context, tenantID, id string) error {
	for _, user := range r.s.users.rows {
		if user.RoleID != nil && *user.RoleID == id {
			return &repository.ConflictError{Constraint: "users_role_id_fkey", Field: "role_id"}
		}
	}
	return r.s.roles.delete(tenantID, id)
}

func (r roleRepo) GrantPermissions(_ context.Context, tenantID, roleID string, permissions []string) (int, error) {
	if err := r.s.injected("roles.GrantPermissions"); err != nil {
		return 0, err
	}
	role, err := r.s.roles.get(tenantID, roleID)
	if err != nil {
		return 0, err
	}
	granted := append([]string(nil), role.Permissions...)
	added := 0
	for _, permission := range permissions {
		if !containsString(granted, permission) {
			granted = append(granted, permission)
			added++
		}
	}
	sort.Strings(granted)
	role.Permissions = granted
	r.s.roles.rows[roleID] = *role
	return added, nil
}

func (r roleRepo) RevokePermissions(_ context.Context, tenantID, roleID string, permissions []string) (int, error) {
	role, err := r.s.roles.get(tenantID, roleID)
	if err != nil {
		return 0, err
	}
	kept := make([]string, 0, len(role.Permissions))
	for _, permission := range role.Permissions {
		if !containsString(permissions, permission) {
			kept = append(kept, permission)
		}
	}
	removed := len(role.Permissions) - len(kept)
	role.Permissions = kept
	r.s.roles.rows[roleID] = *role
	return removed, nil
}

type userRepo struct{ s *memStore }

func (r userRepo) Create(_ context.Context, u domain.User) error {
	for _, other := range r.s.users.rows {
		if other.TenantID == u.TenantID && strings.EqualFold(other.Email, u.Email) {
			return &repository.ConflictError{Constraint: "users_tenant_email_key", Field: "email"}
		}
	}
	return r.s.users.create(u)
}

func (r userRepo) GetByID(_ context.Context, tenantID, id string) (*domain.User, error) {
	return r.s.users.get(tenantID, id)
}

func (r userRepo) List(_ context.Context, tenantID string, filter port.ListFilter) ([]domain.User, error) {
	return r.s.users.list(tenantID, filter, nil), nil
}

func (r userRepo) UpdateRole(_ context.Context, tenantID, userID string, roleID *string) error {
	user, err := r.s.users.get(tenantID, userID)
	if err != nil {
		return err
	}
	user.RoleID = roleID
	return r.s.users.update(*user)
}

func (r userRepo) SetActive(_ context.Context, tenantID, userID string, active bool) error {
	user, err := r.s.users.get(tenantID, userID)
	if err != nil {
		return err
	}
	user.IsActive = active
	return r.s.users.update(*user)
}

type reportingRepo struct{ s *memStore }

func (r reportingRepo) CountVehiclesByStatus(_ context.Context, tenantID string) ([]domain.StatusCount, error) {
	if err := r.s.injected("reports.CountVehiclesByStatus"); err != nil {
		return nil, err
	}
	return countStatuses(r.s.vehicles, tenantID), nil
}

func (r reportingRepo) CountDriversByStatus(_ context.Context, tenantID string) ([]domain.StatusCount, error) {
	return countStatuses(r.s.drivers, tenantID), nil
}

func (r reportingRepo) CountUnassignedDrivers(_ context.Context, tenantID string) (int, error) {
	count := 0
	for _, driver := range r.s.drivers.rows {
		if driver.TenantID == tenantID && driver.VehicleID == nil {
			count++
		}
	}
	return count, nil
}

func (r reportingRepo) CountShipmentsByStatus(_ context.Context, tenantID string) ([]domain.StatusCount, error) {
	if err := r.s.injected("reports.CountShipmentsByStatus"); err != nil {
		return nil, err
	}
	return countStatuses(r.s.shipments, tenantID), nil
}

func (r reportingRepo) CountShipmentsByMonth(_ context.Context, tenantID string, since time.Time) ([]domain.PeriodCount, error) {
	if err := r.s.injected("reports.CountShipmentsByMonth"); err != nil {
		return nil, err
	}
	byPeriod := map[string]int{}
	for _, shipment := range r.s.shipments.rows {
		if shipment.TenantID != tenantID || shipment.CreatedAt.Before(since) {
			continue
		}
		byPeriod[shipment.CreatedAt.UTC().Format("2006-01")]++
	}
	out := make([]domain.PeriodCount, 0, len(byPeriod))
	for period, count := range byPeriod {
		out = append(out, domain.PeriodCount{Period: period, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func (r reportingRepo) ListLowStock(_ context.Context, tenantID string, limit int) ([]domain.InventoryItem, error) {
	items := r.s.inventory.list(tenantID, port.ListFilter{Limit: limit}, func(item domain.InventoryItem) bool {
		return item.BelowReorderLevel()
	})
	return items, nil
}

func countStatuses[T any](table *memTable[T], tenantID string) []domain.StatusCount {
	byStatus := map[string]int{}
	for _, row := range table.rows {
		if table.tenant(row) == tenantID {
			byStatus[table.status(row)]++
		}
	}
	out := make([]domain.StatusCount, 0, len(byStatus))
	for status, count := range byStatus {
		out = append(out, domain.StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

type recordingEvents struct {
	changed []domain.EntityChangedEvent
	denied  []domain.AccessDeniedEvent
	err     error
}

func (e *recordingEvents) PublishEntityChanged(_ context.Context, event domain.EntityChangedEvent) error {
	e.changed = append(e.changed, event)
	return e.err
}

func (e *recordingEvents) PublishAccessDenied(_ context.Context, event domain.AccessDeniedEvent) error {
	e.denied = append(e.denied, event)
	return e.err
}

type recordingDecisions struct {
	counts map[string]int
}

func newRecordingDecisions() *recordingDecisions {
	return &recordingDecisions{counts: map[string]int{}}
}

func (r *recordingDecisions) RecordAccessDecision(operation, outcome string) {
	r.counts[operation+"/"+outcome]++
}

type fixture struct {
	store     *memStore
	events    *recordingEvents
	decisions *recordingDecisions
	deps      ControllerDeps
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	events := &recordingEvents{}
	decisions := newRecordingDecisions()
	logger := zaptest.NewLogger(t)

	return &fixture{
		store:     store,
		events:    events,
		decisions: decisions,
		now:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		deps: ControllerDeps{
			Guard:     NewGuard(logger, decisions, events),
			Ownership: store,
			Events:    events,
			Logger:    logger,
		},
	}
}

// pin fixes the clock and id generator of a service for deterministic assertions.
func (f *fixture) pin(c *controller, ids ...string) {
	c.now = func() time.Time { return f.now }
	next := 0
	c.newID = func() string {
		if next < len(ids) {
			next++
			return ids[next-1]
		}
		next++
		return "generated-" + strings.Repeat("x", next)
	}
}

func (f *fixture) seedVehicle(tenantID, id, plate string) domain.Vehicle {
	vehicle := domain.Vehicle{
		ID:          id,
		TenantID:    tenantID,
		PlateNumber: plate,
		Make:        "Volvo",
		Model:       "FH16",
		Year:        2022,
		Type:        "truck",
		Status:      domain.VehicleStatusActive,
		CapacityKg:  18000,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	}
	f.store.vehicles.rows[id] = vehicle
	return vehicle
}

func (f *fixture) seedDriver(tenantID, id, license string) domain.Driver {
	driver := domain.Driver{
		ID:            id,
		TenantID:      tenantID,
		FullName:      "Driver " + id,
		LicenseNumber: license,
		Status:        domain.DriverStatusAvailable,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
	f.store.drivers.rows[id] = driver
	return driver
}

func (f *fixture) pair(driverID, vehicleID string) {
	driver := f.store.drivers.rows[driverID]
	vehicle := f.store.vehicles.rows[vehicleID]
	driver.VehicleID = &vehicle.ID
	vehicle.DriverID = &driver.ID
	f.store.drivers.rows[driverID] = driver
	f.store.vehicles.rows[vehicleID] = vehicle
}

func (f *fixture) seedShipment(tenantID, id, tracking string, status domain.ShipmentStatus) domain.Shipment {
	shipment := domain.Shipment{
		ID:             id,
		TenantID:       tenantID,
		TrackingNumber: tracking,
		Destination:    "Izmir",
		WeightKg:       120,
		Status:         status,
		CreatedAt:      f.now,
		UpdatedAt:      f.now,
	}
	f.store.shipments.rows[id] = shipment
	return shipment
}

func (f *fixture) seedRoute(tenantID, id string) domain.Route {
	route := domain.Route{
		ID:          id,
		TenantID:    tenantID,
		Name:        "Route " + id,
		Origin:      "Istanbul",
		Destination: "Ankara",
		DistanceKm:  450,
		Status:      domain.RouteStatusPlanned,
		CreatedAt:   f.now,
		UpdatedAt:   f.now,
	}
	f.store.routes.rows[id] = route
	return route
}

func (f *fixture) seedWarehouse(tenantID, id, code string) domain.Warehouse {
	warehouse := domain.Warehouse{
		ID:            id,
		TenantID:      tenantID,
		Code:          code,
		Name:          "Warehouse " + code,
		Address:       "Gebze OSB",
		CapacityUnits: 1000,
		CreatedAt:     f.now,
		UpdatedAt:     f.now,
	}
	f.store.warehouses.rows[id] = warehouse
	return warehouse
}

func (f *fixture) seedItem(tenantID, id, warehouseID, sku string, quantity int) domain.InventoryItem {
	item := domain.InventoryItem{
		ID:           id,
		TenantID:     tenantID,
		WarehouseID:  warehouseID,
		SKU:          sku,
		Name:         "Item " + sku,
		Quantity:     quantity,
		ReorderLevel: 5,
		CreatedAt:    f.now,
		UpdatedAt:    f.now,
	}
	f.store.inventory.rows[id] = item
	return item
}

func (f *fixture) seedDocument(tenantID, id string, ownerKind domain.DocumentOwnerKind, ownerID string) domain.Document {
	document := domain.Document{
		ID:        id,
		TenantID:  tenantID,
		OwnerKind: ownerKind,
		OwnerID:   ownerID,
		Title:     "Insurance",
		Kind:      "insurance",
		URL:       "https://files.example.com/" + id,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	f.store.documents.rows[id] = document
	return document
}

func (f *fixture) seedCustomer(tenantID, id, email string) domain.Customer {
	customer := domain.Customer{
		ID:        id,
		TenantID:  tenantID,
		Name:      "Customer " + id,
		Email:     email,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	f.store.customers.rows[id] = customer
	return customer
}

func (f *fixture) seedRole(tenantID, id string, kind domain.RoleKind, permissions ...string) domain.Role {
	role := domain.Role{
		ID:          id,
		TenantID:    tenantID,
		Name:        string(kind) + "-" + id,
		Kind:        kind,
		Permissions: permissions,
	}
	f.store.roles.rows[id] = role
	return role
}

func (f *fixture) seedUser(tenantID, id, email string, roleID *string) domain.User {
	user := domain.User{
		ID:        id,
		TenantID:  tenantID,
		Email:     email,
		FullName:  "User " + id,
		RoleID:    roleID,
		IsActive:  true,
		CreatedAt: f.now,
		UpdatedAt: f.now,
	}
	f.store.users.rows[id] = user
	return user
}

func strPtr(value string) *string {
	return &value
}

func requireKind(t *testing.T, err error, want ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("expected %s error, got %q (%v)", want, got, err)
	}
}

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}
