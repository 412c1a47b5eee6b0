package usecase

import "github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"

// Policy is the access contract of one controller operation. An empty role set
// admits any member of the target tenant.
type Policy struct {
	Name  string
	Roles domain.RoleSet
}

func policy(name string, roles ...domain.RoleKind) Policy {
	return Policy{Name: name, Roles: domain.Roles(roles...)}
}

var (
	fleetOperators     = []domain.RoleKind{domain.RoleAdmin, domain.RoleManager}
	dispatchOperators  = []domain.RoleKind{domain.RoleAdmin, domain.RoleManager, domain.RoleDispatcher}
	warehouseOperators = []domain.RoleKind{domain.RoleAdmin, domain.RoleManager, domain.RoleWarehouse}
)

var (
	PolicyVehicleRead   = policy("vehicle.read")
	PolicyVehicleList   = policy("vehicle.list")
	PolicyVehicleCreate = policy("vehicle.create", fleetOperators...)
	PolicyVehicleUpdate = policy("vehicle.update", fleetOperators...)
	PolicyVehicleDelete = policy("vehicle.delete", fleetOperators...)

	PolicyDriverRead     = policy("driver.read")
	PolicyDriverList     = policy("driver.list")
	PolicyDriverCreate   = policy("driver.create", fleetOperators...)
	PolicyDriverUpdate   = policy("driver.update", fleetOperators...)
	PolicyDriverDelete   = policy("driver.delete", fleetOperators...)
	PolicyDriverAssign   = policy("driver.assign_vehicle", fleetOperators...)
	PolicyDriverUnassign = policy("driver.unassign_vehicle", fleetOperators...)

	PolicyShipmentRead   = policy("shipment.read")
	PolicyShipmentList   = policy("shipment.list")
	PolicyShipmentCreate = policy("shipment.create", dispatchOperators...)
	PolicyShipmentUpdate = policy("shipment.update", dispatchOperators...)
	PolicyShipmentDelete = policy("shipment.delete", dispatchOperators...)
	PolicyShipmentStatus = policy("shipment.update_status", domain.RoleAdmin, domain.RoleManager, domain.RoleDispatcher, domain.RoleDriver)

	PolicyRouteRead   = policy("route.read")
	PolicyRouteList   = policy("route.list")
	PolicyRouteCreate = policy("route.create", dispatchOperators...)
	PolicyRouteUpdate = policy("route.update", dispatchOperators...)
	PolicyRouteDelete = policy("route.delete", dispatchOperators...)

	PolicyWarehouseRead   = policy("warehouse.read")
	PolicyWarehouseList   = policy("warehouse.list")
	PolicyWarehouseCreate = policy("warehouse.create", fleetOperators...)
	PolicyWarehouseUpdate = policy("warehouse.update", fleetOperators...)
	PolicyWarehouseDelete = policy("warehouse.delete", domain.RoleAdmin)

	PolicyInventoryRead     = policy("inventory.read")
	PolicyInventoryList     = policy("inventory.list")
	PolicyInventoryCreate   = policy("inventory.create", warehouseOperators...)
	PolicyInventoryUpdate   = policy("inventory.update", warehouseOperators...)
	PolicyInventoryAdjust   = policy("inventory.adjust", warehouseOperators...)
	PolicyInventoryTransfer = policy("inventory.transfer", warehouseOperators...)
	PolicyInventoryDelete   = policy("inventory.delete", warehouseOperators...)

	PolicyDocumentRead   = policy("document.read")
	PolicyDocumentList   = policy("document.list")
	PolicyDocumentCreate = policy("document.create", dispatchOperators...)
	PolicyDocumentUpdate = policy("document.update", dispatchOperators...)
	PolicyDocumentDelete = policy("document.delete", dispatchOperators...)

	PolicyCustomerRead   = policy("customer.read")
	PolicyCustomerList   = policy("customer.list")
	PolicyCustomerCreate = policy("customer.create", dispatchOperators...)
	PolicyCustomerUpdate = policy("customer.update", dispatchOperators...)
	PolicyCustomerDelete = policy("customer.delete", fleetOperators...)

	PolicyRoleRead   = policy("role.read")
	PolicyRoleList   = policy("role.list")
	PolicyRoleCreate = policy("role.create", domain.RoleAdmin)
	PolicyRoleUpdate = policy("role.update", domain.RoleAdmin)
	PolicyRoleDelete = policy("role.delete", domain.RoleAdmin)
	PolicyRoleGrant  = policy("role.grant_permissions", domain.RoleAdmin)
	PolicyRoleRevoke = policy("role.revoke_permissions", domain.RoleAdmin)

	PolicyUserRead       = policy("user.read")
	PolicyUserList       = policy("user.list")
	PolicyUserInvite     = policy("user.invite", domain.RoleAdmin)
	PolicyUserChangeRole = policy("user.change_role", domain.RoleAdmin)
	PolicyUserDeactivate = policy("user.deactivate", domain.RoleAdmin)

	PolicyDashboardRead = policy("dashboard.read")
)
