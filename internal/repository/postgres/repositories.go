package postgres

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Ownership  *OwnershipRepository
	Vehicles   *VehicleRepository
	Drivers    *DriverRepository
	Shipments  *ShipmentRepository
	Routes     *RouteRepository
	Warehouses *WarehouseRepository
	Inventory  *InventoryRepository
	Documents  *DocumentRepository
	Customers  *CustomerRepository
	Roles      *RoleRepository
	Users      *UserRepository
	Reporting  *ReportingRepository
}

// NewRepositories wires all repositories backed by the provided executor.
func NewRepositories(exec pgExecutor) *Repositories {
	return &Repositories{
		Ownership:  NewOwnershipRepository(exec),
		Vehicles:   NewVehicleRepository(exec),
		Drivers:    NewDriverRepository(exec),
		Shipments:  NewShipmentRepository(exec),
		Routes:     NewRouteRepository(exec),
		Warehouses: NewWarehouseRepository(exec),
		Inventory:  NewInventoryRepository(exec),
		Documents:  NewDocumentRepository(exec),
		Customers:  NewCustomerRepository(exec),
		Roles:      NewRoleRepository(exec),
		Users:      NewUserRepository(exec),
		Reporting:  NewReportingRepository(exec),
	}
}
