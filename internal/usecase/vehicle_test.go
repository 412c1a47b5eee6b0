package usecase

import (
	"context"
	"testing"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

func TestCreateVehicleUsesActorTenant(t *testing.T) {
	f := newFixture(t)
	svc := f.services().vehicles
	f.pin(&svc.controller, "veh-new")
	manager := actorOf(tenantA, domain.RoleManager)

	vehicle, err := svc.Create(context.Background(), manager, CreateVehicleInput{
		PlateNumber: " 34 abc 123 ",
		Make:        "Ford",
		Model:       "Transit",
		Year:        2021,
		Type:        "van",
		CapacityKg:  1500,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	stored := f.store.vehicles.rows["veh-new"]
	if stored.TenantID != tenantA || vehicle.TenantID != tenantA {
		t.Fatalf("expected tenant %q, got stored %q returned %q", tenantA, stored.TenantID, vehicle.TenantID)
	}
	if stored.PlateNumber != "34 ABC 123" {
		t.Fatalf("expected normalised plate, got %q", stored.PlateNumber)
	}
	if stored.Status != domain.VehicleStatusActive {
		t.Fatalf("expected default status active, got %q", stored.Status)
	}
	if len(f.events.changed) != 1 || f.events.changed[0].Action != domain.EntityCreated || f.events.changed[0].TenantID != tenantA {
		t.Fatalf("unexpected change events %+v", f.events.changed)
	}
}

func TestCreateVehicleDuplicatePlateConflicts(t *testing.T) {
	f := newFixture(t)
	f.seedVehicle(tenantA, "veh-1", "34 ABC 123")
	f.seedVehicle(tenantB, "veh-2", "06 DEF 456")
	svc := f.services().vehicles
	admin := actorOf(tenantA, domain.RoleAdmin)

	_, err := svc.Create(context.Background(), admin, CreateVehicleInput{PlateNumber: "34 abc 123", Make: "M", Model: "M", Year: 2020, Type: "truck"})
	requireKind(t, err, KindConflict)

	var typed *Error
	if !asError(err, &typed) || typed.Field != "plate_number" {
		t.Fatalf("expected conflict on plate_number, got %+v", err)
	}

	// Plates are unique per tenant only.
	if _, err := svc.Create(context.Background(), admin, CreateVehicleInput{PlateNumber: "06 DEF 456", Make: "M", Model: "M", Year: 2020, Type: "truck"}); err != nil {
		t.Fatalf("plate of another tenant should be allowed: %v", err)
	}
}

func TestCreateVehicleValidatesInput(t *testing.T) {
	f := newFixture(t)
	svc := f.services().vehicles
	admin := actorOf(tenantA, domain.RoleAdmin)

	_, err := svc.Create(context.Background(), admin, CreateVehicleInput{Make: "M", Model: "M", Year: 2020, Type: "truck"})
	requireKind(t, err, KindInvalidInput)

	var typed *Error
	if !asError(err, &typed) || typed.Field != "plate_number" {
		t.Fatalf("expected plate_number validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), admin, CreateVehicleInput{PlateNumber: "P", Make: "M", Model: "M", Year: 2020, Type: "truck", Status: "flying"})
	requireKind(t, err, KindInvalidInput)

	if len(f.store.vehicles.rows) != 0 {
		t.Fatal("invalid input must not be stored")
	}
}

func TestUpdateVehicleAppliesOnlySuppliedFields(t *testing.T) {
	f := newFixture(t)
	original := f.seedVehicle(tenantA, "veh-1", "34 ABC 123")
	svc := f.services().vehicles
	f.pin(&svc.controller)
	status := domain.VehicleStatusMaintenance

	updated, err := svc.Update(context.Background(), actorOf(tenantA, domain.RoleManager), UpdateVehicleInput{
		ID:     "veh-1",
		Status: &status,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Status != domain.VehicleStatusMaintenance {
		t.Fatalf("expected maintenance, got %q", updated.Status)
	}
	stored := f.store.vehicles.rows["veh-1"]
	if stored.PlateNumber != original.PlateNumber || stored.Make != original.Make || stored.TenantID != tenantA {
		t.Fatalf("untouched fields changed: %+v", stored)
	}
}

func TestListVehiclesReturnsOnlyActorTenant(t *testing.T) {
	f := newFixture(t)
	f.seedVehicle(tenantA, "veh-a1", "A1")
	f.seedVehicle(tenantA, "veh-a2", "A2")
	f.seedVehicle(tenantB, "veh-b1", "B1")
	svc := f.services().vehicles

	vehicles, err := svc.List(context.Background(), actorOf(tenantA, domain.RoleViewer), ListVehiclesInput{})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(vehicles))
	}
	for _, vehicle := range vehicles {
		if vehicle.TenantID != tenantA {
			t.Fatalf("listed vehicle of tenant %q", vehicle.TenantID)
		}
	}
}

func TestListVehiclesPropagatesStorageFailure(t *testing.T) {
	f := newFixture(t)
	f.store.fail("vehicles.List", errInjected)
	svc := f.services().vehicles

	vehicles, err := svc.List(context.Background(), actorOf(tenantA, domain.RoleViewer), ListVehiclesInput{})
	if err == nil || vehicles != nil {
		t.Fatalf("expected failure, got %v, %v", vehicles, err)
	}
	if KindOf(err) != "" {
		t.Fatalf("storage failure should stay untyped, got %q", KindOf(err))
	}
}

func TestDeleteVehicleRemovesRow(t *testing.T) {
	f := newFixture(t)
	f.seedVehicle(tenantA, "veh-1", "P1")
	svc := f.services().vehicles
	admin := actorOf(tenantA, domain.RoleAdmin)

	if err := svc.Delete(context.Background(), admin, "veh-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.store.vehicles.rows["veh-1"]; ok {
		t.Fatal("vehicle still stored")
	}

	err := svc.Delete(context.Background(), admin, "veh-1")
	requireKind(t, err, KindNotFound)
}

func TestListFilterClampsPaging(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, defaultPageSize, 0},
		{-5, -1, defaultPageSize, 0},
		{10, 20, 10, 20},
		{maxPageSize + 1, 0, maxPageSize, 0},
	}
	for _, tc := range cases {
		got := listFilter("", "", tc.limit, tc.offset)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Fatalf("listFilter(%d, %d) = %+v", tc.limit, tc.offset, got)
		}
	}
}
