package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

func TestUserRepository_GetPrincipal(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`SELECT u\.id, u\.tenant_id, u\.role_id, r\.kind FROM logitrack\.users u LEFT JOIN logitrack\.roles r`).
		WithArgs("usr-1", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "role_id", "kind"}).
			AddRow("usr-1", "tenant-a", "role-1", "dispatcher"))

	principal, err := repo.GetPrincipal(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("GetPrincipal returned error: %v", err)
	}
	if principal.TenantID != "tenant-a" || principal.Role != domain.RoleDispatcher {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.RoleID == nil || *principal.RoleID != "role-1" {
		t.Fatalf("expected role id role-1")
	}
}

func TestUserRepository_GetPrincipalWithoutRole(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM logitrack\.users u`).
		WithArgs("usr-2", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "role_id", "kind"}).
			AddRow("usr-2", "tenant-a", nil, nil))

	principal, err := repo.GetPrincipal(context.Background(), "usr-2")
	if err != nil {
		t.Fatalf("GetPrincipal returned error: %v", err)
	}
	if principal.Role != domain.RoleNone || principal.RoleID != nil {
		t.Fatalf("expected principal without role, got %+v", principal)
	}
}

func TestUserRepository_GetPrincipalInactive(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM logitrack\.users u`).
		WithArgs("usr-3", true).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetPrincipal(context.Background(), "usr-3")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_GetPrincipalRejectsUnknownRoleKind(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(`FROM logitrack\.users u`).
		WithArgs("usr-4", true).
		WillReturnRows(pgxmock.NewRows([]string{"id", "tenant_id", "role_id", "kind"}).
			AddRow("usr-4", "tenant-a", "role-9", "superuser"))

	principal, err := repo.GetPrincipal(context.Background(), "usr-4")
	if err == nil {
		t.Fatalf("expected error for unknown role kind, got principal %+v", principal)
	}
	if errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("unknown role kind must not look like a missing user: %v", err)
	}
}

func TestStoredRoleKind(t *testing.T) {
	cases := []struct {
		value   string
		want    domain.RoleKind
		wantErr bool
	}{
		{value: "admin", want: domain.RoleAdmin},
		{value: " Warehouse ", want: domain.RoleWarehouse},
		{value: "", wantErr: true},
		{value: "superuser", wantErr: true},
	}

	for _, tc := range cases {
		got, err := storedRoleKind(tc.value)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("storedRoleKind(%q): expected error, got %q", tc.value, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("storedRoleKind(%q) = %q, %v; want %q", tc.value, got, err, tc.want)
		}
	}
}
