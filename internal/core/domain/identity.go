package domain

import "time"

// Principal is the identity acting on a request. It is resolved from the
// stored user record on every request and never cached.
type Principal struct {
	UserID   string
	TenantID string
	RoleID   *string
	Role     RoleKind
}

// User mirrors the persisted representation in the users table.
type User struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	RoleID    *string   `json:"role_id,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VerifiedCredential is what survives cryptographic verification of a bearer
// credential. Tenant and role are deliberately absent: they are read from storage.
type VerifiedCredential struct {
	Subject   string
	TokenID   string
	ExpiresAt time.Time
}
