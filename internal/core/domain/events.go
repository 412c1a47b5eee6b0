package domain

import "time"

// EntityAction names the mutation recorded by an EntityChangedEvent.
type EntityAction string

const (
	EntityCreated  EntityAction = "created"
	EntityUpdated  EntityAction = "updated"
	EntityDeleted  EntityAction = "deleted"
	EntityAssigned EntityAction = "assigned"
)

// EntityChangedEvent represents the payload for logitrack.<resource>.<action> messages.
type EntityChangedEvent struct {
	EventID    string
	TenantID   string
	Resource   ResourceKind
	ResourceID string
	Action     EntityAction
	ActorID    string
	OccurredAt time.Time
	Metadata   map[string]any
}

// AccessDeniedEvent represents the payload for logitrack.security.access_denied messages.
// Only cross-tenant denials are published; role denials are logged.
type AccessDeniedEvent struct {
	EventID        string
	Operation      string
	ActorID        string
	ActorTenantID  string
	TargetTenantID string
	Reason         string
	OccurredAt     time.Time
}

// CredentialRevokedEvent is consumed from logitrack.security.credential_revoked,
// published by the credential issuer when a session ends before its expiry.
type CredentialRevokedEvent struct {
	EventID   string    `json:"event_id"`
	TokenID   string    `json:"token_id"`
	SubjectID string    `json:"subject_id"`
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}
