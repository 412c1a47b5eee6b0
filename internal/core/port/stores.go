package port

import (
	"context"
	"time"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

// CredentialRevocationStore tracks bearer credentials revoked before their expiry.
type CredentialRevocationStore interface {
	MarkRevoked(ctx context.Context, tokenID string, reason string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, string, error)
}

// RateLimitStore defines the persistence operations required to enforce sliding-window limits.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// CredentialVerifier checks the signature and standard claims of a raw bearer credential.
type CredentialVerifier interface {
	Verify(ctx context.Context, raw string) (*domain.VerifiedCredential, error)
}

// AccessDecisionRecorder counts guard outcomes per operation.
type AccessDecisionRecorder interface {
	RecordAccessDecision(operation string, outcome string)
}
