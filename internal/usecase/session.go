package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

// SessionResolver turns a raw bearer credential into the acting principal.
type SessionResolver struct {
	verifier    port.CredentialVerifier
	revocations port.CredentialRevocationStore
	principals  port.PrincipalLookup
	logger      *zap.Logger
	degradation domain.DegradationPolicy
	now         func() time.Time
}

// SessionResolverOption customises a SessionResolver.
type SessionResolverOption func(*SessionResolver)

// WithDegradationPolicy sets how an unreachable revocation store is handled.
// The default is strict.
func WithDegradationPolicy(policy domain.DegradationPolicy) SessionResolverOption {
	return func(r *SessionResolver) {
		r.degradation = policy
	}
}

// NewSessionResolver constructs a resolver. revocations may be nil when no
// revocation store is configured.
func NewSessionResolver(verifier port.CredentialVerifier, revocations port.CredentialRevocationStore, principals port.PrincipalLookup, logger *zap.Logger, opts ...SessionResolverOption) *SessionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &SessionResolver{
		verifier:    verifier,
		revocations: revocations,
		principals:  principals,
		logger:      logger,
		degradation: domain.NewDegradationPolicy(domain.DegradationPolicyModeStrict),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the principal behind credential, or nil when there is no valid
// session. Absent, malformed, expired and revoked credentials all yield nil
// without an error; only storage failures are returned as errors.
func (r *SessionResolver) Resolve(ctx context.Context, credential string) (*domain.Principal, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, nil
	}

	verified, err := r.verifier.Verify(ctx, credential)
	if err != nil {
		r.logger.Debug("credential rejected", zap.Error(err))
		return nil, nil
	}

	if r.revocations != nil && verified.TokenID != "" {
		revoked, reason, err := r.revocations.IsRevoked(ctx, verified.TokenID)
		switch {
		case err != nil && r.degradation.AllowsFallback(domain.DegradationReasonRevocationStoreUnavailable):
			r.logger.Warn("revocation store unavailable, accepting credential",
				zap.String("user_id", verified.Subject),
				zap.String("policy", string(r.degradation.Mode())),
				zap.Error(err),
			)
		case err != nil:
			return nil, fmt.Errorf("check credential revocation: %w", err)
		case revoked:
			r.logger.Debug("revoked credential presented",
				zap.String("user_id", verified.Subject),
				zap.String("reason", reason),
			)
			return nil, nil
		}
	}

	principal, err := r.principals.GetPrincipal(ctx, verified.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			r.logger.Debug("credential subject unknown or inactive", zap.String("user_id", verified.Subject))
			return nil, nil
		}
		return nil, fmt.Errorf("load principal: %w", err)
	}

	return principal, nil
}

// Revoke invalidates credential until its natural expiry. Invalid credentials
// are treated as already unusable.
func (r *SessionResolver) Revoke(ctx context.Context, credential, reason string) error {
	if r.revocations == nil {
		return errors.New("credential revocation is not configured")
	}

	verified, err := r.verifier.Verify(ctx, strings.TrimSpace(credential))
	if err != nil {
		return unauthorized("session.revoke")
	}
	if verified.TokenID == "" {
		return invalidInput("session.revoke", "jti", "credential has no token id")
	}

	ttl := verified.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}

	if err := r.revocations.MarkRevoked(ctx, verified.TokenID, reason, ttl); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}

	r.logger.Info("credential revoked", zap.String("user_id", verified.Subject), zap.String("reason", reason))
	return nil
}
