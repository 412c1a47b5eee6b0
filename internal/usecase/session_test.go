package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/repository"
)

type stubVerifier struct {
	credentials map[string]domain.VerifiedCredential
}

func (s stubVerifier) Verify(_ context.Context, raw string) (*domain.VerifiedCredential, error) {
	credential, ok := s.credentials[raw]
	if !ok {
		return nil, errors.New("invalid credential")
	}
	return &credential, nil
}

type stubRevocations struct {
	revoked map[string]string
	ttls    map[string]time.Duration
	err     error
}

func (s *stubRevocations) MarkRevoked(_ context.Context, tokenID, reason string, ttl time.Duration) error {
	if s.revoked == nil {
		s.revoked = map[string]string{}
		s.ttls = map[string]time.Duration{}
	}
	s.revoked[tokenID] = reason
	s.ttls[tokenID] = ttl
	return nil
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, string, error) {
	if s.err != nil {
		return false, "", s.err
	}
	reason, ok := s.revoked[tokenID]
	return ok, reason, nil
}

type stubPrincipals struct {
	principals map[string]domain.Principal
	err        error
	calls      int
}

func (s *stubPrincipals) GetPrincipal(_ context.Context, userID string) (*domain.Principal, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	principal, ok := s.principals[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &principal, nil
}

func newTestResolver(t *testing.T) (*SessionResolver, *stubRevocations, *stubPrincipals) {
	t.Helper()

	expires := time.Now().Add(time.Hour)
	verifier := stubVerifier{credentials: map[string]domain.VerifiedCredential{
		"good-token":    {Subject: "user-1", TokenID: "jti-1", ExpiresAt: expires},
		"ghost-token":   {Subject: "user-ghost", TokenID: "jti-2", ExpiresAt: expires},
		"expired-token": {Subject: "user-1", TokenID: "jti-3", ExpiresAt: time.Now().Add(-time.Minute)},
	}}
	revocations := &stubRevocations{}
	principals := &stubPrincipals{principals: map[string]domain.Principal{
		"user-1": {UserID: "user-1", TenantID: tenantA, Role: domain.RoleDispatcher},
	}}

	return NewSessionResolver(verifier, revocations, principals, zaptest.NewLogger(t)), revocations, principals
}

func TestResolveReturnsStoredPrincipal(t *testing.T) {
	resolver, _, principals := newTestResolver(t)

	principal, err := resolver.Resolve(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if principal == nil || principal.TenantID != tenantA || principal.Role != domain.RoleDispatcher {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principals.calls != 1 {
		t.Fatalf("expected exactly one principal lookup, got %d", principals.calls)
	}
}

func TestResolveReturnsNoSession(t *testing.T) {
	resolver, revocations, _ := newTestResolver(t)
	revocations.revoked = map[string]string{"jti-1": "logout"}

	cases := map[string]string{
		"empty":   "",
		"blank":   "   ",
		"garbage": "not-a-token",
		"revoked": "good-token",
		"unknown": "ghost-token",
	}

	for name, credential := range cases {
		t.Run(name, func(t *testing.T) {
			principal, err := resolver.Resolve(context.Background(), credential)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if principal != nil {
				t.Fatalf("expected no principal, got %+v", principal)
			}
		})
	}
}

func TestResolveSurfacesStorageFailures(t *testing.T) {
	resolver, revocations, principals := newTestResolver(t)

	principals.err = errors.New("connection refused")
	if _, err := resolver.Resolve(context.Background(), "good-token"); err == nil {
		t.Fatal("expected principal lookup failure to surface")
	}

	principals.err = nil
	revocations.err = errors.New("redis timeout")
	if _, err := resolver.Resolve(context.Background(), "good-token"); err == nil {
		t.Fatal("expected revocation store failure to surface")
	}
}

func TestRevokeMarksTokenUntilExpiry(t *testing.T) {
	resolver, revocations, _ := newTestResolver(t)

	if err := resolver.Revoke(context.Background(), "good-token", "logout"); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if revocations.revoked["jti-1"] != "logout" {
		t.Fatalf("expected jti-1 to be revoked, got %+v", revocations.revoked)
	}
	if ttl := revocations.ttls["jti-1"]; ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected revocation ttl %s", ttl)
	}

	principal, err := resolver.Resolve(context.Background(), "good-token")
	if err != nil || principal != nil {
		t.Fatalf("expected revoked credential to resolve to nothing, got %+v, %v", principal, err)
	}
}

func TestRevokeRejectsInvalidCredential(t *testing.T) {
	resolver, revocations, _ := newTestResolver(t)

	err := resolver.Revoke(context.Background(), "garbage", "logout")
	requireKind(t, err, KindUnauthorized)

	if err := resolver.Revoke(context.Background(), "expired-token", "logout"); err != nil {
		t.Fatalf("expected expired credential revoke to be a no-op, got %v", err)
	}
	if _, ok := revocations.revoked["jti-3"]; ok {
		t.Fatal("expired credential should not be stored")
	}
}

func TestResolveLenientPolicyToleratesRevocationOutage(t *testing.T) {
	_, revocations, principals := newTestResolver(t)
	verifier := stubVerifier{credentials: map[string]domain.VerifiedCredential{
		"good-token": {Subject: "user-1", TokenID: "jti-1", ExpiresAt: time.Now().Add(time.Hour)},
	}}
	revocations.err = errors.New("redis timeout")

	lenient := NewSessionResolver(verifier, revocations, principals, zaptest.NewLogger(t),
		WithDegradationPolicy(domain.NewDegradationPolicy(domain.DegradationPolicyModeLenient)))

	principal, err := lenient.Resolve(context.Background(), "good-token")
	if err != nil || principal == nil {
		t.Fatalf("expected lenient policy to resolve despite the outage, got %+v, %v", principal, err)
	}

	principals.err = errors.New("connection refused")
	if _, err := lenient.Resolve(context.Background(), "good-token"); err == nil {
		t.Fatal("lenient policy must not hide principal lookup failures")
	}
}
