package security

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	uuid "github.com/google/uuid"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

var (
	// ErrKeyIDMissing indicates no kid is associated with the supplied key.
	ErrKeyIDMissing = errors.New("jwt: missing key identifier")
	// ErrKeyNotRegistered indicates a supplied kid is unknown to the JWT manager.
	ErrKeyNotRegistered = errors.New("jwt: key not registered")
	// ErrInvalidCredential covers malformed tokens, bad signatures and claim mismatches.
	ErrInvalidCredential = errors.New("jwt: invalid credential")
	// ErrExpiredCredential indicates the credential is past its expiry.
	ErrExpiredCredential = errors.New("jwt: credential expired")
)

const defaultCredentialTTL = 8 * time.Hour

// CredentialClaims are the claims carried by a LogiTrack bearer credential. Any
// tenant or role claims present in a token are ignored.
type CredentialClaims struct {
	jwt.RegisteredClaims
}

// CredentialOptions configures creation of credential claims.
type CredentialOptions struct {
	UserID   string
	Issuer   string
	Audience []string
	TTL      time.Duration
	IssuedAt time.Time
	JTI      string
}

// JWTManager signs and verifies RS256 credentials and publishes the JWKS.
type JWTManager struct {
	KeyProvider KeyProvider
	issuer      string
	audience    string
	now         func() time.Time
	mu          sync.RWMutex
	publicKeys  map[string]*rsa.PublicKey
}

// NewJWTManager constructs a JWTManager for the supplied key provider. Empty issuer
// or audience disables the corresponding claim check.
func NewJWTManager(provider KeyProvider, issuer, audience string) *JWTManager {
	mgr := &JWTManager{
		KeyProvider: provider,
		issuer:      strings.TrimSpace(issuer),
		audience:    strings.TrimSpace(audience),
		publicKeys:  make(map[string]*rsa.PublicKey),
	}

	if enumerator, ok := provider.(interface {
		ListVerificationKeys() map[string]*rsa.PublicKey
	}); ok {
		for kid, key := range enumerator.ListVerificationKeys() {
			_ = mgr.RegisterPublicKey(kid, key)
		}
	}

	return mgr
}

// WithClock overrides the time source used for expiry checks.
func (m *JWTManager) WithClock(clock func() time.Time) *JWTManager {
	m.now = clock
	return m
}

// RegisterPublicKey associates a kid with a public key for JWKS publication and lookup.
func (m *JWTManager) RegisterPublicKey(kid string, key *rsa.PublicKey) error {
	kid = strings.TrimSpace(kid)
	if kid == "" {
		return ErrKeyIDMissing
	}
	if key == nil {
		return fmt.Errorf("jwt: public key for %s is nil", kid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.publicKeys[kid] = key
	return nil
}

// GetVerificationKey retrieves a public key by kid.
func (m *JWTManager) GetVerificationKey(kid string) (*rsa.PublicKey, error) {
	kid = strings.TrimSpace(kid)
	if kid == "" {
		return nil, ErrKeyIDMissing
	}

	m.mu.RLock()
	key, ok := m.publicKeys[kid]
	m.mu.RUnlock()
	if ok {
		return key, nil
	}

	if m.KeyProvider != nil {
		fetched, err := m.KeyProvider.GetVerificationKey(kid)
		if err == nil {
			_ = m.RegisterPublicKey(kid, fetched)
			return fetched, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrKeyNotRegistered, kid)
}

// JWKS produces the JSON Web Key Set for registered keys.
func (m *JWTManager) JWKS() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]map[string]string, 0, len(m.publicKeys))
	for kid, key := range m.publicKeys {
		if key == nil {
			continue
		}
		keys = append(keys, buildJWK(kid, key))
	}

	return json.Marshal(map[string]any{"keys": keys})
}

func buildJWK(kid string, key *rsa.PublicKey) map[string]string {
	return map[string]string{
		"kty": "RSA",
		"use": "sig",
		"alg": "RS256",
		"kid": kid,
		"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
		"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
	}
}

// NewCredentialClaims constructs standardized credential claims.
func NewCredentialClaims(opts CredentialOptions) (*CredentialClaims, error) {
	userID := strings.TrimSpace(opts.UserID)
	if userID == "" {
		return nil, fmt.Errorf("jwt: user id is required")
	}
	issuer := strings.TrimSpace(opts.Issuer)
	if issuer == "" {
		return nil, fmt.Errorf("jwt: issuer is required")
	}

	now := opts.IssuedAt
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultCredentialTTL
	}

	jti := strings.TrimSpace(opts.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}

	return &CredentialClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			Audience:  opts.Audience,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        jti,
		},
	}, nil
}

// SignCredential signs the provided claims using the active signing key and kid.
func (m *JWTManager) SignCredential(kid string, claims *CredentialClaims) (string, error) {
	if claims == nil {
		return "", fmt.Errorf("jwt: credential claims required")
	}
	kid = strings.TrimSpace(kid)
	if kid == "" {
		return "", ErrKeyIDMissing
	}
	if m.KeyProvider == nil {
		return "", fmt.Errorf("jwt: key provider not configured")
	}

	signingKey, err := m.KeyProvider.GetSigningKey()
	if err != nil {
		return "", fmt.Errorf("jwt: get signing key: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid

	signed, err := token.SignedString(signingKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, issuer, audience and expiry and returns the subject and token id.
func (m *JWTManager) Verify(_ context.Context, raw string) (*domain.VerifiedCredential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidCredential
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.now != nil {
		options = append(options, jwt.WithTimeFunc(m.now))
	}
	if m.issuer != "" {
		options = append(options, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		options = append(options, jwt.WithAudience(m.audience))
	}

	claims := &CredentialClaims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return m.GetVerificationKey(kid)
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredential
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if parsed == nil || !parsed.Valid {
		return nil, ErrInvalidCredential
	}

	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return nil, ErrInvalidCredential
	}

	return &domain.VerifiedCredential{
		Subject:   subject,
		TokenID:   strings.TrimSpace(claims.ID),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
