package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
)

const (
	defaultRevocationPrefix = "logitrack:revoked"
	defaultRevocationReason = "revoked"
)

var (
	errEmptyTokenID   = errors.New("token id must not be empty")
	errNonPositiveTTL = errors.New("ttl must be positive")
)

// CredentialRevocationRepository records bearer credentials revoked before their
// natural expiry. Entries expire together with the credential they block.
type CredentialRevocationRepository struct {
	client red.UniversalClient
	prefix string
}

// NewCredentialRevocationRepository wires a Redis client into a revocation store.
func NewCredentialRevocationRepository(client red.UniversalClient, keyPrefix string) *CredentialRevocationRepository {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultRevocationPrefix
	}

	return &CredentialRevocationRepository{client: client, prefix: prefix}
}

// MarkRevoked blocks tokenID for ttl. An earlier revocation keeps its original reason.
func (r *CredentialRevocationRepository) MarkRevoked(ctx context.Context, tokenID string, reason string, ttl time.Duration) error {
	if ttl <= 0 {
		return errNonPositiveTTL
	}

	key, err := r.key(tokenID)
	if err != nil {
		return err
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultRevocationReason
	}

	if _, err := r.client.SetNX(ctx, key, reason, ttl).Result(); err != nil {
		return fmt.Errorf("redis setnx revoked credential: %w", err)
	}

	return nil
}

// IsRevoked reports whether tokenID has been revoked and returns the stored reason.
func (r *CredentialRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, string, error) {
	key, err := r.key(tokenID)
	if err != nil {
		return false, "", err
	}

	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return false, "", nil
		}
		return false, "", fmt.Errorf("redis get revoked credential: %w", err)
	}

	return true, value, nil
}

func (r *CredentialRevocationRepository) key(tokenID string) (string, error) {
	trimmed := strings.TrimSpace(tokenID)
	if trimmed == "" {
		return "", errEmptyTokenID
	}
	return r.prefix + ":" + trimmed, nil
}

var _ port.CredentialRevocationStore = (*CredentialRevocationRepository)(nil)
