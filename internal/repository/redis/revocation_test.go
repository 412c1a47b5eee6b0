package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestCredentialRevocationRepository_MarkAndCheck(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewCredentialRevocationRepository(client, "revoked")

	ctx := context.Background()
	ttl := 2 * time.Minute

	if err := repo.MarkRevoked(ctx, "tok-123", "user_logout", ttl); err != nil {
		t.Fatalf("MarkRevoked returned error: %v", err)
	}

	revoked, reason, err := repo.IsRevoked(ctx, "tok-123")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if !revoked {
		t.Fatalf("expected credential to be marked revoked")
	}
	if reason != "user_logout" {
		t.Fatalf("expected reason user_logout, got %s", reason)
	}

	remaining := server.TTL("revoked:tok-123")
	if remaining <= 0 || remaining > ttl {
		t.Fatalf("expected ttl within (0, %v], got %v", ttl, remaining)
	}
}

func TestCredentialRevocationRepository_KeepsFirstReason(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewCredentialRevocationRepository(client, "")
	ctx := context.Background()

	if err := repo.MarkRevoked(ctx, "tok-1", "user_deactivated", time.Minute); err != nil {
		t.Fatalf("MarkRevoked returned error: %v", err)
	}
	if err := repo.MarkRevoked(ctx, "tok-1", "", time.Minute); err != nil {
		t.Fatalf("second MarkRevoked returned error: %v", err)
	}

	_, reason, err := repo.IsRevoked(ctx, "tok-1")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if reason != "user_deactivated" {
		t.Fatalf("expected original reason, got %s", reason)
	}
}

func TestCredentialRevocationRepository_ExpiresWithCredential(t *testing.T) {
	client, server := newTestRedis(t)
	repo := NewCredentialRevocationRepository(client, "revoked")
	ctx := context.Background()

	if err := repo.MarkRevoked(ctx, "tok-2", "logout", time.Minute); err != nil {
		t.Fatalf("MarkRevoked returned error: %v", err)
	}
	server.FastForward(2 * time.Minute)

	revoked, _, err := repo.IsRevoked(ctx, "tok-2")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked {
		t.Fatalf("expected revocation entry to expire")
	}
}

func TestCredentialRevocationRepository_IsRevokedMiss(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewCredentialRevocationRepository(client, "revoked")

	revoked, reason, err := repo.IsRevoked(context.Background(), "missing")
	if err != nil {
		t.Fatalf("IsRevoked returned error: %v", err)
	}
	if revoked || reason != "" {
		t.Fatalf("expected miss, got revoked=%v reason=%q", revoked, reason)
	}
}

func TestCredentialRevocationRepository_InvalidInput(t *testing.T) {
	client, _ := newTestRedis(t)
	repo := NewCredentialRevocationRepository(client, "revoked")

	if err := repo.MarkRevoked(context.Background(), "", "reason", time.Minute); err == nil {
		t.Fatalf("expected error for empty token id")
	}
	if err := repo.MarkRevoked(context.Background(), "tok", "reason", 0); err == nil {
		t.Fatalf("expected error for non-positive ttl")
	}
	if _, _, err := repo.IsRevoked(context.Background(), " "); err == nil {
		t.Fatalf("expected error for blank token id in IsRevoked")
	}
}
