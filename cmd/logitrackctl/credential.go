package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
	redisinfra "github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/redis"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/security"
	redisrepo "github.com/Emreceyhnn/logitrackv2-sub000/internal/repository/redis"
)

func newCredentialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Mint and revoke bearer credentials",
	}
	cmd.AddCommand(newMintCmd(), newRevokeCmd())
	return cmd
}

func newMintCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Sign a credential for a user with the local signing key",
		Long: `Sign a credential for a user with the first private key in the key directory.
Intended for development and support sessions; production deployments do not hold
a signing key.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			provider, err := security.NewDirKeyProvider(cfg.JWT.KeyDirectory, true)
			if err != nil {
				return fmt.Errorf("load signing key: %w", err)
			}
			manager := security.NewJWTManager(provider, cfg.JWT.Issuer, cfg.JWT.Audience)

			if ttl <= 0 {
				ttl = cfg.JWT.CredentialTTL
			}
			claims, err := security.NewCredentialClaims(security.CredentialOptions{
				UserID:   userID,
				Issuer:   cfg.JWT.Issuer,
				Audience: []string{cfg.JWT.Audience},
				TTL:      ttl,
			})
			if err != nil {
				return err
			}

			token, err := manager.SignCredential(provider.SigningKID(), claims)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"token":      token,
				"token_id":   claims.ID,
				"expires_at": claims.ExpiresAt.Time,
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id the credential is issued to")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "credential lifetime (defaults to jwt.credential_ttl)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func newRevokeCmd() *cobra.Command {
	var (
		tokenID string
		reason  string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "revoke",
		Short: "Revoke a credential by token id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tokenID == "" {
				return errors.New("--jti is required")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if ttl <= 0 {
				ttl = cfg.JWT.CredentialTTL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			client, err := redisinfra.NewClient(ctx, cfg.Redis, zap.NewNop())
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer client.Close()

			store := redisrepo.NewCredentialRevocationRepository(client.Client(), cfg.Redis.RevocationPrefix)
			if err := store.MarkRevoked(ctx, tokenID, reason, ttl); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "revoked %s for %s\n", tokenID, ttl)
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenID, "jti", "", "token id of the credential")
	cmd.Flags().StringVar(&reason, "reason", "operator", "revocation reason")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "how long to keep the revocation (defaults to jwt.credential_ttl)")
	return cmd
}
