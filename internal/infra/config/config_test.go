package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if !cfg.Security.ConcealCrossTenant {
		t.Fatal("expected cross-tenant denials to be concealed by default")
	}
	if cfg.Security.DegradationPolicy != "strict" {
		t.Fatalf("expected strict degradation policy, got %q", cfg.Security.DegradationPolicy)
	}
	if cfg.JWT.Issuer != "logitrack" || cfg.JWT.Audience != "logitrack" {
		t.Fatalf("expected issuer and audience to default to the app name, got %q/%q", cfg.JWT.Issuer, cfg.JWT.Audience)
	}
	if cfg.RateLimit.WindowDuration != time.Minute {
		t.Fatalf("unexpected rate limit window %s", cfg.RateLimit.WindowDuration)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Fatalf("expected no kafka brokers by default, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoadReadsPrefixedEnvironment(t *testing.T) {
	t.Setenv("LOGITRACK_APP_NAME", "logitrack-eu")
	t.Setenv("LOGITRACK_APP_PORT", "9000")
	t.Setenv("LOGITRACK_SECURITY_CONCEAL_CROSS_TENANT", "false")
	t.Setenv("LOGITRACK_RATE_LIMIT_WINDOW_DURATION", "30s")
	t.Setenv("LOGITRACK_JWT_AUDIENCE", "dispatch-console")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.App.Port != 9000 || cfg.App.Name != "logitrack-eu" {
		t.Fatalf("expected env overrides, got %+v", cfg.App)
	}
	if cfg.Security.ConcealCrossTenant {
		t.Fatal("expected conceal_cross_tenant to be disabled by env")
	}
	if cfg.RateLimit.WindowDuration != 30*time.Second {
		t.Fatalf("expected 30s window, got %s", cfg.RateLimit.WindowDuration)
	}
	if cfg.JWT.Issuer != "logitrack-eu" || cfg.JWT.Audience != "dispatch-console" {
		t.Fatalf("unexpected jwt settings %+v", cfg.JWT)
	}
}

func TestSettingsMasksSecrets(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	settings := cfg.Settings()
	pg, ok := settings["postgres"].(PostgresSettings)
	if !ok {
		t.Fatalf("expected postgres settings, got %T", settings["postgres"])
	}
	if pg.Password != "***" {
		t.Fatalf("expected masked password, got %q", pg.Password)
	}
	if cfg.Postgres.Password == "***" {
		t.Fatal("masking must not modify the loaded config")
	}
}
