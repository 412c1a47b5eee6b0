package telemetry

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

func TestRecordAccessDecision(t *testing.T) {
	provider, err := Attach(context.Background(), &config.AppConfig{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Attach returned error: %v", err)
	}

	provider.RecordAccessDecision("vehicle.create", "allowed")
	provider.RecordAccessDecision("vehicle.create", "allowed")
	provider.RecordAccessDecision("vehicle.create", "cross_tenant")

	if got := testutil.ToFloat64(provider.decisions.WithLabelValues("vehicle.create", "allowed")); got != 2 {
		t.Fatalf("expected 2 allowed decisions, got %v", got)
	}
	if got := testutil.ToFloat64(provider.decisions.WithLabelValues("vehicle.create", "cross_tenant")); got != 1 {
		t.Fatalf("expected 1 cross-tenant decision, got %v", got)
	}

	if err := provider.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown without tracing returned error: %v", err)
	}
}

func TestAttachRejectsNilConfig(t *testing.T) {
	if _, err := Attach(context.Background(), nil, nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
