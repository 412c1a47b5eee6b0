package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/port"
	"github.com/Emreceyhnn/logitrackv2-sub000/internal/infra/config"
)

const namespace = "logitrack"

// Provider owns the metrics registry and, when enabled, the tracer provider.
type Provider struct {
	registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	tracer    *TracerProvider
}

// Attach configures telemetry exporters and returns a provider handle.
func Attach(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (*Provider, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	p := &Provider{
		registry: registry,
		decisions: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "access_decisions_total",
			Help:      "Authorization decisions partitioned by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}

	if cfg.Telemetry.TracingEnabled {
		tracer, err := NewTracerProvider(ctx, cfg.Telemetry, cfg.App, logger)
		if err != nil {
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		p.tracer = tracer
	}

	return p, nil
}

// Registry is scraped by the /metrics endpoint.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// RecordAccessDecision implements port.AccessDecisionRecorder.
func (p *Provider) RecordAccessDecision(operation, outcome string) {
	p.decisions.WithLabelValues(operation, outcome).Inc()
}

// Shutdown flushes pending spans.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.tracer == nil {
		return nil
	}
	return p.tracer.Shutdown(ctx)
}

var _ port.AccessDecisionRecorder = (*Provider)(nil)
