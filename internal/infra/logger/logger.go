package logger

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestIDKey is used to store a request identifier on the context.
type RequestIDKey struct{}

// New builds the process logger. Production emits JSON; every other
// environment uses the colored console encoder.
func New(env, service string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env != "production" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.InitialFields = map[string]any{"service": service, "env": env}

	lg, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return lg, nil
}

// With returns base annotated with the request id and trace id carried by ctx.
func With(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	if ctx == nil {
		return base
	}

	var fields []zap.Field
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok && id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
		fields = append(fields, zap.String("otel_trace_id", sc.TraceID().String()))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// MaskIP keeps the network half of an address.
// 192.168.1.100 -> 192.168.*.*, 2001:db8:85a3::7334 -> 2001:db8:85a3:0:*:*:*:*
func MaskIP(ip string) string {
	if ip == "" {
		return ""
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "***"
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf("%d.%d.*.*", v4[0], v4[1])
	}

	v6 := parsed.To16()
	groups := make([]string, 0, 4)
	for i := 0; i < 8; i += 2 {
		groups = append(groups, fmt.Sprintf("%x", uint16(v6[i])<<8|uint16(v6[i+1])))
	}
	return strings.Join(groups, ":") + ":*:*:*:*"
}
