package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Emreceyhnn/logitrackv2-sub000/internal/core/domain"
)

const tracerName = "github.com/Emreceyhnn/logitrackv2-sub000/internal/usecase"

type (
	credentialKey struct{}
	principalKey  struct{}
)

// PrincipalResolver resolves a raw credential into a principal, nil meaning "no session".
type PrincipalResolver interface {
	Resolve(ctx context.Context, credential string) (*domain.Principal, error)
}

// Operation is a business operation that requires an authenticated actor.
type Operation[In, Out any] func(ctx context.Context, actor domain.Principal, in In) (Out, error)

// WithCredential stores the raw bearer credential of the current request.
func WithCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, credentialKey{}, credential)
}

// CredentialFromContext returns the raw credential stored by WithCredential.
func CredentialFromContext(ctx context.Context) string {
	credential, _ := ctx.Value(credentialKey{}).(string)
	return credential
}

// PrincipalFromContext returns the principal resolved for the running operation.
func PrincipalFromContext(ctx context.Context) (domain.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(domain.Principal)
	return principal, ok
}

// Authenticated adapts op so that it resolves the session from the context
// credential first. op never runs without a principal.
func Authenticated[In, Out any](resolver PrincipalResolver, name string, op Operation[In, Out]) func(context.Context, In) (Out, error) {
	return func(ctx context.Context, in In) (Out, error) {
		return runAuthenticated(ctx, resolver, name, CredentialFromContext(ctx), op, in)
	}
}

// AuthenticatedExec is Authenticated for operations that only report an error.
func AuthenticatedExec[In any](resolver PrincipalResolver, name string, op func(ctx context.Context, actor domain.Principal, in In) error) func(context.Context, In) error {
	wrapped := Authenticated(resolver, name, func(ctx context.Context, actor domain.Principal, in In) (struct{}, error) {
		return struct{}{}, op(ctx, actor, in)
	})
	return func(ctx context.Context, in In) error {
		_, err := wrapped(ctx, in)
		return err
	}
}

// AuthenticatedWithToken is the legacy form that receives the credential explicitly.
func AuthenticatedWithToken[In, Out any](resolver PrincipalResolver, name string, op Operation[In, Out]) func(ctx context.Context, token string, in In) (Out, error) {
	return func(ctx context.Context, token string, in In) (Out, error) {
		return runAuthenticated(ctx, resolver, name, token, op, in)
	}
}

func runAuthenticated[In, Out any](ctx context.Context, resolver PrincipalResolver, name, credential string, op Operation[In, Out], in In) (Out, error) {
	var zero Out

	ctx, span := otel.Tracer(tracerName).Start(ctx, "usecase."+name, trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	principal, err := resolver.Resolve(ctx, credential)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session resolution failed")
		return zero, fmt.Errorf("%s: resolve session: %w", name, err)
	}
	if principal == nil {
		span.SetStatus(codes.Error, string(KindUnauthorized))
		return zero, unauthorized(name)
	}

	span.SetAttributes(
		attribute.String("logitrack.user_id", principal.UserID),
		attribute.String("logitrack.tenant_id", principal.TenantID),
		attribute.String("logitrack.role", string(principal.Role)),
	)

	ctx = context.WithValue(ctx, principalKey{}, *principal)
	out, err := op(ctx, *principal, in)
	if err != nil {
		span.RecordError(err)
		if kind := KindOf(err); kind != "" {
			span.SetAttributes(attribute.String("logitrack.error_kind", string(kind)))
		}
		span.SetStatus(codes.Error, err.Error())
		return zero, err
	}

	return out, nil
}
