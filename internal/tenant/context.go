// context.go carries the resolved tenant key through the request context so
// handlers never re-parse the Host header.
package tenant

import "context"

// ctxKey is unexported, collision-proof.
type ctxKey struct{}

// WithKey returns a context carrying the tenant key.
func WithKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKey{}, key)
}

// KeyFromContext returns the tenant key set by the middleware, or MainKey
// when the middleware has not run.
func KeyFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return MainKey
}
