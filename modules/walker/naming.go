package walker

import (
	"context"
	"strings"
)

// InvocationIDHeader carries a caller-supplied invocation ID on service calls.
const InvocationIDHeader = "X-Invocation-ID"

// ServiceName maps a walker name to its service name. Service names must be
// kebab-case, so "calculate_sum" is served as "calculate-sum".
func ServiceName(walker string) string {
	return strings.ReplaceAll(walker, "_", "-")
}

// ServiceNames maps every walker name through ServiceName.
func ServiceNames(walkers []string) []string {
	names := make([]string, len(walkers))
	for i, w := range walkers {
		names[i] = ServiceName(w)
	}
	return names
}

type invocationIDKey struct{}

// WithInvocationID returns a context whose walker calls carry id in the
// InvocationIDHeader.
func WithInvocationID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, invocationIDKey{}, id)
}

// InvocationIDFrom returns the invocation ID stored by WithInvocationID.
func InvocationIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(invocationIDKey{}).(string)
	return id, ok && id != ""
}
