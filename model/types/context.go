package types

import "context"

type executionContextKey string

// ExecutionContextKey carries cross-body string attributes
var ExecutionContextKey = executionContextKey("execution-context")

// EnsureExecutionContext returns a context carrying the supplied key/value
// pairs, creating the attribute map when absent
func EnsureExecutionContext(ctx context.Context, pairs ...string) context.Context {
	v := ctx.Value(ExecutionContextKey)
	if v == nil {
		ctx = context.WithValue(ctx, ExecutionContextKey, map[string]any{})
	}
	values := ctx.Value(ExecutionContextKey).(map[string]any)
	for i := 0; i+1 < len(pairs); i += 2 {
		values[pairs[i]] = pairs[i+1]
	}
	return ctx
}
