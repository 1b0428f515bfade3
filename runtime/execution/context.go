package execution

import (
	"context"
	"reflect"
)

// SessionKey and TaskIDKey expose the ambient run to task bodies that need
// to know which session or task invoked them
var SessionKey = KeyOf[*Session]()

type taskIDKeyT string

// TaskIDKey carries the current task id through the body invocation
const TaskIDKey taskIDKeyT = "taskID"

// WithSession embeds the session in a derived context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// WithTaskID embeds the current task id in a derived context
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, TaskIDKey, taskID)
}

// TaskID returns the current task id, or empty
func TaskID(ctx context.Context) string {
	if value, ok := ctx.Value(TaskIDKey).(string); ok {
		return value
	}
	return ""
}

// ContextValue returns the value of the provided type from the context
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		return value.(T)
	}
	var t T
	return t
}

// KeyOf returns the reflect.Type of the provided type
func KeyOf[T any]() reflect.Type {
	var a T
	return reflect.TypeOf(a)
}
