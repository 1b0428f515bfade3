// Package dao defines the storage contract engine entities are persisted
// through, with sentinel errors callers match via errors.Is.
package dao

import "context"

// Service is a generic keyed store.
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns entities matching the supplied filter parameters; no
	// parameters means everything.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
