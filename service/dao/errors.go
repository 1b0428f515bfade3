package dao

import "errors"

var (
	// ErrNotFound reports that the requested entity does not exist.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID reports an empty or otherwise unusable key.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrNilEntity reports an attempt to persist a nil pointer.
	ErrNilEntity = errors.New("dao: nil entity")
)
