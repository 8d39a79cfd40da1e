package store

import "errors"

var (
	// ErrNotFound is returned when no row matches the lookup within
	// the given scope.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (user email, category
	// name within a tenant) already exists.
	ErrDuplicate = errors.New("already exists")
)
