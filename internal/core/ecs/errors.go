package ecs

import "errors"

// Every error returned by this package wraps one of these sentinels.
// They all describe a broken invariant; callers are expected to abort
// rather than retry.
var (
	ErrCapacityExceeded   = errors.New("capacity exceeded")
	ErrUnknownEntity      = errors.New("unknown entity")
	ErrAlreadyRegistered  = errors.New("already registered")
	ErrNotRegistered      = errors.New("not registered")
	ErrDuplicateComponent = errors.New("duplicate component")
	ErrMissingComponent   = errors.New("missing component")
)
