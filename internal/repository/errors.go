// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios without inspecting
// driver-specific errors.
package repository

import "errors"

// ErrNotFound is returned when a booking, destination or user with the
// requested id does not exist. Handlers should translate this into an HTTP
// 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update collides with existing
// state: a duplicate booking reference under concurrent creation, a
// destination name that already exists, or a delete that conflicting state
// forbids. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when registering with an email address that is
// already taken.
var ErrEmailExists = errors.New("email already exists")
