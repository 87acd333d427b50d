// Package repository defines error types that are reused across
// multiple repositories. These sentinel values allow higher layers
// such as handlers to distinguish between different failure
// scenarios. For example, ErrNotFound indicates that a referenced
// document does not exist, while ErrDuplicate signals that a unique
// field (email, phone, category name) is already taken.
package repository

import "errors"

// ErrNotFound is returned when a document referenced by id or by a
// unique field does not exist. Handlers should translate this into
// an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert or update violates a
// uniqueness constraint. Handlers should translate this into an
// HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")
