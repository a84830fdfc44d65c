// Package repository defines error values that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver error strings: a duplicate registration maps to a
// different HTTP status than an unknown record, and a duplicate read
// marker is reported as idempotent success rather than a failure.
package repository

import "errors"

// ErrDuplicateUser is returned when a registration collides with an
// existing username or email.  Handlers translate this into HTTP 400.
var ErrDuplicateUser = errors.New("user with this username or email already exists")

// ErrUserNotFound is returned when no user matches the given id or email.
var ErrUserNotFound = errors.New("user not found")

// ErrCategoryNotFound is returned when a category cannot be found.
var ErrCategoryNotFound = errors.New("category not found")

// ErrBookNotFound is returned when a book cannot be found.
var ErrBookNotFound = errors.New("book not found")

// ErrReviewNotFound is returned when a review cannot be found.
var ErrReviewNotFound = errors.New("review not found")

// ErrReadNotFound is returned when no read entry exists for a
// (user, book) pair.
var ErrReadNotFound = errors.New("read entry not found")

// ErrDuplicateRead is returned when a (user, book) pair is already marked
// as read; the unique key on the reads table enforces this.  Handlers
// report the existing entry instead of creating a second row.
var ErrDuplicateRead = errors.New("book already marked as read")
