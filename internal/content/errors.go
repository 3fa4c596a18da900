package content

import (
	"errors"
	"fmt"
)

// ErrSlugRequired is returned for missing or empty slugs, before any store
// access is attempted.
var ErrSlugRequired = errors.New("slug parameter is required")

// NotFoundError indicates no published record matches the slug.
type NotFoundError struct {
	Type string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Type)
}

// StoreError wraps an unexpected failure from the backing store. The handler
// layer surfaces it as a bad-request outcome with the underlying detail.
type StoreError struct {
	Type string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Type, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// TimeoutError indicates the store call exceeded the resolver's deadline.
type TimeoutError struct {
	Type string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out fetching %s", e.Type)
}
