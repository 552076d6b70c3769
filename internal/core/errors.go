package core

import (
	"errors"
	"fmt"
	"time"
)

// UpstreamError wraps a failed platform fetch. The dispatcher turns it into
// a typed error report; it never reaches the caller as a bare error message.
type UpstreamError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// NewUpstreamError wraps err as an upstream failure for the given operation
func NewUpstreamError(op string, err error) *UpstreamError {
	return &UpstreamError{Op: op, Err: err}
}

// NotFoundError signals that a referenced campaign, client or inbox does not
// exist. Distinct from UpstreamError: the fetch succeeded, the entity is absent.
type NotFoundError struct {
	Kind string
	Name string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// NewNotFoundError reports a missing entity of the given kind
func NewNotFoundError(kind, name string) *NotFoundError {
	return &NotFoundError{Kind: kind, Name: name}
}

// RateLimitedError carries the wait time until the next request is admitted
type RateLimitedError struct {
	Wait time.Duration
}

// Error implements the error interface
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry in %s", e.Wait)
}

// WaitMinutes returns the wait rounded up to whole minutes, at least one
func (e *RateLimitedError) WaitMinutes() int {
	m := int((e.Wait + time.Minute - 1) / time.Minute)
	if m < 1 {
		m = 1
	}
	return m
}

// IsUpstream reports whether err is an upstream failure
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// IsNotFound reports whether err is a missing-entity failure
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
