package services

import "fmt"

// ValidationError is bad user input, caught before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is an operation against an id the owner does not have.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// RemoteWriteError is a failed write against the document store. The
// operation is abandoned; retrying is up to the user.
type RemoteWriteError struct {
	Op  string
	Err error
}

func (e *RemoteWriteError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *RemoteWriteError) Unwrap() error { return e.Err }

// RemoteReadError is a failed read or subscription against the
// document store.
type RemoteReadError struct {
	Op  string
	Err error
}

func (e *RemoteReadError) Error() string { return fmt.Sprintf("%s failed: %v", e.Op, e.Err) }
func (e *RemoteReadError) Unwrap() error { return e.Err }

// SearchError is any external food-lookup failure: transport, non-200
// status or an undecodable body. One generic error, no partial results.
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string { return fmt.Sprintf("food search failed: %v", e.Err) }
func (e *SearchError) Unwrap() error { return e.Err }
