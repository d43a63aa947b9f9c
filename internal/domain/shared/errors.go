package shared

import "fmt"

// ErrorKind classifies a domain error so callers can render a specific
// message and decide whether the operation is retryable.
type ErrorKind string

const (
	// KindValidation covers malformed or missing required fields
	KindValidation ErrorKind = "VALIDATION"
	// KindInvalidTransition means the requested status is not reachable
	// from the current status per the transition table
	KindInvalidTransition ErrorKind = "INVALID_TRANSITION"
	// KindPreconditionNotMet means the transition is table-valid but a
	// quality-disposition precondition failed
	KindPreconditionNotMet ErrorKind = "PRECONDITION_NOT_MET"
	// KindConcurrencyConflict means a compare-and-set lost the race;
	// always safely retryable
	KindConcurrencyConflict ErrorKind = "CONCURRENCY_CONFLICT"
	// KindCollaboratorFailure means an upstream collaborator was
	// unreachable or returned malformed data
	KindCollaboratorFailure ErrorKind = "COLLABORATOR_FAILURE"
	// KindConsolidationFailure means a ledger or ledger-log write failed
	KindConsolidationFailure ErrorKind = "CONSOLIDATION_FAILURE"
	// KindNotFound means the resource does not exist
	KindNotFound ErrorKind = "NOT_FOUND"
	// KindConflict covers other resource conflicts (duplicates etc.)
	KindConflict ErrorKind = "CONFLICT"
)

// DomainError represents a domain-level error with enough structure for
// the caller to render a specific message: kind, machine code, and the
// offending field or line identifier when one exists.
type DomainError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Ref     string    `json:"ref,omitempty"` // offending field name or line ID
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Ref)
	}
	return e.Message
}

// Is makes sentinel comparisons with errors.Is work on code equality
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithRef returns a copy of the error carrying the offending field or
// line identifier
func (e *DomainError) WithRef(ref string) *DomainError {
	return &DomainError{Kind: e.Kind, Code: e.Code, Message: e.Message, Ref: ref}
}

// NewDomainError creates a new domain error
func NewDomainError(kind ErrorKind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// NewValidationError creates a validation error for a specific field
func NewValidationError(code, message, field string) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: message, Ref: field}
}

// ErrorKindOf returns the kind of a domain error, or empty for other errors
func ErrorKindOf(err error) ErrorKind {
	if de, ok := err.(*DomainError); ok {
		return de.Kind
	}
	return ""
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError(KindNotFound, "NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError(KindConflict, "ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError(KindValidation, "INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(KindConcurrencyConflict, "CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
