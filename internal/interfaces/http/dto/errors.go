package dto

import (
	"net/http"

	"github.com/wms/backend/internal/domain/shared"
)

// Error codes for failures raised by the HTTP layer itself
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// errorKindHTTPStatus maps domain error kinds to HTTP status codes.
// Invalid transitions and unmet preconditions are semantic failures of a
// well-formed request, so they map to 422 rather than 400. A lost
// compare-and-set maps to 409 and is always safe to retry.
var errorKindHTTPStatus = map[shared.ErrorKind]int{
	shared.KindValidation:           http.StatusBadRequest,
	shared.KindInvalidTransition:    http.StatusUnprocessableEntity,
	shared.KindPreconditionNotMet:   http.StatusUnprocessableEntity,
	shared.KindConcurrencyConflict:  http.StatusConflict,
	shared.KindCollaboratorFailure:  http.StatusBadGateway,
	shared.KindConsolidationFailure: http.StatusInternalServerError,
	shared.KindNotFound:             http.StatusNotFound,
	shared.KindConflict:             http.StatusConflict,
}

// HTTPStatusForKind returns the HTTP status for a domain error kind,
// defaulting to 500 for unknown kinds
func HTTPStatusForKind(kind shared.ErrorKind) int {
	if status, ok := errorKindHTTPStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}
