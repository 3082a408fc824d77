package status

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failed operation. Every public operation in this
// service reports exactly one of these kinds on error; nothing else
// crosses the operation boundary.
type Kind string

const (
	// KindMissingPrerequisite means required prior session state is absent
	// (the caller invoked a pipeline step out of order).
	KindMissingPrerequisite Kind = "MISSING_PREREQUISITE"
	// KindLocationNotFound means every geocoding tier was exhausted.
	KindLocationNotFound Kind = "LOCATION_NOT_FOUND"
	// KindEmptyUpstreamData means an upstream source returned zero rows.
	KindEmptyUpstreamData Kind = "EMPTY_UPSTREAM_DATA"
	// KindInsufficientHistory means fewer historical rows were available
	// than the seasonal model needs.
	KindInsufficientHistory Kind = "INSUFFICIENT_HISTORY"
	// KindDataSourceUnavailable means a query or HTTP execution failed.
	KindDataSourceUnavailable Kind = "DATA_SOURCE_UNAVAILABLE"
	// KindUpstreamTimeout means a bounded upstream call expired.
	KindUpstreamTimeout Kind = "UPSTREAM_TIMEOUT"
	// KindUnexpectedFailure is the catch-all for anything unclassified.
	KindUnexpectedFailure Kind = "UNEXPECTED_FAILURE"
)

// Error is a classified operation failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// E builds a classified error.
func E(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Classify converts an arbitrary error into a classified one. Already
// classified errors pass through; context expiry maps to UPSTREAM_TIMEOUT;
// everything else becomes UNEXPECTED_FAILURE.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return E(KindUpstreamTimeout, "upstream call timed out: %v", err)
	}
	return E(KindUnexpectedFailure, "%v", err)
}

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the tagged result header shared by every operation result.
// Callers switch on Status and, on error, ErrorKind.
type Envelope struct {
	Status    string `json:"status"`
	ErrorKind Kind   `json:"error_kind,omitempty"`
	Message   string `json:"error_message,omitempty"`
}

// OK returns a success envelope.
func OK() Envelope {
	return Envelope{Status: StatusSuccess}
}

// Err returns an error envelope for a classified error.
func Err(e *Error) Envelope {
	return Envelope{Status: StatusError, ErrorKind: e.Kind, Message: e.Message}
}

// ErrFrom classifies err and returns its envelope.
func ErrFrom(err error) Envelope {
	return Err(Classify(err))
}

// IsSuccess reports whether the envelope carries a success status.
func (e Envelope) IsSuccess() bool {
	return e.Status == StatusSuccess
}
