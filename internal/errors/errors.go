// Package errors defines stable error codes and the typed error carried
// across the analysis pipeline. Only code InputMissing aborts a package's
// analysis; every other condition is recorded as a diagnostic and the run
// continues with partial output.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InputMissing indicates a required input file could not be read
	InputMissing ErrorCode = "INPUT_MISSING"
	// InputMalformed indicates a required input file could not be decoded
	InputMalformed ErrorCode = "INPUT_MALFORMED"
	// EntryModuleMissing indicates the entry aggregator module was not found
	EntryModuleMissing ErrorCode = "ENTRY_MODULE_MISSING"
	// CircularReExport indicates a re-export chain revisits a (file, name) pair
	CircularReExport ErrorCode = "CIRCULAR_REEXPORT"
	// FingerprintUnparseable indicates a fingerprint candidate file failed to parse
	FingerprintUnparseable ErrorCode = "FINGERPRINT_UNPARSEABLE"
	// SnapshotNotFound indicates a requested snapshot id does not exist
	SnapshotNotFound ErrorCode = "SNAPSHOT_NOT_FOUND"
	// SnapshotCorrupt indicates a stored snapshot payload failed to decode
	SnapshotCorrupt ErrorCode = "SNAPSHOT_CORRUPT"
	// ConfigInvalid indicates the configuration file could not be loaded
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// AnalysisError represents a pkglens error with a stable code.
type AnalysisError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates a new AnalysisError.
func New(code ErrorCode, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AnalysisError) WithDetails(details interface{}) *AnalysisError {
	e.Details = details
	return e
}

// IsFatal reports whether an error should abort the package's analysis.
// Everything except missing or undecodable required input degrades to a
// diagnostic.
func IsFatal(err error) bool {
	if ae, ok := err.(*AnalysisError); ok {
		return ae.Code == InputMissing || ae.Code == InputMalformed
	}
	return false
}
