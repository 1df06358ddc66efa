// Package errors defines the stable error codes cee reports at its CLI
// surface, with optional suggested fixes. Engine packages stay total and
// return plain errors; this package wraps them at the boundary.
package errors

import (
	"fmt"
)

// ErrorCode is a stable machine-readable failure identifier.
type ErrorCode string

const (
	// ConceptNotFound indicates the concept id is not in the graph.
	ConceptNotFound ErrorCode = "CONCEPT_NOT_FOUND"
	// EdgeNotFound indicates no edge connects the given concept pair.
	EdgeNotFound ErrorCode = "EDGE_NOT_FOUND"
	// GraphNotFound indicates no persisted graph exists for the scope.
	GraphNotFound ErrorCode = "GRAPH_NOT_FOUND"
	// CourseInvalid indicates the course definition failed validation.
	CourseInvalid ErrorCode = "COURSE_INVALID"
	// SnapshotVersionUnsupported indicates a persisted graph written by a
	// newer build.
	SnapshotVersionUnsupported ErrorCode = "SNAPSHOT_VERSION_UNSUPPORTED"
	// StorageUnavailable indicates the snapshot database cannot be opened.
	StorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
	// SignalInvalid indicates a malformed behavior-signal payload.
	SignalInvalid ErrorCode = "SIGNAL_INVALID"
	// InternalError indicates an unexpected failure.
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixAction is a suggested remedy attached to an error.
type FixAction struct {
	Command     string `json:"command,omitempty"`
	Safe        bool   `json:"safe,omitempty"`
	Description string `json:"description,omitempty"`
}

// Error carries a stable code, a human message, and optional fixes.
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates an Error with the default fixes for its code.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: SuggestedFixes(code),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured detail for JSON output.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// fixActions maps codes to default suggested fixes.
var fixActions = map[ErrorCode][]FixAction{
	GraphNotFound: {
		{
			Command:     "cee graph init <course.yaml>",
			Safe:        true,
			Description: "Build the graph from a course definition",
		},
	},
	ConceptNotFound: {
		{
			Command:     "cee graph export",
			Safe:        true,
			Description: "List the concepts the graph actually contains",
		},
	},
	SnapshotVersionUnsupported: {
		{
			Description: "Upgrade cee to a build that understands this snapshot version",
		},
	},
}

// SuggestedFixes returns the default fixes for a code, or nil.
func SuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := fixActions[code]; ok {
		return fixes
	}
	return nil
}
