package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Merge errors
	ErrParse      ErrorCode = "PARSE"
	ErrStructural ErrorCode = "STRUCTURAL"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
)

// Error represents a structured error with code and details
type Error struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *Error) Is(target error) bool {
	var targetErr *Error
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new Error with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an Error
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an Error
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an Error
func GetErrorDetails(err error) map[string]interface{} {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// Side names which input of a merge an error belongs to.
type Side string

const (
	SideTemplate    Side = "template"
	SideDestination Side = "destination"
)

// SyntaxError is one problem reported by the YAML parser.
type SyntaxError struct {
	Line    int // 1-based, 0 when the parser did not report a line
	Message string
}

func (s SyntaxError) String() string {
	if s.Line > 0 {
		return fmt.Sprintf("line %d: %s", s.Line, s.Message)
	}
	return s.Message
}

// ParseFailure is returned when either merge input cannot be parsed.
type ParseFailure struct {
	Side   Side
	Errors []SyntaxError
}

func (p *ParseFailure) Error() string {
	msgs := make([]string, 0, len(p.Errors))
	for _, e := range p.Errors {
		msgs = append(msgs, e.String())
	}
	return fmt.Sprintf("%s could not be parsed: %s", p.Side, strings.Join(msgs, "; "))
}

// NewParseFailure wraps a ParseFailure in a PARSE coded Error.
func NewParseFailure(side Side, syntaxErrors []SyntaxError) *Error {
	pf := &ParseFailure{Side: side, Errors: syntaxErrors}
	return Wrapf(pf, ErrParse, "failed to parse %s", side).
		WithDetail("side", string(side)).
		WithDetail("errors", len(syntaxErrors))
}

// StructuralError reports an invalid line range.
type StructuralError struct {
	Start  int
	End    int
	Reason string
}

func (s *StructuralError) Error() string {
	return fmt.Sprintf("invalid range [%d,%d]: %s", s.Start, s.End, s.Reason)
}

// NewStructuralError wraps a StructuralError in a STRUCTURAL coded Error.
func NewStructuralError(start, end int, reason string) *Error {
	return Wrap(&StructuralError{Start: start, End: end, Reason: reason}, ErrStructural, "structural error").
		WithDetail("start", start).
		WithDetail("end", end)
}
