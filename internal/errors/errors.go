// Package errors provides the structured error type used across certkeeper.
//
// Every failure that crosses a package boundary carries an ErrorCode so the
// reconciliation loop can decide whether to log and continue or abort the
// current cycle:
//
//	NOT_FOUND          expected absence (a certificate never issued)
//	PARSE_FAILURE      certificate file exists but cannot be decoded
//	EXECUTION_FAILURE  bootstrap or issuance command failed; aborts the cycle
//	RELOAD_FAILURE     proxy reload failed; logged only
//	NOTIFY_FAILURE     notification could not be sent; logged only
//	STILL_MISSING      a required certificate is absent after bootstrap; fatal
//
// # Usage
//
//	return errors.Execution("example.com", output, err)
//
//	if errors.Is(err, errors.ErrExecution) {
//	    // abort remaining steps
//	}
//
//	var certErr *errors.CertError
//	if errors.As(err, &certErr) {
//	    fmt.Println(certErr.Output)
//	}
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes errors for programmatic handling.
type ErrorCode string

// Error codes for different error categories.
const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"         // Resource absent (expected)
	ErrCodeParse        ErrorCode = "PARSE_FAILURE"     // Resource present but corrupt
	ErrCodeExecution    ErrorCode = "EXECUTION_FAILURE" // External command failed
	ErrCodeReload       ErrorCode = "RELOAD_FAILURE"    // Proxy reload failed
	ErrCodeNotify       ErrorCode = "NOTIFY_FAILURE"    // Notification failed
	ErrCodeStillMissing ErrorCode = "STILL_MISSING"     // Certificate absent after bootstrap
	ErrCodeLookup       ErrorCode = "LOOKUP"            // Execution target not found
	ErrCodeConfig       ErrorCode = "CONFIG"            // Configuration error
	ErrCodeValidation   ErrorCode = "VALIDATION"        // Input validation failed
	ErrCodeInternal     ErrorCode = "INTERNAL"          // Internal/unexpected error
)

// CertError represents a structured error with context about the operation.
type CertError struct {
	Code    ErrorCode // Error category
	Message string    // Human-readable message
	Name    string    // Certificate name or target tag (if applicable)
	Output  string    // Captured command output (if any)
	Err     error     // Underlying error (if any)
}

// Error implements the error interface.
func (e *CertError) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		}
	}
	if e.Name != "" {
		return fmt.Sprintf("%s: %s", e.Name, msg)
	}
	return msg
}

// Unwrap returns the underlying error for error chain traversal.
func (e *CertError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error.
// Comparison is based on error code.
func (e *CertError) Is(target error) bool {
	t, ok := target.(*CertError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors, one per code. Use these with errors.Is().
var (
	ErrNotFound     = &CertError{Code: ErrCodeNotFound, Message: "not found"}
	ErrParse        = &CertError{Code: ErrCodeParse, Message: "cannot parse certificate"}
	ErrExecution    = &CertError{Code: ErrCodeExecution, Message: "command failed"}
	ErrReload       = &CertError{Code: ErrCodeReload, Message: "proxy reload failed"}
	ErrNotify       = &CertError{Code: ErrCodeNotify, Message: "notification failed"}
	ErrStillMissing = &CertError{Code: ErrCodeStillMissing, Message: "certificate still missing after bootstrap"}
	ErrLookup       = &CertError{Code: ErrCodeLookup, Message: "execution target not found"}
	ErrConfig       = &CertError{Code: ErrCodeConfig, Message: "invalid configuration"}
	ErrValidation   = &CertError{Code: ErrCodeValidation, Message: "validation failed"}
)

// NotFound creates an error for an absent certificate or file.
func NotFound(name string, err error) error {
	return &CertError{Code: ErrCodeNotFound, Message: "not found", Name: name, Err: err}
}

// Parse creates an error for a certificate that exists but cannot be decoded.
func Parse(name string, err error) error {
	return &CertError{Code: ErrCodeParse, Message: "cannot parse certificate", Name: name, Err: err}
}

// Execution creates an error for a failed external command, keeping its output.
func Execution(name, output string, err error) error {
	return &CertError{Code: ErrCodeExecution, Message: "command failed", Name: name, Output: output, Err: err}
}

// StillMissing creates the fatal error raised when bootstrap could not
// produce certificates for the listed names.
func StillMissing(names []string) error {
	return &CertError{
		Code:    ErrCodeStillMissing,
		Message: fmt.Sprintf("certificates still missing after bootstrap: %v", names),
	}
}

// Lookup creates an error for an execution target that could not be located.
func Lookup(tag string, err error) error {
	return &CertError{Code: ErrCodeLookup, Message: "execution target not found", Name: tag, Err: err}
}

// Validation creates a validation error with a custom message.
func Validation(msg string) error {
	return &CertError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// Wrap creates an error with the specified code, message, and underlying error.
func Wrap(code ErrorCode, msg string, err error) error {
	return &CertError{
		Code:    code,
		Message: msg,
		Err:     err,
	}
}

// WrapName creates an error with certificate or tag context and underlying error.
func WrapName(code ErrorCode, name string, err error) error {
	return &CertError{
		Code: code,
		Name: name,
		Err:  err,
	}
}

// CodeOf returns the code of the first CertError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var ce *CertError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

// Is reports whether any error in err's chain matches target.
// This is a re-export of errors.Is for convenience.
var Is = errors.Is

// As finds the first error in err's chain that matches target.
// This is a re-export of errors.As for convenience.
var As = errors.As
