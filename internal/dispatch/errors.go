package dispatch

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes dispatch failures.
type ErrorCode string

const (
	// CodeInvalidUsage indicates a contract violation by the calling
	// machinery: nil argument list, too many operands, or nin out of
	// range. Never expected under correct use.
	CodeInvalidUsage ErrorCode = "INVALID_USAGE"

	// CodeAllDeclined indicates every eligible override declined.
	// Distinct from the no-candidates case, which is not an error.
	CodeAllDeclined ErrorCode = "ALL_DECLINED"

	// CodeHookLookup indicates a candidate's override hook could not be
	// resolved.
	CodeHookLookup ErrorCode = "HOOK_LOOKUP"

	// CodeBadCall indicates the normalized call could not be constructed.
	CodeBadCall ErrorCode = "BAD_CALL"

	// CodeOverrideFailed indicates the override hook itself returned an
	// error. The underlying error is preserved verbatim via Unwrap.
	CodeOverrideFailed ErrorCode = "OVERRIDE_FAILED"
)

// Error is a dispatch failure with structured context.
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// UFunc is the display name of the operation being dispatched.
	UFunc string

	// Method is the ufunc method name.
	Method string

	// Position is the operand position the failure is about, or -1 when
	// the failure is not operand-specific.
	Position int

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s (ufunc=%s, method=%s, position=%d): %v",
				e.Code, e.Message, e.UFunc, e.Method, e.Position, e.Err)
		}
		return fmt.Sprintf("%s: %s (ufunc=%s, method=%s, position=%d)",
			e.Code, e.Message, e.UFunc, e.Method, e.Position)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (ufunc=%s, method=%s): %v",
			e.Code, e.Message, e.UFunc, e.Method, e.Err)
	}
	return fmt.Sprintf("%s: %s (ufunc=%s, method=%s)", e.Code, e.Message, e.UFunc, e.Method)
}

// Unwrap returns the underlying error for errors.Is / errors.As chains.
// For CodeOverrideFailed this is the hook's error, verbatim.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a dispatch
// Error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsAllDeclined reports whether err is an all-candidates-declined failure.
func IsAllDeclined(err error) bool {
	return CodeOf(err) == CodeAllDeclined
}

// IsInvalidUsage reports whether err is a caller-contract violation.
func IsInvalidUsage(err error) bool {
	return CodeOf(err) == CodeInvalidUsage
}

// IsOverrideFailure reports whether err propagates a hook's own error.
func IsOverrideFailure(err error) bool {
	return CodeOf(err) == CodeOverrideFailed
}

func usageError(ufunc, method, format string, args ...any) *Error {
	return &Error{
		Code:     CodeInvalidUsage,
		Message:  fmt.Sprintf(format, args...),
		UFunc:    ufunc,
		Method:   method,
		Position: -1,
	}
}

func allDeclinedError(ufunc, method string) *Error {
	return &Error{
		Code:     CodeAllDeclined,
		Message:  "override not implemented for these operand types",
		UFunc:    ufunc,
		Method:   method,
		Position: -1,
	}
}

func hookLookupError(ufunc, method string, pos int, err error) *Error {
	return &Error{
		Code:     CodeHookLookup,
		Message:  "override hook lookup failed",
		UFunc:    ufunc,
		Method:   method,
		Position: pos,
		Err:      err,
	}
}

func badCallError(ufunc, method string, err error) *Error {
	return &Error{
		Code:     CodeBadCall,
		Message:  "building normalized call failed",
		UFunc:    ufunc,
		Method:   method,
		Position: -1,
		Err:      err,
	}
}

func overrideFailedError(ufunc, method string, pos int, err error) *Error {
	return &Error{
		Code:     CodeOverrideFailed,
		Message:  "override hook returned an error",
		UFunc:    ufunc,
		Method:   method,
		Position: pos,
		Err:      err,
	}
}
