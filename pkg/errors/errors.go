package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	// Hook invocation errors
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	ErrUnknownHook     ErrorCode = "UNKNOWN_HOOK"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Filesystem errors
	ErrFSMkdir  ErrorCode = "FS_MKDIR"
	ErrFSMove   ErrorCode = "FS_MOVE"
	ErrFSRemove ErrorCode = "FS_REMOVE"
	ErrFSRead   ErrorCode = "FS_READ"

	// Merge engine errors
	ErrMergeLoad ErrorCode = "MERGE_LOAD"
	ErrMergeSave ErrorCode = "MERGE_SAVE"
)

// WeldError represents a structured error with code and details
type WeldError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *WeldError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *WeldError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *WeldError) Is(target error) bool {
	var targetErr *WeldError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new WeldError with the given code and message
func New(code ErrorCode, message string) *WeldError {
	return &WeldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new WeldError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *WeldError {
	return &WeldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a WeldError
func Wrap(err error, code ErrorCode, message string) *WeldError {
	if err == nil {
		return nil
	}
	return &WeldError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *WeldError {
	if err == nil {
		return nil
	}
	return &WeldError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *WeldError) WithDetail(key string, value interface{}) *WeldError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var weldErr *WeldError
	if errors.As(err, &weldErr) {
		return weldErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a WeldError
func GetErrorCode(err error) ErrorCode {
	var weldErr *WeldError
	if errors.As(err, &weldErr) {
		return weldErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a WeldError
func GetErrorDetails(err error) map[string]interface{} {
	var weldErr *WeldError
	if errors.As(err, &weldErr) {
		return weldErr.Details
	}
	return nil
}

// IsFilesystemError reports whether err carries one of the filesystem codes
func IsFilesystemError(err error) bool {
	switch GetErrorCode(err) {
	case ErrFSMkdir, ErrFSMove, ErrFSRemove, ErrFSRead:
		return true
	}
	return false
}

// IsMergeError reports whether err was produced by the merge engine
func IsMergeError(err error) bool {
	switch GetErrorCode(err) {
	case ErrMergeLoad, ErrMergeSave:
		return true
	}
	return false
}
