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
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Build pipeline errors
	ErrUnknownParameter    ErrorCode = "UNKNOWN_PARAMETER"
	ErrInvalidValue        ErrorCode = "INVALID_VALUE"
	ErrSlotExhausted       ErrorCode = "SLOT_EXHAUSTED"
	ErrMergeHelperRequired ErrorCode = "MERGE_HELPER_REQUIRED"
	ErrMergeHelperFailed   ErrorCode = "MERGE_HELPER_FAILED"
	ErrBuildInProgress     ErrorCode = "BUILD_IN_PROGRESS"
	ErrIOFailure           ErrorCode = "IO_FAILURE"

	// Save backup errors
	ErrAmbiguousSaveLocation ErrorCode = "AMBIGUOUS_SAVE_LOCATION"
	ErrSaveRootMissing       ErrorCode = "SAVE_ROOT_MISSING"

	// Configuration errors
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigValid    ErrorCode = "CONFIG_INVALID"
	ErrGameDirInvalid ErrorCode = "GAME_DIR_INVALID"

	// Mod errors
	ErrModNotFound ErrorCode = "MOD_NOT_FOUND"
	ErrModInvalid  ErrorCode = "MOD_INVALID"
	ErrModManifest ErrorCode = "MOD_MANIFEST"

	// Preset errors
	ErrPresetNotFound ErrorCode = "PRESET_NOT_FOUND"
	ErrPresetInvalid  ErrorCode = "PRESET_INVALID"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileWrite    ErrorCode = "FILE_WRITE"
	ErrDirCreate    ErrorCode = "DIR_CREATE"
)

// BeastpakError represents a structured error with code and details
type BeastpakError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *BeastpakError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *BeastpakError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *BeastpakError) Is(target error) bool {
	var targetErr *BeastpakError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new BeastpakError with the given code and message
func New(code ErrorCode, message string) *BeastpakError {
	return &BeastpakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new BeastpakError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BeastpakError {
	return &BeastpakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a BeastpakError
func Wrap(err error, code ErrorCode, message string) *BeastpakError {
	if err == nil {
		return nil
	}
	return &BeastpakError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *BeastpakError {
	if err == nil {
		return nil
	}
	return &BeastpakError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *BeastpakError) WithDetail(key string, value interface{}) *BeastpakError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *BeastpakError) WithDetails(details map[string]interface{}) *BeastpakError {
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
	var perr *BeastpakError
	if errors.As(err, &perr) {
		return perr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a BeastpakError
func GetErrorCode(err error) ErrorCode {
	var perr *BeastpakError
	if errors.As(err, &perr) {
		return perr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a BeastpakError
func GetErrorDetails(err error) map[string]interface{} {
	var perr *BeastpakError
	if errors.As(err, &perr) {
		return perr.Details
	}
	return nil
}
