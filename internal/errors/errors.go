package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   appErr,
		}
	}
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError anywhere in the chain
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError in the chain, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether any AppError in the chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		if appErr, ok := err.(*AppError); ok && appErr.Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// Predefined error codes
const (
	CodeConfigInvalid    = "CONFIG_INVALID"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = "INTERNAL_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeEncoding         = "ENCODING_ERROR"
	CodeInsufficientData = "INSUFFICIENT_DATA"
	CodeColumnDetection  = "COLUMN_DETECTION_ERROR"
	CodeStructural       = "STRUCTURAL_INTEGRITY_ERROR"
	CodeProfilingFailed  = "PROFILING_FAILED"
)

// IsIngestionError reports whether err is one of the terminal ingestion
// failures raised while profiling file content.
func IsIngestionError(err error) bool {
	switch GetCode(err) {
	case CodeEncoding, CodeInsufficientData, CodeColumnDetection, CodeStructural:
		return true
	}
	return false
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

// EncodingError reports text that contains the Unicode replacement character.
func EncodingError(offset int) *AppError {
	return New(CodeEncoding, fmt.Sprintf("file is not valid UTF-8 text: replacement character found at byte offset %d", offset))
}

// InsufficientData reports input without a header and at least one data row.
func InsufficientData(nonBlankLines int) *AppError {
	return New(CodeInsufficientData, fmt.Sprintf("file must contain a header and at least one data row, found %d non-blank line(s)", nonBlankLines))
}

// ColumnDetectionFailed reports a header that yields no usable column names.
func ColumnDetectionFailed(delimiter rune) *AppError {
	return New(CodeColumnDetection, fmt.Sprintf("could not detect any columns in the header using delimiter %q", delimiter))
}

// StructuralIntegrity reports too many rows disagreeing with the header width.
func StructuralIntegrity(malformed, sampled, expected int) *AppError {
	return New(CodeStructural, fmt.Sprintf(
		"structural integrity check failed: %d of %d sampled rows do not have the expected %d fields; check the delimiter and quoting",
		malformed, sampled, expected))
}

// ProfilingFailed wraps any unexpected failure raised while profiling.
func ProfilingFailed(cause error) *AppError {
	return &AppError{Code: CodeProfilingFailed, Message: "profiling failed", Cause: cause}
}
