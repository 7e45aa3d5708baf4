package errors

import (
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

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	return GetCode(err) == code
}

// Predefined error codes, one per failure class of the pipeline.
const (
	CodeParseError          = "PARSE_ERROR"
	CodeConfigError         = "CONFIG_ERROR"
	CodeGenerationError     = "GENERATION_ERROR"
	CodeRestrictedOperation = "RESTRICTED_OPERATION"
	CodeExecutionError      = "EXECUTION_ERROR"
	CodeUploadError         = "UPLOAD_ERROR"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Common error constructors
func ParseError(message string) *AppError {
	return New(CodeParseError, message)
}

func ConfigError(message string) *AppError {
	return New(CodeConfigError, message)
}

func GenerationError(message string) *AppError {
	return New(CodeGenerationError, message)
}

func RestrictedOperation(message string) *AppError {
	return New(CodeRestrictedOperation, message)
}

func ExecutionError(message string) *AppError {
	return New(CodeExecutionError, message)
}

func UploadError(message string) *AppError {
	return New(CodeUploadError, message)
}

func DatabaseError(message string) *AppError {
	return New(CodeDatabaseError, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}
