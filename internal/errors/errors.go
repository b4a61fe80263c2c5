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

// Predefined error codes
const (
	CodeLoadError     = "LOAD_ERROR"
	CodeFitError      = "FIT_ERROR"
	CodeComparisonErr = "COMPARISON_ERROR"
	CodeDimensionErr  = "DIMENSION_ERROR"
	CodeMissingColumn = "MISSING_COLUMN"
	CodeConfigInvalid = "CONFIG_INVALID"
	CodePlotError     = "PLOT_ERROR"
	CodeInternalError = "INTERNAL_ERROR"
)

// Common error constructors

// LoadError reports a missing or malformed input dataset.
func LoadError(message string, cause error) *AppError {
	return &AppError{Code: CodeLoadError, Message: message, Cause: cause}
}

// FitError reports a degenerate response or rank-deficient design.
func FitError(message string) *AppError {
	return New(CodeFitError, message)
}

// ComparisonError reports models that are not nested or not comparable.
func ComparisonError(message string) *AppError {
	return New(CodeComparisonErr, message)
}

// DimensionError reports mismatched table shapes in manual inference.
func DimensionError(message string) *AppError {
	return New(CodeDimensionErr, message)
}

// MissingColumn reports a column lookup against a table that lacks it.
func MissingColumn(column string) *AppError {
	return New(CodeMissingColumn, fmt.Sprintf("column %q not present in table", column))
}

// ConfigInvalid reports an unusable configuration value.
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// PlotError reports a failure while rendering or saving a plot.
func PlotError(message string, cause error) *AppError {
	return &AppError{Code: CodePlotError, Message: message, Cause: cause}
}
