package models

import "fmt"

// The four error kinds below are local validation failures surfaced directly
// to the caller. The core never retries and never degrades to a partial
// report: a caller can always distinguish "consistent" from "could not be
// evaluated".

// InputMismatchError reports a heterogeneous rule_kind in a comparison set.
type InputMismatchError struct {
	message string
}

// NewInputMismatchError creates a new input mismatch error.
func NewInputMismatchError(format string, args ...interface{}) *InputMismatchError {
	return &InputMismatchError{message: fmt.Sprintf(format, args...)}
}

func (e *InputMismatchError) Error() string { return e.message }

// IsInputMismatchError checks if an error is an input mismatch error.
func IsInputMismatchError(err error) bool {
	_, ok := err.(*InputMismatchError)
	return ok
}

// InsufficientDataError reports fewer data points than an algorithm
// requires.
type InsufficientDataError struct {
	message string
}

// NewInsufficientDataError creates a new insufficient data error.
func NewInsufficientDataError(format string, args ...interface{}) *InsufficientDataError {
	return &InsufficientDataError{message: fmt.Sprintf(format, args...)}
}

func (e *InsufficientDataError) Error() string { return e.message }

// IsInsufficientDataError checks if an error is an insufficient data error.
func IsInsufficientDataError(err error) bool {
	_, ok := err.(*InsufficientDataError)
	return ok
}

// UnknownSeriesError reports a query against a series that was never
// written.
type UnknownSeriesError struct {
	SeriesKey string
}

// NewUnknownSeriesError creates a new unknown series error.
func NewUnknownSeriesError(seriesKey string) *UnknownSeriesError {
	return &UnknownSeriesError{SeriesKey: seriesKey}
}

func (e *UnknownSeriesError) Error() string {
	return fmt.Sprintf("unknown series %q: no points were ever appended", e.SeriesKey)
}

// IsUnknownSeriesError checks if an error is an unknown series error.
func IsUnknownSeriesError(err error) bool {
	_, ok := err.(*UnknownSeriesError)
	return ok
}

// ConfigurationError reports an invalid externally supplied option, e.g. an
// unparseable comparator.
type ConfigurationError struct {
	message string
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{message: fmt.Sprintf(format, args...)}
}

func (e *ConfigurationError) Error() string { return e.message }

// IsConfigurationError checks if an error is a configuration error.
func IsConfigurationError(err error) bool {
	_, ok := err.(*ConfigurationError)
	return ok
}

// ErrorKind returns the symbolic kind of a core error for response
// envelopes, or "internal" for anything else.
func ErrorKind(err error) string {
	switch {
	case IsInputMismatchError(err):
		return "input_mismatch"
	case IsInsufficientDataError(err):
		return "insufficient_data"
	case IsUnknownSeriesError(err):
		return "unknown_series"
	case IsConfigurationError(err):
		return "configuration"
	default:
		return "internal"
	}
}
