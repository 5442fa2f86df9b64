package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeFetch represents failures from the fetch layer (unreachable,
	// rate-limited, non-success status)
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeParseMiss represents a pattern that failed to match; the field
	// is absent, the record itself is fine
	ErrorTypeParseMiss ErrorType = "parse_miss"
	// ErrorTypeNotFound represents a page that indicates the resource no
	// longer exists
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeValidation represents a record whose required identifier could
	// not be derived
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeStore represents price store failures
	ErrorTypeStore ErrorType = "store"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ScrapeError represents a pipeline-specific error
type ScrapeError struct {
	Type    ErrorType
	Source  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// IsFatal returns true if the error should halt the pipeline instead of
// being skipped and aggregated
func (e *ScrapeError) IsFatal() bool {
	switch e.Type {
	case ErrorTypeConfiguration:
		return true
	case ErrorTypeStore:
		return true
	default:
		return false
	}
}

// New creates a new ScrapeError
func New(errType ErrorType, source, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error
func NewFetch(source, message string, err error) *ScrapeError {
	return New(ErrorTypeFetch, source, message, err)
}

// NewParseMiss creates a new parse-miss error
func NewParseMiss(source, message string) *ScrapeError {
	return New(ErrorTypeParseMiss, source, message, nil)
}

// NewNotFound creates a new not-found error
func NewNotFound(source, message string) *ScrapeError {
	return New(ErrorTypeNotFound, source, message, nil)
}

// NewValidation creates a new validation error
func NewValidation(source, message string) *ScrapeError {
	return New(ErrorTypeValidation, source, message, nil)
}

// NewStore creates a new store error
func NewStore(source, message string, err error) *ScrapeError {
	return New(ErrorTypeStore, source, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(source, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
