package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeAuth represents authentication and token bootstrap errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeParsing represents markup or payload parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeNormalize represents item normalization errors
	ErrorTypeNormalize ErrorType = "normalize"
	// ErrorTypeStorage represents database errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeCancelled represents context cancellation
	ErrorTypeCancelled ErrorType = "cancelled"
)

// IngestError represents a pipeline-specific error carrying the chain
// and the operation that failed
type IngestError struct {
	Type    ErrorType
	Chain   string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *IngestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Chain, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Chain, e.Message)
}

// Unwrap returns the underlying error
func (e *IngestError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is worth a retry. Rate limits
// are not retryable within a run; the block cache handles the window.
func (e *IngestError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	case ErrorTypeRateLimit:
		return false
	case ErrorTypeAuth:
		return false
	default:
		return false
	}
}

// New creates a new IngestError
func New(errType ErrorType, chain, message string, err error) *IngestError {
	return &IngestError{
		Type:    errType,
		Chain:   chain,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(chain, message string, err error) *IngestError {
	return New(ErrorTypeNetwork, chain, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(chain string, duration time.Duration) *IngestError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, chain, message, nil)
}

// NewAuth creates a new authentication error
func NewAuth(chain, message string, err error) *IngestError {
	return New(ErrorTypeAuth, chain, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(chain, message string, err error) *IngestError {
	return New(ErrorTypeParsing, chain, message, err)
}

// NewNormalize creates a new normalization error
func NewNormalize(chain, message string, err error) *IngestError {
	return New(ErrorTypeNormalize, chain, message, err)
}

// NewStorage creates a new storage error
func NewStorage(chain, message string, err error) *IngestError {
	return New(ErrorTypeStorage, chain, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *IngestError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// NewCancelled creates a new cancellation error
func NewCancelled(chain string, err error) *IngestError {
	return New(ErrorTypeCancelled, chain, "run cancelled", err)
}

// TypeOf returns the taxonomy type of err, or "" when err is not an
// IngestError
func TypeOf(err error) ErrorType {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Type
	}
	return ""
}

// IsRateLimit reports whether err is a rate limit error
func IsRateLimit(err error) bool {
	return TypeOf(err) == ErrorTypeRateLimit
}

// IsAuth reports whether err is an authentication error
func IsAuth(err error) bool {
	return TypeOf(err) == ErrorTypeAuth
}

// IsRetryable reports whether err is an IngestError worth one retry
func IsRetryable(err error) bool {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.IsRetryable()
	}
	return false
}
