package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeConfiguration represents configuration errors. Fatal.
	ErrorTypeConfiguration ErrorType = "configuration"
	// ErrorTypeFetch represents per-source network/HTTP failures
	ErrorTypeFetch ErrorType = "fetch"
	// ErrorTypeExtraction represents content the extraction rule cannot process
	ErrorTypeExtraction ErrorType = "extraction"
	// ErrorTypeCatalog represents a failure talking to the remote catalog
	// while building the known-code snapshot. Fatal.
	ErrorTypeCatalog ErrorType = "catalog"
	// ErrorTypeSubmission represents a per-code submit failure
	ErrorTypeSubmission ErrorType = "submission"
	// ErrorTypeDuplicate represents a duplicate rejection from the catalog.
	// Expected outcome, not a true failure.
	ErrorTypeDuplicate ErrorType = "duplicate"
	// ErrorTypeRateLimit represents rate limiting by a source
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
)

// FetchKind narrows an ErrorTypeFetch error down to its cause.
type FetchKind string

const (
	FetchTimeout          FetchKind = "timeout"
	FetchConnectionFailed FetchKind = "connection_failed"
	FetchHTTPStatus       FetchKind = "http_status"
	FetchEmptyBody        FetchKind = "empty_body"
)

// CrawlError represents a crawler-specific error
type CrawlError struct {
	Type       ErrorType
	Source     string
	Message    string
	Err        error
	Time       time.Time
	Fetch      FetchKind
	StatusCode int
}

// Error implements the error interface
func (e *CrawlError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Source, e.Message)
}

// Unwrap returns the underlying error
func (e *CrawlError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if another attempt may succeed
func (e *CrawlError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeFetch:
		switch e.Fetch {
		case FetchTimeout, FetchConnectionFailed:
			return true
		case FetchHTTPStatus:
			return e.StatusCode >= 500
		default:
			return false
		}
	default:
		return false
	}
}

// IsFatal returns true if the error must abort the whole run
func (e *CrawlError) IsFatal() bool {
	return e.Type == ErrorTypeConfiguration || e.Type == ErrorTypeCatalog
}

// New creates a new CrawlError
func New(errType ErrorType, source, message string, err error) *CrawlError {
	return &CrawlError{
		Type:    errType,
		Source:  source,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewFetch creates a new fetch error of the given kind
func NewFetch(kind FetchKind, source, message string, err error) *CrawlError {
	e := New(ErrorTypeFetch, source, message, err)
	e.Fetch = kind
	return e
}

// NewFetchStatus creates a fetch error for an unexpected HTTP status
func NewFetchStatus(source string, statusCode int) *CrawlError {
	e := NewFetch(FetchHTTPStatus, source, fmt.Sprintf("unexpected status code: %d", statusCode), nil)
	e.StatusCode = statusCode
	return e
}

// NewExtraction creates a new extraction error
func NewExtraction(source, message string, err error) *CrawlError {
	return New(ErrorTypeExtraction, source, message, err)
}

// NewCatalog creates a new catalog error
func NewCatalog(message string, err error) *CrawlError {
	return New(ErrorTypeCatalog, "catalog", message, err)
}

// NewSubmission creates a new submission error
func NewSubmission(code, message string, err error) *CrawlError {
	return New(ErrorTypeSubmission, code, message, err)
}

// NewDuplicate creates a new duplicate-rejection outcome
func NewDuplicate(code string) *CrawlError {
	return New(ErrorTypeDuplicate, code, "already present in catalog", nil)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *CrawlError {
	return New(ErrorTypeRateLimit, source, fmt.Sprintf("rate limited for %v", duration), nil)
}

// NewCache creates a new cache error
func NewCache(source, message string, err error) *CrawlError {
	return New(ErrorTypeCache, source, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlError {
	return New(ErrorTypeConfiguration, "", message, err)
}
