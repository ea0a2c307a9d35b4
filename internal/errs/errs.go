// Package errs classifies errors by recoverability so retry policies can
// decide between exponential backoff and failing fast.
package errs

import (
	"errors"
	"fmt"
)

// Category determines how an error is handled by retry logic.
type Category int

const (
	// Recoverable errors are retried with exponential backoff:
	// 5xx responses, timeouts, connection failures.
	Recoverable Category = iota

	// Irrecoverable errors fail immediately without retry:
	// 401 Unauthorized, 403 Forbidden, 400 Bad Request.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps an error with categorization metadata.
type ClassifiedError struct {
	Category   Category
	StatusCode int    // HTTP status code (0 for non-HTTP errors)
	Body       string // response body, kept for diagnostics
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

// Unwrap exposes the underlying error so errors.Is reaches the sentinels
// wrapped inside.
func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err must not be retried. It looks through
// wrapping, so classified errors keep their category across fmt.Errorf("%w").
func IsIrrecoverable(err error) bool {
	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified.Category == Irrecoverable
	}
	return false
}

// New builds a ClassifiedError around an existing error.
func New(cat Category, statusCode int, body string, underlying error) *ClassifiedError {
	return &ClassifiedError{Category: cat, StatusCode: statusCode, Body: body, Underlying: underlying}
}

// Network wraps a transport-level failure. Always recoverable: the condition
// may be transient.
func Network(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Underlying: fmt.Errorf("%s: network error: %w", operation, err),
	}
}

// CategoryForStatus maps an HTTP status code to a retry category:
// 4xx is irrecoverable except 408/429, 5xx and everything unexpected is
// recoverable.
func CategoryForStatus(statusCode int) Category {
	switch {
	case statusCode >= 400 && statusCode < 500:
		switch statusCode {
		case 408, 429:
			return Recoverable
		default:
			return Irrecoverable
		}
	default:
		return Recoverable
	}
}
