// Package errors provides structured error types for better observability
// and programmatic error handling across the scoring service.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeUnavailable,
//	    "store get failed after retries",
//	    lastErr,
//	    map[string]any{
//	        "key":      key,
//	        "attempts": 5,
//	    },
//	)
package errors
