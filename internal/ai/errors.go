// Package ai defines the generation backend interface shared by the LLM
// providers and the typed classification of their failures.
package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a generation call failed.
type Kind string

const (
	KindUnknown         Kind = "unknown"
	KindUnauthorized    Kind = "unauthorized"
	KindRateLimited     Kind = "rate_limited"
	KindTransport       Kind = "transport"
	KindMalformedOutput Kind = "malformed_output"
	KindEmptyOutput     Kind = "empty_output"
)

// Error is a provider failure tagged with its Kind.
type Error struct {
	Kind       Kind
	Provider   string
	Model      string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s model %s: %s", e.Provider, e.Model, e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) && aiErr.Kind != "" {
		return aiErr.Kind
	}
	return KindUnknown
}

// IsUnauthorized reports whether err was caused by rejected credentials.
func IsUnauthorized(err error) bool {
	return KindOf(err) == KindUnauthorized
}

// KindForStatus maps an HTTP status code onto a Kind. Only 401 means the
// credential was rejected; a 403 is specific to the model or the input.
func KindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized:
		return KindUnauthorized
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= http.StatusInternalServerError:
		return KindTransport
	default:
		return KindUnknown
	}
}
