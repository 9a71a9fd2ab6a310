// Package common provides shared error kinds and constants used across all features
package common

import (
	"errors"
	"fmt"
)

// ValidationError reports bad caller input. It is raised before any
// network call is attempted and is never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// NetworkError reports a transient transport failure that survived the
// full retry budget.
type NetworkError struct {
	Target   string
	Attempts uint
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed after %d attempts: %v", e.Target, e.Attempts, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// PricingError means every pricing strategy in the cascade was
// exhausted without finding a route.
type PricingError struct {
	Token      string
	Suggestion string
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("no route found for token %s", e.Token)
}

func ErrNoRoute(token string) *PricingError {
	return &PricingError{
		Token:      token,
		Suggestion: "retry later or verify the token has active liquidity",
	}
}

func IsPricing(err error) bool {
	var pe *PricingError
	return errors.As(err, &pe)
}

// CatalogUnavailableError means both the live catalog fetch and the
// embedded fallback list were unusable. With the static fallback in
// place this should not occur in practice.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("token catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}
