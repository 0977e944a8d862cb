// Package common defines shared constants and sentinel errors used across
// deedbridge components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Generic/internal flow control.
	ErrorInternal = errors.New("internal error")

	// Authorization errors (origin not in the trust store, or grant expired).
	ErrNotApproved = errors.New("domain_not_approved")

	// Session credential missing or expired.
	ErrNotAuthenticated = errors.New("not_authenticated")

	// Request failed validation; violation details travel alongside.
	ErrValidation = errors.New("validation_error")

	// No pending-response route exists for the reply's request id.
	ErrRouteNotFound = errors.New("response route not found")
)
