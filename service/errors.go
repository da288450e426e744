package service

import "errors"

// Tagged error kinds returned by services. The handler boundary maps these
// onto response envelopes; services never format wire responses themselves.
var (
	// ErrNotAuthenticated means no caller identity was presented.
	ErrNotAuthenticated = errors.New("user not authenticated")

	// ErrUserNotFound means the identity token is valid but no local
	// profile exists yet (webhook provisioning may be lagging).
	ErrUserNotFound = errors.New("user not found")

	// ErrResourceNotFound means the target entity is absent.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrForbidden covers both "does not exist" and "not owned by caller"
	// for ownership-gated mutations, so the response never leaks whether
	// another user's resource exists.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation means the input is malformed or incomplete.
	ErrValidation = errors.New("validation failed")

	// ErrUpstreamVerification means a webhook signature did not verify.
	ErrUpstreamVerification = errors.New("webhook verification failed")
)
