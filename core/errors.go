package core

import "errors"

var (
	// ErrValidation is returned for malformed or missing input.
	ErrValidation = errors.New("invalid request data")

	// ErrAuthentication covers every credential, token and session failure.
	// It is deliberately uninformative so callers cannot distinguish an
	// unknown wallet, a bad signature, an expired token or a revoked
	// session from one another.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization is returned when a valid session lacks the required role.
	ErrAuthorization = errors.New("insufficient permissions")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is returned when a caller exceeds its request window.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCSRF is returned when the double-submit token check fails.
	ErrCSRF = errors.New("csrf token mismatch")

	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrChallengeConsumed  = errors.New("challenge already verified")
	ErrChallengeExpired   = errors.New("challenge has expired")
	ErrStoreOperation     = errors.New("store operation failed")
	ErrUnauthorizedWallet = errors.New("unauthorized wallet")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
