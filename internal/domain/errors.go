package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// Phone verification error taxonomy. Each failure mode gets its own sentinel
// so callers can tell "retry now" (ErrInvalidCode), "wait" (ErrRateLimited)
// and "start over" (ErrCodeExpired, ErrAttemptsExceeded, ErrNotFound) apart.
var (
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrRateLimited      = errors.New("rate limited")
	ErrDispatchFailed   = errors.New("sms dispatch failed")
	ErrCodeExpired      = errors.New("code expired")
	ErrAttemptsExceeded = errors.New("attempts exceeded")
	ErrInvalidCode      = errors.New("invalid code")
)
