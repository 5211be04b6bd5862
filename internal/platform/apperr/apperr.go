// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the centralized error handling framework for World Travels.

It provides a rich error type that bridges the gap between low-level Domain/Storage
errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// # Error Codes

const (
	CodeValidation          = "VALIDATION_ERROR"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeDuplicateKey        = "DUPLICATE_KEY"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeAccountBlocked      = "ACCOUNT_BLOCKED"
	CodeMissingToken        = "MISSING_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeExpiredToken        = "EXPIRED_TOKEN"
	CodeInvalidatedToken    = "INVALIDATED_TOKEN"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeRateLimited         = "RATE_LIMITED"
	CodeTokenIssuanceFailed = "TOKEN_ISSUANCE_FAILED"
	CodeTransactionFailure  = "TRANSACTION_FAILED"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError is the canonical error type for the API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "DUPLICATE_EMAIL").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"message"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"errors,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an [*AppError] with the same Code, so that
// errors.Is(err, apperr.InvalidCredentials()) works across fresh instances.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Account") // Returns "Account not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a generic 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCredentials is the single 401 returned for any failed login.
//
// The message is deliberately identical for unknown emails and wrong
// passwords.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:       CodeInvalidCredentials,
		Message:    "Invalid credentials",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// AccountBlocked creates a 403 [AppError] for a blocked account.
func AccountBlocked() *AppError {
	return &AppError{
		Code:       CodeAccountBlocked,
		Message:    "Your account has been blocked. Contact an administrator.",
		HTTPStatus: http.StatusForbidden,
	}
}

// MissingToken creates a 401 [AppError] for requests without a usable bearer token.
func MissingToken(msg string) *AppError {
	return &AppError{
		Code:       CodeMissingToken,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates a 401 [AppError] for a token failing signature or claim checks.
func InvalidToken() *AppError {
	return &AppError{
		Code:       CodeInvalidToken,
		Message:    "Invalid token",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ExpiredToken creates a 401 [AppError] for a token past its expiry.
func ExpiredToken() *AppError {
	return &AppError{
		Code:       CodeExpiredToken,
		Message:    "Token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidatedToken creates a 401 [AppError] for a token revoked by logout or account action.
func InvalidatedToken() *AppError {
	return &AppError{
		Code:       CodeInvalidatedToken,
		Message:    "Token has been invalidated",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// DuplicateEmail creates a 422 [AppError] for an email already bound to an account.
func DuplicateEmail() *AppError {
	return &AppError{
		Code:       CodeDuplicateEmail,
		Message:    "Email is already registered",
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    []FieldError{{Field: "email", Message: "Email is already registered"}},
	}
}

// DuplicateKey creates a 422 [AppError] for any other unique-key collision.
func DuplicateKey(field string) *AppError {
	return &AppError{
		Code:       CodeDuplicateKey,
		Message:    fmt.Sprintf("Value for %s is already in use", field),
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    []FieldError{{Field: field, Message: "Already in use"}},
	}
}

// ValidationError creates a 422 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       CodeRateLimited,
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// TokenIssuanceFailed creates a 500 [AppError] for a signing failure.
//
// Registration returns it after the account is already persisted; the
// caller recovers by logging in.
func TokenIssuanceFailed(cause error) *AppError {
	return &AppError{
		Code:       CodeTokenIssuanceFailed,
		Message:    "Could not issue an access token",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// TransactionFailure creates a 500 [AppError] for a paired write that was rolled back.
func TransactionFailure(cause error) *AppError {
	return &AppError{
		Code:       CodeTransactionFailure,
		Message:    "The operation could not be completed",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// IsNotFound reports whether err carries a NOT_FOUND [AppError].
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}

// HasCode reports whether err carries an [AppError] with the given code.
func HasCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
