// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package errors provides the typed errors used by dvk8s to tell fatal
// vault failures apart from parameter validation problems.
package errors

import (
	"errors"
	"fmt"
)

// Error types
const (
	// ErrInvalidArgument is returned when an invalid argument is provided
	ErrInvalidArgument = "invalid_argument"

	// ErrNotFound is returned when the vault file does not exist, is a directory or cannot be read
	ErrNotFound = "not_found"

	// ErrAuth is returned when the vault cannot be decrypted with the given password
	// or is structurally invalid
	ErrAuth = "auth"

	// ErrGroupNotFound is returned when the requested group does not exist in the vault
	ErrGroupNotFound = "group_not_found"

	// ErrInternal is returned when there is an internal error
	ErrInternal = "internal"
)

// Error represents an error in the application
type Error struct {
	// Type is the error type
	Type string

	// Message is the error message
	Message string

	// Cause is the underlying error
	Cause error
}

// Error returns the error message
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new error
func NewError(errorType, message string, cause error) *Error {
	return &Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(message string, cause error) *Error {
	return NewError(ErrInvalidArgument, message, cause)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, cause error) *Error {
	return NewError(ErrNotFound, message, cause)
}

// NewAuthError creates a new auth error
func NewAuthError(message string, cause error) *Error {
	return NewError(ErrAuth, message, cause)
}

// NewGroupNotFoundError creates a new group not found error
func NewGroupNotFoundError(message string, cause error) *Error {
	return NewError(ErrGroupNotFound, message, cause)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *Error {
	return NewError(ErrInternal, message, cause)
}

// IsInvalidArgument checks if the error is an invalid argument error
func IsInvalidArgument(err error) bool {
	return hasType(err, ErrInvalidArgument)
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasType(err, ErrNotFound)
}

// IsAuth checks if the error is an auth error
func IsAuth(err error) bool {
	return hasType(err, ErrAuth)
}

// IsGroupNotFound checks if the error is a group not found error
func IsGroupNotFound(err error) bool {
	return hasType(err, ErrGroupNotFound)
}

// IsFatal reports whether the error must abort a load run.
func IsFatal(err error) bool {
	return IsNotFound(err) || IsAuth(err) || IsGroupNotFound(err)
}

// hasType walks the wrap chain, so errors annotated with fmt.Errorf("%w") still match.
func hasType(err error, errorType string) bool {
	var e *Error
	return errors.As(err, &e) && e.Type == errorType
}
