// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "error with cause",
			err: &Error{
				Type:    ErrAuth,
				Message: "could not open vault",
				Cause:   errors.New("wrong password"),
			},
			want: "auth: could not open vault: wrong password",
		},
		{
			name: "error without cause",
			err: &Error{
				Type:    ErrGroupNotFound,
				Message: `group "prod" not found`,
				Cause:   nil,
			},
			want: `group_not_found: group "prod" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := NewInternalError("test message", cause)
	assert.Equal(t, ErrInternal, err.Type)
	assert.False(t, IsFatal(err))
	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	assert.Nil(t, NewInternalError("test message", nil).Unwrap())
}

func TestErrorTypeChecks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		check     func(error) bool
		wantFatal bool
	}{
		{"invalid argument", NewInvalidArgumentError("bad type", nil), IsInvalidArgument, false},
		{"not found", NewNotFoundError("missing file", nil), IsNotFound, true},
		{"auth", NewAuthError("wrong password", nil), IsAuth, true},
		{"group not found", NewGroupNotFoundError("no group", nil), IsGroupNotFound, true},
		{"wrapped auth", fmt.Errorf("opening vault: %w", NewAuthError("wrong password", nil)), IsAuth, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.True(t, tt.check(tt.err))
			assert.Equal(t, tt.wantFatal, IsFatal(tt.err))
		})
	}

	assert.False(t, IsAuth(errors.New("plain error")))
	assert.False(t, IsNotFound(nil))
}
