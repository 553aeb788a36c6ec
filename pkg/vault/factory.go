// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"fmt"
	"os"

	"github.com/stacklok/dvk8s/pkg/errors"
)

// ErrUnknownSourceType is returned when an invalid value for SourceType is specified.
var ErrUnknownSourceType = errors.NewInvalidArgumentError("unknown vault type", nil)

// Open opens the vault at path with password.
//
// It fails with a not found error (errors.IsNotFound) when path does not
// exist, is a directory or cannot be read, and with an auth error
// (errors.IsAuth) when the password is wrong or the file is corrupt.
func Open(sourceType SourceType, path, password string) (Vault, error) {
	switch sourceType {
	case KDBXType:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("could not read from %q", path), err)
	}
	if info.IsDir() {
		return nil, errors.NewNotFoundError(fmt.Sprintf("could not read from %q", path), fmt.Errorf("is a directory"))
	}

	//nolint:gosec // G304: the vault path is user supplied by design
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewNotFoundError(fmt.Sprintf("could not read from %q", path), err)
	}
	defer f.Close()

	return openKDBX(f, password)
}
