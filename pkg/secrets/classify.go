// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/dvk8s/pkg/vault"
)

// Kind is a bit set of the TLS roles a PEM attachment can play.
type Kind uint8

const (
	// Cert marks a certificate candidate.
	Cert Kind = 1 << iota
	// Key marks a private key candidate.
	Key
	// Chain marks a CA chain candidate.
	Chain
)

const pemSuffix = ".pem"

var (
	// ErrAmbiguousAttachments is returned when more than one attachment matches a TLS role.
	ErrAmbiguousAttachments = errors.New("ambiguous file names for TLS PEM handling")

	// ErrIncompleteAttachments is returned when no attachment matches a TLS role.
	ErrIncompleteAttachments = errors.New("missing some files for TLS PEM handling")
)

// Has reports whether k contains all of other.
func (k Kind) Has(other Kind) bool {
	return k&other == other
}

// String returns a readable form such as "cert|chain".
func (k Kind) String() string {
	var parts []string
	for _, c := range []struct {
		kind Kind
		name string
	}{{Cert, "cert"}, {Key, "key"}, {Chain, "chain"}} {
		if k.Has(c.kind) {
			parts = append(parts, c.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ClassifyAttachment returns every TLS role filename matches. Matching is
// case insensitive: the name must end in ".pem" and contain "cert", "key" or
// "chain". A name can match several roles, or none.
func ClassifyAttachment(filename string) Kind {
	name := strings.ToLower(filename)
	if !strings.HasSuffix(name, pemSuffix) {
		return 0
	}
	var kind Kind
	if strings.Contains(name, "cert") {
		kind |= Cert
	}
	if strings.Contains(name, "key") {
		kind |= Key
	}
	if strings.Contains(name, "chain") {
		kind |= Chain
	}
	return kind
}

// TLSFiles is a complete certificate, key and chain set.
type TLSFiles struct {
	Cert  vault.Attachment
	Key   vault.Attachment
	Chain vault.Attachment
}

// PairAttachments picks exactly one attachment per TLS role. Every role is
// evaluated over the full list independently, so one file may fill several
// roles. More than one candidate for any role fails with
// ErrAmbiguousAttachments, checked before ErrIncompleteAttachments for a role
// without candidates.
func PairAttachments(attachments []vault.Attachment) (TLSFiles, error) {
	var certs, keys, chains []vault.Attachment
	for _, a := range attachments {
		kind := ClassifyAttachment(a.Filename)
		if kind.Has(Cert) {
			certs = append(certs, a)
		}
		if kind.Has(Key) {
			keys = append(keys, a)
		}
		if kind.Has(Chain) {
			chains = append(chains, a)
		}
	}

	if len(certs) > 1 || len(keys) > 1 || len(chains) > 1 {
		return TLSFiles{}, fmt.Errorf("%w: %d cert, %d key, %d chain candidates",
			ErrAmbiguousAttachments, len(certs), len(keys), len(chains))
	}
	if len(certs) == 0 || len(keys) == 0 || len(chains) == 0 {
		return TLSFiles{}, fmt.Errorf("%w: %d cert, %d key, %d chain candidates",
			ErrIncompleteAttachments, len(certs), len(keys), len(chains))
	}

	return TLSFiles{Cert: certs[0], Key: keys[0], Chain: chains[0]}, nil
}
