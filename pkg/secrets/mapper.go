// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"encoding/base64"

	"github.com/stacklok/dvk8s/pkg/logger"
	"github.com/stacklok/dvk8s/pkg/vault"
)

// Mapper turns vault entries into secret specs.
type Mapper struct {
	// Group is the vault group the entries come from. It is only used to
	// identify skipped entries in warnings.
	Group string
	// NamespaceOverride, when non-empty, replaces the namespace of every
	// entry, even one that sets its own.
	NamespaceOverride string
}

// Map converts entry into a Spec. It returns false when the entry is skipped
// because its attachments can not be paired into a TLS secret; a warning
// naming the group and entry has been logged in that case.
//
// The entry is not modified, so mapping the same entry twice yields equal specs.
func (m *Mapper) Map(entry vault.Entry) (Spec, bool) {
	spec, err := m.Convert(entry)
	if err != nil {
		logger.Warnw("skipping secret",
			"group", m.Group,
			"secret", entry.Title,
			"reason", err.Error(),
		)
		return nil, false
	}
	return spec, true
}

// Convert is Map without the logging. It returns ErrAmbiguousAttachments or
// ErrIncompleteAttachments for entries that Map would skip.
func (m *Mapper) Convert(entry vault.Entry) (Spec, error) {
	props := NewProperties(entry.Properties)
	meta := Meta{
		Title:     entry.Title,
		Namespace: props.PopNamespace(),
		Labels:    props.PopLabels(),
	}
	if m.NamespaceOverride != "" {
		meta.Namespace = m.NamespaceOverride
	}

	if len(entry.Attachments) == 0 {
		return opaque(meta, props, entry), nil
	}
	spec, err := tls(meta, entry)
	if err != nil {
		return nil, err
	}
	return spec, nil
}

func opaque(meta Meta, props *Properties, entry vault.Entry) *OpaqueSpec {
	data := props.Data()
	// username and password are standard fields, not custom properties
	if entry.Password != "" {
		data[PasswordKey] = entry.Password
	}
	if entry.Username != "" {
		data[UsernameKey] = entry.Username
	}
	return &OpaqueSpec{Meta: meta, Data: data}
}

func tls(meta Meta, entry vault.Entry) (*TLSSpec, error) {
	files, err := PairAttachments(entry.Attachments)
	if err != nil {
		return nil, err
	}

	certChain := make([]byte, 0, len(files.Cert.Data)+1+len(files.Chain.Data))
	certChain = append(certChain, files.Cert.Data...)
	certChain = append(certChain, '\n')
	certChain = append(certChain, files.Chain.Data...)

	return &TLSSpec{
		Meta:            meta,
		CertChainBase64: base64.StdEncoding.EncodeToString(certChain),
		KeyBase64:       base64.StdEncoding.EncodeToString(files.Key.Data),
	}, nil
}
