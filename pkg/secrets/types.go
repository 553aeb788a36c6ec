// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package secrets maps vault entries to renderer agnostic Kubernetes Secret specs.
//
// An entry without attachments becomes an Opaque secret holding its custom
// properties plus username and password. An entry with attachments becomes a
// TLS secret when exactly one certificate, key and chain PEM file can be
// paired, and is skipped otherwise.
package secrets

// Type is the Kubernetes Secret type a Spec renders to.
type Type string

const (
	// OpaqueType holds arbitrary key/value string data.
	OpaqueType Type = "Opaque"

	// TLSType holds a certificate chain and a private key.
	TLSType Type = "kubernetes.io/tls"
)

// Metadata keys consumed from entry properties. They never become secret data.
const (
	NamespaceKey = "namespace"
	LabelsKey    = "labels"
)

// Data keys added to Opaque secrets from the standard entry fields.
const (
	PasswordKey = "password"
	UsernameKey = "username"
)

// Spec is the intermediate form of one secret, produced by the Mapper and
// consumed by a renderer.
type Spec interface {
	// Type returns the Kubernetes Secret type.
	Type() Type
	// Metadata returns the object metadata shared by all variants.
	Metadata() Meta
}

// Meta is the metadata shared by all Spec variants.
type Meta struct {
	Title string
	// Namespace is empty when neither the entry nor the caller set one.
	Namespace string
	// Labels is the raw labels property of the entry, empty when absent.
	Labels string
}

// OpaqueSpec is a secret of type Opaque.
type OpaqueSpec struct {
	Meta
	Data map[string]string
}

// Type implements Spec.
func (*OpaqueSpec) Type() Type { return OpaqueType }

// Metadata implements Spec.
func (s *OpaqueSpec) Metadata() Meta { return s.Meta }

// TLSSpec is a secret of type kubernetes.io/tls.
type TLSSpec struct {
	Meta
	// CertChainBase64 is the certificate followed by a newline and the chain, base64 encoded.
	CertChainBase64 string
	// KeyBase64 is the private key, base64 encoded.
	KeyBase64 string
}

// Type implements Spec.
func (*TLSSpec) Type() Type { return TLSType }

// Metadata implements Spec.
func (s *TLSSpec) Metadata() Meta { return s.Meta }
