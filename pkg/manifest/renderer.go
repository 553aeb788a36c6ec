// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package manifest renders secret specs as Kubernetes Secret YAML documents.
//
// Manifests are built as typed corev1.Secret objects and serialized, never
// assembled from text templates, so arbitrary titles, labels and data values
// always produce well-formed YAML.
package manifest

import (
	"encoding/base64"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	"github.com/stacklok/dvk8s/pkg/k8s"
	"github.com/stacklok/dvk8s/pkg/labels"
	"github.com/stacklok/dvk8s/pkg/logger"
	"github.com/stacklok/dvk8s/pkg/secrets"
)

// Renderer turns secret specs into manifests. It holds no per-spec state
// and is built once per run.
type Renderer struct {
	defaultNamespace string
	checksum         bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDefaultNamespace sets the namespace used for specs that carry none.
func WithDefaultNamespace(namespace string) Option {
	return func(r *Renderer) {
		r.defaultNamespace = namespace
	}
}

// WithChecksumAnnotation adds a content checksum annotation to every manifest.
func WithChecksumAnnotation() Option {
	return func(r *Renderer) {
		r.checksum = true
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build converts spec into a Secret object.
//
// Labels that can not be parsed are dropped with a warning; the secret is
// still built.
func (r *Renderer) Build(spec secrets.Spec) (*corev1.Secret, error) {
	meta := spec.Metadata()

	secret := &corev1.Secret{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Secret",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:      meta.Title,
			Namespace: meta.Namespace,
		},
		Type: corev1.SecretType(spec.Type()),
	}
	if secret.Namespace == "" {
		secret.Namespace = r.defaultNamespace
	}

	set, err := labels.Parse(meta.Labels)
	if err != nil {
		logger.Warnw("ignoring invalid labels", "secret", meta.Title, "error", err.Error())
	} else {
		secret.Labels = set
	}

	switch s := spec.(type) {
	case *secrets.OpaqueSpec:
		secret.Data = make(map[string][]byte, len(s.Data))
		for k, v := range s.Data {
			secret.Data[k] = []byte(v)
		}
	case *secrets.TLSSpec:
		cert, err := base64.StdEncoding.DecodeString(s.CertChainBase64)
		if err != nil {
			return nil, fmt.Errorf("secret %q: invalid certificate chain encoding: %w", meta.Title, err)
		}
		key, err := base64.StdEncoding.DecodeString(s.KeyBase64)
		if err != nil {
			return nil, fmt.Errorf("secret %q: invalid key encoding: %w", meta.Title, err)
		}
		secret.Data = map[string][]byte{
			corev1.TLSCertKey:       cert,
			corev1.TLSPrivateKeyKey: key,
		}
	default:
		return nil, fmt.Errorf("secret %q: unsupported spec type %T", meta.Title, spec)
	}

	if r.checksum {
		secret.Annotations = map[string]string{
			k8s.ChecksumAnnotation: k8s.ComputeSecretChecksum(secret),
		}
	}

	return secret, nil
}

// Render builds spec and serializes it as a single YAML document.
func (r *Renderer) Render(spec secrets.Spec) ([]byte, error) {
	secret, err := r.Build(spec)
	if err != nil {
		return nil, err
	}
	return Marshal(secret)
}

// Marshal serializes a Secret as YAML. Server populated fields that are
// always empty in a freshly built object are left out.
func Marshal(secret *corev1.Secret) ([]byte, error) {
	obj, err := runtime.DefaultUnstructuredConverter.ToUnstructured(secret)
	if err != nil {
		return nil, fmt.Errorf("failed to convert secret %q: %w", secret.Name, err)
	}
	unstructured.RemoveNestedField(obj, "metadata", "creationTimestamp")

	out, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal secret %q: %w", secret.Name, err)
	}
	return out, nil
}
