// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	"github.com/stacklok/toolhive-core/logging"

	"github.com/stacklok/dvk8s/pkg/errors"
	"github.com/stacklok/dvk8s/pkg/logger"
	"github.com/stacklok/dvk8s/pkg/manifest"
	"github.com/stacklok/dvk8s/pkg/secrets"
	"github.com/stacklok/dvk8s/pkg/vault"
	"github.com/stacklok/dvk8s/pkg/vault/mocks"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := logger.Get()
	var buf bytes.Buffer
	logger.Set(logging.New(
		logging.WithOutput(&buf),
		logging.WithFormat(logging.FormatText),
		logging.WithLevel(slog.LevelDebug),
	))
	t.Cleanup(func() { logger.Set(prev) })
	return &buf
}

func prodGroup() *vault.Group {
	return &vault.Group{
		Name: "prod",
		Entries: []vault.Entry{
			{
				Title:      "real",
				Password:   "pw",
				Properties: map[string]string{"namespace": "a"},
			},
			{
				Title: "broken-tls",
				Attachments: []vault.Attachment{
					{Filename: "only.key.pem", Data: []byte("KEY")},
				},
			},
			{
				Title: "web-tls",
				Attachments: []vault.Attachment{
					{Filename: "server.cert.pem", Data: []byte("CERT")},
					{Filename: "server.key.pem", Data: []byte("KEY")},
					{Filename: "chain.pem", Data: []byte("CHAIN")},
				},
			},
		},
	}
}

func splitDocuments(t *testing.T, out string) []corev1.Secret {
	t.Helper()
	if out == "" {
		return nil
	}
	var secrets []corev1.Secret
	for _, doc := range strings.Split(out, "---\n") {
		var s corev1.Secret
		require.NoError(t, yaml.Unmarshal([]byte(doc), &s))
		secrets = append(secrets, s)
	}
	return secrets
}

func newLoader(v vault.Vault, out *bytes.Buffer) *Loader {
	return &Loader{
		Vault:    v,
		Renderer: manifest.NewRenderer(),
		Writer:   manifest.NewWriter(out),
	}
}

func TestLoader_AllEntries(t *testing.T) { //nolint:paralleltest // captures the logger singleton
	logs := captureLogs(t)
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("prod").Return(prodGroup(), true)

	var out bytes.Buffer
	l := newLoader(v, &out)
	l.NamespaceOverride = "b"

	result, err := l.Run("prod", nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Emitted: 2, Skipped: 1}, result)

	docs := splitDocuments(t, out.String())
	require.Len(t, docs, 2)
	assert.Equal(t, "real", docs[0].Name)
	assert.Equal(t, "b", docs[0].Namespace, "override wins over the entry namespace")
	assert.Equal(t, corev1.SecretTypeOpaque, docs[0].Type)
	assert.Equal(t, "web-tls", docs[1].Name)
	assert.Equal(t, corev1.SecretTypeTLS, docs[1].Type)
	assert.Equal(t, []byte("CERT\nCHAIN"), docs[1].Data[corev1.TLSCertKey])

	assert.False(t, strings.HasPrefix(out.String(), "---"))
	assert.False(t, strings.HasSuffix(out.String(), "---\n"))
	assert.Equal(t, 1, strings.Count(logs.String(), "skipping secret"))
	assert.Contains(t, logs.String(), "broken-tls")
}

func TestLoader_NamedEntries(t *testing.T) { //nolint:paralleltest // captures the logger singleton
	tests := []struct {
		name        string
		warnMissing bool
	}{
		{name: "missing names are silent by default", warnMissing: false},
		{name: "missing names can be reported", warnMissing: true},
	}

	for _, tt := range tests { //nolint:paralleltest // captures the logger singleton
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			ctrl := gomock.NewController(t)

			v := mocks.NewMockVault(ctrl)
			v.EXPECT().FindGroup("prod").Return(prodGroup(), true)

			var out bytes.Buffer
			l := newLoader(v, &out)
			l.WarnMissing = tt.warnMissing

			result, err := l.Run("prod", []string{"real", "missing"})
			require.NoError(t, err)
			assert.Equal(t, 1, result.Emitted)
			assert.Equal(t, []string{"missing"}, result.Missing)

			docs := splitDocuments(t, out.String())
			require.Len(t, docs, 1)
			assert.Equal(t, "real", docs[0].Name)
			assert.Equal(t, "a", docs[0].Namespace)

			assert.Equal(t, tt.warnMissing, strings.Contains(logs.String(), "requested secret not found"))
		})
	}
}

func TestLoader_GroupNotFound(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("qa").Return(nil, false)

	var out bytes.Buffer
	result, err := newLoader(v, &out).Run("qa", nil)

	require.Error(t, err)
	assert.True(t, errors.IsGroupNotFound(err))
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), `"qa"`)
	assert.Empty(t, out.String())
	assert.Equal(t, Result{}, result)
}

func TestLoader_EmptyGroup(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("empty").Return(&vault.Group{Name: "empty"}, true)

	var out bytes.Buffer
	result, err := newLoader(v, &out).Run("empty", nil)
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Empty(t, out.String())
}

func TestLoader_Inspect(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("prod").Return(prodGroup(), true)

	var out bytes.Buffer
	l := newLoader(v, &out)

	summaries, err := l.Inspect("prod", nil)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, Summary{Title: "real", Type: secrets.OpaqueType, Namespace: "a", Keys: []string{"password"}}, summaries[0])
	assert.Equal(t, "broken-tls", summaries[1].Title)
	assert.Empty(t, summaries[1].Type)
	assert.Contains(t, summaries[1].SkipReason, "missing some files for TLS PEM handling")
	assert.Equal(t, Summary{Title: "web-tls", Type: secrets.TLSType, Keys: []string{"tls.crt", "tls.key"}}, summaries[2])
	assert.Empty(t, out.String(), "inspect writes no manifests")
}

func TestLoader_InspectGroupNotFound(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("qa").Return(nil, false)

	_, err := newLoader(v, &bytes.Buffer{}).Inspect("qa", nil)
	assert.True(t, errors.IsGroupNotFound(err))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}

func TestLoader_WriteError(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	v := mocks.NewMockVault(ctrl)
	v.EXPECT().FindGroup("prod").Return(prodGroup(), true)

	l := &Loader{
		Vault:    v,
		Renderer: manifest.NewRenderer(),
		Writer:   manifest.NewWriter(failingWriter{}),
	}

	result, err := l.Run("prod", []string{"real"})
	require.ErrorIs(t, err, assert.AnError)
	assert.False(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), `failed to write manifest for "real"`)
	assert.Zero(t, result.Emitted)
}
