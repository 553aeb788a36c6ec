// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/dvk8s/pkg/vault"
)

func TestClassifyAttachment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		filename string
		want     Kind
	}{
		{"server.cert.pem", Cert},
		{"server.key.pem", Key},
		{"chain.pem", Chain},
		{"SERVER.CERT.PEM", Cert},
		{"x.cert.PEM", Cert},
		{"x.Key.Pem", Key},
		{"Intermediate-Chain.Pem", Chain},
		{"privkey.pem", Key},
		{"cert-key-chain.pem", Cert | Key | Chain},
		{"certchain.pem", Cert | Chain},
		{"server.cert", 0},
		{"server.pem", 0},
		{"key.pem.bak", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ClassifyAttachment(tt.filename))
		})
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "none", Kind(0).String())
	assert.Equal(t, "cert", Cert.String())
	assert.Equal(t, "cert|key|chain", (Cert | Key | Chain).String())
	assert.Equal(t, "key|chain", (Chain | Key).String())
}

func attachments(names ...string) []vault.Attachment {
	out := make([]vault.Attachment, 0, len(names))
	for _, n := range names {
		out = append(out, vault.Attachment{Filename: n, Data: []byte("data:" + n)})
	}
	return out
}

func TestPairAttachments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		files     []string
		wantErr   error
		wantCert  string
		wantKey   string
		wantChain string
	}{
		{
			name:      "complete set",
			files:     []string{"server.cert.pem", "server.key.pem", "chain.pem"},
			wantCert:  "server.cert.pem",
			wantKey:   "server.key.pem",
			wantChain: "chain.pem",
		},
		{
			name:      "unrelated files are ignored",
			files:     []string{"README.txt", "server.cert.pem", "server.key.pem", "chain.pem"},
			wantCert:  "server.cert.pem",
			wantKey:   "server.key.pem",
			wantChain: "chain.pem",
		},
		{
			name:    "two certs are ambiguous",
			files:   []string{"a.cert.pem", "b.cert.pem", "k.key.pem", "c.chain.pem"},
			wantErr: ErrAmbiguousAttachments,
		},
		{
			name:    "missing cert is incomplete",
			files:   []string{"k.key.pem", "c.chain.pem"},
			wantErr: ErrIncompleteAttachments,
		},
		{
			name:    "ambiguity is reported before incompleteness",
			files:   []string{"a.key.pem", "b.key.pem"},
			wantErr: ErrAmbiguousAttachments,
		},
		{
			name:      "single multi-role file fills every role",
			files:     []string{"cert-key-chain.pem"},
			wantCert:  "cert-key-chain.pem",
			wantKey:   "cert-key-chain.pem",
			wantChain: "cert-key-chain.pem",
		},
		{
			name:    "multi-role file plus dedicated cert is ambiguous",
			files:   []string{"cert-key-chain.pem", "server.cert.pem"},
			wantErr: ErrAmbiguousAttachments,
		},
		{
			name:    "no pem files",
			files:   []string{"notes.txt"},
			wantErr: ErrIncompleteAttachments,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			files, err := PairAttachments(attachments(tt.files...))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, TLSFiles{}, files)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCert, files.Cert.Filename)
			assert.Equal(t, tt.wantKey, files.Key.Filename)
			assert.Equal(t, tt.wantChain, files.Chain.Filename)
		})
	}
}
