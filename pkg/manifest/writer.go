// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"io"
)

// documentSeparator separates YAML documents in a multi-document stream.
const documentSeparator = "---\n"

// Writer writes a stream of YAML documents. The separator goes between
// documents only, never before the first or after the last.
type Writer struct {
	w     io.Writer
	count int
}

// NewWriter creates a Writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteDocument appends doc to the stream.
func (w *Writer) WriteDocument(doc []byte) error {
	var buf bytes.Buffer
	if w.count > 0 {
		buf.WriteString(documentSeparator)
	}
	buf.Write(doc)
	if len(doc) == 0 || doc[len(doc)-1] != '\n' {
		buf.WriteByte('\n')
	}
	if _, err := w.w.Write(buf.Bytes()); err != nil {
		return err
	}
	w.count++
	return nil
}
