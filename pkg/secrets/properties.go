// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package secrets

import (
	"maps"
)

// Properties is the custom property bag of a vault entry.
//
// The metadata keys namespace and labels are removed by PopNamespace and
// PopLabels; Data refuses to hand out a map while they are still present, so
// metadata can not leak into secret data.
type Properties struct {
	values map[string]string
}

// NewProperties copies values into a new property bag. The caller's map is
// never modified.
func NewProperties(values map[string]string) *Properties {
	p := &Properties{values: make(map[string]string, len(values))}
	maps.Copy(p.values, values)
	return p
}

// PopNamespace removes and returns the namespace property.
func (p *Properties) PopNamespace() string {
	return p.pop(NamespaceKey)
}

// PopLabels removes and returns the labels property.
func (p *Properties) PopLabels() string {
	return p.pop(LabelsKey)
}

func (p *Properties) pop(key string) string {
	v := p.values[key]
	delete(p.values, key)
	return v
}

// Data returns the remaining properties as secret data. It pops any metadata
// key still present first.
func (p *Properties) Data() map[string]string {
	p.PopNamespace()
	p.PopLabels()
	data := make(map[string]string, len(p.values))
	maps.Copy(data, p.values)
	return data
}
