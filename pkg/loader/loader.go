// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package loader runs the vault to manifest pipeline for one group.
package loader

import (
	"fmt"
	"maps"
	"slices"

	"github.com/stacklok/dvk8s/pkg/errors"
	"github.com/stacklok/dvk8s/pkg/logger"
	"github.com/stacklok/dvk8s/pkg/manifest"
	"github.com/stacklok/dvk8s/pkg/secrets"
	"github.com/stacklok/dvk8s/pkg/vault"
)

// Loader reads entries from a vault and writes one manifest per convertible
// entry, in enumeration order.
type Loader struct {
	Vault    vault.Vault
	Renderer *manifest.Renderer
	Writer   *manifest.Writer
	// NamespaceOverride replaces the namespace of every entry when non-empty.
	NamespaceOverride string
	// WarnMissing logs a warning for requested names that are not in the group.
	// By default they are left out silently.
	WarnMissing bool
}

// Result summarizes a run.
type Result struct {
	Emitted int
	Skipped int
	Missing []string
}

// Run converts the entries of groupName. With no names every entry of the
// group is converted, otherwise only the named ones.
//
// A missing group is fatal (errors.IsGroupNotFound). Entries that can not be
// converted are skipped with a warning and do not fail the run.
func (l *Loader) Run(groupName string, names []string) (Result, error) {
	var result Result

	entries, missing, err := l.entries(groupName, names)
	if err != nil {
		return result, err
	}
	result.Missing = missing

	mapper := &secrets.Mapper{Group: groupName, NamespaceOverride: l.NamespaceOverride}
	for _, entry := range entries {
		spec, ok := mapper.Map(entry)
		if !ok {
			result.Skipped++
			continue
		}

		doc, err := l.Renderer.Render(spec)
		if err != nil {
			logger.Warnw("skipping secret", "group", groupName, "secret", entry.Title, "reason", err.Error())
			result.Skipped++
			continue
		}

		if err := l.Writer.WriteDocument(doc); err != nil {
			return result, errors.NewInternalError(fmt.Sprintf("failed to write manifest for %q", entry.Title), err)
		}
		result.Emitted++
	}

	logger.Debugw("load finished",
		"group", groupName,
		"emitted", result.Emitted,
		"skipped", result.Skipped,
		"missing", len(result.Missing),
	)
	return result, nil
}

// Summary describes what Run does with one entry. It never carries secret
// values.
type Summary struct {
	Title     string       `json:"title"`
	Type      secrets.Type `json:"type,omitempty"`
	Namespace string       `json:"namespace,omitempty"`
	Labels    string       `json:"labels,omitempty"`
	Keys      []string     `json:"keys,omitempty"`
	// SkipReason is set for entries Run would skip.
	SkipReason string `json:"skip_reason,omitempty"`
}

// Inspect reports how each selected entry of groupName would be converted,
// without rendering or writing anything.
func (l *Loader) Inspect(groupName string, names []string) ([]Summary, error) {
	entries, _, err := l.entries(groupName, names)
	if err != nil {
		return nil, err
	}

	mapper := &secrets.Mapper{Group: groupName, NamespaceOverride: l.NamespaceOverride}
	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		spec, err := mapper.Convert(entry)
		if err != nil {
			summaries = append(summaries, Summary{Title: entry.Title, SkipReason: err.Error()})
			continue
		}

		meta := spec.Metadata()
		summary := Summary{
			Title:     meta.Title,
			Type:      spec.Type(),
			Namespace: meta.Namespace,
			Labels:    meta.Labels,
		}
		switch s := spec.(type) {
		case *secrets.OpaqueSpec:
			summary.Keys = slices.Sorted(maps.Keys(s.Data))
		case *secrets.TLSSpec:
			summary.Keys = []string{"tls.crt", "tls.key"}
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (l *Loader) entries(groupName string, names []string) ([]vault.Entry, []string, error) {
	group, ok := l.Vault.FindGroup(groupName)
	if !ok {
		return nil, nil, errors.NewGroupNotFoundError(
			fmt.Sprintf("KeePass group %q not found in file", groupName), nil)
	}

	entries, missing := vault.ListEntries(group, names)
	if l.WarnMissing {
		for _, name := range missing {
			logger.Warnw("requested secret not found", "group", groupName, "secret", name)
		}
	}
	return entries, missing, nil
}
