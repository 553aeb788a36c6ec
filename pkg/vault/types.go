// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package vault reads credential entries out of encrypted password databases.
//
// A Vault is opened once with a password, fully decoded into memory and the
// underlying file released. Lookups afterwards are pure in-memory walks over
// the group tree.
package vault

//go:generate mockgen -destination=mocks/mock_vault.go -package=mocks -source=types.go Vault

// SourceType represents an enum of the supported vault file formats.
type SourceType string

const (
	// KDBXType represents a KeePass 2.x (KeePassX / KeePassXC) database file.
	KDBXType SourceType = "kdbx"
)

// SupportedTypes lists every SourceType accepted by Open.
var SupportedTypes = []SourceType{KDBXType}

// Vault describes an opened credential database.
type Vault interface {
	// FindGroup returns the first group with exactly the given name,
	// searching the whole tree depth-first in storage order.
	FindGroup(name string) (*Group, bool)
}

// Group is a named collection of entries, analogous to a folder.
type Group struct {
	Name    string
	Entries []Entry
	Groups  []Group
}

// Entry is one credential record.
type Entry struct {
	Title string
	// Properties holds the custom string fields of the entry. The standard
	// fields (title, username, password, URL, notes) are never included.
	Properties  map[string]string
	Username    string
	Password    string
	Attachments []Attachment
}

// Attachment is a file stored inside an entry.
type Attachment struct {
	Filename string
	Data     []byte
}

// ListEntries returns the entries to convert from group.
//
// With no names, all direct entries of the group are returned in storage
// order. Otherwise each name is looked up in the given order and the first
// entry with that exact title anywhere below the group is returned. Names
// without a match are left out of entries and returned in missing; not
// finding a name is not an error.
func ListEntries(group *Group, names []string) (entries []Entry, missing []string) {
	if group == nil {
		return nil, names
	}
	if len(names) == 0 {
		return append([]Entry(nil), group.Entries...), nil
	}
	for _, name := range names {
		entry, ok := group.findEntry(name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, missing
}

func (g *Group) findEntry(title string) (Entry, bool) {
	for _, e := range g.Entries {
		if e.Title == title {
			return e, true
		}
	}
	for i := range g.Groups {
		if e, ok := g.Groups[i].findEntry(title); ok {
			return e, true
		}
	}
	return Entry{}, false
}

// findGroup walks groups depth-first and returns the first one named name.
func findGroup(groups []Group, name string) (*Group, bool) {
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i], true
		}
		if g, ok := findGroup(groups[i].Groups, name); ok {
			return g, true
		}
	}
	return nil, false
}
