// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package vault

import (
	"io"

	"github.com/tobischo/gokeepasslib/v3"

	"github.com/stacklok/dvk8s/pkg/errors"
	"github.com/stacklok/dvk8s/pkg/logger"
)

// Standard KeePass entry fields. Everything else is a custom property.
const (
	fieldTitle    = "Title"
	fieldUserName = "UserName"
	fieldPassword = "Password"
	fieldURL      = "URL"
	fieldNotes    = "Notes"
)

var standardFields = map[string]struct{}{
	fieldTitle:    {},
	fieldUserName: {},
	fieldPassword: {},
	fieldURL:      {},
	fieldNotes:    {},
}

// kdbxVault is a decoded KeePass database.
type kdbxVault struct {
	groups []Group
}

// FindGroup implements Vault.
func (v *kdbxVault) FindGroup(name string) (*Group, bool) {
	return findGroup(v.groups, name)
}

func openKDBX(r io.Reader, password string) (*kdbxVault, error) {
	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(password)

	if err := gokeepasslib.NewDecoder(r).Decode(db); err != nil {
		return nil, errors.NewAuthError("could not decrypt KeePass database (wrong password or corrupt file)", err)
	}
	if err := db.UnlockProtectedEntries(); err != nil {
		return nil, errors.NewAuthError("could not unlock protected KeePass values", err)
	}

	return fromDatabase(db), nil
}

// fromDatabase converts an unlocked database into the vault model.
func fromDatabase(db *gokeepasslib.Database) *kdbxVault {
	v := &kdbxVault{}
	if db.Content == nil || db.Content.Root == nil {
		return v
	}
	v.groups = convertGroups(db, db.Content.Root.Groups)
	return v
}

func convertGroups(db *gokeepasslib.Database, groups []gokeepasslib.Group) []Group {
	if len(groups) == 0 {
		return nil
	}
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		group := Group{
			Name:   g.Name,
			Groups: convertGroups(db, g.Groups),
		}
		for i := range g.Entries {
			group.Entries = append(group.Entries, convertEntry(db, &g.Entries[i]))
		}
		out = append(out, group)
	}
	return out
}

func convertEntry(db *gokeepasslib.Database, e *gokeepasslib.Entry) Entry {
	entry := Entry{
		Title:      e.GetTitle(),
		Username:   e.GetContent(fieldUserName),
		Password:   e.GetPassword(),
		Properties: make(map[string]string),
	}

	for _, value := range e.Values {
		if _, ok := standardFields[value.Key]; ok {
			continue
		}
		entry.Properties[value.Key] = value.Value.Content
	}

	for i := range e.Binaries {
		ref := &e.Binaries[i]
		binary := ref.Find(db)
		if binary == nil {
			logger.Debugw("attachment references a missing binary", "title", entry.Title, "filename", ref.Name)
			continue
		}
		data, err := binary.GetContentBytes()
		if err != nil {
			logger.Debugw("attachment could not be read", "title", entry.Title, "filename", ref.Name, "error", err)
			continue
		}
		entry.Attachments = append(entry.Attachments, Attachment{Filename: ref.Name, Data: data})
	}

	return entry
}
