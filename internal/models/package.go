package models

import "github.com/google/uuid"

// CKANTimeLayout is how CKAN renders metadata_modified and created.
const CKANTimeLayout = "2006-01-02T15:04:05.999999"

// LastMod returns the resource's modification time, falling back to its
// creation time when it was never modified.
func (r Resource) LastMod() string {
	if r.LastModified != "" {
		return r.LastModified
	}
	return r.Created
}

// EnsureIDs assigns UUIDs to the package and any resource missing one.
func (p *Package) EnsureIDs() {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Resources {
		if p.Resources[i].ID == "" {
			p.Resources[i].ID = uuid.NewString()
		}
		p.Resources[i].PackageID = p.ID
	}
}
