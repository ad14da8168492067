package models

// Package is a catalog entry as returned by the search backend. Timestamps
// are kept as the backend formats them.
type Package struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Title            string     `json:"title,omitempty"`
	Type             string     `json:"type"`
	Private          bool       `json:"private"`
	MetadataModified string     `json:"metadata_modified"`
	Resources        []Resource `json:"resources"`
}

// Resource is a file or link attached to a Package.
type Resource struct {
	ID           string `json:"id"`
	PackageID    string `json:"package_id,omitempty"`
	Name         string `json:"name,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	Created      string `json:"created"`
}
