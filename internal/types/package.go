package types

// Package is a single package record as returned by the packagecloud
// packages listing endpoint. Records are read-only once decoded;
// duplicates are permitted and preserved.
type Package struct {
	Name          string `json:"name" yaml:"name"`
	DistroVersion string `json:"distro_version" yaml:"distro_version"`
	Version       string `json:"version" yaml:"version"`
	Release       string `json:"release" yaml:"release"`
	Type          string `json:"type,omitempty" yaml:"type,omitempty"`
	Filename      string `json:"filename,omitempty" yaml:"filename,omitempty"`
	CreatedAt     string `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// PackageFilter narrows a fetched package listing. Empty fields mean
// "no constraint". Version matches by prefix; the other fields match
// exactly.
type PackageFilter struct {
	Name          string
	DistroVersion string
	VersionPrefix string
	Release       string
}
