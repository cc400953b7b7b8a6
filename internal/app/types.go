package app

import "github.com/nzlosh/stackstorm-packagecloud/internal/types"

type ListPackagesRequest struct {
	Repo          string
	Package       string
	DistroVersion string
	Version       string
	Release       string
	PerPage       int
	SortPackages  bool
	SortType      string
}

type ListPackagesResult struct {
	Packages []types.Package
	Fetched  int
}

type MasterTokenRequest struct {
	Repo string
	Name string
}

type ReadTokenRequest struct {
	Repo            string
	MasterTokenName string
	Name            string
}
