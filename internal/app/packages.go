package app

import (
	"context"

	assert "github.com/ZanzyTHEbar/assert-lib"

	"github.com/nzlosh/stackstorm-packagecloud/internal/core"
	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// ListPackages fetches the repository's full package listing, narrows
// it by the supplied criteria and, when requested, orders it by the
// version ordering key.
func (s Service) ListPackages(ctx context.Context, req ListPackagesRequest) (ListPackagesResult, error) {
	assert.NotEmpty(ctx, req.Repo, "repo must be set")

	fetched, err := s.Client.ListPackages(ctx, req.Repo, req.PerPage)
	if err != nil {
		return ListPackagesResult{}, err
	}
	packages := core.FilterPackages(fetched, types.PackageFilter{
		Name:          req.Package,
		DistroVersion: req.DistroVersion,
		VersionPrefix: req.Version,
		Release:       req.Release,
	})
	if req.SortPackages {
		packages, err = core.SortPackages(packages, req.SortType)
		if err != nil {
			return ListPackagesResult{}, err
		}
	}
	return ListPackagesResult{
		Packages: packages,
		Fetched:  len(fetched),
	}, nil
}
