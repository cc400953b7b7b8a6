package core

import (
	"strings"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// FilterPackages retains the packages satisfying every non-empty
// criterion in the filter. Name, distro version and release match
// exactly; version matches by prefix. Fetch order is preserved.
func FilterPackages(packages []types.Package, filter types.PackageFilter) []types.Package {
	result := make([]types.Package, 0, len(packages))
	for _, pkg := range packages {
		if filter.Name != "" && pkg.Name != filter.Name {
			continue
		}
		if filter.DistroVersion != "" && pkg.DistroVersion != filter.DistroVersion {
			continue
		}
		if filter.VersionPrefix != "" && !strings.HasPrefix(pkg.Version, filter.VersionPrefix) {
			continue
		}
		if filter.Release != "" && pkg.Release != filter.Release {
			continue
		}
		result = append(result, pkg)
	}
	return result
}
