package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	semver "github.com/blang/semver/v4"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// Bit widths of the packed ordering key. Components that do not fit are
// rejected instead of silently overflowing into the neighbouring field.
const (
	maxKeyComponent = 255
	maxKeyRelease   = 65535
)

// SortDescending selects reverse ordering; any other sort type selects
// ascending.
const SortDescending = "descending"

// NormalizeVersion rewrites an upstream version string into a canonical
// semantic-version form with the release counter attached as build
// metadata.
//
// Packagecloud's version field is inconsistent for pre-release builds:
// both "3.9dev-8" and "3.9dev" occur, with the true build number carried
// in the separate release field. When "dev" is present, everything from
// the marker onward is dropped and replaced so the result has the shape
// MAJOR.MINOR.PATCH-beta; a patch of "0" is synthesized when the marker
// follows a two-component version. Versions without "dev" pass through
// untouched apart from the "+release" suffix.
func NormalizeVersion(version string, release string) string {
	return fmt.Sprintf("%s+%s", normalizeDevMarker(version), release)
}

func normalizeDevMarker(version string) string {
	idx := strings.Index(version, "dev")
	if idx < 0 {
		return version
	}
	prefix := version[:idx]
	switch {
	case strings.HasSuffix(prefix, "."):
		// The separator is already there; only the patch is missing.
		return prefix + "0-beta"
	case strings.Count(prefix, ".") >= 2:
		// Three components present, just tag the pre-release.
		return prefix + "-beta"
	default:
		return prefix + ".0-beta"
	}
}

// OrderingKey computes a single totally-ordered integer from a package's
// version and release fields. The version is normalized first, then
// packed as (major<<32)|(minor<<24)|(patch<<16)|release so the release
// counter compares numerically rather than lexically ("9" before "10").
//
// Versions missing a patch component (e.g. "1.0") are tolerated; the
// missing components read as zero. Malformed version or release data is
// a terminal error, never coerced to a default.
func OrderingKey(version string, release string) (uint64, error) {
	parsed, err := semver.ParseTolerant(normalizeDevMarker(version))
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed package version %q", version)).
			WithCause(err)
	}
	release = strings.TrimSpace(release)
	rel, err := strconv.ParseUint(release, 10, 64)
	if err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("malformed package release %q", release)).
			WithCause(err)
	}
	if parsed.Major > maxKeyComponent || parsed.Minor > maxKeyComponent || parsed.Patch > maxKeyComponent {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("version %q exceeds ordering key field width", version))
	}
	if rel > maxKeyRelease {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("release %q exceeds ordering key field width", release))
	}
	return parsed.Major<<32 | parsed.Minor<<24 | parsed.Patch<<16 | rel, nil
}

// SortPackages orders packages by their version ordering key, ascending
// unless sortType is "descending". The sort is stable: records with
// equal keys keep their original relative order. The input slice is not
// modified.
func SortPackages(packages []types.Package, sortType string) ([]types.Package, error) {
	keys := make([]uint64, len(packages))
	for i, pkg := range packages {
		key, err := OrderingKey(pkg.Version, pkg.Release)
		if err != nil {
			return nil, err
		}
		keys[i] = key
	}
	index := make([]int, len(packages))
	for i := range index {
		index[i] = i
	}
	reverse := sortType == SortDescending
	sort.SliceStable(index, func(i, j int) bool {
		if reverse {
			return keys[index[i]] > keys[index[j]]
		}
		return keys[index[i]] < keys[index[j]]
	})
	sorted := make([]types.Package, len(packages))
	for i, from := range index {
		sorted[i] = packages[from]
	}
	return sorted, nil
}
