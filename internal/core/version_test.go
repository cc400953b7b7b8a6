package core

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// ---------------------------------------------------------------------------
// NormalizeVersion
// ---------------------------------------------------------------------------

func TestNormalizeVersionWithoutDevMarker(t *testing.T) {
	assert.Equal(t, "1.2.3+4", NormalizeVersion("1.2.3", "4"))
	assert.Equal(t, "1.0+1", NormalizeVersion("1.0", "1"))
}

func TestNormalizeVersionDevAfterMinor(t *testing.T) {
	// No period before "dev": a patch of 0 is synthesized.
	assert.Equal(t, "3.9.0-beta+8", NormalizeVersion("3.9dev", "8"))
}

func TestNormalizeVersionDevWithTrailingRelease(t *testing.T) {
	// The trailing "-8" after "dev" is dropped.
	assert.Equal(t, "3.9.0-beta+8", NormalizeVersion("3.9dev-8", "8"))
}

func TestNormalizeVersionDevAfterPatch(t *testing.T) {
	// Three components already present: only the pre-release tag is added.
	assert.Equal(t, "1.2.3-beta+5", NormalizeVersion("1.2.3dev", "5"))
}

func TestNormalizeVersionDevAfterSeparator(t *testing.T) {
	// Period precedes "dev": the existing separator supplies the patch slot.
	assert.Equal(t, "1.2.0-beta+3", NormalizeVersion("1.2.dev", "3"))
}

// ---------------------------------------------------------------------------
// OrderingKey
// ---------------------------------------------------------------------------

func TestOrderingKeyMonotonicInRelease(t *testing.T) {
	lower, err := OrderingKey("1.2.3", "9")
	require.NoError(t, err)
	higher, err := OrderingKey("1.2.3", "10")
	require.NoError(t, err)
	assert.Greater(t, higher, lower)
}

func TestOrderingKeyPatchOutweighsRelease(t *testing.T) {
	// A single patch increment outranks any release value below 65536.
	patched, err := OrderingKey("1.2.4", "0")
	require.NoError(t, err)
	released, err := OrderingKey("1.2.3", "65535")
	require.NoError(t, err)
	assert.Greater(t, patched, released)
}

func TestOrderingKeyMonotonicInEachComponent(t *testing.T) {
	base, err := OrderingKey("1.2.3", "4")
	require.NoError(t, err)
	for _, version := range []string{"2.2.3", "1.3.3", "1.2.4"} {
		key, err := OrderingKey(version, "4")
		require.NoError(t, err)
		assert.Greater(t, key, base, "version %s", version)
	}
}

func TestOrderingKeyToleratesMissingPatch(t *testing.T) {
	short, err := OrderingKey("1.0", "1")
	require.NoError(t, err)
	full, err := OrderingKey("1.0.0", "1")
	require.NoError(t, err)
	assert.Equal(t, full, short)
}

func TestOrderingKeyNormalizesDevMarker(t *testing.T) {
	dev, err := OrderingKey("3.9dev-8", "8")
	require.NoError(t, err)
	plain, err := OrderingKey("3.9.0", "8")
	require.NoError(t, err)
	assert.Equal(t, plain, dev)
}

func TestOrderingKeyMalformedVersion(t *testing.T) {
	_, err := OrderingKey("dev", "1")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestOrderingKeyMalformedRelease(t *testing.T) {
	_, err := OrderingKey("1.2.3", "not-a-number")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestOrderingKeyComponentBounds(t *testing.T) {
	_, err := OrderingKey("1.256.0", "1")
	require.Error(t, err)

	_, err = OrderingKey("1.2.3", "65536")
	require.Error(t, err)

	_, err = OrderingKey("255.255.255", "65535")
	require.NoError(t, err)
}

// ---------------------------------------------------------------------------
// SortPackages
// ---------------------------------------------------------------------------

func TestSortPackagesDescending(t *testing.T) {
	packages := []types.Package{
		{Version: "1.0", Release: "1"},
		{Version: "1.0", Release: "2"},
	}
	sorted, err := SortPackages(packages, "descending")
	require.NoError(t, err)
	assert.Equal(t, "2", sorted[0].Release)
	assert.Equal(t, "1", sorted[1].Release)
}

func TestSortPackagesAscending(t *testing.T) {
	packages := []types.Package{
		{Version: "1.0", Release: "2"},
		{Version: "1.0", Release: "1"},
	}
	sorted, err := SortPackages(packages, "ascending")
	require.NoError(t, err)
	assert.Equal(t, "1", sorted[0].Release)
	assert.Equal(t, "2", sorted[1].Release)
}

func TestSortPackagesNumericReleaseOrder(t *testing.T) {
	// "9" must not sort after "10" the way lexical comparison would.
	packages := []types.Package{
		{Version: "1.0.0", Release: "9"},
		{Version: "1.0.0", Release: "10"},
	}
	sorted, err := SortPackages(packages, "ascending")
	require.NoError(t, err)
	assert.Equal(t, "9", sorted[0].Release)
	assert.Equal(t, "10", sorted[1].Release)
}

func TestSortPackagesStableForEqualKeys(t *testing.T) {
	packages := []types.Package{
		{Name: "first", Version: "1.0.0", Release: "1"},
		{Name: "second", Version: "1.0.0", Release: "1"},
		{Name: "third", Version: "1.0.0", Release: "1"},
	}
	sorted, err := SortPackages(packages, "descending")
	require.NoError(t, err)
	assert.Equal(t, "first", sorted[0].Name)
	assert.Equal(t, "second", sorted[1].Name)
	assert.Equal(t, "third", sorted[2].Name)
}

func TestSortPackagesDoesNotModifyInput(t *testing.T) {
	packages := []types.Package{
		{Version: "1.0", Release: "1"},
		{Version: "2.0", Release: "1"},
	}
	_, err := SortPackages(packages, "descending")
	require.NoError(t, err)
	assert.Equal(t, "1.0", packages[0].Version)
}

func TestSortPackagesMalformedVersionIsTerminal(t *testing.T) {
	packages := []types.Package{
		{Version: "dev", Release: "1"},
	}
	_, err := SortPackages(packages, "ascending")
	require.Error(t, err)
}
