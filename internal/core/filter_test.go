package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

func TestFilterPackagesVersionPrefix(t *testing.T) {
	packages := []types.Package{
		{Name: "a", Version: "2.0"},
		{Name: "b", Version: "2.1"},
		{Name: "c", Version: "3.0"},
	}
	filtered := FilterPackages(packages, types.PackageFilter{VersionPrefix: "2."})
	if diff := cmp.Diff([]types.Package{packages[0], packages[1]}, filtered); diff != "" {
		t.Fatalf("unexpected filter result (-want +got):\n%s", diff)
	}
}

func TestFilterPackagesNoCriteria(t *testing.T) {
	packages := []types.Package{
		{Name: "a"},
		{Name: "b"},
	}
	filtered := FilterPackages(packages, types.PackageFilter{})
	assert.Len(t, filtered, 2)
}

func TestFilterPackagesAllCriteriaMustMatch(t *testing.T) {
	packages := []types.Package{
		{Name: "st2", DistroVersion: "ubuntu/focal", Version: "3.9.0", Release: "8"},
		{Name: "st2", DistroVersion: "ubuntu/jammy", Version: "3.9.0", Release: "8"},
		{Name: "st2chatops", DistroVersion: "ubuntu/focal", Version: "3.9.0", Release: "8"},
	}
	filtered := FilterPackages(packages, types.PackageFilter{
		Name:          "st2",
		DistroVersion: "ubuntu/focal",
		VersionPrefix: "3.9",
		Release:       "8",
	})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "st2", filtered[0].Name)
	assert.Equal(t, "ubuntu/focal", filtered[0].DistroVersion)
}

func TestFilterPackagesReleaseExactMatch(t *testing.T) {
	packages := []types.Package{
		{Name: "a", Release: "8"},
		{Name: "b", Release: "88"},
	}
	filtered := FilterPackages(packages, types.PackageFilter{Release: "8"})
	assert.Len(t, filtered, 1)
	assert.Equal(t, "a", filtered[0].Name)
}

func TestFilterPackagesPreservesDuplicates(t *testing.T) {
	packages := []types.Package{
		{Name: "a", Version: "1.0"},
		{Name: "a", Version: "1.0"},
	}
	filtered := FilterPackages(packages, types.PackageFilter{Name: "a"})
	assert.Len(t, filtered, 2)
}
