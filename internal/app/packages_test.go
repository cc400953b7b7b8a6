package app

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzlosh/stackstorm-packagecloud/internal/ports"
	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// fakeClient is an in-memory PackagecloudPort for action tests. It
// records calls so tests can verify the hypermedia paths used.
type fakeClient struct {
	packages     []types.Package
	masterTokens []types.MasterToken
	readTokens   map[string][]types.ReadToken

	listCalls      int
	destroyedPaths []string
	destroyedReads []int64
	createdUnder   []string
	err            error
}

func (f *fakeClient) ListPackages(_ context.Context, repo string, perPage int) ([]types.Package, error) {
	f.listCalls++
	return f.packages, f.err
}

func (f *fakeClient) ListMasterTokens(_ context.Context, repo string) ([]types.MasterToken, error) {
	f.listCalls++
	return f.masterTokens, f.err
}

func (f *fakeClient) CreateMasterToken(_ context.Context, repo string, name string) (types.MasterToken, error) {
	token := types.MasterToken{Name: name, Value: "created-" + name}
	f.masterTokens = append(f.masterTokens, token)
	return token, f.err
}

func (f *fakeClient) DestroyToken(_ context.Context, selfPath string) error {
	f.destroyedPaths = append(f.destroyedPaths, selfPath)
	return f.err
}

func (f *fakeClient) ListReadTokens(_ context.Context, masterSelfPath string) ([]types.ReadToken, error) {
	return f.readTokens[masterSelfPath], f.err
}

func (f *fakeClient) CreateReadToken(_ context.Context, masterSelfPath string, name string) (types.ReadToken, error) {
	f.createdUnder = append(f.createdUnder, masterSelfPath)
	return types.ReadToken{Name: name, Value: "read-" + name}, f.err
}

func (f *fakeClient) DestroyReadToken(_ context.Context, masterSelfPath string, id int64) error {
	f.destroyedReads = append(f.destroyedReads, id)
	return f.err
}

var _ ports.PackagecloudPort = (*fakeClient)(nil)

func TestListPackagesFiltersAndSorts(t *testing.T) {
	client := &fakeClient{packages: []types.Package{
		{Name: "st2", Version: "3.8.0", Release: "1"},
		{Name: "st2", Version: "3.9dev", Release: "8"},
		{Name: "st2", Version: "3.9dev-9", Release: "9"},
		{Name: "other", Version: "3.9.0", Release: "1"},
	}}
	service := NewService(client)

	result, err := service.ListPackages(t.Context(), ListPackagesRequest{
		Repo:         "user/repo",
		Package:      "st2",
		Version:      "3.9",
		SortPackages: true,
		SortType:     "descending",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Fetched)
	require.Len(t, result.Packages, 2)
	assert.Equal(t, "9", result.Packages[0].Release)
	assert.Equal(t, "8", result.Packages[1].Release)
}

func TestListPackagesUnsortedPreservesFetchOrder(t *testing.T) {
	fetched := []types.Package{
		{Name: "a", Version: "2.0.0", Release: "1"},
		{Name: "b", Version: "1.0.0", Release: "1"},
	}
	client := &fakeClient{packages: fetched}
	service := NewService(client)

	result, err := service.ListPackages(t.Context(), ListPackagesRequest{
		Repo:         "user/repo",
		SortPackages: false,
	})
	require.NoError(t, err)
	if diff := cmp.Diff(fetched, result.Packages); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestListPackagesMalformedVersionPropagates(t *testing.T) {
	client := &fakeClient{packages: []types.Package{
		{Name: "bad", Version: "dev", Release: "1"},
	}}
	service := NewService(client)

	_, err := service.ListPackages(t.Context(), ListPackagesRequest{
		Repo:         "user/repo",
		SortPackages: true,
	})
	require.Error(t, err)
}
