package ports

import (
	"context"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// PackagecloudPort is the wire-level surface of the packagecloud API
// consumed by the app layer. Token sub-resources are addressed by the
// paths.self value returned from a prior call, never by URLs built
// client-side.
type PackagecloudPort interface {
	ListPackages(ctx context.Context, repo string, perPage int) ([]types.Package, error)
	ListMasterTokens(ctx context.Context, repo string) ([]types.MasterToken, error)
	CreateMasterToken(ctx context.Context, repo string, name string) (types.MasterToken, error)
	DestroyToken(ctx context.Context, selfPath string) error
	ListReadTokens(ctx context.Context, masterSelfPath string) ([]types.ReadToken, error)
	CreateReadToken(ctx context.Context, masterSelfPath string, name string) (types.ReadToken, error)
	DestroyReadToken(ctx context.Context, masterSelfPath string, id int64) error
}
