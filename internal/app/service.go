package app

import (
	"github.com/nzlosh/stackstorm-packagecloud/internal/ports"
)

// Service implements the packagecloud actions on top of a wire-level
// port. Nothing is cached between calls: every token lookup re-fetches
// the full listing so results never go stale against server state.
type Service struct {
	Client ports.PackagecloudPort
}

func NewService(client ports.PackagecloudPort) Service {
	return Service{Client: client}
}
