package app

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

// ListMasterTokens lists every master token in the repository, including
// the read tokens nested under each.
func (s Service) ListMasterTokens(ctx context.Context, req MasterTokenRequest) ([]types.MasterToken, error) {
	assert.NotEmpty(ctx, req.Repo, "repo must be set")
	return s.Client.ListMasterTokens(ctx, req.Repo)
}

// GetMasterToken looks up a master token by name with a linear scan of
// the listing; the API offers no server-side lookup-by-name. A miss is
// an absence, not an error: callers decide whether it is fatal. When
// duplicates share a name the first match in iteration order wins.
func (s Service) GetMasterToken(ctx context.Context, req MasterTokenRequest) (types.MasterToken, bool, error) {
	assert.NotEmpty(ctx, req.Repo, "repo must be set")
	assert.NotEmpty(ctx, req.Name, "token name must be set")

	tokens, err := s.Client.ListMasterTokens(ctx, req.Repo)
	if err != nil {
		return types.MasterToken{}, false, err
	}
	for _, token := range tokens {
		if token.Name == req.Name {
			return token, true, nil
		}
	}
	return types.MasterToken{}, false, nil
}

// CreateMasterToken creates a named master token in the repository.
func (s Service) CreateMasterToken(ctx context.Context, req MasterTokenRequest) (types.MasterToken, error) {
	assert.NotEmpty(ctx, req.Repo, "repo must be set")
	assert.NotEmpty(ctx, req.Name, "token name must be set")
	return s.Client.CreateMasterToken(ctx, req.Repo, req.Name)
}

// DestroyMasterToken looks up a master token by name and deletes it via
// its paths.self link. A missing name is a terminal error.
func (s Service) DestroyMasterToken(ctx context.Context, req MasterTokenRequest) error {
	token, found, err := s.GetMasterToken(ctx, req)
	if err != nil {
		return err
	}
	if !found {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no master token found for: %s", req.Name))
	}
	log.Debug().Str("name", token.Name).Str("self", token.Paths.Self).Msg("master token located")
	return s.Client.DestroyToken(ctx, token.Paths.Self)
}

// ListReadTokens lists the read tokens under the named master token.
func (s Service) ListReadTokens(ctx context.Context, req ReadTokenRequest) ([]types.ReadToken, error) {
	master, err := s.requireMasterToken(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Client.ListReadTokens(ctx, master.Paths.Self)
}

// CreateReadToken creates a named read token under the named master
// token. A missing master token is a terminal error.
func (s Service) CreateReadToken(ctx context.Context, req ReadTokenRequest) (types.ReadToken, error) {
	assert.NotEmpty(ctx, req.Name, "read token name must be set")
	master, err := s.requireMasterToken(ctx, req)
	if err != nil {
		return types.ReadToken{}, err
	}
	return s.Client.CreateReadToken(ctx, master.Paths.Self, req.Name)
}

// DestroyReadToken looks up a read token by name under the named master
// token and deletes it. The destroyed token is returned so callers can
// report its value. Missing master or read token is a terminal error.
func (s Service) DestroyReadToken(ctx context.Context, req ReadTokenRequest) (types.ReadToken, error) {
	assert.NotEmpty(ctx, req.Name, "read token name must be set")
	master, err := s.requireMasterToken(ctx, req)
	if err != nil {
		return types.ReadToken{}, err
	}
	tokens, err := s.Client.ListReadTokens(ctx, master.Paths.Self)
	if err != nil {
		return types.ReadToken{}, err
	}
	for _, token := range tokens {
		if token.Name == req.Name {
			log.Debug().Str("name", token.Name).Int64("id", token.ID).Msg("read token located")
			if err := s.Client.DestroyReadToken(ctx, master.Paths.Self, token.ID); err != nil {
				return types.ReadToken{}, err
			}
			return token, nil
		}
	}
	return types.ReadToken{}, errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no read token found for: %s", req.Name))
}

func (s Service) requireMasterToken(ctx context.Context, req ReadTokenRequest) (types.MasterToken, error) {
	token, found, err := s.GetMasterToken(ctx, MasterTokenRequest{Repo: req.Repo, Name: req.MasterTokenName})
	if err != nil {
		return types.MasterToken{}, err
	}
	if !found {
		return types.MasterToken{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no master token found for: %s", req.MasterTokenName))
	}
	return token, nil
}
