package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nzlosh/stackstorm-packagecloud/internal/app"
)

type readTokenOptions struct {
	Repo        string
	User        string
	Repository  string
	MasterToken string
	Name        string
}

func newReadTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read-token",
		Short: "Manage read tokens scoped under a master token",
	}
	cmd.AddCommand(newReadTokenListCommand())
	cmd.AddCommand(newReadTokenCreateCommand())
	cmd.AddCommand(newReadTokenDestroyCommand())
	return cmd
}

func addReadTokenFlags(cmd *cobra.Command, opts *readTokenOptions, withName bool) {
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository as user/repo")
	cmd.Flags().StringVar(&opts.User, "user", "", "Repository owner (alternative to --repo)")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository name (alternative to --repo)")
	cmd.Flags().StringVar(&opts.MasterToken, "master-token", "", "Master token name")
	_ = cmd.MarkFlagRequired("master-token")
	if withName {
		cmd.Flags().StringVar(&opts.Name, "name", "", "Read token name")
		_ = cmd.MarkFlagRequired("name")
	}
}

func newReadTokenListCommand() *cobra.Command {
	opts := readTokenOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List read tokens under a master token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReadTokenList(cmd.Context(), cmd, opts)
		},
	}
	addReadTokenFlags(cmd, &opts, false)
	return cmd
}

func newReadTokenCreateCommand() *cobra.Command {
	opts := readTokenOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a named read token under a master token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReadTokenCreate(cmd.Context(), cmd, opts)
		},
	}
	addReadTokenFlags(cmd, &opts, true)
	return cmd
}

func newReadTokenDestroyCommand() *cobra.Command {
	opts := readTokenOptions{}
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a named read token under a master token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReadTokenDestroy(cmd.Context(), cmd, opts)
		},
	}
	addReadTokenFlags(cmd, &opts, true)
	return cmd
}

func runReadTokenList(ctx context.Context, cmd *cobra.Command, opts readTokenOptions) error {
	repo, service, err := readTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	tokens, err := service.ListReadTokens(ctx, app.ReadTokenRequest{
		Repo:            repo,
		MasterTokenName: opts.MasterToken,
	})
	if err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Read tokens for %s under %s:\n", repo, opts.MasterToken)
		for _, token := range tokens {
			fmt.Printf("  { id: %d, name: %s, value: %s }\n", token.ID, token.Name, token.Value)
		}
		return nil
	}
	for _, token := range tokens {
		fmt.Println(token.Value)
	}
	return nil
}

func runReadTokenCreate(ctx context.Context, cmd *cobra.Command, opts readTokenOptions) error {
	repo, service, err := readTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	token, err := service.CreateReadToken(ctx, app.ReadTokenRequest{
		Repo:            repo,
		MasterTokenName: opts.MasterToken,
		Name:            opts.Name,
	})
	if err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Read token %s with value %s created", token.Name, token.Value)
		return nil
	}
	fmt.Print(token.Value)
	return nil
}

func runReadTokenDestroy(ctx context.Context, cmd *cobra.Command, opts readTokenOptions) error {
	repo, service, err := readTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	token, err := service.DestroyReadToken(ctx, app.ReadTokenRequest{
		Repo:            repo,
		MasterTokenName: opts.MasterToken,
		Name:            opts.Name,
	})
	if err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Token destroyed, name: %s\n", token.Name)
	}
	return nil
}

func readTokenSetup(cmd *cobra.Command, opts readTokenOptions) (string, app.Service, error) {
	repo, err := resolveRepo(
		resolveString(cmd, opts.Repo, "repo", "repo"),
		resolveString(cmd, opts.User, "user", "user"),
		resolveString(cmd, opts.Repository, "repository", "repository"),
	)
	if err != nil {
		return "", app.Service{}, err
	}
	service, err := newService()
	if err != nil {
		return "", app.Service{}, err
	}
	return repo, service, nil
}
