package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nzlosh/stackstorm-packagecloud/internal/app"
)

type masterTokenOptions struct {
	Repo       string
	User       string
	Repository string
	Name       string
}

func newMasterTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "master-token",
		Short: "Manage repository master tokens",
	}
	cmd.AddCommand(newMasterTokenListCommand())
	cmd.AddCommand(newMasterTokenGetCommand())
	cmd.AddCommand(newMasterTokenCreateCommand())
	cmd.AddCommand(newMasterTokenDestroyCommand())
	return cmd
}

func addMasterTokenFlags(cmd *cobra.Command, opts *masterTokenOptions, withName bool) {
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository as user/repo")
	cmd.Flags().StringVar(&opts.User, "user", "", "Repository owner (alternative to --repo)")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository name (alternative to --repo)")
	if withName {
		cmd.Flags().StringVar(&opts.Name, "name", "", "Master token name")
		_ = cmd.MarkFlagRequired("name")
	}
}

func newMasterTokenListCommand() *cobra.Command {
	opts := masterTokenOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all master tokens in a repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMasterTokenList(cmd.Context(), cmd, opts)
		},
	}
	addMasterTokenFlags(cmd, &opts, false)
	return cmd
}

func newMasterTokenGetCommand() *cobra.Command {
	opts := masterTokenOptions{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print a master token value by name",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMasterTokenGet(cmd.Context(), cmd, opts)
		},
	}
	addMasterTokenFlags(cmd, &opts, true)
	return cmd
}

func newMasterTokenCreateCommand() *cobra.Command {
	opts := masterTokenOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a named master token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMasterTokenCreate(cmd.Context(), cmd, opts)
		},
	}
	addMasterTokenFlags(cmd, &opts, true)
	return cmd
}

func newMasterTokenDestroyCommand() *cobra.Command {
	opts := masterTokenOptions{}
	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy a named master token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMasterTokenDestroy(cmd.Context(), cmd, opts)
		},
	}
	addMasterTokenFlags(cmd, &opts, true)
	return cmd
}

func runMasterTokenList(ctx context.Context, cmd *cobra.Command, opts masterTokenOptions) error {
	repo, service, err := masterTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	tokens, err := service.ListMasterTokens(ctx, app.MasterTokenRequest{Repo: repo})
	if err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Tokens for %s:\n", repo)
		for _, token := range tokens {
			fmt.Printf("\n  %s (%s)\n", token.Name, token.Value)
			fmt.Println("  read tokens:")
			for _, read := range token.ReadTokens {
				fmt.Printf("    { id: %d, name: %s, value: %s }\n", read.ID, read.Name, read.Value)
			}
		}
		return nil
	}
	for _, token := range tokens {
		fmt.Println(token.Value)
	}
	return nil
}

func runMasterTokenGet(ctx context.Context, cmd *cobra.Command, opts masterTokenOptions) error {
	repo, service, err := masterTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	token, found, err := service.GetMasterToken(ctx, app.MasterTokenRequest{Repo: repo, Name: opts.Name})
	if err != nil {
		return err
	}
	if !found {
		// Absence is reported, not fatal: callers decide what a miss means.
		fmt.Print("No master token found!")
		return nil
	}
	fmt.Print(token.Value)
	return nil
}

func runMasterTokenCreate(ctx context.Context, cmd *cobra.Command, opts masterTokenOptions) error {
	repo, service, err := masterTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	token, err := service.CreateMasterToken(ctx, app.MasterTokenRequest{Repo: repo, Name: opts.Name})
	if err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Master token %s with value %s created", token.Name, token.Value)
		return nil
	}
	fmt.Print(token.Value)
	return nil
}

func runMasterTokenDestroy(ctx context.Context, cmd *cobra.Command, opts masterTokenOptions) error {
	repo, service, err := masterTokenSetup(cmd, opts)
	if err != nil {
		return err
	}
	if err := service.DestroyMasterToken(ctx, app.MasterTokenRequest{Repo: repo, Name: opts.Name}); err != nil {
		return err
	}
	if verbose() {
		fmt.Printf("Token destroyed, name: %s\n", opts.Name)
	}
	return nil
}

func masterTokenSetup(cmd *cobra.Command, opts masterTokenOptions) (string, app.Service, error) {
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
