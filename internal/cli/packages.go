package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/nzlosh/stackstorm-packagecloud/internal/app"
	"github.com/nzlosh/stackstorm-packagecloud/internal/types"
)

type packagesListOptions struct {
	Repo          string
	User          string
	Repository    string
	Package       string
	DistroVersion string
	Version       string
	Release       string
	PerPage       int
	Sort          bool
	SortType      string
	Format        string
}

func newPackagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "packages",
		Short: "Work with hosted package listings",
	}
	cmd.AddCommand(newPackagesListCommand())
	return cmd
}

func newPackagesListCommand() *cobra.Command {
	opts := packagesListOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List, filter and sort packages in a repository",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPackagesList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Repo, "repo", "", "Repository as user/repo")
	cmd.Flags().StringVar(&opts.User, "user", "", "Repository owner (alternative to --repo)")
	cmd.Flags().StringVar(&opts.Repository, "repository", "", "Repository name (alternative to --repo)")
	cmd.Flags().StringVar(&opts.Package, "package", "", "Exact package name filter")
	cmd.Flags().StringVar(&opts.DistroVersion, "distro-version", "", "Exact distro version filter")
	cmd.Flags().StringVar(&opts.Version, "version", "", "Version prefix filter")
	cmd.Flags().StringVar(&opts.Release, "release", "", "Exact release filter")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", 200, "Page size for the listing API")
	cmd.Flags().BoolVar(&opts.Sort, "sort", true, "Sort packages by version ordering key")
	cmd.Flags().StringVar(&opts.SortType, "sort-type", "descending", "Sort direction (ascending or descending)")
	cmd.Flags().StringVar(&opts.Format, "format", "json", "Output format (json or yaml)")

	_ = viper.BindPFlag("repo", cmd.Flags().Lookup("repo"))
	_ = viper.BindPFlag("user", cmd.Flags().Lookup("user"))
	_ = viper.BindPFlag("repository", cmd.Flags().Lookup("repository"))
	_ = viper.BindPFlag("per_page", cmd.Flags().Lookup("per-page"))
	_ = viper.BindPFlag("sort_packages", cmd.Flags().Lookup("sort"))
	_ = viper.BindPFlag("sort_type", cmd.Flags().Lookup("sort-type"))

	return cmd
}

func runPackagesList(ctx context.Context, cmd *cobra.Command, opts packagesListOptions) error {
	repo, err := resolveRepo(
		resolveString(cmd, opts.Repo, "repo", "repo"),
		resolveString(cmd, opts.User, "user", "user"),
		resolveString(cmd, opts.Repository, "repository", "repository"),
	)
	if err != nil {
		return err
	}
	service, err := newService()
	if err != nil {
		return err
	}
	result, err := service.ListPackages(ctx, app.ListPackagesRequest{
		Repo:          repo,
		Package:       opts.Package,
		DistroVersion: opts.DistroVersion,
		Version:       opts.Version,
		Release:       opts.Release,
		PerPage:       resolveInt(cmd, opts.PerPage, "per_page", "per-page"),
		SortPackages:  resolveBool(cmd, opts.Sort, "sort_packages", "sort"),
		SortType:      resolveString(cmd, opts.SortType, "sort_type", "sort-type"),
	})
	if err != nil {
		return err
	}
	encoded, err := encodePackages(result.Packages, opts.Format)
	if err != nil {
		return err
	}
	fmt.Print(encoded)
	if verbose() {
		// stderr keeps the listing on stdout parseable.
		fmt.Fprintf(os.Stderr, "%d of %d fetched packages matched\n", len(result.Packages), result.Fetched)
	}
	return nil
}

func encodePackages(packages []types.Package, format string) (string, error) {
	switch format {
	case "json", "":
		data, err := json.MarshalIndent(packages, "", "  ")
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode package listing").
				WithCause(err)
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(packages)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to encode package listing").
				WithCause(err)
		}
		return string(data), nil
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported output format %q", format))
	}
}
