package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nzlosh/stackstorm-packagecloud/internal/adapters"
	"github.com/nzlosh/stackstorm-packagecloud/internal/app"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "PACKAGECLOUD"

type RootConfig struct {
	ConfigFile string
	LogLevel   string
	APIToken   string
	Host       string
	Debug      bool
	Concise    bool
	TimeoutSec int
	Retries    int
	RetryDelay int
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:     "packagecloud",
		Short:   "Manage packagecloud.io access tokens and package listings",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"), viper.GetBool("debug"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "info", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.APIToken, "api-token", "", "Packagecloud API token")
	cmd.PersistentFlags().StringVar(&cfg.Host, "host", "https://packagecloud.io", "Packagecloud host or base URL (scheme defaults to https)")
	cmd.PersistentFlags().BoolVar(&cfg.Debug, "debug", false, "Log each API request before it is issued")
	cmd.PersistentFlags().BoolVar(&cfg.Concise, "concise", false, "Reduce output to the bare result value")
	cmd.PersistentFlags().IntVar(&cfg.TimeoutSec, "http-timeout", 60, "API HTTP timeout in seconds (0 = default)")
	cmd.PersistentFlags().IntVar(&cfg.Retries, "http-retries", 3, "API request attempts before giving up (0 = default)")
	cmd.PersistentFlags().IntVar(&cfg.RetryDelay, "http-retry-delay-ms", 1000, "Delay between API request attempts in ms (0 = default)")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("api_token", cmd.PersistentFlags().Lookup("api-token"))
	_ = viper.BindPFlag("host", cmd.PersistentFlags().Lookup("host"))
	_ = viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("concise", cmd.PersistentFlags().Lookup("concise"))
	_ = viper.BindPFlag("http_timeout_sec", cmd.PersistentFlags().Lookup("http-timeout"))
	_ = viper.BindPFlag("http_retries", cmd.PersistentFlags().Lookup("http-retries"))
	_ = viper.BindPFlag("http_retry_delay_ms", cmd.PersistentFlags().Lookup("http-retry-delay-ms"))

	cmd.AddCommand(newPackagesCommand())
	cmd.AddCommand(newMasterTokenCommand())
	cmd.AddCommand(newReadTokenCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("packagecloud")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/packagecloud")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

func setupLogging(level string, debug bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newService builds the action service from the resolved global
// configuration. The persistent flags are bound to viper, so flag, env
// and config-file values all arrive through the same keys.
func newService() (app.Service, error) {
	apiToken := viper.GetString("api_token")
	if strings.TrimSpace(apiToken) == "" {
		return app.Service{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("api token must be set")
	}
	adapter := adapters.NewPackagecloudAdapter(
		viper.GetString("host"),
		apiToken,
		viper.GetInt("http_timeout_sec"),
		viper.GetInt("http_retries"),
		viper.GetInt("http_retry_delay_ms"),
	)
	return app.NewService(adapter), nil
}

// verbose reports whether full human-readable output is enabled; the
// concise flag reduces output to the bare result value.
func verbose() bool {
	return !viper.GetBool("concise")
}

// resolveRepo accepts the repository either combined ("user/repo") or as
// separate user and repository fields.
func resolveRepo(repo string, user string, repository string) (string, error) {
	repo = strings.TrimSpace(repo)
	if repo != "" {
		return repo, nil
	}
	user = strings.TrimSpace(user)
	repository = strings.TrimSpace(repository)
	if user != "" && repository != "" {
		return fmt.Sprintf("%s/%s", user, repository), nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg("repository must be set (--repo user/repo, or --user and --repository)")
}

func exitCodeForError(err error) int {
	code := errbuilder.CodeOf(err)
	switch code {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
