package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hutsix/hutsixassets-go/internal/app"
	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/domain"
	"github.com/hutsix/hutsixassets-go/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exitError ends the process with code without printing anything further
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}

// cli carries the state shared by all subcommands of one invocation
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	noCache bool

	// fetcher replaces the HTTP client in tests
	fetcher domain.Fetcher
}

func newRootCmd() *cobra.Command {
	return newCLI().rootCmd()
}

func newCLI() *cli {
	return &cli{v: viper.New()}
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hutsixassets",
		Short: "Resolve, check and embed site assets",
		Long: `hutsixassets resolves logical asset names to web paths.

A reference is looked up on disk under the web root first, then in the
build manifest (hashed filenames), and absolute URLs are checked with a HEAD request.
The same resolver backs the asset, asset_exists, embedSvg, embedSvgIcon and
has_manifest template functions used by the render command.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./hutsixassets.yaml or ~/.hutsixassets/hutsixassets.yaml)")
	flags.String("base-path", "", "Application base path")
	flags.String("web-path", "", "Web root below the base path")
	flags.String("base-url", "", "Site base URL for absolute asset paths")
	flags.String("manifest", "", "Manifest path relative to the web root")
	flags.Duration("timeout", 0, "Remote request timeout")
	flags.Bool("insecure", false, "Skip TLS certificate verification for remote assets")
	flags.BoolVar(&c.noCache, "no-cache", false, "Disable the remote asset cache")
	flags.String("missing", "", "Missing asset policy for templates: error or skip")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Verbose output")

	_ = c.v.BindPFlag("site.base_path", flags.Lookup("base-path"))
	_ = c.v.BindPFlag("site.web_path", flags.Lookup("web-path"))
	_ = c.v.BindPFlag("site.base_url", flags.Lookup("base-url"))
	_ = c.v.BindPFlag("manifest.path", flags.Lookup("manifest"))
	_ = c.v.BindPFlag("remote.timeout", flags.Lookup("timeout"))
	_ = c.v.BindPFlag("remote.insecure_skip_verify", flags.Lookup("insecure"))
	_ = c.v.BindPFlag("render.missing", flags.Lookup("missing"))

	root.AddCommand(
		c.assetCmd(),
		c.existsCmd(),
		c.embedCmd(),
		c.manifestCmd(),
		c.verifyCmd(),
		c.renderCmd(),
		c.doctorCmd(),
		c.cacheCmd(),
		c.configCmd(),
		versionCmd(),
	)

	return root
}

// loadConfig reads the config file, environment and bound flags
func (c *cli) loadConfig() (*config.Config, error) {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	}

	cfg, err := config.LoadFrom(c.v)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.noCache {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

// newApp builds the resolver stack for one command
func (c *cli) newApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	return app.New(app.Options{
		Config:    cfg,
		Verbose:   c.verbose,
		LogOutput: cmd.ErrOrStderr(),
		Fetcher:   c.fetcher,
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	}
}

// commandContext returns the command context, bounded by timeout when positive
func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
