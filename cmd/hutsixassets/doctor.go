package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hutsix/hutsixassets-go/internal/assets"
	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/utils"
	"github.com/spf13/cobra"
)

func (c *cli) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the asset setup",
		Long:  "Verifies the configuration, web root, manifest and cache directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Checking asset setup...")

			fmt.Fprint(out, "  Config: ")
			cfg, err := c.loadConfig()
			if err != nil {
				fmt.Fprintf(out, "FAILED (%v)\n", err)
				return &exitError{code: 1}
			}
			if used := c.v.ConfigFileUsed(); used != "" && utils.PathExists(used) {
				fmt.Fprintf(out, "OK (%s)\n", used)
			} else {
				fmt.Fprintln(out, "OK (defaults)")
			}

			resolver, err := assets.NewResolver(assets.Options{
				BasePath:     cfg.Site.BasePath,
				WebPath:      cfg.Site.WebPath,
				BaseURL:      cfg.Site.BaseURL,
				ManifestPath: cfg.Manifest.Path,
			}, nil)
			if err != nil {
				fmt.Fprintf(out, "  Web root: FAILED (%v)\n", err)
				return &exitError{code: 1}
			}

			allPassed := runChecks(out, cfg, resolver)

			fmt.Fprintln(out)
			if !allPassed {
				fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
				return &exitError{code: 1}
			}
			fmt.Fprintln(out, "All critical checks passed!")
			return nil
		},
	}
}

// runChecks prints one line per check and reports whether the critical ones passed
func runChecks(out io.Writer, cfg *config.Config, resolver *assets.Resolver) bool {
	allPassed := true

	fmt.Fprint(out, "  Web root: ")
	if info, err := os.Stat(resolver.WebRoot()); err == nil && info.IsDir() {
		fmt.Fprintf(out, "OK (%s)\n", resolver.WebRoot())
	} else {
		fmt.Fprintf(out, "FAILED (%s is not a directory)\n", resolver.WebRoot())
		allPassed = false
	}

	fmt.Fprint(out, "  Manifest: ")
	store := resolver.Manifest()
	if !resolver.HasManifest() {
		fmt.Fprintf(out, "NOT FOUND (%s; only direct files will resolve)\n", store.Path())
	} else if data, err := store.Data(); err != nil {
		fmt.Fprintf(out, "FAILED (%v)\n", err)
		allPassed = false
	} else {
		fmt.Fprintf(out, "OK (%d entries)\n", data.Len())
	}

	fmt.Fprint(out, "  Base URL: ")
	if cfg.Site.BaseURL != "" {
		fmt.Fprintf(out, "OK (%s)\n", cfg.Site.BaseURL)
	} else {
		fmt.Fprintln(out, "WARN (not set; absolute asset paths will be site-relative)")
	}

	fmt.Fprint(out, "  TLS verification: ")
	if cfg.Remote.InsecureSkipVerify {
		fmt.Fprintln(out, "WARN (disabled)")
	} else {
		fmt.Fprintln(out, "OK")
	}

	fmt.Fprint(out, "  Cache directory: ")
	switch {
	case !cfg.Cache.Enabled:
		fmt.Fprintln(out, "OK (cache disabled)")
	case cfg.Cache.InMemory:
		fmt.Fprintln(out, "OK (in memory)")
	default:
		bc, dir, err := openCacheDir(cfg)
		switch {
		case errors.Is(err, errNoCacheDir):
			fmt.Fprintln(out, "WARN (will be created on first use)")
		case err != nil:
			fmt.Fprintf(out, "WARN (%v)\n", err)
		default:
			stats := bc.Stats()
			_ = bc.Close()
			fmt.Fprintf(out, "OK (%s, %d entries, %d bytes)\n", dir, stats.Entries, stats.Bytes())
		}
	}

	return allPassed
}
