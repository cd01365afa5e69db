package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hutsix/hutsixassets-go/internal/cache"
	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/utils"
	"github.com/spf13/cobra"
)

var errNoCacheDir = errors.New("no cache directory")

type cacheReport struct {
	Directory   string `json:"directory" yaml:"directory"`
	cache.Stats `yaml:",inline"`
}

func (c *cli) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the remote asset cache",
	}

	cmd.AddCommand(c.cacheStatsCmd(), c.cacheClearCmd())
	return cmd
}

func (c *cli) cacheStatsCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how many remote assets are cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			bc, dir, err := openCacheDir(cfg)
			if err != nil {
				return err
			}
			defer bc.Close()

			report := cacheReport{Directory: dir, Stats: bc.Stats()}
			if format != formatText {
				return encode(cmd.OutOrStdout(), format, report)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache: %s\n", report.Directory)
			fmt.Fprintf(out, "Entries: %d\n", report.Entries)
			fmt.Fprintf(out, "Size: %d bytes\n", report.Bytes())
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

func (c *cli) cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached remote asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			bc, dir, err := openCacheDir(cfg)
			if err != nil {
				return err
			}
			defer bc.Close()

			entries := bc.Size()
			if err := bc.Clear(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d entries from %s\n", entries, dir)
			return nil
		},
	}
}

// openCacheDir opens the on-disk cache named by cfg. Disabled and in-memory
// caches have nothing to inspect.
func openCacheDir(cfg *config.Config) (*cache.BadgerCache, string, error) {
	switch {
	case !cfg.Cache.Enabled:
		return nil, "", fmt.Errorf("%w: cache is disabled", errNoCacheDir)
	case cfg.Cache.InMemory:
		return nil, "", fmt.Errorf("%w: cache is in memory", errNoCacheDir)
	}

	dir := utils.ExpandPath(cfg.Cache.Directory)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, "", fmt.Errorf("%w: %s does not exist", errNoCacheDir, dir)
	}

	bc, err := cache.NewBadgerCache(cache.Options{Directory: dir})
	if err != nil {
		return nil, "", fmt.Errorf("failed to open cache %s: %w", dir, err)
	}
	return bc, dir, nil
}
