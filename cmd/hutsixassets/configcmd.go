package main

import (
	"fmt"
	"os"

	"github.com/hutsix/hutsixassets-go/internal/config"
	"github.com/hutsix/hutsixassets-go/internal/tui"
	"github.com/spf13/cobra"
)

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show, create or edit the configuration file",
	}

	cmd.AddCommand(
		c.configShowCmd(),
		c.configPathCmd(),
		c.configInitCmd(),
		c.configEditCmd(),
	)

	return cmd
}

// configTarget is the file config init and config edit write to
func (c *cli) configTarget() string {
	if c.cfgFile != "" {
		return c.cfgFile
	}
	if used := c.v.ConfigFileUsed(); used != "" {
		return used
	}
	return config.ConfigFilePath()
}

func (c *cli) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *cli) configPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.loadConfig(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.configTarget())
			return nil
		},
	}
}

func (c *cli) configInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.configTarget()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

func (c *cli) configEditCmd() *cobra.Command {
	var accessible bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the configuration file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			path := c.configTarget()
			return tui.Run(tui.Options{
				Config:     cfg,
				Path:       path,
				Accessible: accessible,
				SaveFunc: func(edited *config.Config) error {
					return config.Save(edited, path)
				},
			})
		},
	}

	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain prompts suited to screen readers")

	return cmd
}
