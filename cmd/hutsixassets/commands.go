package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hutsix/hutsixassets-go/internal/app"
	"github.com/hutsix/hutsixassets-go/internal/manifest"
	"github.com/hutsix/hutsixassets-go/internal/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats for the manifest and verify commands
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func (c *cli) assetCmd() *cobra.Command {
	var absolute bool

	cmd := &cobra.Command{
		Use:   "asset <file>",
		Short: "Print the web path of an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext(cmd, a.Config().Render.Timeout)
			defer cancel()

			path, err := a.Resolver().Asset(ctx, args[0], absolute)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&absolute, "absolute", "a", false, "Prefix the site base URL")
	return cmd
}

func (c *cli) existsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <file>",
		Short: "Report whether an asset exists (exit status 1 when it does not)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext(cmd, a.Config().Render.Timeout)
			defer cancel()

			exists, err := a.Resolver().Exists(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), exists)
			if !exists {
				return &exitError{code: 1}
			}
			return nil
		},
	}
}

func (c *cli) embedCmd() *cobra.Command {
	var (
		class string
		icon  bool
	)

	cmd := &cobra.Command{
		Use:   "embed <file>",
		Short: "Print an SVG wrapped for inline use",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := commandContext(cmd, a.Config().Render.Timeout)
			defer cancel()

			embed := a.Resolver().EmbedSvg
			if icon {
				embed = a.Resolver().EmbedSvgIcon
			}

			markup, err := embed(ctx, args[0], class)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), markup)
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "Extra CSS classes")
	cmd.Flags().BoolVar(&icon, "icon", false, "Add the svg-icon class")
	return cmd
}

type manifestReport struct {
	Path    string            `json:"path" yaml:"path"`
	Present bool              `json:"present" yaml:"present"`
	Entries map[string]string `json:"entries" yaml:"entries"`
}

func (c *cli) manifestCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Show the manifest location and its entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			store := a.Resolver().Manifest()
			report := manifestReport{
				Path:    store.Path(),
				Present: a.Resolver().HasManifest(),
				Entries: map[string]string{},
			}

			if report.Present {
				data, err := store.Data()
				if err != nil {
					return err
				}
				report.Entries = data
			}

			if format != formatText {
				return encode(cmd.OutOrStdout(), format, report)
			}

			out := cmd.OutOrStdout()
			state := "missing"
			if report.Present {
				state = "present"
			}
			fmt.Fprintf(out, "Manifest: %s (%s)\n", report.Path, state)
			if !report.Present {
				return nil
			}
			entries := manifest.Manifest(report.Entries)
			fmt.Fprintf(out, "Entries: %d\n", entries.Len())
			for _, k := range entries.Keys() {
				fmt.Fprintf(out, "  %s -> %s\n", k, entries[k])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	return cmd
}

func (c *cli) verifyCmd() *cobra.Command {
	var (
		format     string
		workers    int
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every manifest entry points at an existing asset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts := app.VerifyOptions{Workers: workers}
			if !noProgress {
				opts.Progress = cmd.ErrOrStderr()
			}

			report, err := a.Verify(cmd.Context(), opts)
			if err != nil {
				return err
			}

			if format != formatText {
				if err := encode(cmd.OutOrStdout(), format, report); err != nil {
					return err
				}
			} else {
				printVerifyReport(cmd.OutOrStdout(), report)
			}

			if !report.OK() {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format: text, json or yaml")
	cmd.Flags().IntVarP(&workers, "workers", "j", app.DefaultVerifyWorkers, "Concurrent checks")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
	return cmd
}

func printVerifyReport(w io.Writer, report *app.VerifyReport) {
	for _, r := range report.Results {
		status := "OK"
		if !r.Exists {
			status = "MISSING"
		}
		line := fmt.Sprintf("  %-7s %s -> %s", status, r.Key, r.Value)
		if r.Error != "" {
			line += " (" + r.Error + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "%d entries, %d missing\n", len(report.Results), report.Missing)
}

func (c *cli) renderCmd() *cobra.Command {
	var (
		dataFile string
		outFile  string
		outDir   string
		force    bool
		dryRun   bool
		index    bool
	)

	cmd := &cobra.Command{
		Use:   "render <template>...",
		Short: "Render html/template files with the asset functions",
		Long: `Render html/template files with the asset functions.

A single template is written to stdout or to --output. With --out-dir any
number of templates or directories may be given; directories are searched
for *.tmpl, *.tpl and *.gotmpl files, and the template extension is dropped
from each output name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" && len(args) > 1 {
				return fmt.Errorf("rendering %d templates requires --out-dir", len(args))
			}

			data, err := readTemplateData(dataFile)
			if err != nil {
				return err
			}

			a, err := c.newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			funcs := a.Funcs().WithContext(cmd.Context())

			if outDir == "" {
				text, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read template: %w", err)
				}

				var buf bytes.Buffer
				if err := funcs.Render(&buf, filepath.Base(args[0]), string(text), data); err != nil {
					return err
				}

				if outFile == "" {
					_, err = buf.WriteTo(cmd.OutOrStdout())
					return err
				}
				return os.WriteFile(outFile, buf.Bytes(), 0644)
			}

			sources, err := collectTemplates(args)
			if err != nil {
				return err
			}

			// every template renders before anything is written
			pages := make([]*output.Page, 0, len(sources))
			for _, src := range sources {
				text, err := os.ReadFile(src.path)
				if err != nil {
					return fmt.Errorf("failed to read template: %w", err)
				}

				var buf bytes.Buffer
				if err := funcs.Render(&buf, src.name, string(text), data); err != nil {
					return err
				}

				pages = append(pages, &output.Page{
					Source:  src.path,
					Name:    output.OutputName(src.name),
					Content: buf.Bytes(),
				})
			}

			collector := output.NewCollector(output.CollectorOptions{
				BaseDir: outDir,
				WebRoot: a.Resolver().WebRoot(),
				Enabled: index && !dryRun,
			})
			writer := output.NewWriter(output.WriterOptions{
				BaseDir:   outDir,
				Force:     force,
				DryRun:    dryRun,
				Collector: collector,
			})
			if err := writer.EnsureBaseDir(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			statuses, writeErr := writer.WriteMultiple(cmd.Context(), pages)
			for i, status := range statuses {
				fmt.Fprintf(out, "  %-7s %s\n", status, pages[i].Name)
			}

			// pages written before a failure are still indexed
			if err := collector.Flush(); err != nil {
				return errors.Join(writeErr, fmt.Errorf("failed to write render index: %w", err))
			}
			if writeErr != nil {
				return writeErr
			}

			fmt.Fprintf(out, "%d templates rendered\n", len(pages))
			if collector.IsEnabled() {
				fmt.Fprintf(out, "Index: %s (%d pages)\n", collector.Path(), collector.Count())
			}
			if !dryRun {
				if files, size, err := writer.Stats(); err == nil {
					fmt.Fprintf(out, "%s holds %d files (%d bytes)\n", outDir, files, size)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataFile, "data", "d", "", "YAML or JSON file passed to the template as data")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Write a single template to file instead of stdout")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Render every template into this directory")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files in --out-dir")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render without writing anything")
	cmd.Flags().BoolVar(&index, "index", false, "Write "+output.DefaultIndexFile+" describing the rendered pages")
	cmd.MarkFlagsMutuallyExclusive("output", "out-dir")

	return cmd
}

// templateSource is a template file and its name relative to the argument it came from
type templateSource struct {
	path string
	name string
}

func collectTemplates(args []string) ([]templateSource, error) {
	var sources []templateSource

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		if !info.IsDir() {
			sources = append(sources, templateSource{path: arg, name: filepath.Base(arg)})
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !output.IsTemplate(path) {
				return nil
			}
			rel, err := filepath.Rel(arg, path)
			if err != nil {
				return err
			}
			sources = append(sources, templateSource{path: path, name: filepath.ToSlash(rel)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no templates found in %s", strings.Join(args, ", "))
	}
	return sources, nil
}

func readTemplateData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var data map[string]any
	// YAML is a superset of JSON, so both formats decode here
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}
	return data, nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (use %s, %s or %s)", format, formatText, formatJSON, formatYAML)
	}
}
