package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"prism/internal/config"
	"prism/internal/diag"
	"prism/internal/diagfmt"
	"prism/internal/driver"
)

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [flags] <model.pm>...",
		Short: "Emit runtime code and declarations for program models",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runEmit,
	}
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().Bool("dts", true, "emit a .d.ts declarations file next to the runtime output")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", false, "reuse outputs of unchanged inputs")
	cmd.Flags().String("cache-dir", "", "output cache directory (default: user cache dir)")
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|json)")
	cmd.Flags().Bool("fatal", false, "treat unrepresentable member types as errors")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("quiet", false, "do not list written files")
	cmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

func runEmit(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	outDir, err := flags.GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{Config: &cfg}
	if opts.Cache, err = openCache(cmd); err != nil {
		return err
	}

	uiValue, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	var results []*driver.Result
	var compileErr error
	if shouldUseTUI(mode, cmd.OutOrStdout()) {
		results, compileErr = compileWithUI(cmd.Context(), cmd.OutOrStdout(), args, jobs, opts)
	} else {
		results, compileErr = driver.CompileAll(cmd.Context(), args, jobs, opts)
	}

	all := diag.NewBag(0)
	failed := compileErr != nil
	for i, res := range results {
		if res == nil {
			continue
		}
		all.Merge(res.Bag)
		if res.Bag.HasErrors() {
			failed = true
			continue
		}
		written, err := driver.WriteOutputs(res, outDir)
		if err != nil {
			return fmt.Errorf("%s: %w", args[i], err)
		}
		if !quiet {
			listing := cmd.OutOrStdout()
			if format == "json" {
				listing = cmd.ErrOrStderr()
			}
			for _, path := range written {
				note := ""
				if res.Cached {
					note = " (cached)"
				}
				fmt.Fprintf(listing, "wrote %s%s\n", path, note)
			}
		}
		if showTimings && res.Timer != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s ", args[i])
			fmt.Fprint(cmd.ErrOrStderr(), res.Timer.Summary())
		}
	}

	if err := printDiagnostics(cmd, all, format, withNotes); err != nil {
		return err
	}
	// model errors are already reported as diagnostics
	if compileErr != nil && !all.HasErrors() {
		return compileErr
	}
	if failed {
		return errEmitFailed
	}
	return nil
}

var errEmitFailed = errors.New("emit failed")

// loadConfig reads --config or discovers prism.toml from the working
// directory, then applies flags that override configuration.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	var cfg config.Config
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		var wd string
		if wd, err = os.Getwd(); err == nil {
			cfg, err = config.Discover(wd)
		}
	}
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("dts") {
		if cfg.Output.Declarations, err = flags.GetBool("dts"); err != nil {
			return config.Config{}, err
		}
	}
	if flags.Changed("fatal") {
		if cfg.Diagnostics.Fatal, err = flags.GetBool("fatal"); err != nil {
			return config.Config{}, err
		}
	}
	return cfg, nil
}

func openCache(cmd *cobra.Command) (*driver.OutputCache, error) {
	enabled, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	dir, err := cmd.Flags().GetString("cache-dir")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache-dir flag: %w", err)
	}
	if !enabled && dir == "" {
		return nil, nil
	}
	return driver.OpenOutputCache(dir)
}

func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, format string, withNotes bool) error {
	bag.Sort()
	if format == "json" {
		return diagfmt.JSON(cmd.OutOrStdout(), bag, diagfmt.JSONOpts{IncludeNotes: withNotes})
	}
	out := cmd.ErrOrStderr()
	colored, err := useColor(cmd, fileOf(out))
	if err != nil {
		return err
	}
	prev := color.NoColor
	color.NoColor = !colored
	defer func() { color.NoColor = prev }()
	return diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{Color: colored, ShowNotes: withNotes})
}

func fileOf(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
