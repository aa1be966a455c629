package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pyrite/internal/diag"
	"pyrite/internal/diagfmt"
	"pyrite/internal/driver"
	"pyrite/internal/project"
	"pyrite/internal/source"
)

// colorEnabled resolves the --color persistent flag against the tty.
func colorEnabled(cmd *cobra.Command) (bool, error) {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("unknown color mode %q (must be auto, on or off)", mode)
	}
}

// driverOptions builds driver options from the persistent flags and, when
// a pyrite.toml is reachable from path, the manifest.
func driverOptions(cmd *cobra.Command, path string) (driver.Options, project.Config, error) {
	opts := driver.DefaultOptions()
	cfg := project.Default()

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, cfg, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, cfg, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.Timings = timings

	start := path
	if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
		start = filepath.Dir(path)
	}
	manifest, found, err := project.FindPyriteToml(start)
	if err != nil {
		return opts, cfg, err
	}
	if found {
		cfg, err = project.Load(manifest)
		if err != nil {
			return opts, cfg, err
		}
		opts.Inline = cfg.InlineConfig()
		opts.Perf = cfg.PerfConfig()
		if cfg.Translate.MaxDiagnostics > 0 && !cmd.Root().PersistentFlags().Changed("max-diagnostics") {
			opts.MaxDiagnostics = cfg.Translate.MaxDiagnostics
		}
	}
	return opts, cfg, nil
}

// reportUnits prints every unit's diagnostics and returns the total
// number of errors encountered.
func reportUnits(cmd *cobra.Command, fs *source.FileSet, units []*driver.Unit, format string) (int, error) {
	useColor, err := colorEnabled(cmd)
	if err != nil {
		return 0, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return 0, fmt.Errorf("failed to get quiet flag: %w", err)
	}

	errors := 0
	for _, unit := range units {
		if unit.Bag.HasErrors() {
			for _, d := range unit.Bag.Items() {
				if d.Severity == diag.SevError {
					errors++
				}
			}
		}
		if quiet && !unit.Bag.HasErrors() {
			continue
		}
		if unit.Bag.Len() == 0 {
			continue
		}
		switch format {
		case "pretty":
			diagfmt.Pretty(cmd.OutOrStdout(), unit.Bag, fs, diagfmt.PrettyOpts{
				Color:     useColor,
				ShowFixes: true,
			})
		case "json":
			if err := diagfmt.JSON(cmd.OutOrStdout(), unit.Bag, fs, diagfmt.JSONOpts{
				IncludePositions: true,
			}); err != nil {
				return errors, err
			}
		default:
			return errors, fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	}
	return errors, nil
}

// printTimings writes each unit's phase summary.
func printTimings(cmd *cobra.Command, units []*driver.Unit) {
	for _, unit := range units {
		if unit.Timing == nil {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", unit.Path)
		for _, p := range unit.Timing.Phases {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %7.2f ms\n", p.Name, p.DurationMS)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %7.2f ms\n", "total", unit.Timing.TotalMS)
	}
}
