package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"pyrite/internal/driver"
	"pyrite/internal/hir"
	"pyrite/internal/prof"
	"pyrite/internal/source"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] <file.py|directory>",
	Short: "Run the full translation pass sequence",
	Long:  `Run the surface gate, lowering and every analysis pass over a Python source file or all *.py files within a directory`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslate,
}

func init() {
	translateCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	translateCmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	translateCmd.Flags().Bool("emit-hir", false, "dump the lowered representation after successful analysis")
	translateCmd.Flags().Bool("disk-cache", false, "enable the persistent result cache")
	translateCmd.Flags().Bool("decisions", false, "print the inlining decision for every function")
	translateCmd.Flags().String("cpuprofile", "", "write a CPU profile to the given file")
	translateCmd.Flags().String("memprofile", "", "write a heap profile to the given file")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	emitHir, err := cmd.Flags().GetBool("emit-hir")
	if err != nil {
		return fmt.Errorf("failed to get emit-hir flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	showDecisions, err := cmd.Flags().GetBool("decisions")
	if err != nil {
		return fmt.Errorf("failed to get decisions flag: %w", err)
	}

	cpuProfile, err := cmd.Flags().GetString("cpuprofile")
	if err != nil {
		return fmt.Errorf("failed to get cpuprofile flag: %w", err)
	}
	memProfile, err := cmd.Flags().GetString("memprofile")
	if err != nil {
		return fmt.Errorf("failed to get memprofile flag: %w", err)
	}

	opts, cfg, err := driverOptions(cmd, path)
	if err != nil {
		return err
	}
	if cpuProfile != "" {
		stop, profErr := prof.StartCPU(cpuProfile)
		if profErr != nil {
			return fmt.Errorf("failed to start CPU profile: %w", profErr)
		}
		defer stop()
	}
	if memProfile != "" {
		defer func() {
			if profErr := prof.WriteMem(memProfile); profErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to write heap profile: %v\n", profErr)
			}
		}()
	}
	if useCache {
		cache, cacheErr := driver.OpenDiskCache("pyrite")
		if cacheErr != nil {
			return fmt.Errorf("failed to open disk cache: %w", cacheErr)
		}
		opts.Cache = cache
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var fs *source.FileSet
	var units []*driver.Unit
	if info.IsDir() {
		// driverOptions already merged the manifest; only the file
		// selection comes from cfg here.
		batch := driver.BatchOptions{
			Options: opts,
			Include: cfg.Translate.Include,
			Exclude: cfg.Translate.Exclude,
			Jobs:    jobs,
		}
		fs, units, err = driver.TranslateDir(cmd.Context(), path, batch)
		if err != nil {
			return err
		}
	} else {
		fs = source.NewFileSet()
		id, loadErr := fs.Load(path)
		if loadErr != nil {
			return loadErr
		}
		units = []*driver.Unit{driver.Translate(cmd.Context(), fs, id, opts)}
	}

	errors, err := reportUnits(cmd, fs, units, format)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, unit := range units {
		if emitHir && unit.Module != nil {
			if err := hir.Dump(out, unit.Module); err != nil {
				return err
			}
		}
		if showDecisions && unit.Decisions != nil {
			names := make([]string, 0, len(unit.Decisions))
			for name := range unit.Decisions {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(out, "%s: %s\n", name, unit.Decisions[name])
			}
		}
	}
	if opts.Timings {
		printTimings(cmd, units)
	}

	if errors > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("translation failed with %d error(s)", errors)
	}
	return nil
}
