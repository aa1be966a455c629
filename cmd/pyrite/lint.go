package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pyrite/internal/diag"
	"pyrite/internal/driver"
	"pyrite/internal/lint"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file.py|directory>",
	Short: "Run the surface gate only",
	Long:  `Check Python sources for constructs the translator rejects or rewrites, without running the later passes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runLint(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	opts, cfg, err := driverOptions(cmd, path)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	var files []string
	var fs *source.FileSet
	if info.IsDir() {
		files, err = driver.ListSources(path, cfg.Translate.Include, cfg.Translate.Exclude)
		if err != nil {
			return err
		}
		fs = source.NewFileSetWithBase(path)
	} else {
		files = []string{path}
		fs = source.NewFileSet()
	}

	units := make([]*driver.Unit, 0, len(files))
	for _, file := range files {
		unit, lintErr := lintFile(fs, file, opts.MaxDiagnostics)
		if lintErr != nil {
			return lintErr
		}
		units = append(units, unit)
	}

	errors, err := reportUnits(cmd, fs, units, format)
	if err != nil {
		return err
	}
	if errors > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("lint failed with %d error(s)", errors)
	}
	return nil
}

// lintFile parses one file and runs the surface linter over it.
func lintFile(fs *source.FileSet, path string, maxDiagnostics int) (*driver.Unit, error) {
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}

	unit := &driver.Unit{Path: path, FileID: id, Bag: diag.NewBag(maxDiagnostics)}

	parser, err := pyparse.New()
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	mod, err := parser.Parse(fs.Get(id))
	if err != nil {
		unit.Bag.Add(diag.New(diag.SevError, diag.SynParseError, source.Span{File: id}, err.Error()))
		return unit, nil
	}

	for _, d := range lint.New().Run(mod) {
		unit.Bag.Add(d)
	}
	unit.Bag.Sort()
	unit.Bag.Dedup()
	return unit, nil
}
