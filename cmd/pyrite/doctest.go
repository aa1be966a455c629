package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmihailenco/msgpack/v5"

	"pyrite/internal/doctest"
)

var doctestCmd = &cobra.Command{
	Use:   "doctest [flags] <file.py>",
	Short: "Extract doctest examples from docstrings",
	Long:  `Scan a Python source for interactive examples in docstrings and report them grouped by function`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDoctest,
}

func init() {
	doctestCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	doctestCmd.Flags().Bool("no-module", false, "skip module-level docstring examples")
	doctestCmd.Flags().Bool("no-methods", false, "skip examples inside class methods")
	doctestCmd.Flags().Bool("assertions", false, "render each example as a target assertion")
	doctestCmd.Flags().String("export", "", "write the bundle to a msgpack file")
}

func runDoctest(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	noModule, err := cmd.Flags().GetBool("no-module")
	if err != nil {
		return fmt.Errorf("failed to get no-module flag: %w", err)
	}
	noMethods, err := cmd.Flags().GetBool("no-methods")
	if err != nil {
		return fmt.Errorf("failed to get no-methods flag: %w", err)
	}
	assertions, err := cmd.Flags().GetBool("assertions")
	if err != nil {
		return fmt.Errorf("failed to get assertions flag: %w", err)
	}
	export, err := cmd.Flags().GetString("export")
	if err != nil {
		return fmt.Errorf("failed to get export flag: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	ex := doctest.NewExtractor()
	ex.IncludeModule = !noModule
	ex.IncludeMethods = !noMethods

	module := strings.TrimSuffix(filepath.Base(path), ".py")
	bundle := ex.ExtractBundle(string(content), module)
	bundle.Source = path

	if export != "" {
		data, encErr := msgpack.Marshal(&bundle)
		if encErr != nil {
			return encErr
		}
		if writeErr := os.WriteFile(export, data, 0o644); writeErr != nil {
			return writeErr
		}
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(bundle)
	case "pretty":
		// fall through below
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	if bundle.Total() == 0 {
		fmt.Fprintln(out, "no doctest examples found")
		return nil
	}
	for _, group := range bundle.Groups {
		fmt.Fprintf(out, "%s (%d example(s)):\n", group.Function, len(group.Examples))
		for _, e := range group.Examples {
			if assertions {
				fmt.Fprintf(out, "  line %d: %s\n", e.Line, doctest.Assertion(e))
				continue
			}
			fmt.Fprintf(out, "  line %d: >>> %s => %s\n", e.Line, e.Input, e.Expected)
		}
	}
	return nil
}
