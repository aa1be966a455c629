package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"pyrite/internal/driver"
	"pyrite/internal/hir"
	"pyrite/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <file.py>",
	Short: "Show intermediate results for one source file",
	Long:  `Translate a single file and dump the lowered representation, directives and per-function analysis records`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().String("what", "all", "section to show (hir|directives|ownership|safety|inline|perf|all)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	what, err := cmd.Flags().GetString("what")
	if err != nil {
		return fmt.Errorf("failed to get what flag: %w", err)
	}
	switch what {
	case "hir", "directives", "ownership", "safety", "inline", "perf", "all":
		// supported
	default:
		return fmt.Errorf("unknown section %q", what)
	}

	opts, _, err := driverOptions(cmd, path)
	if err != nil {
		return err
	}

	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return err
	}
	unit := driver.Translate(cmd.Context(), fs, id, opts)

	if _, err := reportUnits(cmd, fs, []*driver.Unit{unit}, "pretty"); err != nil {
		return err
	}
	if unit.Module == nil {
		return fmt.Errorf("analysis stopped before lowering")
	}

	out := cmd.OutOrStdout()
	show := func(section string) bool { return what == "all" || what == section }

	if show("hir") {
		if err := hir.Dump(out, unit.Module); err != nil {
			return err
		}
	}
	if show("directives") {
		printDirectives(out, unit)
	}
	if show("ownership") {
		printOwnership(out, unit)
	}
	if show("safety") {
		printSafety(out, unit)
	}
	if show("inline") {
		printInline(out, unit)
	}
	if show("perf") {
		printPerf(out, unit)
	}
	return nil
}

func printDirectives(out io.Writer, unit *driver.Unit) {
	fmt.Fprintln(out, "directives:")
	for _, fn := range unit.Module.Funcs {
		d := fn.Directive
		fmt.Fprintf(out, "  %s: ownership=%s threads=%s",
			fn.Name, d.Ownership, d.ThreadSafety)
		if d.PerformanceCritical {
			fmt.Fprint(out, " performance-critical")
		}
		fmt.Fprintln(out)
	}
}

func printOwnership(out io.Writer, unit *driver.Unit) {
	fmt.Fprintln(out, "ownership:")
	for _, r := range unit.Ownership {
		fmt.Fprintf(out, "  %s: %d violation(s), %d clone(s), %d borrow(s), %d mutable, %d dead\n",
			r.Function, len(r.Violations), len(r.Clones), len(r.Borrows), len(r.MutBorrows), len(r.Dead))
	}
}

func printSafety(out io.Writer, unit *driver.Unit) {
	fmt.Fprintln(out, "memory safety:")
	for _, r := range unit.Safety {
		fmt.Fprintf(out, "  %s:\n", r.Function)
		for _, res := range r.Results {
			fmt.Fprintf(out, "    %-18s %s (%.2f)", res.Property, res.Status, res.Confidence)
			if res.Detail != "" {
				fmt.Fprintf(out, " %s", res.Detail)
			}
			fmt.Fprintln(out)
		}
	}
}

func printInline(out io.Writer, unit *driver.Unit) {
	fmt.Fprintln(out, "inlining:")
	names := make([]string, 0, len(unit.Decisions))
	for name := range unit.Decisions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %s\n", name, unit.Decisions[name])
	}
}

func printPerf(out io.Writer, unit *driver.Unit) {
	fmt.Fprintln(out, "performance:")
	if len(unit.Warnings) == 0 {
		fmt.Fprintln(out, "  no warnings")
		return
	}
	for _, w := range unit.Warnings {
		fmt.Fprintf(out, "  [%s] %s line %d: %s\n",
			w.Severity, w.Location.Function, w.Location.Line, w.Message)
	}
}
