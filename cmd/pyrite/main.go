package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pyrite/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pyrite",
	Short: "Python to Rust translation middle end",
	Long:  `Pyrite analyzes Python sources and prepares them for translation to Rust`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(translateCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(doctestCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show per-phase timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a tty.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
