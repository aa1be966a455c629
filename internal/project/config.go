package project

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"pyrite/internal/inline"
	"pyrite/internal/perf"
)

// Config is the parsed pyrite.toml manifest.
type Config struct {
	Project   ProjectSection   `toml:"project"`
	Translate TranslateSection `toml:"translate"`
	Inline    InlineSection    `toml:"inline"`
	Perf      PerfSection      `toml:"perf"`
}

// ProjectSection names the project.
type ProjectSection struct {
	Name string `toml:"name"`
}

// TranslateSection selects inputs and output behavior for batch runs.
type TranslateSection struct {
	// Include holds glob patterns of sources to translate; empty means
	// every .py file under the root.
	Include []string `toml:"include"`
	// Exclude holds glob patterns removed from the include set.
	Exclude []string `toml:"exclude"`
	// MaxDiagnostics caps diagnostics reported per file, 0 for all.
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// InlineSection mirrors the inlining analyzer configuration.
type InlineSection struct {
	MaxSize    int     `toml:"max_size"`
	MaxDepth   int     `toml:"max_depth"`
	SingleUse  *bool   `toml:"single_use"`
	Trivial    *bool   `toml:"trivial"`
	Loops      bool    `toml:"loops"`
	CostBounds float64 `toml:"cost_threshold"`
}

// PerfSection mirrors the performance linter configuration.
type PerfSection struct {
	StringConcat *bool `toml:"string_concat"`
	Allocations  *bool `toml:"allocations"`
	Algorithms   *bool `toml:"algorithms"`
	Redundant    *bool `toml:"redundant"`
	MaxLoopDepth int   `toml:"max_loop_depth"`
}

// Default returns the configuration used when no manifest exists.
func Default() Config {
	return Config{Project: ProjectSection{Name: "pyrite"}}
}

// Load parses a pyrite.toml file. Unknown keys are an error: a typoed
// threshold silently falling back to defaults is worse than a refusal.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// InlineConfig resolves the manifest section over analyzer defaults.
func (c Config) InlineConfig() inline.Config {
	out := inline.DefaultConfig()
	if c.Inline.MaxSize > 0 {
		out.MaxInlineSize = c.Inline.MaxSize
	}
	if c.Inline.MaxDepth > 0 {
		out.MaxInlineDepth = c.Inline.MaxDepth
	}
	if c.Inline.SingleUse != nil {
		out.InlineSingleUse = *c.Inline.SingleUse
	}
	if c.Inline.Trivial != nil {
		out.InlineTrivial = *c.Inline.Trivial
	}
	out.InlineLoops = c.Inline.Loops
	if c.Inline.CostBounds > 0 {
		out.CostThreshold = c.Inline.CostBounds
	}
	return out
}

// PerfConfig resolves the manifest section over linter defaults.
func (c Config) PerfConfig() perf.Config {
	out := perf.DefaultConfig()
	if c.Perf.StringConcat != nil {
		out.WarnStringConcat = *c.Perf.StringConcat
	}
	if c.Perf.Allocations != nil {
		out.WarnAllocations = *c.Perf.Allocations
	}
	if c.Perf.Algorithms != nil {
		out.WarnAlgorithms = *c.Perf.Algorithms
	}
	if c.Perf.Redundant != nil {
		out.WarnRedundant = *c.Perf.Redundant
	}
	if c.Perf.MaxLoopDepth > 0 {
		out.MaxLoopDepth = c.Perf.MaxLoopDepth
	}
	return out
}
