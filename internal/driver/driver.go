// Package driver orchestrates the translation passes over one or more
// Python sources. Per-unit work is synchronous; batch mode fans units
// out across goroutines.
package driver

import (
	"context"

	"pyrite/internal/diag"
	"pyrite/internal/emit"
	"pyrite/internal/fix"
	"pyrite/internal/hir"
	"pyrite/internal/inline"
	"pyrite/internal/lint"
	"pyrite/internal/memsafe"
	"pyrite/internal/observ"
	"pyrite/internal/ownership"
	"pyrite/internal/perf"
	"pyrite/internal/pyparse"
	"pyrite/internal/source"
)

// Options configures one translation run. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	MaxDiagnostics int
	Inline         inline.Config
	Perf           perf.Config

	// Emitter lowers the decision bundle to target text. When nil the
	// run stops after analysis and Unit.Output stays empty.
	Emitter emit.Emitter

	// Timings enables per-phase timing collection on the unit.
	Timings bool

	// Cache, when set, lets unchanged files skip the full pass sequence.
	Cache *DiskCache
}

func DefaultOptions() Options {
	return Options{
		MaxDiagnostics: 256,
		Inline:         inline.DefaultConfig(),
		Perf:           perf.DefaultConfig(),
	}
}

// Unit is the result of translating a single source file. Bag always
// holds the accumulated diagnostics; later fields are populated only as
// far as the pass sequence got.
type Unit struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag

	Module    *hir.Module
	Ownership []*ownership.Result
	Safety    []*memsafe.Report
	Decisions map[string]inline.Decision
	Warnings  []perf.Warning

	Bundle *emit.Input
	Output []byte
	Fixes  []fix.Applied

	Timing *observ.Report
	Cached bool
}

// Failed reports whether the unit stopped before producing a bundle.
func (u *Unit) Failed() bool {
	return u.Bag.HasErrors()
}

// Translate runs the full pass sequence over one loaded file: the
// surface gate, HIR construction, the four analysis passes, bundle
// assembly and, when an emitter is configured, emission plus the fix
// pipeline. Diagnostics are sorted and deduped before return.
func Translate(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) *Unit {
	file := fs.Get(id)
	unit := &Unit{
		Path:   file.Path,
		FileID: id,
		Bag:    diag.NewBag(opts.MaxDiagnostics),
	}

	// Phases report through the dedup layer; lint and perf diagnostics
	// carry suggestions the Reporter contract does not, so they go to
	// the bag directly.
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: unit.Bag})

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
		defer func() {
			report := timer.Report()
			unit.Timing = &report
		}()
	}
	defer func() {
		unit.Bag.Sort()
		unit.Bag.Dedup()
	}()

	if opts.Cache.Restore(file, unit) {
		return unit
	}

	phase := begin(timer, "parse")
	parser, err := pyparse.New()
	if err != nil {
		diag.ReportError(rep, diag.SynParseError, source.Span{File: id}, err.Error()).Emit()
		return unit
	}
	defer parser.Close()

	pyMod, err := parser.Parse(file)
	end(timer, phase, "")
	if err != nil {
		diag.ReportError(rep, diag.SynParseError, source.Span{File: id}, err.Error()).Emit()
		return unit
	}
	if ctx.Err() != nil {
		return unit
	}

	// Surface gate: rejection here short-circuits the unit.
	phase = begin(timer, "lint")
	records := lint.New().Run(pyMod)
	for _, d := range records {
		unit.Bag.Add(d)
	}
	end(timer, phase, "")
	if lint.HasErrors(records) {
		return unit
	}

	phase = begin(timer, "hir")
	mod, err := hir.NewBuilder(fs, unit.Bag).Build(pyMod)
	end(timer, phase, "")
	if err != nil {
		diag.ReportError(rep, diag.SynHirBuildFailed, source.Span{File: id}, err.Error()).Emit()
		return unit
	}
	unit.Module = mod
	if ctx.Err() != nil {
		return unit
	}

	// Analysis passes run in fixed order and never short-circuit:
	// findings accumulate and the bundle is still produced.
	phase = begin(timer, "ownership")
	unit.Ownership = ownership.NewAnalyzer(mod).AnalyzeModule()
	for _, r := range unit.Ownership {
		for _, d := range r.Diagnostics() {
			rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		}
	}
	end(timer, phase, "")

	phase = begin(timer, "memsafe")
	unit.Safety = memsafe.NewChecker(mod).CheckModule(unit.Ownership)
	for _, r := range unit.Safety {
		for _, d := range r.Diagnostics() {
			rep.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes, d.Fixes)
		}
	}
	end(timer, phase, "")

	phase = begin(timer, "inline")
	inliner := inline.NewAnalyzer(opts.Inline)
	unit.Decisions = inliner.Analyze(mod)
	// The bundle must carry the post-inlining module, so the transform
	// runs before later passes see it.
	inliner.Apply(mod, unit.Decisions)
	end(timer, phase, "")

	phase = begin(timer, "perf")
	unit.Warnings = perf.NewAnalyzer(fs, opts.Perf).Analyze(mod)
	for _, d := range perf.Diagnostics(unit.Warnings) {
		unit.Bag.Add(d)
	}
	end(timer, phase, "")

	target := emit.Rust()
	if opts.Emitter != nil {
		target = opts.Emitter.Target()
	}
	unit.Bundle = emit.NewInput(mod, unit.Ownership, unit.Safety, unit.Decisions, target)

	if opts.Emitter == nil || ctx.Err() != nil {
		opts.Cache.Store(file, unit)
		return unit
	}

	phase = begin(timer, "emit")
	raw, err := opts.Emitter.Emit(unit.Bundle)
	end(timer, phase, "")
	if err != nil {
		diag.ReportError(rep, diag.GenEmitterFailed, mod.Span, err.Error()).Emit()
		return unit
	}

	phase = begin(timer, "fix")
	fixed, applied := fix.Default().RunTrace(string(raw))
	unit.Output = []byte(fixed)
	unit.Fixes = applied
	end(timer, phase, "")

	opts.Cache.Store(file, unit)
	return unit
}

// TranslateSource loads src as a virtual file and translates it.
func TranslateSource(ctx context.Context, fs *source.FileSet, name string, src []byte, opts Options) *Unit {
	id := fs.AddVirtual(name, src)
	return Translate(ctx, fs, id, opts)
}

func begin(t *observ.Timer, name string) int {
	if t == nil {
		return -1
	}
	return t.Begin(name)
}

func end(t *observ.Timer, idx int, note string) {
	if t == nil {
		return
	}
	t.End(idx, note)
}
