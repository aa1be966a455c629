package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"pyrite/internal/diag"
	"pyrite/internal/project"
	"pyrite/internal/source"
)

// BatchOptions extends Options with input selection for directory runs.
type BatchOptions struct {
	Options

	// Include and Exclude are glob patterns matched against paths
	// relative to the root, slash-separated. Empty Include means every
	// .py file.
	Include []string
	Exclude []string

	// Jobs caps worker goroutines; 0 means GOMAXPROCS.
	Jobs int
}

// BatchOptionsFrom derives batch options from a manifest.
func BatchOptionsFrom(cfg project.Config, opts Options) BatchOptions {
	if cfg.Translate.MaxDiagnostics > 0 {
		opts.MaxDiagnostics = cfg.Translate.MaxDiagnostics
	}
	opts.Inline = cfg.InlineConfig()
	opts.Perf = cfg.PerfConfig()
	return BatchOptions{
		Options: opts,
		Include: cfg.Translate.Include,
		Exclude: cfg.Translate.Exclude,
	}
}

// ListSources returns the sorted, filtered set of .py files under root.
// Paths are returned as given by filepath.WalkDir (rooted at root).
func ListSources(root string, include, exclude []string) ([]string, error) {
	inc, err := compileGlobs(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileGlobs(exclude)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".py") {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if len(inc) > 0 && !matchAny(inc, rel) {
			return nil
		}
		if matchAny(exc, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Deterministic order regardless of filesystem iteration.
	sort.Strings(files)
	return files, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}

func matchAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// TranslateDir translates every selected file under root in parallel.
// Units come back in the same deterministic order as ListSources. Load
// failures surface as error-bearing units, not as a run failure.
func TranslateDir(ctx context.Context, root string, opts BatchOptions) (*source.FileSet, []*Unit, error) {
	files, err := ListSources(root, opts.Include, opts.Exclude)
	if err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSetWithBase(root)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	// Preload serially: the FileSet is not written to after this point,
	// so workers can read it without locking.
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = fileSet.Load(path)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	units := make([]*Unit, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			if loadErrs[i] != nil {
				units[i] = loadFailure(path, opts.MaxDiagnostics, loadErrs[i])
				return nil
			}
			// Index i is unique per goroutine, no mutex needed.
			units[i] = Translate(gctx, fileSet, ids[i], opts.Options)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fileSet, units, err
	}
	return fileSet, units, nil
}

func loadFailure(path string, maxDiagnostics int, err error) *Unit {
	unit := &Unit{Path: path, Bag: diag.NewBag(maxDiagnostics)}
	diag.ReportError(diag.BagReporter{Bag: unit.Bag}, diag.IOLoadFileError, source.Span{},
		"failed to load file: "+err.Error()).Emit()
	return unit
}
