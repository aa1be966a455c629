package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pyrite/internal/project"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestListSourcesFiltersAndSorts(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b.py":            "x = 1\n",
		"a.py":            "y = 2\n",
		"sub/c.py":        "z = 3\n",
		"sub/ignored.txt": "not python\n",
		"vendor/d.py":     "w = 4\n",
	})

	files, err := ListSources(root, nil, []string{"vendor/**"})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %v", files)
	}
	for i := 1; i < len(files); i++ {
		if files[i-1] > files[i] {
			t.Fatalf("not sorted: %v", files)
		}
	}
	for _, f := range files {
		if filepath.Base(filepath.Dir(f)) == "vendor" {
			t.Fatalf("exclude ignored: %v", files)
		}
	}
}

func TestListSourcesIncludeGlob(t *testing.T) {
	root := writeTree(t, map[string]string{
		"lib/a.py":  "a = 1\n",
		"main.py":   "b = 2\n",
		"lib/b.py":  "c = 3\n",
		"test_x.py": "d = 4\n",
	})

	files, err := ListSources(root, []string{"lib/*.py"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("include glob mismatch: %v", files)
	}
}

func TestTranslateDirParallelUnits(t *testing.T) {
	root := writeTree(t, map[string]string{
		"ok.py":  "def f(x: int) -> int:\n    return x + 1\n",
		"bad.py": "def f(s: str) -> int:\n    return eval(s)\n",
	})

	fs, units, err := TranslateDir(context.Background(), root, BatchOptions{Options: DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if fs == nil || len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}

	// Units follow ListSources order: bad.py then ok.py.
	if !units[0].Failed() {
		t.Fatalf("bad.py should fail the surface gate")
	}
	if units[1].Failed() {
		t.Fatalf("ok.py should pass: %+v", units[1].Bag.Items())
	}
	if units[1].Module == nil {
		t.Fatalf("ok.py missing module")
	}
}

func TestTranslateDirEmpty(t *testing.T) {
	root := t.TempDir()
	_, units, err := TranslateDir(context.Background(), root, BatchOptions{Options: DefaultOptions()})
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 0 {
		t.Fatalf("expected no units, got %d", len(units))
	}
}

func TestTranslateDirHonorsJobsLimit(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py": "def a() -> int:\n    return 1\n",
		"b.py": "def b() -> int:\n    return 2\n",
		"c.py": "def c() -> int:\n    return 3\n",
	})

	opts := BatchOptions{Options: DefaultOptions(), Jobs: 1}
	_, units, err := TranslateDir(context.Background(), root, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	for _, u := range units {
		if u.Failed() {
			t.Fatalf("clean unit failed: %s", u.Path)
		}
	}
}

func TestBatchOptionsFromManifest(t *testing.T) {
	cfg := project.Default()
	cfg.Translate.Include = []string{"src/**"}
	cfg.Translate.Exclude = []string{"src/gen/**"}
	cfg.Translate.MaxDiagnostics = 32
	cfg.Perf.MaxLoopDepth = 5

	batch := BatchOptionsFrom(cfg, DefaultOptions())
	if batch.MaxDiagnostics != 32 {
		t.Fatalf("max diagnostics = %d, want 32", batch.MaxDiagnostics)
	}
	if batch.Perf.MaxLoopDepth != 5 {
		t.Fatalf("perf overlay not applied: %+v", batch.Perf)
	}
	if len(batch.Include) != 1 || len(batch.Exclude) != 1 {
		t.Fatalf("selection not carried: %+v", batch)
	}
}
