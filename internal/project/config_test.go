package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "pyrite.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[project]
name = "demo"

[translate]
include = ["src/**/*.py"]
exclude = ["src/vendor/**"]
max_diagnostics = 50

[inline]
max_size = 30
max_depth = 2
single_use = false

[perf]
string_concat = false
max_loop_depth = 2
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Project.Name != "demo" {
		t.Fatalf("name = %q", cfg.Project.Name)
	}
	if len(cfg.Translate.Include) != 1 || cfg.Translate.MaxDiagnostics != 50 {
		t.Fatalf("translate = %+v", cfg.Translate)
	}

	ic := cfg.InlineConfig()
	if ic.MaxInlineSize != 30 || ic.MaxInlineDepth != 2 {
		t.Fatalf("inline config = %+v", ic)
	}
	if ic.InlineSingleUse {
		t.Fatalf("single_use not applied")
	}
	if !ic.InlineTrivial {
		t.Fatalf("unset trivial should keep its default")
	}

	pc := cfg.PerfConfig()
	if pc.WarnStringConcat || !pc.WarnAllocations || pc.MaxLoopDepth != 2 {
		t.Fatalf("perf config = %+v", pc)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[inline]
max_sizee = 10
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultsWithoutManifest(t *testing.T) {
	cfg := Default()
	ic := cfg.InlineConfig()
	if ic.MaxInlineSize != 20 || ic.MaxInlineDepth != 3 || !ic.InlineSingleUse {
		t.Fatalf("inline defaults = %+v", ic)
	}
	pc := cfg.PerfConfig()
	if !pc.WarnAlgorithms || pc.MaxLoopDepth != 3 {
		t.Fatalf("perf defaults = %+v", pc)
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[project]\nname = \"demo\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, ok, err := FindProjectRoot(nested)
	if err != nil || !ok {
		t.Fatalf("find: ok=%v err=%v", ok, err)
	}
	resolved, _ := filepath.EvalSymlinks(got)
	wantResolved, _ := filepath.EvalSymlinks(root)
	if resolved != wantResolved {
		t.Fatalf("root = %q, want %q", got, root)
	}

	_, ok, err = FindProjectRoot(t.TempDir())
	if err != nil || ok {
		t.Fatalf("unexpected manifest found: ok=%v err=%v", ok, err)
	}
}
