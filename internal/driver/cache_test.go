package driver

import (
	"context"
	"testing"

	"pyrite/internal/project"
	"pyrite/internal/source"
)

func project0() project.Digest {
	return project.DigestOf([]byte("unit"))
}

func TestCacheReplaysDiagnostics(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Cache = cache

	src := "def f(x: int) -> int:\n    locals()\n    return x\n"

	fs := source.NewFileSet()
	first := TranslateSource(context.Background(), fs, "unit.py", []byte(src), opts)
	if first.Cached {
		t.Fatalf("first run must miss the cache")
	}

	fs2 := source.NewFileSet()
	second := TranslateSource(context.Background(), fs2, "unit.py", []byte(src), opts)
	if !second.Cached {
		t.Fatalf("second run should hit the cache")
	}
	if second.Bag.Len() != first.Bag.Len() {
		t.Fatalf("replayed %d diagnostics, want %d", second.Bag.Len(), first.Bag.Len())
	}
	if second.Module != nil {
		t.Fatalf("cache hits skip lowering")
	}
}

func TestCacheMissOnContentChange(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Cache = cache

	fs := source.NewFileSet()
	TranslateSource(context.Background(), fs, "unit.py", []byte("def f() -> int:\n    return 1\n"), opts)

	fs2 := source.NewFileSet()
	changed := TranslateSource(context.Background(), fs2, "unit.py", []byte("def f() -> int:\n    return 2\n"), opts)
	if changed.Cached {
		t.Fatalf("different content must not hit the cache")
	}
}

func TestCacheStoresEmitterOutput(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.Cache = cache
	opts.Emitter = textEmitter{out: "fn f() -> i64 {\n    1\n}\n"}

	src := "def f() -> int:\n    return 1\n"

	fs := source.NewFileSet()
	first := TranslateSource(context.Background(), fs, "unit.py", []byte(src), opts)
	if len(first.Output) == 0 {
		t.Fatalf("no output from emitter")
	}

	fs2 := source.NewFileSet()
	second := TranslateSource(context.Background(), fs2, "unit.py", []byte(src), opts)
	if !second.Cached {
		t.Fatalf("expected cache hit")
	}
	if string(second.Output) != string(first.Output) {
		t.Fatalf("output not replayed:\n%s", second.Output)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var cache *DiskCache
	if err := cache.Put(project0(), &diskPayload{}); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(project0(), &diskPayload{})
	if err != nil || ok {
		t.Fatalf("nil cache must always miss")
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
}

func TestDropAllClearsEntries(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := project0()
	if err := cache.Put(key, &diskPayload{Schema: diskCacheSchemaVersion}); err != nil {
		t.Fatal(err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &diskPayload{})
	if err != nil || ok {
		t.Fatalf("entry survived DropAll")
	}
}
