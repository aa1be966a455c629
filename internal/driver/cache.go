package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"pyrite/internal/diag"
	"pyrite/internal/fix"
	"pyrite/internal/project"
	"pyrite/internal/source"
)

// Increment when the payload format changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores per-file translation results keyed by content digest.
// A nil *DiskCache is valid and disables caching.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// payloadDiag is the serializable slice of a diagnostic. Spans keep only
// offsets; the file id is rebound on restore.
type payloadDiag struct {
	Severity   uint8  `msgpack:"sev"`
	Code       uint32 `msgpack:"code"`
	Message    string `msgpack:"msg"`
	Start      uint32 `msgpack:"start"`
	End        uint32 `msgpack:"end"`
	Suggestion string `msgpack:"hint,omitempty"`
}

type payloadFix struct {
	Name    string `msgpack:"name"`
	Changed bool   `msgpack:"changed"`
}

// diskPayload holds everything a cache hit can reproduce. Analysis
// structures are cheap to recompute and are not cached.
type diskPayload struct {
	Schema      uint16         `msgpack:"schema"`
	Path        string         `msgpack:"path"`
	ContentHash project.Digest `msgpack:"content"`
	Broken      bool           `msgpack:"broken"`
	Diagnostics []payloadDiag  `msgpack:"diags"`
	Output      []byte         `msgpack:"output,omitempty"`
	Fixes       []payloadFix   `msgpack:"fixes,omitempty"`
}

// OpenDiskCache initializes a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// OpenDiskCacheAt opens a cache rooted at an explicit directory.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// Units live under a subdirectory so the cache root stays listable.
	return filepath.Join(c.dir, "units", hexKey+".mp")
}

// Put serializes and atomically writes a payload.
func (c *DiskCache) Put(key project.Digest, payload *diskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads a payload. The false return with nil error is a clean miss.
func (c *DiskCache) Get(key project.Digest, out *diskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

// Store records a completed unit. Best effort: cache write errors are
// swallowed, the translation result is already in hand.
func (c *DiskCache) Store(file *source.File, unit *Unit) {
	if c == nil || unit == nil {
		return
	}
	payload := &diskPayload{
		Schema:      diskCacheSchemaVersion,
		Path:        file.Path,
		ContentHash: file.Hash,
		Broken:      unit.Bag.HasErrors(),
		Output:      unit.Output,
	}
	for _, d := range unit.Bag.Items() {
		payload.Diagnostics = append(payload.Diagnostics, payloadDiag{
			Severity:   uint8(d.Severity),
			Code:       uint32(d.Code),
			Message:    d.Message,
			Start:      d.Primary.Start,
			End:        d.Primary.End,
			Suggestion: d.Suggestion,
		})
	}
	for _, a := range unit.Fixes {
		payload.Fixes = append(payload.Fixes, payloadFix{Name: a.Name, Changed: a.Changed})
	}
	_ = c.Put(file.Hash, payload)
}

// Restore replays a cached result into unit when the file's content
// digest matches. Spans are rebound to the live file id.
func (c *DiskCache) Restore(file *source.File, unit *Unit) bool {
	if c == nil || unit == nil {
		return false
	}
	var payload diskPayload
	ok, err := c.Get(file.Hash, &payload)
	if err != nil || !ok {
		return false
	}
	if payload.Schema != diskCacheSchemaVersion || payload.ContentHash != file.Hash {
		return false
	}

	for _, d := range payload.Diagnostics {
		unit.Bag.Add(diag.Diagnostic{
			Severity:   diag.Severity(d.Severity),
			Code:       diag.Code(d.Code),
			Message:    d.Message,
			Primary:    source.Span{File: file.ID, Start: d.Start, End: d.End},
			Suggestion: d.Suggestion,
		})
	}
	unit.Output = payload.Output
	for _, a := range payload.Fixes {
		unit.Fixes = append(unit.Fixes, fix.Applied{Name: a.Name, Changed: a.Changed})
	}
	unit.Cached = true
	return true
}
