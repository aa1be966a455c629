// Package prof wraps runtime profiling for long translation runs. Each
// Start function returns a stop closure so commands can defer cleanup.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
)

// StartCPU enables CPU profiling and writes samples to path. The
// returned stop function flushes and closes the file.
func StartCPU(path string) (func(), error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() {
		pprof.StopCPUProfile()
		_ = f.Close()
	}, nil
}

// WriteMem captures a heap profile to path after forcing a collection,
// so the numbers reflect live translation state rather than garbage.
func WriteMem(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
