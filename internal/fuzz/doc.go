// Package fuzztests houses Go fuzz harnesses that exercise the
// text-facing edges of the translation pipeline: the doctest extractor,
// the fix pipeline and the Python front end. Its goal is to smoke test
// robustness and guard against panics or allocator explosions on
// arbitrary inputs.
package fuzztests
