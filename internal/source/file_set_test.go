package source

import "testing"

func TestResolveSimple(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.py", []byte("def f():\n    return 1\n"))

	span := Span{File: id, Start: 4, End: 5} // the "f" in "def f"
	start, end := fs.Resolve(span)

	if (start != LineCol{Line: 1, Col: 5}) {
		t.Errorf("expected start 1:5, got %+v", start)
	}
	if (end != LineCol{Line: 1, Col: 6}) {
		t.Errorf("expected end 1:6, got %+v", end)
	}
}

func TestResolveSecondLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.py", []byte("ab\ncd\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{1, LineCol{Line: 1, Col: 2}},
		{2, LineCol{Line: 1, Col: 3}}, // the newline terminates line 1
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 3, Col: 2}},
	}
	for _, tc := range cases {
		got := fs.ResolveOffset(id, tc.off)
		if got != tc.want {
			t.Errorf("offset %d: expected %+v, got %+v", tc.off, tc.want, got)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("test.py", []byte("first\nsecond\nthird"))
	f := fs.Get(id)

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1: got %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("line 2: got %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Errorf("line 3: got %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Errorf("line 4: expected empty, got %q", got)
	}
	if got := f.GetLine(0); got != "" {
		t.Errorf("line 0: expected empty, got %q", got)
	}
}

func TestFileVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.py", []byte("version 1"), 0)
	id2 := fs.Add("test.py", []byte("version 2"), 0)

	if id1 == id2 {
		t.Fatalf("expected distinct IDs for re-added file")
	}
	latest, ok := fs.GetLatest("test.py")
	if !ok {
		t.Fatal("expected file to exist")
	}
	if latest != id2 {
		t.Errorf("expected latest ID %d, got %d", id2, latest)
	}
}

func TestCRLFNormalization(t *testing.T) {
	content, changed := normalizeCRLF([]byte("a\r\nb\rc"))
	if !changed {
		t.Fatal("expected a change")
	}
	if string(content) != "a\nb\rc" {
		t.Errorf("got %q", content)
	}
}

func TestRoundTripLineCol(t *testing.T) {
	src := []byte("line one\nline two\nline three\n")
	fs := NewFileSet()
	id := fs.AddVirtual("rt.py", src)
	f := fs.Get(id)

	for off := uint32(0); off < uint32(len(src)); off++ {
		lc := fs.ResolveOffset(id, off)
		line := f.GetLine(lc.Line)
		if src[off] == '\n' {
			continue
		}
		if lc.Col == 0 || int(lc.Col) > len(line)+1 {
			t.Fatalf("offset %d resolved to impossible column %+v in %q", off, lc, line)
		}
		if line[lc.Col-1] != src[off] {
			t.Errorf("offset %d: expected byte %q, line %d col %d has %q",
				off, src[off], lc.Line, lc.Col, line[lc.Col-1])
		}
	}
}
