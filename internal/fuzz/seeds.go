package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // corpus entries stay small

func addPythonSeeds(f *testing.F) {
	addTestdataSeeds(f)

	f.Add([]byte{})
	f.Add([]byte("def f(x: int) -> int:\n    return x + 1\n"))
	f.Add([]byte("class C:\n    def m(self) -> int:\n        return 0\n"))
	f.Add([]byte("def g():\n    \"\"\"doc\n    >>> g()\n    None\n    \"\"\"\n"))
	f.Add([]byte("for i in range(10):\n    total += i\n"))
	f.Add([]byte("def bad(:\n"))
}

func addRustSeeds(f *testing.F) {
	f.Add("")
	f.Add("fn f() -> i64 {\n    1\n}\n")
	f.Add("let r#match = r#true;\n")
	f.Add("let seen: HashMap<String, i64> = HashMap::new();\nif seen.contains(\"k\") {}\n")
	f.Add("// comment with r#true and .__name__\nlet s = \"*& literal\";\n")
	f.Add("fn stub(arg: PyValue) -> PyValue { PyValue::None }\nstub()\n")
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".py" {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
