package ast_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/worldiety/vfsdav/backend/ast"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

const fixture = `import os


def top_level(x):
    return x + 1


class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return "hello " + self.name


@decorated
def decorated_func():
    pass
`

func TestBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.py")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := ast.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	conformance.Run(t, b)

	names, err := b.List(vfs.Root)
	if err != nil {
		t.Fatalf("List(/) failed: %v", err)
	}
	want := map[string]bool{"top_level.py": true, "Greeter": true, "decorated_func.py": true}
	if len(names) != len(want) {
		t.Fatalf("List(/) = %v, want %d entries", names, len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("List(/) contains unexpected entry %q", n)
		}
	}

	data, err := b.Get(vfs.NewPath("/top_level.py"))
	if err != nil {
		t.Fatalf("Get(/top_level.py) failed: %v", err)
	}
	if !strings.Contains(string(data), "def top_level(x):") {
		t.Fatalf("Get(/top_level.py) = %q, missing def line", data)
	}

	methods, err := b.List(vfs.NewPath("/Greeter"))
	if err != nil {
		t.Fatalf("List(/Greeter) failed: %v", err)
	}
	wantMethods := map[string]bool{"__init__.py": true, "greet.py": true}
	if len(methods) != len(wantMethods) {
		t.Fatalf("List(/Greeter) = %v, want %d entries", methods, len(wantMethods))
	}

	data, err = b.Get(vfs.NewPath("/Greeter/greet.py"))
	if err != nil || !strings.Contains(string(data), "def greet(self):") {
		t.Fatalf("Get(/Greeter/greet.py) = %q, %v", data, err)
	}

	if _, err := b.Info(vfs.NewPath("/Greeter/missing.py")); err == nil {
		t.Fatal("Info(/Greeter/missing.py) succeeded, want NotFound")
	}
}

func TestParseFailure(t *testing.T) {
	// tree-sitter is error-tolerant, so this backend never truly fails to
	// "parse" malformed Python; there is no practical fixture to exercise
	// the BackendError path for a read failure other than a missing file.
	if _, err := ast.Open(filepath.Join(t.TempDir(), "does-not-exist.py")); err == nil {
		t.Fatal("Open on missing file succeeded, want error")
	}
}
