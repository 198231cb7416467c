package ini_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/worldiety/vfsdav/backend/ini"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

func TestBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.ini")
	content := "[server]\nhost = localhost\nport = 8080\n\n[auth]\nuser = admin\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := ini.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	conformance.Run(t, b)

	names, err := b.List(vfs.Root)
	if err != nil {
		t.Fatalf("List(/) failed: %v", err)
	}
	if len(names) != 2 || names[0] != "auth" || names[1] != "server" {
		t.Fatalf("List(/) = %v, want [auth server]", names)
	}

	data, err := b.Get(vfs.NewPath("/server/host"))
	if err != nil || string(data) != "localhost" {
		t.Fatalf("Get(/server/host) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/server/port"))
	if err != nil || string(data) != "8080" {
		t.Fatalf("Get(/server/port) = %q, %v", data, err)
	}

	if _, err := b.Info(vfs.NewPath("/nope/missing")); err == nil {
		t.Fatal("Info(/nope/missing) succeeded, want NotFound")
	}
	if _, err := b.Info(vfs.NewPath("/server/missing")); err == nil {
		t.Fatal("Info(/server/missing) succeeded, want NotFound")
	}
}
