package archive_test

import (
	"archive/tar"
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/worldiety/vfsdav/backend/archive"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

func writeZip(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	files := map[string]string{
		"a/b/c.txt": "hello",
		"a/d.txt":   "world",
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeTar(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	tw := tar.NewWriter(f)
	files := map[string]string{
		"a/b/c.txt": "hello",
		"a/d.txt":   "world",
	}
	for name, content := range files {
		hdr := &tar.Header{Name: name, Size: int64(len(content)), Mode: 0644, Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestZipBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.zip")
	writeZip(t, path)

	b, err := archive.OpenZip(path)
	if err != nil {
		t.Fatalf("OpenZip failed: %v", err)
	}
	defer b.Close()

	conformance.Run(t, b)

	info, err := b.Info(vfs.NewPath("/a"))
	if err != nil || !info.IsDir {
		t.Fatalf("Info(/a) = %+v, %v; want inferred directory", info, err)
	}

	data, err := b.Get(vfs.NewPath("/a/b/c.txt"))
	if err != nil || string(data) != "hello" {
		t.Fatalf("Get(/a/b/c.txt) = %q, %v", data, err)
	}

	names, err := b.List(vfs.NewPath("/a"))
	if err != nil {
		t.Fatalf("List(/a) failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List(/a) = %v, want 2 entries", names)
	}
}

func TestTarBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.tar")
	writeTar(t, path)

	b, err := archive.OpenTar(path)
	if err != nil {
		t.Fatalf("OpenTar failed: %v", err)
	}

	conformance.Run(t, b)

	data, err := b.Get(vfs.NewPath("/a/d.txt"))
	if err != nil || string(data) != "world" {
		t.Fatalf("Get(/a/d.txt) = %q, %v", data, err)
	}
}

func TestArchiveConstructionFailsOnBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.zip")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := archive.OpenZip(path); err == nil {
		t.Fatal("OpenZip on broken file succeeded, want error")
	}
}
