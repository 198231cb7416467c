package tree_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/worldiety/vfsdav/backend/tree"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestJSONBackend(t *testing.T) {
	path := writeFile(t, "fixture.json", `{
		"name": "Alice",
		"age": 30,
		"active": true,
		"tags": ["admin", "user"],
		"address": {"city": "Berlin"}
	}`)

	b, err := tree.OpenJSON(path)
	if err != nil {
		t.Fatalf("OpenJSON failed: %v", err)
	}

	conformance.Run(t, b)

	data, err := b.Get(vfs.NewPath("/name"))
	if err != nil || string(data) != "Alice" {
		t.Fatalf("Get(/name) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/tags/0"))
	if err != nil || string(data) != "admin" {
		t.Fatalf("Get(/tags/0) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/active"))
	if err != nil || string(data) != "true" {
		t.Fatalf("Get(/active) = %q, %v", data, err)
	}

	if _, err := b.Info(vfs.NewPath("/tags/not_a_number")); err == nil {
		t.Fatal("Info(/tags/not_a_number) succeeded, want NotFound")
	}
	if _, err := b.Info(vfs.NewPath("/tags/99")); err == nil {
		t.Fatal("Info(/tags/99) succeeded, want NotFound")
	}
}

func TestJSONScalarRootFailsConstruction(t *testing.T) {
	path := writeFile(t, "scalar.json", `"just a string"`)
	if _, err := tree.OpenJSON(path); err == nil {
		t.Fatal("OpenJSON on scalar root succeeded, want error")
	}
}

func TestTOMLBackend(t *testing.T) {
	path := writeFile(t, "fixture.toml", `
title = "Example"

[owner]
name = "Tom"
dob = 1979-05-27T07:32:00Z
`)

	b, err := tree.OpenTOML(path)
	if err != nil {
		t.Fatalf("OpenTOML failed: %v", err)
	}

	conformance.Run(t, b)

	data, err := b.Get(vfs.NewPath("/owner/name"))
	if err != nil || string(data) != "Tom" {
		t.Fatalf("Get(/owner/name) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/owner/dob"))
	if err != nil || string(data) != "1979-05-27T07:32:00Z" {
		t.Fatalf("Get(/owner/dob) = %q, %v", data, err)
	}
}

func TestTOMLArrayOfTables(t *testing.T) {
	path := writeFile(t, "products.toml", `
[[products]]
name = "Hammer"
sku = 738594937

[[products]]
name = "Nail"
sku = 284758393
`)

	b, err := tree.OpenTOML(path)
	if err != nil {
		t.Fatalf("OpenTOML failed: %v", err)
	}

	conformance.Run(t, b)

	info, err := b.Info(vfs.NewPath("/products"))
	if err != nil || !info.IsDir {
		t.Fatalf("Info(/products) = %+v, %v, want directory", info, err)
	}

	names, err := b.List(vfs.NewPath("/products"))
	if err != nil || len(names) != 2 {
		t.Fatalf("List(/products) = %v, %v, want 2 entries", names, err)
	}

	data, err := b.Get(vfs.NewPath("/products/0/name"))
	if err != nil || string(data) != "Hammer" {
		t.Fatalf("Get(/products/0/name) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/products/1/name"))
	if err != nil || string(data) != "Nail" {
		t.Fatalf("Get(/products/1/name) = %q, %v", data, err)
	}
}
