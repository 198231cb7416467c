package row_test

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/worldiety/vfsdav/backend/row"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`CREATE TABLE users (name TEXT, age INTEGER)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO users (name, age) VALUES ('Alice', 30), ('Bob', 25)`); err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec(`INSERT INTO users (name, age) VALUES ('Nully', NULL)`); err != nil {
		t.Fatal(err)
	}
	db.Close()

	b, err := row.OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	defer b.Close()

	conformance.Run(t, b)

	data, err := b.Get(vfs.NewPath("/users/row_0/name"))
	if err != nil || string(data) != "Alice" {
		t.Fatalf("Get(/users/row_0/name) = %q, %v", data, err)
	}

	data, err = b.Get(vfs.NewPath("/users/row_2/age"))
	if err != nil || string(data) != "" {
		t.Fatalf("Get(/users/row_2/age) = %q, %v, want empty bytes for SQL NULL", data, err)
	}

	names, err := b.List(vfs.NewPath("/users"))
	if err != nil {
		t.Fatalf("List(/users) failed: %v", err)
	}
	want := map[string]bool{"_schema.sql": true, "row_0": true, "row_1": true, "row_2": true}
	if len(names) != len(want) {
		t.Fatalf("List(/users) = %v, want %d entries", names, len(want))
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("List(/users) contains unexpected entry %q", n)
		}
	}

	if _, err := b.Info(vfs.NewPath("/users/row_99/name")); err == nil {
		t.Fatal("Info(/users/row_99/name) succeeded, want NotFound")
	}
}

func TestCSVBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.csv")
	content := "name,age\nAlice,30\nBob,25\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := row.OpenCSV(path)
	if err != nil {
		t.Fatalf("OpenCSV failed: %v", err)
	}

	conformance.Run(t, b)

	names, err := b.List(vfs.Root)
	if err != nil {
		t.Fatalf("List(/) failed: %v", err)
	}
	if len(names) == 0 || names[0] != "_headers.txt" {
		t.Fatalf("List(/) = %v, want _headers.txt first", names)
	}

	data, err := b.Get(vfs.NewPath("/row_0000/name"))
	if err != nil || string(data) != "Alice" {
		t.Fatalf("Get(/row_0000/name) = %q, %v", data, err)
	}
}
