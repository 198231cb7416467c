package mbox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/worldiety/vfsdav/backend/mbox"
	"github.com/worldiety/vfsdav/conformance"
	"github.com/worldiety/vfsdav/vfs"
)

const fixture = `From alice@example.com Mon Jan  1 00:00:00 2024
From: alice@example.com
Subject: Hello, World!
Date: Mon, 1 Jan 2024 00:00:00 +0000

Hi there.
From bob@example.com Mon Jan  1 00:01:00 2024
From: bob@example.com
Date: Mon, 1 Jan 2024 00:01:00 +0000

No subject here.
`

func TestBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.mbox")
	if err := os.WriteFile(path, []byte(fixture), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := mbox.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	conformance.Run(t, b)

	names, err := b.List(vfs.Root)
	if err != nil {
		t.Fatalf("List(/) failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("List(/) = %v, want 2 entries", names)
	}
	if names[0] != "0000_Hello_World.eml" {
		t.Fatalf("List(/)[0] = %q, want 0000_Hello_World.eml", names[0])
	}
	if names[1] != "0001_no_subject.eml" {
		t.Fatalf("List(/)[1] = %q, want 0001_no_subject.eml", names[1])
	}

	data, err := b.Get(vfs.NewPath("/" + names[0]))
	if err != nil {
		t.Fatalf("Get(%s) failed: %v", names[0], err)
	}
	if len(data) == 0 {
		t.Fatal("Get returned empty message")
	}
}
