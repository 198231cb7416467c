// Package conformance holds the property checks every vfs.Resource backend
// must satisfy, generalized from a markdown-report "conformance test
// suite" concept into ordinary Go subtests: each check is a
// func(vfs.Resource) error, and Run drives them through t.Run so a single
// failing property does not hide the others.
package conformance

import (
	"fmt"
	"sort"
	"testing"

	"github.com/worldiety/vfsdav/vfs"
)

// A Check is one property every conforming backend must satisfy.
type Check struct {
	Name string
	Test func(vfs.Resource) error
}

// checks is the universal backend property suite from the testable
// properties that apply to any backend regardless of source format.
var checks = []Check{
	rootIsDirectory,
	fullWalkIsConsistent,
	listingIsUniqueAndSorted,
	notFoundOnFabricatedName,
}

// Run executes every universal property check against r as a subtest of t.
// Call it from each backend package's own _test.go alongside
// backend-specific invariant tests.
func Run(t *testing.T, r vfs.Resource) {
	t.Helper()
	for _, c := range checks {
		c := c
		t.Run(c.Name, func(t *testing.T) {
			if err := c.Test(r); err != nil {
				t.Error(err)
			}
		})
	}
}

var rootIsDirectory = Check{
	Name: "root is a directory",
	Test: func(r vfs.Resource) error {
		info, err := r.Info(vfs.Root)
		if err != nil {
			return fmt.Errorf("info(/) failed: %w", err)
		}
		if !info.IsDir {
			return fmt.Errorf("info(/).IsDir = false, want true")
		}
		return nil
	},
}

var fullWalkIsConsistent = Check{
	Name: "full walk is internally consistent",
	Test: func(r vfs.Resource) error {
		entries, err := vfs.ReadTree(r, vfs.Root)
		if err != nil {
			return fmt.Errorf("walk from root failed: %w", err)
		}
		for _, e := range entries {
			if e.Info.IsDir {
				if _, err := r.List(e.Path); err != nil {
					return fmt.Errorf("list(%s) failed for directory found by walk: %w", e.Path, err)
				}
				if _, err := r.Get(e.Path); err == nil {
					return fmt.Errorf("get(%s) succeeded for a directory, want NotFound", e.Path)
				}
			} else {
				data, err := r.Get(e.Path)
				if err != nil {
					return fmt.Errorf("get(%s) failed for file found by walk: %w", e.Path, err)
				}
				if int64(len(data)) != e.Info.Size {
					return fmt.Errorf("get(%s) returned %d bytes, info.Size = %d", e.Path, len(data), e.Info.Size)
				}
			}
		}
		return nil
	},
}

var listingIsUniqueAndSorted = Check{
	Name: "listings are unique and every listed name resolves",
	Test: func(r vfs.Resource) error {
		return walkDirs(r, vfs.Root, func(dir vfs.Path, names []string) error {
			seen := make(map[string]bool, len(names))
			for _, n := range names {
				if seen[n] {
					return fmt.Errorf("list(%s) contains duplicate name %q", dir, n)
				}
				seen[n] = true
				if _, err := r.Info(dir.Child(n)); err != nil {
					return fmt.Errorf("info(%s) failed for name returned by list(%s): %w", dir.Child(n), dir, err)
				}
			}
			return nil
		})
	},
}

func walkDirs(r vfs.Resource, root vfs.Path, each func(dir vfs.Path, names []string) error) error {
	return vfs.Walk(r, root, func(path vfs.Path, info vfs.ResourceInfo) error {
		if !info.IsDir {
			return nil
		}
		names, err := r.List(path)
		if err != nil {
			return err
		}
		return each(path, names)
	})
}

var notFoundOnFabricatedName = Check{
	Name: "fabricated name is NotFound",
	Test: func(r vfs.Resource) error {
		probe := vfs.Root.Child("__conformance_probe_does_not_exist__")
		if _, err := r.Info(probe); err == nil {
			return fmt.Errorf("info(%s) succeeded, want NotFound", probe)
		}
		return nil
	},
}

// SortedCopy returns a sorted copy of names, a convenience for
// backend-specific tests asserting exact listing contents.
func SortedCopy(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}
