// Package archive implements the ZIP and TAR backends: a virtual directory
// tree is inferred from each archive's flat member list, since archive
// formats do not reliably carry explicit directory entries.
package archive

import (
	"io"
	"sort"
	"strings"

	"github.com/worldiety/vfsdav/vfs"
)

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}

// entry describes one regular file discovered in an archive member list.
type entry struct {
	size        int64
	contentType string
	read        func() ([]byte, error)
}

// index is the shared directory-inference structure both the ZIP and TAR
// backends build at construction and then only ever read from.
type index struct {
	dirs  map[string]bool
	files map[string]entry
}

func newIndex() *index {
	return &index{
		dirs:  map[string]bool{"": true},
		files: map[string]entry{},
	}
}

// addDir records name (already segment-joined with "/", no leading slash,
// "" for root) as an explicit directory.
func (idx *index) addDir(name string) {
	idx.dirs[strings.Trim(name, "/")] = true
}

// addFile records name as a file and every non-empty prefix of its segment
// sequence as a directory, matching §4.C's directory-inference rule.
func (idx *index) addFile(name string, e entry) {
	clean := strings.Trim(name, "/")
	if clean == "" {
		return
	}
	idx.files[clean] = e

	parts := strings.Split(clean, "/")
	for i := 1; i < len(parts); i++ {
		idx.dirs[strings.Join(parts[:i], "/")] = true
	}
}

func (idx *index) info(path vfs.Path) (vfs.ResourceInfo, error) {
	key := joinKey(path)
	if idx.dirs[key] {
		return vfs.ResourceInfo{IsDir: true}, nil
	}
	if e, ok := idx.files[key]; ok {
		return vfs.ResourceInfo{IsDir: false, Size: e.size, ContentType: e.contentType}, nil
	}
	return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
}

func (idx *index) list(path vfs.Path) ([]string, error) {
	key := joinKey(path)
	if !idx.dirs[key] {
		return nil, vfs.NotFound(path, nil)
	}
	prefix := key
	if prefix != "" {
		prefix += "/"
	}
	seen := map[string]bool{}
	for f := range idx.files {
		if rest, ok := childName(f, prefix); ok {
			seen[rest] = true
		}
	}
	for d := range idx.dirs {
		if d == key {
			continue
		}
		if rest, ok := childName(d, prefix); ok {
			seen[rest] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (idx *index) get(path vfs.Path) ([]byte, error) {
	key := joinKey(path)
	if idx.dirs[key] {
		return nil, vfs.NotFound(path, nil)
	}
	e, ok := idx.files[key]
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	data, err := e.read()
	if err != nil {
		return nil, vfs.Backend(path, "error reading archive member", err)
	}
	return data, nil
}

func joinKey(path vfs.Path) string {
	return strings.Join(path.Segments(), "/")
}

// childName reports whether full is a direct child of prefix, returning
// the child's bare name.
func childName(full, prefix string) (string, bool) {
	if !strings.HasPrefix(full, prefix) {
		return "", false
	}
	rest := full[len(prefix):]
	if rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
