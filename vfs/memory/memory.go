// Package memory provides an in-memory vfs.Resource backed by a nested
// map, used as a fixture for webdav front-end tests (spec component L).
package memory

import (
	"sort"

	"github.com/worldiety/vfsdav/vfs"
)

// Backend is an in-memory vfs.Resource over a tree built from nested
// map[string]any values. A map[string]any node is a directory; a string or
// []byte leaf is a file (strings are encoded as UTF-8 on Get).
//
// Example:
//
//	memory.New(map[string]any{
//		"hello.txt": "Hello, world!",
//		"docs": map[string]any{
//			"guide.txt": "A guide",
//		},
//	})
type Backend struct {
	tree map[string]any
}

// New builds a Backend over tree. tree is not copied; callers must not
// mutate it afterward.
func New(tree map[string]any) *Backend {
	return &Backend{tree: tree}
}

func (b *Backend) resolve(path vfs.Path) (any, error) {
	var node any = b.tree
	for _, name := range path.Segments() {
		dir, ok := node.(map[string]any)
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		child, ok := dir[name]
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		node = child
	}
	return node, nil
}

func bytesOf(node any) []byte {
	switch v := node.(type) {
	case string:
		return []byte(v)
	case []byte:
		return v
	default:
		return nil
	}
}

// Info implements vfs.Resource.
func (b *Backend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	node, err := b.resolve(path)
	if err != nil {
		return vfs.ResourceInfo{}, err
	}
	if _, ok := node.(map[string]any); ok {
		return vfs.ResourceInfo{IsDir: true}, nil
	}
	data := bytesOf(node)
	return vfs.ResourceInfo{IsDir: false, Size: int64(len(data)), ContentType: "text/plain; charset=utf-8"}, nil
}

// List implements vfs.Resource.
func (b *Backend) List(path vfs.Path) ([]string, error) {
	node, err := b.resolve(path)
	if err != nil {
		return nil, err
	}
	dir, ok := node.(map[string]any)
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	names := make([]string, 0, len(dir))
	for name := range dir {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Get implements vfs.Resource.
func (b *Backend) Get(path vfs.Path) ([]byte, error) {
	node, err := b.resolve(path)
	if err != nil {
		return nil, err
	}
	if _, ok := node.(map[string]any); ok {
		return nil, vfs.NotFound(path, nil)
	}
	return bytesOf(node), nil
}
