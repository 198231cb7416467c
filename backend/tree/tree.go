// Package tree implements the JSON and TOML backends: both project a
// decoded document --- maps, lists, and scalars --- onto the namespace
// using the same resolution and listing rules, differing only in how the
// document is parsed and in one root-type constraint (JSON rejects a
// scalar root; TOML's grammar makes that impossible in the first place).
package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/worldiety/vfsdav/vfs"
)

// document wraps a decoded tree and implements vfs.Resource over it.
type document struct {
	root any
}

func newDocument(root any) *document {
	return &document{root: normalize(root)}
}

// normalize walks a decoded tree and rewrites any node shape that carries
// the same map/list/scalar meaning as map[string]any/[]any/scalar but
// isn't already one of those concrete types, so resolve/isContainer/List
// never have to special-case a decoder's alternate container types.
// BurntSushi/toml decodes an array of tables ([[section]]) as
// []map[string]interface{} rather than []interface{}; without this it
// falls through to the scalar case and gets rendered with fmt.Sprint.
func normalize(node any) any {
	switch n := node.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = normalize(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = normalize(v)
		}
		return out
	case []map[string]any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = normalize(v)
		}
		return out
	default:
		return node
	}
}

func (d *document) resolve(path vfs.Path) (any, error) {
	node := d.root
	for _, seg := range path.Segments() {
		switch n := node.(type) {
		case map[string]any:
			child, ok := n[seg]
			if !ok {
				return nil, vfs.NotFound(path, nil)
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n) {
				return nil, vfs.NotFound(path, nil)
			}
			node = n[idx]
		default:
			return nil, vfs.NotFound(path, nil)
		}
	}
	return node, nil
}

func isContainer(node any) bool {
	switch node.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

func scalarBytes(node any) []byte {
	switch v := node.(type) {
	case nil:
		return []byte("null")
	case bool:
		if v {
			return []byte("true")
		}
		return []byte("false")
	case time.Time:
		return []byte(v.Format(time.RFC3339))
	case json.Number:
		return []byte(v.String())
	case string:
		return []byte(v)
	default:
		return []byte(fmt.Sprint(v))
	}
}

// Info implements vfs.Resource.
func (d *document) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	node, err := d.resolve(path)
	if err != nil {
		return vfs.ResourceInfo{}, err
	}
	if isContainer(node) {
		return vfs.ResourceInfo{IsDir: true}, nil
	}
	data := scalarBytes(node)
	return vfs.ResourceInfo{IsDir: false, Size: int64(len(data)), ContentType: "text/plain; charset=utf-8"}, nil
}

// List implements vfs.Resource.
func (d *document) List(path vfs.Path) ([]string, error) {
	node, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	switch n := node.(type) {
	case map[string]any:
		names := make([]string, 0, len(n))
		for k := range n {
			names = append(names, k)
		}
		sort.Strings(names)
		return names, nil
	case []any:
		names := make([]string, len(n))
		for i := range n {
			names[i] = strconv.Itoa(i)
		}
		return names, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

// Get implements vfs.Resource.
func (d *document) Get(path vfs.Path) ([]byte, error) {
	node, err := d.resolve(path)
	if err != nil {
		return nil, err
	}
	if isContainer(node) {
		return nil, vfs.NotFound(path, nil)
	}
	return scalarBytes(node), nil
}
