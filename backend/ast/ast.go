// Package ast implements the source-code backend: it exposes a Python
// file's top-level functions and classes as a small filesystem, one file
// per function, one directory of method files per class.
package ast

import (
	"context"
	"os"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/worldiety/vfsdav/vfs"
)

// entry is either a function's extracted source (leaf) or a class's
// method table (directory).
type entry struct {
	source  []byte
	methods map[string][]byte
}

// Backend exposes a parsed Python source file. Nested classes,
// comprehensions, and free module-level statements are not exposed.
type Backend struct {
	entries map[string]*entry
	names   []string
}

// Open parses path as Python source.
func Open(path string) (*Backend, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read Python file", err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, vfs.Backend("", "cannot parse Python file", err)
	}
	defer tree.Close()

	lines := splitLinesKeepEnds(string(source))

	entries := make(map[string]*entry)
	var names []string

	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		def := unwrapDecorated(child)
		if def == nil {
			continue
		}

		switch def.Type() {
		case "function_definition":
			name := fieldText(def, "name", source)
			if name == "" {
				continue
			}
			if _, exists := entries[name+".py"]; !exists {
				names = append(names, name+".py")
			}
			entries[name+".py"] = &entry{source: extractSource(def, lines)}
		case "class_definition":
			name := fieldText(def, "name", source)
			if name == "" {
				continue
			}
			methods := make(map[string][]byte)
			body := def.ChildByFieldName("body")
			if body != nil {
				for j := 0; j < int(body.NamedChildCount()); j++ {
					item := unwrapDecorated(body.NamedChild(j))
					if item == nil || item.Type() != "function_definition" {
						continue
					}
					mname := fieldText(item, "name", source)
					if mname == "" {
						continue
					}
					methods[mname+".py"] = extractSource(item, lines)
				}
			}
			if _, exists := entries[name]; !exists {
				names = append(names, name)
			}
			entries[name] = &entry{methods: methods}
		}
	}

	return &Backend{entries: entries, names: names}, nil
}

// unwrapDecorated returns the function/class node a decorated_definition
// wraps, or node itself if it already is one; nil for anything else.
func unwrapDecorated(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "function_definition", "class_definition":
		return node
	case "decorated_definition":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() == "function_definition" || c.Type() == "class_definition" {
				return c
			}
		}
	}
	return nil
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	n := node.ChildByFieldName(field)
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

// extractSource returns the textually-dedented source of node, from its
// first line to its last, inclusive, mirroring extraction by line number
// rather than by byte offset.
func extractSource(node *sitter.Node, lines []string) []byte {
	start := int(node.StartPoint().Row)
	end := int(node.EndPoint().Row) + 1
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return []byte(dedent(strings.Join(lines[start:end], "")))
}

func (b *Backend) indexEntry(name string) (*entry, bool) {
	e, ok := b.entries[name]
	return e, ok
}

// Info implements vfs.Resource.
func (b *Backend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return vfs.ResourceInfo{IsDir: true}, nil
	case 1:
		e, ok := b.indexEntry(seg[0])
		if !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		if e.methods != nil {
			return vfs.ResourceInfo{IsDir: true}, nil
		}
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(e.source)), ContentType: "text/x-python"}, nil
	case 2:
		e, ok := b.indexEntry(seg[0])
		if !ok || e.methods == nil {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		data, ok := e.methods[seg[1]]
		if !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(data)), ContentType: "text/x-python"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

// List implements vfs.Resource.
func (b *Backend) List(path vfs.Path) ([]string, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		names := append([]string(nil), b.names...)
		sort.Strings(names)
		return names, nil
	case 1:
		e, ok := b.indexEntry(seg[0])
		if !ok || e.methods == nil {
			return nil, vfs.NotFound(path, nil)
		}
		names := make([]string, 0, len(e.methods))
		for name := range e.methods {
			names = append(names, name)
		}
		sort.Strings(names)
		return names, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

// Get implements vfs.Resource.
func (b *Backend) Get(path vfs.Path) ([]byte, error) {
	seg := path.Segments()
	switch len(seg) {
	case 1:
		e, ok := b.indexEntry(seg[0])
		if !ok || e.methods != nil {
			return nil, vfs.NotFound(path, nil)
		}
		return e.source, nil
	case 2:
		e, ok := b.indexEntry(seg[0])
		if !ok || e.methods == nil {
			return nil, vfs.NotFound(path, nil)
		}
		data, ok := e.methods[seg[1]]
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		return data, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}
