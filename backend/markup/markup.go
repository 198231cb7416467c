// Package markup implements the XML and HTML backends. Both project an
// element tree onto the namespace using identical resolution and listing
// rules; only the parsers (encoding/xml vs. a lenient HTML tokenizer)
// differ. See xml.go and html.go.
package markup

import (
	"sort"
	"strings"

	"github.com/worldiety/vfsdav/vfs"
)

const (
	textName    = "_text"
	attribsName = "_attribs"
)

// node is one element in the parsed tree. names and children are parallel
// slices: names[i] is the (possibly disambiguated) path segment for
// children[i], in document order.
type node struct {
	text     string
	attrs    map[string]string
	names    []string
	children []*node
}

// rawElem is the parser-side representation before tag disambiguation.
type rawElem struct {
	tag      string
	attrs    map[string]string
	text     strings.Builder
	children []*rawElem
}

// disambiguate renames duplicate tags among siblings to tag_0, tag_1, ...
// in document order; tags occurring exactly once keep their bare name.
func disambiguate(tags []string) []string {
	counts := make(map[string]int, len(tags))
	for _, t := range tags {
		counts[t]++
	}
	seen := make(map[string]int, len(tags))
	names := make([]string, len(tags))
	for i, t := range tags {
		if counts[t] > 1 {
			names[i] = t + "_" + itoa(seen[t])
			seen[t]++
		} else {
			names[i] = t
		}
	}
	return names
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// convert turns a parsed rawElem tree into the node tree used for
// resolution, trimming text and computing disambiguated child names.
func convert(r *rawElem) *node {
	n := &node{text: strings.TrimSpace(r.text.String())}
	if len(r.attrs) > 0 {
		n.attrs = r.attrs
	}
	tags := make([]string, len(r.children))
	children := make([]*node, len(r.children))
	for i, c := range r.children {
		tags[i] = c.tag
		children[i] = convert(c)
	}
	n.names = disambiguate(tags)
	n.children = children
	return n
}

func indexOf(names []string, s string) int {
	for i, n := range names {
		if n == s {
			return i
		}
	}
	return -1
}

// tree implements vfs.Resource over a parsed element tree.
type tree struct {
	root *node
}

type target struct {
	kind     string // "element", "text", "attribsDir", "attrib"
	elem     *node
	attrName string
}

// locate walks path, treating "_text" and "_attribs" as reserved,
// non-traversable element children per the element-tree backend contract.
func (t *tree) locate(path vfs.Path) (target, error) {
	n := t.root
	seg := path.Segments()
	for i := 0; i < len(seg); i++ {
		s := seg[i]
		switch s {
		case textName:
			if i != len(seg)-1 || n.text == "" {
				return target{}, vfs.NotFound(path, nil)
			}
			return target{kind: "text", elem: n}, nil
		case attribsName:
			if i == len(seg)-1 {
				if len(n.attrs) == 0 {
					return target{}, vfs.NotFound(path, nil)
				}
				return target{kind: "attribsDir", elem: n}, nil
			}
			if i == len(seg)-2 {
				name := seg[i+1]
				if _, ok := n.attrs[name]; !ok {
					return target{}, vfs.NotFound(path, nil)
				}
				return target{kind: "attrib", elem: n, attrName: name}, nil
			}
			return target{}, vfs.NotFound(path, nil)
		default:
			idx := indexOf(n.names, s)
			if idx < 0 {
				return target{}, vfs.NotFound(path, nil)
			}
			n = n.children[idx]
		}
	}
	return target{kind: "element", elem: n}, nil
}

func (t *tree) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	tg, err := t.locate(path)
	if err != nil {
		return vfs.ResourceInfo{}, err
	}
	switch tg.kind {
	case "element", "attribsDir":
		return vfs.ResourceInfo{IsDir: true}, nil
	case "text":
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(tg.elem.text)), ContentType: "text/plain; charset=utf-8"}, nil
	case "attrib":
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(tg.elem.attrs[tg.attrName])), ContentType: "text/plain; charset=utf-8"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

func (t *tree) List(path vfs.Path) ([]string, error) {
	tg, err := t.locate(path)
	if err != nil {
		return nil, err
	}
	switch tg.kind {
	case "element":
		entries := append([]string(nil), tg.elem.names...)
		if tg.elem.text != "" {
			entries = append(entries, textName)
		}
		if len(tg.elem.attrs) > 0 {
			entries = append(entries, attribsName)
		}
		sort.Strings(entries)
		return entries, nil
	case "attribsDir":
		names := make([]string, 0, len(tg.elem.attrs))
		for k := range tg.elem.attrs {
			names = append(names, k)
		}
		sort.Strings(names)
		return names, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

func (t *tree) Get(path vfs.Path) ([]byte, error) {
	tg, err := t.locate(path)
	if err != nil {
		return nil, err
	}
	switch tg.kind {
	case "text":
		return []byte(tg.elem.text), nil
	case "attrib":
		return []byte(tg.elem.attrs[tg.attrName]), nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}
