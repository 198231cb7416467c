package markup

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/worldiety/vfsdav/vfs"
)

// XMLBackend exposes a well-formed XML document as an element tree. The
// implicit root's sole child is the document element.
type XMLBackend struct {
	*tree
}

// OpenXML reads and parses path as XML.
func OpenXML(path string) (*XMLBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read XML file", err)
	}
	defer f.Close()

	root, err := parseXML(f)
	if err != nil {
		return nil, vfs.Backend("", "cannot parse XML file", err)
	}

	implicit := &node{names: []string{root.tag}, children: []*node{convert(root)}}
	return &XMLBackend{tree: &tree{root: implicit}}, nil
}

func parseXML(r io.Reader) (*rawElem, error) {
	dec := xml.NewDecoder(r)
	var stack []*rawElem
	var root *rawElem

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &rawElem{tag: t.Name.Local}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				if el.attrs == nil {
					el.attrs = make(map[string]string)
				}
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}

	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}
