package markup

import (
	"io"
	"os"

	"golang.org/x/net/html"

	"github.com/worldiety/vfsdav/vfs"
)

// documentName is the implicit root under which every top-level element
// of an HTML document is collected.
const documentName = "document"

// voidElements never receive a stack entry; they cannot have children or
// a matching end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// HTMLBackend exposes an HTML document as an element tree using a
// lenient, non-validating tokenizer rather than full HTML5 tree
// construction: unmatched end tags pop back to the nearest matching open
// tag (or are ignored), and tags still open at EOF are left open rather
// than auto-closed.
type HTMLBackend struct {
	*tree
}

// OpenHTML reads and parses path as HTML.
func OpenHTML(path string) (*HTMLBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read HTML file", err)
	}
	defer f.Close()

	root, err := parseHTML(f)
	if err != nil {
		return nil, vfs.Backend("", "cannot parse HTML file", err)
	}

	return &HTMLBackend{tree: &tree{root: convert(root)}}, nil
}

func parseHTML(r io.Reader) (*rawElem, error) {
	root := &rawElem{tag: documentName}
	stack := []*rawElem{root}
	tz := html.NewTokenizer(r)

	for {
		tt := tz.Next()
		if tt == html.ErrorToken {
			if err := tz.Err(); err != io.EOF {
				return nil, err
			}
			break
		}

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tz.TagName()
			tag := string(name)
			el := &rawElem{tag: tag}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = tz.TagAttr()
				if el.attrs == nil {
					el.attrs = make(map[string]string)
				}
				el.attrs[string(key)] = string(val)
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, el)
			if tt == html.StartTagToken && !voidElements[tag] {
				stack = append(stack, el)
			}
		case html.EndTagToken:
			name, _ := tz.TagName()
			tag := string(name)
			idx := -1
			for i := len(stack) - 1; i >= 1; i-- {
				if stack[i].tag == tag {
					idx = i
					break
				}
			}
			if idx >= 0 {
				stack = stack[:idx]
			}
		case html.TextToken:
			stack[len(stack)-1].text.Write(tz.Text())
		}
	}

	return root, nil
}
