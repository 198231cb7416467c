package tree

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/worldiety/vfsdav/vfs"
)

// JSONBackend exposes the contents of a JSON document as a read-only
// vfs.Resource: map keys and list indices become directory entries, scalars
// become files.
type JSONBackend struct {
	*document
}

// OpenJSON reads and decodes path as a JSON document. Construction fails if
// the file cannot be read, the JSON is malformed, or the top-level value is
// a scalar (a scalar root has no directory structure to expose).
func OpenJSON(path string) (*JSONBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read JSON file", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, vfs.Backend("", "cannot parse JSON file", err)
	}

	if !isContainer(root) {
		return nil, vfs.Backend("", "JSON root must be an object or array", nil)
	}

	return &JSONBackend{document: newDocument(root)}, nil
}
