package tree

import (
	"github.com/BurntSushi/toml"

	"github.com/worldiety/vfsdav/vfs"
)

// TOMLBackend exposes the contents of a TOML document as a read-only
// vfs.Resource, using the same map/list/scalar projection rules as
// JSONBackend. A TOML document's grammar makes the root-must-be-a-table
// constraint automatic: there is no such thing as a scalar TOML document.
type TOMLBackend struct {
	*document
}

// OpenTOML reads and decodes path as a TOML document.
func OpenTOML(path string) (*TOMLBackend, error) {
	var root map[string]any
	if _, err := toml.DecodeFile(path, &root); err != nil {
		return nil, vfs.Backend("", "cannot parse TOML file", err)
	}
	return &TOMLBackend{document: newDocument(root)}, nil
}
