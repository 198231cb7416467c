// Package ini implements the INI/config file backend: a two-level
// namespace of /<section>/<key> files.
package ini

import (
	"sort"

	"gopkg.in/ini.v1"

	"github.com/worldiety/vfsdav/vfs"
)

// Backend exposes an INI file as a read-only vfs.Resource.
type Backend struct {
	sections map[string]map[string]string
	names    []string
}

// Open reads and parses path as an INI file.
func Open(path string) (*Backend, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read INI file", err)
	}

	sections := make(map[string]map[string]string)
	var names []string
	for _, sec := range file.Sections() {
		if sec.Name() == ini.DefaultSection && len(sec.Keys()) == 0 {
			continue
		}
		keys := make(map[string]string, len(sec.Keys()))
		for _, k := range sec.Keys() {
			keys[k.Name()] = k.Value()
		}
		sections[sec.Name()] = keys
		names = append(names, sec.Name())
	}
	sort.Strings(names)

	return &Backend{sections: sections, names: names}, nil
}

// Info implements vfs.Resource.
func (b *Backend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return vfs.ResourceInfo{IsDir: true}, nil
	case 1:
		if _, ok := b.sections[seg[0]]; !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		return vfs.ResourceInfo{IsDir: true}, nil
	case 2:
		section, ok := b.sections[seg[0]]
		if !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		value, ok := section[seg[1]]
		if !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(value)), ContentType: "text/plain; charset=utf-8"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

// List implements vfs.Resource.
func (b *Backend) List(path vfs.Path) ([]string, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return append([]string(nil), b.names...), nil
	case 1:
		section, ok := b.sections[seg[0]]
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		keys := make([]string, 0, len(section))
		for k := range section {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

// Get implements vfs.Resource.
func (b *Backend) Get(path vfs.Path) ([]byte, error) {
	seg := path.Segments()
	if len(seg) != 2 {
		return nil, vfs.NotFound(path, nil)
	}
	section, ok := b.sections[seg[0]]
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	value, ok := section[seg[1]]
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	return []byte(value), nil
}
