// Package osinfo implements the system-info backend: a static snapshot of
// the host platform and process state, built once at construction time.
package osinfo

import (
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/worldiety/vfsdav/vfs"
)

// node is either a directory (map) or a scalar leaf (string).
type node any

// Backend exposes process and platform state. It takes no constructor
// argument: every call returns data captured when Open ran.
type Backend struct {
	tree map[string]node
}

// Open captures the current platform and process state.
func Open() *Backend {
	platform := map[string]node{
		"system":              runtime.GOOS,
		"release":             kernelRelease(),
		"version":             kernelVersion(),
		"machine":             runtime.GOARCH,
		"processor":           processorName(),
		"node":                hostname(),
		"interpreter_version": runtime.Version(),
	}

	env := make(map[string]node)
	for _, kv := range os.Environ() {
		if name, value, ok := strings.Cut(kv, "="); ok {
			env[name] = value
		}
	}

	tree := map[string]node{
		"platform": platform,
		"env":      env,
		"cpu":      map[string]node{"count": strconv.Itoa(runtime.NumCPU())},
		"pid":      strconv.Itoa(os.Getpid()),
	}
	if cwd, err := os.Getwd(); err == nil {
		tree["cwd"] = cwd
	}
	if uid := os.Getuid(); uid >= 0 {
		tree["uid"] = strconv.Itoa(uid)
	}

	return &Backend{tree: tree}
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return name
}

// kernelRelease and kernelVersion have no portable stdlib equivalent;
// Go does not expose uname(2) directly, so these report what is
// reliably available on every platform instead of shelling out.
func kernelRelease() string {
	return runtime.GOOS
}

func kernelVersion() string {
	return fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH)
}

func processorName() string {
	return runtime.GOARCH
}

func (b *Backend) resolve(path vfs.Path) (node, error) {
	var cur node = b.tree
	for _, seg := range path.Segments() {
		dir, ok := cur.(map[string]node)
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		child, ok := dir[seg]
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		cur = child
	}
	return cur, nil
}

// Info implements vfs.Resource.
func (b *Backend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	n, err := b.resolve(path)
	if err != nil {
		return vfs.ResourceInfo{}, err
	}
	if _, ok := n.(map[string]node); ok {
		return vfs.ResourceInfo{IsDir: true}, nil
	}
	value := n.(string)
	return vfs.ResourceInfo{IsDir: false, Size: int64(len(value)), ContentType: "text/plain; charset=utf-8"}, nil
}

// List implements vfs.Resource.
func (b *Backend) List(path vfs.Path) ([]string, error) {
	n, err := b.resolve(path)
	if err != nil {
		return nil, err
	}
	dir, ok := n.(map[string]node)
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
	n, err := b.resolve(path)
	if err != nil {
		return nil, err
	}
	value, ok := n.(string)
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	return []byte(value), nil
}
