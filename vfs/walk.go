package vfs

// A WalkFunc is invoked once per entry discovered by Walk, in listing
// order. Returning an error from each aborts the walk and that error is
// returned by Walk.
type WalkFunc func(path Path, info ResourceInfo) error

// Walk recursively visits root and every descendant reachable through
// List, invoking each for every path in between (root included). Files are
// leaves; directories are visited before their children.
func Walk(r Resource, root Path, each WalkFunc) error {
	info, err := r.Info(root)
	if err != nil {
		return err
	}
	if err := each(root, info); err != nil {
		return err
	}
	if !info.IsDir {
		return nil
	}

	names, err := r.List(root)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := Walk(r, root.Child(name), each); err != nil {
			return err
		}
	}
	return nil
}

// A PathEntry pairs a Path with its ResourceInfo, as collected by ReadTree.
type PathEntry struct {
	Path Path
	Info ResourceInfo
}

// ReadTree collects every entry below root (root included) via Walk, in
// listing order.
func ReadTree(r Resource, root Path) ([]PathEntry, error) {
	var out []PathEntry
	err := Walk(r, root, func(path Path, info ResourceInfo) error {
		out = append(out, PathEntry{Path: path, Info: info})
		return nil
	})
	return out, err
}
