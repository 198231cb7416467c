package vfs

// ResourceInfo is the metadata record every existing path resolves to.
type ResourceInfo struct {
	// IsDir is true for a directory, false for a file.
	IsDir bool

	// Size is the byte length of Get's result. Always 0 for a directory.
	Size int64

	// ContentType is an IANA media type. Defaults to
	// "application/octet-stream" when a backend has no better guess.
	ContentType string
}

// DefaultContentType is used whenever a backend cannot infer a more
// specific media type for a file.
const DefaultContentType = "application/octet-stream"

// Resource is the one interface every backend adapter implements. It is
// the only polymorphism this system needs: given any source format wired
// up behind it, the front end never has to know which one it is talking
// to.
//
// Design decisions
//
// There are the following opinionated decisions:
//
//   - Three methods, not more. Earlier designs in this lineage grew
//     separate read/write/attribute/transaction contracts and then had to
//     keep them all in sync across a dozen adapters. This system is
//     read-only by construction (see the Non-goals on writes), so there is
//     nothing for those extra methods to do; the interface is kept to
//     exactly the three operations a read-only namespace needs.
//
//   - info/list/get are independent calls rather than one "open and stat"
//     call returning a handle, because several backends (archive, row
//     store, tree document) can answer info and list from an in-memory
//     index built once at construction, without touching the underlying
//     source again; only get needs to materialize bytes. Splitting the
//     calls lets those backends stay index-only until bytes are actually
//     requested.
//
//   - Two error kinds only (NotFound, BackendError). A conforming backend
//     never surfaces anything else across this boundary; the front end
//     maps exactly these two to 404 and 500 and does not need to inspect
//     error values any further.
type Resource interface {
	// Info returns the metadata for path. Fails with ResourceNotFoundError
	// if no resource exists at path.
	Info(path Path) (ResourceInfo, error)

	// List returns the ordered, unique child names of the directory at
	// path. Fails with ResourceNotFoundError if path does not exist or
	// exists but is a file.
	List(path Path) ([]string, error)

	// Get returns the full byte content of the file at path. Fails with
	// ResourceNotFoundError if path does not exist or exists but is a
	// directory.
	Get(path Path) ([]byte, error)
}
