// Package vfs defines the abstract resource namespace that every backend
// adapter projects its source format onto, and that the WebDAV front end
// serves. It is the one piece of polymorphism the whole system needs.
package vfs

import (
	"net/url"
	"strings"
)

// A Path is a canonical, slash-separated resource path: always begins with
// "/", never ends with "/" except at the root, and never contains a run of
// consecutive separators. Path is a plain string type rather than a slice
// of segments for the same reasons a filesystem path is usually kept as a
// string: callers compare and log paths far more often than they walk
// segments, and a string avoids an extra allocation on the common case.
type Path string

// Root is the canonical root path.
const Root Path = "/"

// NewPath canonicalizes an arbitrary string into a Path: a leading "/" is
// added if missing, runs of "/" collapse to one, and a trailing "/" is
// dropped unless the whole path is the root.
func NewPath(s string) Path {
	return FromSegments(splitSegments(s))
}

// FromSegments builds the canonical Path for an ordered list of non-empty
// name segments. An empty slice denotes the root.
func FromSegments(segments []string) Path {
	if len(segments) == 0 {
		return Root
	}
	return Path("/" + strings.Join(segments, "/"))
}

func splitSegments(s string) []string {
	parts := strings.Split(s, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Segments splits the path into its ordered, non-empty name segments. The
// root yields an empty (non-nil) slice.
func (p Path) Segments() []string {
	return splitSegments(string(p))
}

// String returns the canonical string form. Path values produced by
// NewPath/FromSegments/Child are already canonical, so this is usually a
// no-op; it is still safe to call on a raw, non-canonical Path.
func (p Path) String() string {
	return FromSegments(p.Segments()).raw()
}

func (p Path) raw() string {
	return string(p)
}

// IsRoot reports whether p denotes the root of the namespace.
func (p Path) IsRoot() bool {
	return len(p.Segments()) == 0
}

// Name returns the final segment of the path, or "" at the root.
func (p Path) Name() string {
	seg := p.Segments()
	if len(seg) == 0 {
		return ""
	}
	return seg[len(seg)-1]
}

// Parent returns the path one level up. The parent of the root is the root.
func (p Path) Parent() Path {
	seg := p.Segments()
	if len(seg) == 0 {
		return Root
	}
	return FromSegments(seg[:len(seg)-1])
}

// Child returns the path naming the direct child with the given segment
// name. name must not itself contain "/".
func (p Path) Child(name string) Path {
	return FromSegments(append(append([]string{}, p.Segments()...), name))
}

// URLEncode renders the path for use in an HTTP href: each segment is
// percent-encoded independently and rejoined with the "/" delimiter, which
// is itself never encoded. A trailing slash is appended when dir is true,
// matching the WebDAV convention that collection hrefs end in "/".
func (p Path) URLEncode(dir bool) string {
	seg := p.Segments()
	encoded := make([]string, len(seg))
	for i, s := range seg {
		encoded[i] = url.PathEscape(s)
	}
	out := "/" + strings.Join(encoded, "/")
	if dir && out != "/" {
		out += "/"
	}
	return out
}

// ParsePathAndQuery decodes a request-URI path component into a canonical
// Path. Percent-decoding happens exactly once, here, at the front-end
// boundary; everywhere else in the system a segment is raw, undecoded text.
func ParsePathAndQuery(requestPath string) (Path, error) {
	decoded, err := url.PathUnescape(requestPath)
	if err != nil {
		return "", err
	}
	return NewPath(decoded), nil
}
