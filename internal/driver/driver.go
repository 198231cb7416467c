// Package driver selects and constructs the backend that will serve a
// mounted file, by extension or by an explicit forced type name.
package driver

import (
	"fmt"
	"sort"
	"strings"

	"github.com/worldiety/vfsdav/backend/archive"
	"github.com/worldiety/vfsdav/backend/ast"
	"github.com/worldiety/vfsdav/backend/ini"
	"github.com/worldiety/vfsdav/backend/markup"
	"github.com/worldiety/vfsdav/backend/mbox"
	"github.com/worldiety/vfsdav/backend/row"
	"github.com/worldiety/vfsdav/backend/tree"
	"github.com/worldiety/vfsdav/vfs"
)

// name identifies a backend kind, independent of which extension matched.
type name string

const (
	zipKind    name = "zip"
	tarKind    name = "tar"
	sqliteKind name = "sqlite"
	jsonKind   name = "json"
	csvKind    name = "csv"
	iniKind    name = "ini"
	xmlKind    name = "xml"
	htmlKind   name = "html"
	mboxKind   name = "mbox"
	astKind    name = "ast"
	tomlKind   name = "toml"
)

// extMap maps a lowercase file suffix to the backend kind that mounts it.
// Compound extensions (".tar.gz") are listed in full; detect tries the
// keys longest first, so a compound extension wins over any shorter key
// that is also a suffix of the same path.
var extMap = map[string]name{
	".zip":     zipKind,
	".tar":     tarKind,
	".tar.gz":  tarKind,
	".tgz":     tarKind,
	".tar.bz2": tarKind,
	".tar.xz":  tarKind,
	".db":      sqliteKind,
	".sqlite":  sqliteKind,
	".sqlite3": sqliteKind,
	".json":    jsonKind,
	".csv":     csvKind,
	".ini":     iniKind,
	".cfg":     iniKind,
	".xml":     xmlKind,
	".html":    htmlKind,
	".htm":     htmlKind,
	".mbox":    mboxKind,
	".py":      astKind,
	".toml":    tomlKind,
}

// sortedExts lists every extMap key, longest first, so suffix matching
// tries a compound extension before any shorter key.
var sortedExts = func() []string {
	exts := make([]string, 0, len(extMap))
	for ext := range extMap {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool { return len(exts[i]) > len(exts[j]) })
	return exts
}()

// detect picks a backend kind from a file path's extension.
func detect(path string) (name, error) {
	lower := strings.ToLower(path)
	for _, ext := range sortedExts {
		if strings.HasSuffix(lower, ext) {
			return extMap[ext], nil
		}
	}
	return "", fmt.Errorf("cannot detect backend for %q: no recognized extension", path)
}

// resolveForced maps a user-supplied --type value (case-insensitive, one
// of the kind names Names returns) onto a backend kind.
func resolveForced(forcedType string) (name, error) {
	n := name(strings.ToLower(forcedType))
	switch n {
	case zipKind, tarKind, sqliteKind, jsonKind, csvKind, iniKind, xmlKind, htmlKind, mboxKind, astKind, tomlKind:
		return n, nil
	default:
		return "", fmt.Errorf("unknown backend type %q", forcedType)
	}
}

// Open mounts path with the backend selected by forcedType, or by the
// path's extension when forcedType is empty. On success it returns the
// resource and a non-nil cleanup function that releases any held handles;
// on error both the resource and the cleanup function are nil.
func Open(path string, forcedType string) (vfs.Resource, func() error, error) {
	var kind name
	var err error
	if forcedType != "" {
		kind, err = resolveForced(forcedType)
	} else {
		kind, err = detect(path)
	}
	if err != nil {
		return nil, nil, err
	}

	noop := func() error { return nil }

	switch kind {
	case zipKind:
		b, err := archive.OpenZip(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case tarKind:
		b, err := archive.OpenTar(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case sqliteKind:
		b, err := row.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	case jsonKind:
		b, err := tree.OpenJSON(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case tomlKind:
		b, err := tree.OpenTOML(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case csvKind:
		b, err := row.OpenCSV(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case iniKind:
		b, err := ini.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case xmlKind:
		b, err := markup.OpenXML(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case htmlKind:
		b, err := markup.OpenHTML(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case mboxKind:
		b, err := mbox.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	case astKind:
		b, err := ast.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return b, noop, nil
	default:
		return nil, nil, fmt.Errorf("unhandled backend kind %q", kind)
	}
}

// Names lists every recognized --type value, sorted, for help text and
// error messages.
func Names() []string {
	seen := make(map[string]bool)
	for _, n := range extMap {
		seen[string(n)] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
