// Package row implements the SQLite and CSV backends: both project a
// tabular source onto a three-level namespace (table/row/column for
// SQLite, a flat row directory plus header file for CSV).
package row

import (
	"database/sql"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/worldiety/vfsdav/vfs"
)

// SQLiteBackend exposes a SQLite database opened read-only as:
//
//	/<table>/_schema.sql
//	/<table>/row_<n>/<column>
//
// n is the 0-based ordinal under the database's natural row order, not the
// SQL rowid. A single *sql.DB is shared across calls; sqlite driver
// connections already serialize internally, so no extra mutex is needed
// beyond what database/sql itself provides.
type SQLiteBackend struct {
	db      *sql.DB
	tables  []string
	columns map[string][]string

	mu        sync.Mutex
	rowCounts map[string]int
}

// OpenSQLite opens path as a read-only SQLite database and caches its table
// and column names.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, vfs.Backend("", "cannot open SQLite database", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, vfs.Backend("", "cannot open SQLite database", err)
	}

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' ORDER BY name`)
	if err != nil {
		db.Close()
		return nil, vfs.Backend("", "cannot read database schema", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			db.Close()
			return nil, vfs.Backend("", "cannot read database schema", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		db.Close()
		return nil, vfs.Backend("", "cannot read database schema", err)
	}

	columns := make(map[string][]string, len(tables))
	for _, table := range tables {
		cols, err := tableColumns(db, table)
		if err != nil {
			db.Close()
			return nil, vfs.Backend("", "cannot read columns for table "+table, err)
		}
		columns[table] = cols
	}

	return &SQLiteBackend{
		db:        db,
		tables:    tables,
		columns:   columns,
		rowCounts: make(map[string]int),
	}, nil
}

// Close releases the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func tableColumns(db *sql.DB, table string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`SELECT name FROM pragma_table_info(%s)`, quoteLiteral(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// quoteIdent quotes name for use in identifier position (table/column
// names), doubling any embedded double quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteLiteral quotes name for use as a string literal, doubling any
// embedded single quotes.
func quoteLiteral(name string) string {
	return `'` + strings.ReplaceAll(name, `'`, `''`) + `'`
}

func (b *SQLiteBackend) hasTable(table string) bool {
	for _, t := range b.tables {
		if t == table {
			return true
		}
	}
	return false
}

func (b *SQLiteBackend) rowCount(table string) (int, error) {
	b.mu.Lock()
	if n, ok := b.rowCounts[table]; ok {
		b.mu.Unlock()
		return n, nil
	}
	b.mu.Unlock()

	var n int
	err := b.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, quoteIdent(table))).Scan(&n)
	if err != nil {
		return 0, err
	}

	b.mu.Lock()
	b.rowCounts[table] = n
	b.mu.Unlock()
	return n, nil
}

func (b *SQLiteBackend) schema(table string) (string, error) {
	var sqlText string
	err := b.db.QueryRow(
		`SELECT sql FROM sqlite_master WHERE type='table' AND name=?`, table,
	).Scan(&sqlText)
	if err != nil {
		return "", err
	}
	return sqlText + ";\n", nil
}

func (b *SQLiteBackend) cell(table string, n int, column string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s LIMIT 1 OFFSET ?`, quoteIdent(column), quoteIdent(table))
	var value sql.NullString
	if err := b.db.QueryRow(query, n).Scan(&value); err != nil {
		return "", err
	}
	if !value.Valid {
		return "", nil
	}
	return value.String, nil
}

// rowName parses "row_<n>", returning the ordinal and true on success.
func rowName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "row_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func hasColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}

// Info implements vfs.Resource.
func (b *SQLiteBackend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return vfs.ResourceInfo{IsDir: true}, nil
	case 1:
		if !b.hasTable(seg[0]) {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		return vfs.ResourceInfo{IsDir: true}, nil
	case 2:
		table, name := seg[0], seg[1]
		if !b.hasTable(table) {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		if name == "_schema.sql" {
			data, err := b.schema(table)
			if err != nil {
				return vfs.ResourceInfo{}, vfs.Backend(path, "error reading schema", err)
			}
			return vfs.ResourceInfo{IsDir: false, Size: int64(len(data)), ContentType: "text/plain; charset=utf-8"}, nil
		}
		if n, ok := rowName(name); ok {
			count, err := b.rowCount(table)
			if err != nil {
				return vfs.ResourceInfo{}, vfs.Backend(path, "error reading row count", err)
			}
			if n >= count {
				return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
			}
			return vfs.ResourceInfo{IsDir: true}, nil
		}
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	case 3:
		table, name, column := seg[0], seg[1], seg[2]
		if !b.hasTable(table) {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		n, ok := rowName(name)
		if !ok || !hasColumn(b.columns[table], column) {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		count, err := b.rowCount(table)
		if err != nil {
			return vfs.ResourceInfo{}, vfs.Backend(path, "error reading row count", err)
		}
		if n >= count {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		value, err := b.cell(table, n, column)
		if err != nil {
			return vfs.ResourceInfo{}, vfs.Backend(path, "error reading cell", err)
		}
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(value)), ContentType: "text/plain; charset=utf-8"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

// List implements vfs.Resource.
func (b *SQLiteBackend) List(path vfs.Path) ([]string, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		names := append([]string(nil), b.tables...)
		return names, nil
	case 1:
		table := seg[0]
		if !b.hasTable(table) {
			return nil, vfs.NotFound(path, nil)
		}
		count, err := b.rowCount(table)
		if err != nil {
			return nil, vfs.Backend(path, "error reading row count", err)
		}
		entries := make([]string, 0, count+1)
		entries = append(entries, "_schema.sql")
		for i := 0; i < count; i++ {
			entries = append(entries, fmt.Sprintf("row_%d", i))
		}
		sort.Strings(entries)
		return entries, nil
	case 2:
		table, name := seg[0], seg[1]
		if !b.hasTable(table) {
			return nil, vfs.NotFound(path, nil)
		}
		n, ok := rowName(name)
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		count, err := b.rowCount(table)
		if err != nil {
			return nil, vfs.Backend(path, "error reading row count", err)
		}
		if n >= count {
			return nil, vfs.NotFound(path, nil)
		}
		cols := append([]string(nil), b.columns[table]...)
		sort.Strings(cols)
		return cols, nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

// Get implements vfs.Resource.
func (b *SQLiteBackend) Get(path vfs.Path) ([]byte, error) {
	seg := path.Segments()
	switch len(seg) {
	case 2:
		table, name := seg[0], seg[1]
		if !b.hasTable(table) || name != "_schema.sql" {
			return nil, vfs.NotFound(path, nil)
		}
		data, err := b.schema(table)
		if err != nil {
			return nil, vfs.Backend(path, "error reading schema", err)
		}
		return []byte(data), nil
	case 3:
		table, name, column := seg[0], seg[1], seg[2]
		if !b.hasTable(table) || !hasColumn(b.columns[table], column) {
			return nil, vfs.NotFound(path, nil)
		}
		n, ok := rowName(name)
		if !ok {
			return nil, vfs.NotFound(path, nil)
		}
		count, err := b.rowCount(table)
		if err != nil {
			return nil, vfs.Backend(path, "error reading row count", err)
		}
		if n >= count {
			return nil, vfs.NotFound(path, nil)
		}
		value, err := b.cell(table, n, column)
		if err != nil {
			return nil, vfs.Backend(path, "error reading cell", err)
		}
		return []byte(value), nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}
