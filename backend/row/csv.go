package row

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/worldiety/vfsdav/vfs"
)

const headersFile = "_headers.txt"

// CSVBackend exposes a CSV file, read fully into memory at construction, as
//
//	/_headers.txt
//	/row_NNNN/<column>
//
// NNNN is zero-padded to max(4, decimal width of the row count), so that
// lexicographic and numeric row order coincide.
type CSVBackend struct {
	headers      []string
	headersBytes []byte
	rows         []map[string]string
	width        int
}

// OpenCSV reads path as a CSV file using its first row as the header.
func OpenCSV(path string) (*CSVBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read CSV file", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, vfs.Backend("", "cannot parse CSV file", err)
	}

	var headers []string
	var dataRecords [][]string
	if len(records) > 0 {
		headers = records[0]
		dataRecords = records[1:]
	}

	rows := make([]map[string]string, len(dataRecords))
	for i, record := range dataRecords {
		row := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record) {
				row[h] = record[j]
			} else {
				row[h] = ""
			}
		}
		rows[i] = row
	}

	width := len(strconv.Itoa(len(rows)))
	if width < 4 {
		width = 4
	}

	return &CSVBackend{
		headers:      headers,
		headersBytes: []byte(strings.Join(headers, "\n")),
		rows:         rows,
		width:        width,
	}, nil
}

func (b *CSVBackend) rowDirName(i int) string {
	return fmt.Sprintf("row_%0*d", b.width, i)
}

func (b *CSVBackend) parseRowName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, "row_")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || n >= len(b.rows) {
		return 0, false
	}
	return n, true
}

func (b *CSVBackend) hasHeader(name string) bool {
	for _, h := range b.headers {
		if h == name {
			return true
		}
	}
	return false
}

// Info implements vfs.Resource.
func (b *CSVBackend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return vfs.ResourceInfo{IsDir: true}, nil
	case 1:
		if seg[0] == headersFile {
			return vfs.ResourceInfo{IsDir: false, Size: int64(len(b.headersBytes)), ContentType: "text/plain; charset=utf-8"}, nil
		}
		if _, ok := b.parseRowName(seg[0]); ok {
			return vfs.ResourceInfo{IsDir: true}, nil
		}
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	case 2:
		n, ok := b.parseRowName(seg[0])
		if !ok || !b.hasHeader(seg[1]) {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		value := b.rows[n][seg[1]]
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(value)), ContentType: "text/plain; charset=utf-8"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

// List implements vfs.Resource.
func (b *CSVBackend) List(path vfs.Path) ([]string, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		entries := make([]string, 0, len(b.rows)+1)
		entries = append(entries, headersFile)
		for i := range b.rows {
			entries = append(entries, b.rowDirName(i))
		}
		return entries, nil
	case 1:
		if _, ok := b.parseRowName(seg[0]); ok {
			return append([]string(nil), b.headers...), nil
		}
		return nil, vfs.NotFound(path, nil)
	default:
		return nil, vfs.NotFound(path, nil)
	}
}

// Get implements vfs.Resource.
func (b *CSVBackend) Get(path vfs.Path) ([]byte, error) {
	seg := path.Segments()
	switch len(seg) {
	case 1:
		if seg[0] == headersFile {
			return b.headersBytes, nil
		}
		return nil, vfs.NotFound(path, nil)
	case 2:
		n, ok := b.parseRowName(seg[0])
		if !ok || !b.hasHeader(seg[1]) {
			return nil, vfs.NotFound(path, nil)
		}
		return []byte(b.rows[n][seg[1]]), nil
	default:
		return nil, vfs.NotFound(path, nil)
	}
}
