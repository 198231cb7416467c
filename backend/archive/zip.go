package archive

import (
	"archive/zip"
	"mime"
	"path/filepath"
	"strings"

	"github.com/worldiety/vfsdav/vfs"
)

// ZipBackend exposes the contents of a ZIP archive as a read-only
// vfs.Resource.
type ZipBackend struct {
	zr  *zip.ReadCloser
	idx *index
}

// OpenZip opens path as a ZIP archive and builds its directory index.
func OpenZip(path string) (*ZipBackend, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot open ZIP file", err)
	}

	idx := newIndex()
	for _, f := range zr.File {
		name := "/" + f.Name
		if f.FileInfo().IsDir() {
			idx.addDir(strings.Trim(name, "/"))
			continue
		}
		ctype := mime.TypeByExtension(filepath.Ext(f.Name))
		if ctype == "" {
			ctype = vfs.DefaultContentType
		}
		f := f // capture
		idx.addFile(strings.Trim(name, "/"), entry{
			size:        int64(f.UncompressedSize64),
			contentType: ctype,
			read: func() ([]byte, error) {
				rc, err := f.Open()
				if err != nil {
					return nil, err
				}
				defer rc.Close()
				return readAll(rc)
			},
		})
	}

	return &ZipBackend{zr: zr, idx: idx}, nil
}

// Close releases the underlying archive handle.
func (b *ZipBackend) Close() error {
	return b.zr.Close()
}

// Info implements vfs.Resource.
func (b *ZipBackend) Info(path vfs.Path) (vfs.ResourceInfo, error) { return b.idx.info(path) }

// List implements vfs.Resource.
func (b *ZipBackend) List(path vfs.Path) ([]string, error) { return b.idx.list(path) }

// Get implements vfs.Resource.
func (b *ZipBackend) Get(path vfs.Path) ([]byte, error) { return b.idx.get(path) }
