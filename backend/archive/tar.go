package archive

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/worldiety/vfsdav/vfs"
)

// TarBackend exposes the contents of a .tar, .tar.gz, .tar.bz2, or .tar.xz
// archive as a read-only vfs.Resource. Unlike ZipBackend, the whole archive
// is read once at construction into memory-backed per-entry buffers, since
// tar.Reader is a forward-only stream and compressed tars cannot be seeked
// back into cheaply.
type TarBackend struct {
	idx *index
}

// OpenTar opens path, auto-detecting gzip/bzip2/xz compression from its
// contents, and builds its directory index.
func OpenTar(path string) (*TarBackend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot open TAR file", err)
	}
	defer f.Close()

	tr, err := decompressingTarReader(f)
	if err != nil {
		return nil, vfs.Backend("", "cannot open TAR file", err)
	}

	idx := newIndex()
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, vfs.Backend("", "malformed TAR archive", err)
		}

		name := "/" + hdr.Name
		switch hdr.Typeflag {
		case tar.TypeDir:
			idx.addDir(strings.Trim(name, "/"))
		case tar.TypeReg, tar.TypeRegA:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, vfs.Backend(vfs.NewPath(name), "error reading TAR member", err)
			}
			ctype := mime.TypeByExtension(filepath.Ext(hdr.Name))
			if ctype == "" {
				ctype = vfs.DefaultContentType
			}
			buf := data
			idx.addFile(strings.Trim(name, "/"), entry{
				size:        int64(len(buf)),
				contentType: ctype,
				read: func() ([]byte, error) {
					return buf, nil
				},
			})
		default:
			// symlinks, hardlinks, devices etc: not exposed as files, but any
			// directory prefix they imply is still recorded so paths through
			// them from unrelated regular members stay resolvable.
			clean := strings.Trim(name, "/")
			parts := strings.Split(clean, "/")
			for i := 1; i < len(parts); i++ {
				idx.dirs[strings.Join(parts[:i], "/")] = true
			}
		}
	}

	return &TarBackend{idx: idx}, nil
}

// Info implements vfs.Resource.
func (b *TarBackend) Info(path vfs.Path) (vfs.ResourceInfo, error) { return b.idx.info(path) }

// List implements vfs.Resource.
func (b *TarBackend) List(path vfs.Path) ([]string, error) { return b.idx.list(path) }

// Get implements vfs.Resource.
func (b *TarBackend) Get(path vfs.Path) ([]byte, error) { return b.idx.get(path) }

// decompressingTarReader sniffs the leading bytes of f to pick a
// decompression filter, then returns a tar.Reader over the result. Plain,
// uncompressed tar streams pass through unchanged.
func decompressingTarReader(f *os.File) (*tar.Reader, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(6)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(magic) == 0 {
		return nil, io.ErrUnexpectedEOF
	}

	var r io.Reader = br
	switch {
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		r = gz
	case len(magic) >= 3 && magic[0] == 'B' && magic[1] == 'Z' && magic[2] == 'h':
		r = bzip2.NewReader(br)
	case len(magic) >= 6 && bytes.Equal(magic, []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}):
		xr, err := xz.NewReader(br)
		if err != nil {
			return nil, err
		}
		r = xr
	}

	return tar.NewReader(r), nil
}
