package webdav

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/worldiety/vfsdav/vfs"
)

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, includeBody bool) {
	path, format, err := parseRequest(r)
	if err != nil {
		writeBody(w, http.StatusBadRequest, "text/plain; charset=utf-8", []byte("Bad Request"), includeBody)
		return
	}

	switch format {
	case dumpJSON:
		h.serveJSONDump(w, path, includeBody)
	case dumpZip:
		h.serveZipDump(w, path, includeBody)
	default:
		h.serveResource(w, path, includeBody)
	}
}

func (h *Handler) serveResource(w http.ResponseWriter, path vfs.Path, includeBody bool) {
	info, err := h.backend.Info(path)
	if err != nil {
		sendError(w, err, includeBody)
		return
	}

	if !info.IsDir {
		data, err := h.backend.Get(path)
		if err != nil {
			sendError(w, err, includeBody)
			return
		}
		contentType := info.ContentType
		if contentType == "" {
			contentType = vfs.DefaultContentType
		}
		writeBody(w, http.StatusOK, contentType, data, includeBody)
		return
	}

	children, err := h.backend.List(path)
	if err != nil {
		sendError(w, err, includeBody)
		return
	}
	body := []byte(h.renderDirectoryIndex(path, children))
	writeBody(w, http.StatusOK, "text/html; charset=utf-8", body, includeBody)
}

// renderDirectoryIndex builds a minimal HTML directory listing: a
// heading, a ".." link when not at root, and one anchor per child.
func (h *Handler) renderDirectoryIndex(path vfs.Path, children []string) string {
	dirName := path.String()

	var b strings.Builder
	fmt.Fprintf(&b, "<html><head><title>%s</title></head><body>\n", escapeHTML(dirName))
	fmt.Fprintf(&b, "<h1>%s</h1><ul>\n", escapeHTML(dirName))
	if !path.IsRoot() {
		b.WriteString(`<li><a href="../">..</a></li>` + "\n")
	}
	for _, name := range children {
		child := path.Child(name)
		href := url.PathEscape(name)
		if info, err := h.backend.Info(child); err == nil && info.IsDir {
			href += "/"
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`+"\n", href, escapeHTML(name))
	}
	b.WriteString("</ul></body></html>")
	return b.String()
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

// buildJSONSubtree recursively materializes path as a JSON-serializable
// value: a file is a UTF-8 string (or null if its bytes aren't valid
// UTF-8), a directory is a map from child name to its own subtree. It
// aborts with the first error encountered, matching the no-partial-output
// contract of the dump.
func (h *Handler) buildJSONSubtree(path vfs.Path) (any, error) {
	info, err := h.backend.Info(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir {
		data, err := h.backend.Get(path)
		if err != nil {
			return nil, err
		}
		if !utf8.Valid(data) {
			return nil, nil
		}
		return string(data), nil
	}

	children, err := h.backend.List(path)
	if err != nil {
		return nil, err
	}
	result := make(map[string]any, len(children))
	for _, name := range children {
		sub, err := h.buildJSONSubtree(path.Child(name))
		if err != nil {
			return nil, err
		}
		result[name] = sub
	}
	return result, nil
}

func (h *Handler) serveJSONDump(w http.ResponseWriter, path vfs.Path, includeBody bool) {
	tree, err := h.buildJSONSubtree(path)
	if err != nil {
		sendError(w, err, includeBody)
		return
	}
	body, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		sendError(w, vfs.Backend(path, "encode json: "+err.Error(), err), includeBody)
		return
	}
	writeBody(w, http.StatusOK, "application/json; charset=utf-8", body, includeBody)
}

// buildZipArchive writes path into zw, recursively adding one entry per
// file using "/"-joined paths relative to the dump root. rel is the
// prefix already accumulated for the current recursion level.
func (h *Handler) buildZipArchive(zw *zip.Writer, path vfs.Path, rel []string) error {
	info, err := h.backend.Info(path)
	if err != nil {
		return err
	}
	if !info.IsDir {
		data, err := h.backend.Get(path)
		if err != nil {
			return err
		}
		name := path.Name()
		if len(rel) > 0 {
			name = strings.Join(rel, "/")
		}
		if name == "" {
			name = "data"
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
		if err != nil {
			return err
		}
		_, err = fw.Write(data)
		return err
	}

	children, err := h.backend.List(path)
	if err != nil {
		return err
	}
	for _, name := range children {
		childRel := append(append([]string{}, rel...), name)
		if err := h.buildZipArchive(zw, path.Child(name), childRel); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) serveZipDump(w http.ResponseWriter, path vfs.Path, includeBody bool) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if err := h.buildZipArchive(zw, path, nil); err != nil {
		sendError(w, err, includeBody)
		return
	}
	if err := zw.Close(); err != nil {
		sendError(w, vfs.Backend(path, "close zip: "+err.Error(), err), includeBody)
		return
	}
	writeBody(w, http.StatusOK, "application/zip", buf.Bytes(), includeBody)
}
