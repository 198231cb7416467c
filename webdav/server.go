// Package webdav serves a vfs.Resource tree as a read-only WebDAV
// namespace over HTTP: OPTIONS/GET/HEAD/PROPFIND, plus the two bulk
// dump formats (?json, ?zip).
package webdav

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/worldiety/vfsdav/internal/logging"
	"github.com/worldiety/vfsdav/vfs"
)

// allowHeader lists the methods this server honors; both OPTIONS and 405
// responses carry it.
const allowHeader = "OPTIONS, GET, HEAD, PROPFIND"

// Handler dispatches HTTP requests against a single backend.
type Handler struct {
	backend vfs.Resource
}

// NewHandler wraps backend as an http.Handler.
func NewHandler(backend vfs.Resource) *Handler {
	return &Handler{backend: backend}
}

// WithCORS wraps h with permissive CORS handling for GET/HEAD/OPTIONS/
// PROPFIND, letting browser-based DAV clients reach the server from a
// different origin.
func WithCORS(h http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions, "PROPFIND"},
		AllowedHeaders: []string{"Depth", "Content-Type"},
	})
	return c.Handler(h)
}

// WithRequestID stamps each request with a uuid and logs it at debug level
// alongside the method and path. The id is not stored in the request or its
// context, so downstream handlers cannot see it.
func WithRequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		logging.L.Debugw("request", "id", id, "method", r.Method, "path", r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Allow", allowHeader)
		w.Header().Set("DAV", "1")
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		h.handleGet(w, r, true)
	case http.MethodHead:
		h.handleGet(w, r, false)
	case "PROPFIND":
		h.handlePropfind(w, r)
	default:
		w.Header().Set("Allow", allowHeader)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// parseRequest parses the request URL into a canonical vfs.Path and reports
// which bulk dump format, if any, was requested via the query string.
// json wins when both are present.
func parseRequest(r *http.Request) (vfs.Path, dumpFormat, error) {
	p, err := vfs.ParsePathAndQuery(r.URL.EscapedPath())
	if err != nil {
		return "", dumpNone, err
	}
	q := r.URL.Query()
	switch {
	case q.Has("json"):
		return p, dumpJSON, nil
	case q.Has("zip"):
		return p, dumpZip, nil
	default:
		return p, dumpNone, nil
	}
}

type dumpFormat int

const (
	dumpNone dumpFormat = iota
	dumpJSON
	dumpZip
)

// sendError maps a backend error to its HTTP status and writes a plain
// text body. includeBody is false for HEAD requests.
func sendError(w http.ResponseWriter, err error, includeBody bool) {
	var nf *vfs.ResourceNotFoundError
	var be *vfs.BackendError
	switch {
	case errors.As(err, &nf):
		writeBody(w, http.StatusNotFound, "text/plain; charset=utf-8", []byte("Not Found"), includeBody)
	case errors.As(err, &be):
		writeBody(w, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(err.Error()), includeBody)
	default:
		writeBody(w, http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(err.Error()), includeBody)
	}
}

func writeBody(w http.ResponseWriter, status int, contentType string, body []byte, includeBody bool) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	if includeBody {
		_, _ = w.Write(body)
	}
}
