// Package mbox implements the message-store backend: each message in an
// mbox file becomes one flat file named from its position and subject.
package mbox

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/mail"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/emersion/go-mbox"

	"github.com/worldiety/vfsdav/vfs"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_\s.-]`)
var whitespaceRun = regexp.MustCompile(`\s+`)

// Backend exposes an mbox file as a flat, insertion-ordered list of
// messages. Unlike most other backends in this system, List does not sort
// its result: message order is the one piece of source structure this
// format is worth preserving.
type Backend struct {
	names []string
	raw   [][]byte
}

// Open reads and splits path as an mbox file.
func Open(path string) (*Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, vfs.Backend("", "cannot read mbox file", err)
	}
	defer f.Close()

	r := mbox.NewReader(f)
	var raw [][]byte
	var subjects []string
	for {
		mr, err := r.NextMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, vfs.Backend("", "cannot split mbox file", err)
		}

		data, err := io.ReadAll(mr)
		if err != nil {
			return nil, vfs.Backend("", "cannot read mbox message", err)
		}
		raw = append(raw, data)
		subjects = append(subjects, subjectOf(data))
	}

	width := len(strconv.Itoa(len(raw)))
	if width < 4 {
		width = 4
	}

	names := make([]string, len(raw))
	used := make(map[string]bool, len(raw))
	for i, subject := range subjects {
		safe := sanitize(subject)
		name := fmt.Sprintf("%0*d_%s.eml", width, i, safe)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%0*d_%s~%d.eml", width, i, safe, n)
		}
		used[name] = true
		names[i] = name
	}

	return &Backend{names: names, raw: raw}, nil
}

func subjectOf(data []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	subject := msg.Header.Get("Subject")
	if subject == "" {
		return ""
	}
	dec := mime.WordDecoder{}
	decoded, err := dec.DecodeHeader(subject)
	if err != nil {
		return subject
	}
	return decoded
}

func sanitize(subject string) string {
	cleaned := unsafeChars.ReplaceAllString(subject, "")
	cleaned = whitespaceRun.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "_")
	if len(cleaned) > 60 {
		cleaned = cleaned[:60]
	}
	if cleaned == "" {
		return "no_subject"
	}
	return cleaned
}

func (b *Backend) indexOf(name string) (int, bool) {
	for i, n := range b.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Info implements vfs.Resource.
func (b *Backend) Info(path vfs.Path) (vfs.ResourceInfo, error) {
	seg := path.Segments()
	switch len(seg) {
	case 0:
		return vfs.ResourceInfo{IsDir: true}, nil
	case 1:
		i, ok := b.indexOf(seg[0])
		if !ok {
			return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
		}
		return vfs.ResourceInfo{IsDir: false, Size: int64(len(b.raw[i])), ContentType: "message/rfc822"}, nil
	default:
		return vfs.ResourceInfo{}, vfs.NotFound(path, nil)
	}
}

// List implements vfs.Resource. Order is message (insertion) order, not
// sorted.
func (b *Backend) List(path vfs.Path) ([]string, error) {
	if len(path.Segments()) != 0 {
		return nil, vfs.NotFound(path, nil)
	}
	return append([]string(nil), b.names...), nil
}

// Get implements vfs.Resource.
func (b *Backend) Get(path vfs.Path) ([]byte, error) {
	seg := path.Segments()
	if len(seg) != 1 {
		return nil, vfs.NotFound(path, nil)
	}
	i, ok := b.indexOf(seg[0])
	if !ok {
		return nil, vfs.NotFound(path, nil)
	}
	return b.raw[i], nil
}
