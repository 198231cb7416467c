package webdav_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/worldiety/vfsdav/vfs/memory"
	"github.com/worldiety/vfsdav/webdav"
)

func fixture() http.Handler {
	b := memory.New(map[string]any{
		"hello.txt": "Hello, world!",
		"docs": map[string]any{
			"guide.txt": "A guide",
		},
	})
	return webdav.NewHandler(b)
}

func TestOptions(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "OPTIONS, GET, HEAD, PROPFIND" {
		t.Errorf("Allow = %q", allow)
	}
	if dav := rec.Header().Get("DAV"); dav != "1" {
		t.Errorf("DAV = %q", dav)
	}
}

func TestGetFile(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodGet, "/hello.txt", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "Hello, world!" {
		t.Errorf("body = %q", rec.Body.String())
	}
	if cl := rec.Header().Get("Content-Length"); cl != "13" {
		t.Errorf("Content-Length = %q, want 13", cl)
	}
}

type msXML struct {
	XMLName   xml.Name `xml:"multistatus"`
	Responses []struct {
		Href string `xml:"href"`
	} `xml:"response"`
}

func TestPropfindDepth1(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest("PROPFIND", "/", nil)
	req.Header.Set("Depth", "1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, want 207", rec.Code)
	}

	var ms msXML
	if err := xml.Unmarshal(rec.Body.Bytes(), &ms); err != nil {
		t.Fatalf("unmarshal multistatus: %v", err)
	}
	if len(ms.Responses) != 3 {
		t.Fatalf("responses = %d, want 3: %s", len(ms.Responses), rec.Body.String())
	}
}

func TestJSONDump(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodGet, "/docs?json", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal json: %v", err)
	}
	if got["guide.txt"] != "A guide" {
		t.Errorf("json = %v", got)
	}
}

func TestZipDump(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodGet, "/?zip", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q", ct)
	}

	zr, err := zipReaderFrom(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	names := map[string]string{}
	for _, f := range zr {
		names[f.name] = f.content
	}
	if names["hello.txt"] != "Hello, world!" {
		t.Errorf("hello.txt = %q", names["hello.txt"])
	}
	if names["docs/guide.txt"] != "A guide" {
		t.Errorf("docs/guide.txt = %q", names["docs/guide.txt"])
	}
}

func TestZipDumpOfFileUsesFinalSegment(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodGet, "/hello.txt?zip", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	zr, err := zipReaderFrom(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("read zip: %v", err)
	}
	if len(zr) != 1 || zr[0].name != "hello.txt" {
		t.Fatalf("entries = %+v, want single entry named hello.txt", zr)
	}
	if zr[0].content != "Hello, world!" {
		t.Errorf("content = %q", zr[0].content)
	}
}

func TestGetPercentEncodedNameDecodedOnce(t *testing.T) {
	b := memory.New(map[string]any{
		"50%off": "discount",
	})
	h := webdav.NewHandler(b)

	req := httptest.NewRequest(http.MethodGet, "/50%25off", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "discount" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestPutNotAllowed(t *testing.T) {
	h := fixture()
	req := httptest.NewRequest(http.MethodPut, "/new.txt", bytes.NewBufferString("data"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != "OPTIONS, GET, HEAD, PROPFIND" {
		t.Errorf("Allow = %q", allow)
	}
}

type zipFile struct {
	name    string
	content string
}

func zipReaderFrom(data []byte) ([]zipFile, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}
	var out []zipFile
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, zipFile{name: f.Name, content: string(content)})
	}
	return out, nil
}
